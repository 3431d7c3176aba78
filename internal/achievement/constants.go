package achievement

// Data file locations inside the catalog filesystem
const (
	CatalogFile       = "achievements.json"
	CatalogSchemaFile = "achievements.schema.json"
	CuisineFile       = "cuisines.toml"
)

// ============================================================================
// Log Messages
// ============================================================================

const (
	LogMsgCatalogLoaded        = "Achievement catalog loaded"
	LogMsgDisplaySet           = "Displayed achievement updated"
	LogMsgDisplayCleared       = "Displayed achievement cleared"
	LogMsgGetAchievementsError = "Failed to get user achievements"
)

// ============================================================================
// Error Messages
// ============================================================================

const (
	ErrMsgNonPositiveTarget = "target must be positive"
	ErrMsgNegativeBonus     = "xp_bonus must not be negative"
	ErrMsgDuplicateKey      = "duplicate achievement key"
	ErrMsgUnknownMetric     = "unknown metric"
	ErrMsgUnknownCuisine    = "unknown cuisine"
	ErrMsgMissingCuisine    = "cuisine metric requires a cuisine"
	ErrMsgMealRewards       = "host reward must exceed guest reward"
)
