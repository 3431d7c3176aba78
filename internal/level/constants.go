package level

// Curve constants
const (
	// FirstThreshold is the cumulative XP needed to reach level 2
	FirstThreshold int64 = 50

	// BandStep scales each band: reaching level N+1 from level N costs BandStep * N
	BandStep int64 = 50

	// MinLevel is the level of a user with no XP
	MinLevel = 1

	// MaxLevel is the highest level whose threshold fits in an int64 XP total
	MaxLevel = 607400100
)
