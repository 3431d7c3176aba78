package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Business metric names
const (
	MetricNameXPAwarded            = "xp_awarded_total"
	MetricNameXPAwards             = "xp_awards_total"
	MetricNameLevelUps             = "level_ups_total"
	MetricNameAchievementsUnlocked = "achievements_unlocked_total"
	MetricNameMealsCompleted       = "meals_completed_total"
	MetricNameMealStepFailures     = "meal_step_failures_total"
	MetricNameReconcileRepairs     = "reconcile_repairs_total"
	MetricNameReconcileRuns        = "reconcile_runs_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Event metric help text
const (
	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"
)

// Business metric help text
const (
	HelpTextXPAwarded            = "Total XP written to the ledger"
	HelpTextXPAwards             = "Total number of ledger entries written"
	HelpTextLevelUps             = "Total number of level ups"
	HelpTextAchievementsUnlocked = "Total number of achievement unlocks"
	HelpTextMealsCompleted       = "Total number of meal completions processed"
	HelpTextMealStepFailures     = "Total number of meal completion steps that failed"
	HelpTextReconcileRepairs     = "Total number of users repaired by reconciliation"
	HelpTextReconcileRuns        = "Total number of reconciliation passes"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod      = "method"
	LabelPath        = "path"
	LabelStatus      = "status"
	LabelType        = "type"
	LabelSource      = "source"
	LabelAchievement = "achievement"
	LabelCategory    = "category"
	LabelRole        = "role"
	LabelStep        = "step"
	LabelKind        = "kind"
)

// Reconcile repair kinds
const (
	RepairKindTotal    = "total_xp"
	RepairKindStats    = "stats"
	RepairKindUnlock   = "unlock"
	RepairKindBackfill = "bonus_backfill"
)

// Label values
const (
	RoleHost      = "host"
	RoleGuest     = "guest"
	SourceUnknown = "unknown"
	PathUnmatched = "unmatched"
)

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets ranges from 1ms to 10s
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// ============================================================================
// Log Messages
// ============================================================================

// Debug log messages
const (
	LogMsgEventPayloadDecode = "Event payload could not be decoded"
	LogMsgMetricsRecorded    = "Metrics recorded for event"
)
