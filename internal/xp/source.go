package xp

import "context"

type sourceKey struct{}

// Award sources attached to published events
const (
	SourceManual      = "manual"
	SourceAction      = "action"
	SourceMeal        = "meal"
	SourceAchievement = "achievement"
	SourceWelcome     = "welcome"
	SourceReconcile   = "reconcile"
)

// WithSource tags awards made with ctx so subscribers can tell where XP came from
func WithSource(ctx context.Context, source string) context.Context {
	return context.WithValue(ctx, sourceKey{}, source)
}

// SourceFromContext returns the award source, defaulting to SourceManual
func SourceFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(sourceKey{}).(string); ok && s != "" {
		return s
	}
	return SourceManual
}
