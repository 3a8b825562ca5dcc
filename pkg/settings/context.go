package settings

import "context"

type runKey struct{}

// IntoContext returns a copy of ctx carrying the run settings.
func IntoContext(ctx context.Context, s *Run) context.Context {
	return context.WithValue(ctx, runKey{}, s)
}

// FromContext returns the run settings stored by IntoContext. The boolean
// is false when ctx carries none.
func FromContext(ctx context.Context) (*Run, bool) {
	if ctx == nil {
		return nil, false
	}
	s, ok := ctx.Value(runKey{}).(*Run)
	return s, ok && s != nil
}
