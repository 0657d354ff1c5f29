package authctx

import "context"

// Subject identifies the authenticated caller of a request.
type Subject struct {
	UserID string
	Email  string
}

type ctxKey struct{}

// NewContext returns a copy of ctx carrying the authenticated subject.
func NewContext(ctx context.Context, s Subject) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the subject stored in ctx, if any.
func FromContext(ctx context.Context) (Subject, bool) {
	s, ok := ctx.Value(ctxKey{}).(Subject)
	return s, ok && s.UserID != ""
}
