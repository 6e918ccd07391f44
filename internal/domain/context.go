package domain

import "context"

type callerKey struct{}

// WithCaller stores the authenticated caller name in the context.
func WithCaller(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, callerKey{}, name)
}

// CallerFromContext extracts the authenticated caller name from the context.
func CallerFromContext(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(callerKey{}).(string)
	return name, ok
}
