package adminauth

import "context"

type sourceContextKey struct{}

// WithSource attaches the caller's source address to ctx. The Engine uses
// it for per-source rate limiting and for the audit record's source field.
func WithSource(ctx context.Context, source string) context.Context {
	return context.WithValue(ctx, sourceContextKey{}, source)
}

func sourceFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	source, _ := ctx.Value(sourceContextKey{}).(string)
	return source
}
