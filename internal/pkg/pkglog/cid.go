package pkglog

import "context"

type correlationIDKey struct{}

// GetCorrelationID returns the correlation ID stored in ctx, or "" when the
// context never went through the HTTP middleware.
func GetCorrelationID(ctx context.Context) string {
	cid, _ := ctx.Value(correlationIDKey{}).(string)
	return cid
}

// SetCorrelationID stores a correlation ID into the context.
//
// Background work started on behalf of a request (alert delivery) copies the
// id into its own context so both show up under the same _cID.
func SetCorrelationID(ctx context.Context, cid string) context.Context {
	if cid == "" {
		return ctx
	}
	return context.WithValue(ctx, correlationIDKey{}, cid)
}
