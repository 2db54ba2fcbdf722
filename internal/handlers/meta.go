package handlers

import "context"

type requestMetaKey struct{}

// RequestMeta holds HTTP request metadata recorded with each access.
type RequestMeta struct {
	ClientIP  string
	UserAgent string
	Referrer  string
}

func ContextWithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey{}, meta)
}

// RequestMetaFromContext returns the zero RequestMeta when none was set.
func RequestMetaFromContext(ctx context.Context) RequestMeta {
	if v, ok := ctx.Value(requestMetaKey{}).(RequestMeta); ok {
		return v
	}

	return RequestMeta{}
}
