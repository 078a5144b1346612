package httpx

import (
	"context"

	domainauth "github.com/target/banksim-ui/internal/domain/auth"
	"github.com/target/banksim-ui/internal/service"
)

// visitorKey is an unexported context key type to avoid collisions across packages.
type visitorKey struct{}

// SetVisitorInContext returns a child context that carries the visitor.
// If v is nil, the original ctx is returned unchanged.
func SetVisitorInContext(ctx context.Context, v *service.Visitor) context.Context {
	if v == nil {
		return ctx
	}
	return context.WithValue(ctx, visitorKey{}, v)
}

// VisitorFromContext returns the visitor bound to the request, if any.
func VisitorFromContext(ctx context.Context) (*service.Visitor, bool) {
	v, ok := ctx.Value(visitorKey{}).(*service.Visitor)
	return v, ok && v != nil
}

// SessionFromContext returns the visitor's current session snapshot. Requests
// without a visitor are treated as settled and anonymous.
func SessionFromContext(ctx context.Context) domainauth.Session {
	v, ok := VisitorFromContext(ctx)
	if !ok {
		return domainauth.Session{}
	}
	return v.Session.Snapshot()
}

// IdentityFromContext returns the signed-in identity, or nil.
func IdentityFromContext(ctx context.Context) *domainauth.Identity {
	return SessionFromContext(ctx).Identity
}
