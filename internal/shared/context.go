package shared

import "context"

// Claims carries the authenticated identity attached to each request.
type Claims struct {
	UserID    int64
	Role      string
	CompanyID int64
}

type claimsContextKey struct{}

// ContextWithClaims stores the claims in context.
func ContextWithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey{}, claims)
}

// ClaimsFromContext extracts the claims from context.
func ClaimsFromContext(ctx context.Context) *Claims {
	claims, _ := ctx.Value(claimsContextKey{}).(*Claims)
	return claims
}
