package auth

import (
	"net/http"
	"strings"

	"github.com/kevtech-systems/maziwa/internal/platform/httpx"
	"github.com/kevtech-systems/maziwa/internal/shared"
)

// RoleSuperAdmin may operate across companies; everyone else is bound to one.
const (
	RoleSuperAdmin = "SuperAdmin"
	RoleAdmin      = "Admin"
	RoleManager    = "Manager"
	RoleCashier    = "Cashier"
)

// Middleware authenticates requests and injects tenancy claims into context.
type Middleware struct {
	tokens *TokenService
}

// NewMiddleware constructs the auth middleware.
func NewMiddleware(tokens *TokenService) *Middleware {
	return &Middleware{tokens: tokens}
}

// Authenticate rejects requests without a valid bearer token. Non-SuperAdmin
// tokens must carry a company id, otherwise tenant scoping is impossible.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "missing bearer token")
			return
		}
		claims, err := m.tokens.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "invalid or expired token")
			return
		}
		if claims.CompanyID == 0 && claims.Role != RoleSuperAdmin {
			httpx.Problem(w, http.StatusForbidden, "Forbidden", "token is missing company scope")
			return
		}
		next.ServeHTTP(w, r.WithContext(shared.ContextWithClaims(r.Context(), claims)))
	})
}

// RequireRole gates a route group to the listed roles.
func (m *Middleware) RequireRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := shared.ClaimsFromContext(r.Context())
			if claims == nil {
				httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "no authenticated user")
				return
			}
			if _, ok := allowed[claims.Role]; !ok {
				httpx.Problem(w, http.StatusForbidden, "Forbidden", "role not permitted")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
