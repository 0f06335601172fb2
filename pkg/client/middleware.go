package client

import (
	"log/slog"
	"net/http"
)

// RequireAuth requires an authenticated user in the context.
// Returns 401 Unauthorized otherwise. Must be used after AuthUserMiddleware.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetAuthUser(r.Context()) == nil {
			slog.Debug("Unauthenticated request to protected resource")
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole returns a middleware that checks if the authenticated user has
// any of the specified roles. Returns 401 Unauthorized if not authenticated,
// 403 Forbidden if authenticated but missing a required role.
// Must be used after AuthUserMiddleware.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := GetAuthUser(r.Context())
			if user == nil {
				slog.Debug("Unauthenticated request to role-protected resource", "requiredRoles", roles)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			if !user.HasRole(roles...) {
				slog.Warn("User lacks required role",
					"userId", user.UserId,
					"userRoles", user.ExtraClaims.Roles,
					"requiredRoles", roles)
				http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireMinLevel returns a middleware that admits users whose best role
// reaches at least the given numeric level.
// Must be used after AuthUserMiddleware.
func RequireMinLevel(level int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := GetAuthUser(r.Context())
			if user == nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			if MaxRoleLevel(user.ExtraClaims.Roles) < level {
				slog.Warn("User below required level",
					"userId", user.UserId,
					"userRoles", user.ExtraClaims.Roles,
					"requiredLevel", level)
				http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
