package middleware

import (
	"net/http"
	"slices"

	"myfood-be/internal/auth"
	"myfood-be/internal/logger"
	"myfood-be/internal/user"
	"myfood-be/internal/utils"

	"go.uber.org/zap"
)

const (
	ReasonUnauthorized = "UNAUTHORIZED"
	ReasonForbidden    = "FORBIDDEN"
)

// Auth resolves the caller from the access token. Requests without a token
// pass through anonymous; a token that does not verify is rejected.
func Auth(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := auth.ExtractAccessToken(r)
			if tokenStr == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := auth.ParseClaims(tokenStr, secret)
			if err != nil {
				logger.FromCtx(r.Context()).Info("rejected access token", zap.Error(err))
				utils.WriteJSONError(w, http.StatusUnauthorized, ReasonUnauthorized, "invalid or expired token")
				return
			}

			ctx := utils.SetUserContext(r.Context(), claims.UserID, claims.Email, claims.Role)
			ctx = logger.WithUserID(ctx, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := utils.GetUserIDFromContext(r.Context()); !ok {
			utils.WriteJSONError(w, http.StatusUnauthorized, ReasonUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole lets through authenticated callers holding one of roles.
func RequireRole(roles ...user.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := utils.GetUserIDFromContext(r.Context()); !ok {
				utils.WriteJSONError(w, http.StatusUnauthorized, ReasonUnauthorized, "authentication required")
				return
			}
			role := user.Role(utils.GetUserRoleFromContext(r.Context()))
			if !slices.Contains(roles, role) {
				utils.WriteJSONError(w, http.StatusForbidden, ReasonForbidden, "insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
