package httpapi

import (
	"context"
	"net/http"
	"strings"

	"senidea-backend-go/internal/services"
)

type contextKey string

const (
	ctxUserID contextKey = "userID"
	ctxEmail  contextKey = "email"
	ctxRole   contextKey = "role"
)

// WithAuth rejects requests without a valid bearer access token and
// stores the subject id, email and role claim on the request context.
func WithAuth(tokenService services.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, email, role, ok := parseBearer(tokenService, r)
			if !ok {
				WriteError(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			next.ServeHTTP(w, r.WithContext(authContext(r.Context(), userID, email, role)))
		})
	}
}

// WithOptionalAuth attaches identity when a valid token is present and
// passes the request through anonymously otherwise. Donation initiation
// uses it so both guests and logged-in donors share one endpoint.
func WithOptionalAuth(tokenService services.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if userID, email, role, ok := parseBearer(tokenService, r); ok {
				r = r.WithContext(authContext(r.Context(), userID, email, role))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func parseBearer(tokenService services.TokenService, r *http.Request) (int64, string, string, bool) {
	auth := r.Header.Get("Authorization")
	if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
		return 0, "", "", false
	}
	tokenStr := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	token, claims, err := tokenService.ParseToken(tokenStr)
	if err != nil || !token.Valid {
		return 0, "", "", false
	}
	if claims["typ"] != "access" {
		return 0, "", "", false
	}
	userID, ok := services.SubjectID(claims)
	if !ok {
		return 0, "", "", false
	}
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	return userID, email, role, true
}

func authContext(ctx context.Context, userID int64, email, role string) context.Context {
	ctx = context.WithValue(ctx, ctxUserID, userID)
	ctx = context.WithValue(ctx, ctxEmail, email)
	return context.WithValue(ctx, ctxRole, role)
}

// CurrentUserID returns the authenticated user id, or 0 for anonymous
// requests.
func CurrentUserID(r *http.Request) int64 {
	if value, ok := r.Context().Value(ctxUserID).(int64); ok {
		return value
	}
	return 0
}

func CurrentRole(r *http.Request) string {
	if value, ok := r.Context().Value(ctxRole).(string); ok {
		return value
	}
	return ""
}

func CurrentEmail(r *http.Request) string {
	if value, ok := r.Context().Value(ctxEmail).(string); ok {
		return value
	}
	return ""
}

// RequireRole is the single authorization gate: the role claim must match
// exactly. There are no per-resource ownership checks on top of it.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if CurrentRole(r) != role {
				WriteError(w, http.StatusForbidden, "Admin access required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
