package middleware

import (
	"context"
	"net/http"
	"strings"

	"blogging-api/internal/service"
	"blogging-api/pkg/response"
)

type contextKey string

const UserIDKey contextKey = "userID"

// AuthMiddleware is the gate in front of every owner-scoped operation: it
// extracts the bearer token, verifies it, and confirms the subject still
// exists before any handler logic runs. All failures are a uniform 401.
func AuthMiddleware(auth *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				response.Unauthorized(w, "Missing authorization header")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				response.Unauthorized(w, "Invalid authorization header format")
				return
			}

			user, err := auth.Authenticate(parts[1])
			if err != nil {
				response.Unauthorized(w, "Invalid or expired token")
				return
			}

			if holder, ok := r.Context().Value(requestUserKey).(*requestUser); ok {
				holder.id = user.ID
			}

			ctx := context.WithValue(r.Context(), UserIDKey, user.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetUserID(r *http.Request) string {
	userID, ok := r.Context().Value(UserIDKey).(string)
	if !ok {
		return ""
	}
	return userID
}
