package middleware

import (
	"net/http"

	"dating-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// ActivityMiddleware bumps the caller's last-active timestamp on every
// authenticated request. Best effort: a failed touch is logged and the
// request proceeds.
func ActivityMiddleware(users *services.UserService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if userID := GetUserID(r.Context()); userID != 0 {
				if err := users.TouchLastActive(r.Context(), userID); err != nil {
					log.Warn().Err(err).Int64("user_id", userID).Msg("Failed to touch last active")
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
