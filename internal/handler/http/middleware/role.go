package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/workforce-backend-go/internal/handler/http/response"
)

// RequireRoles allows only callers holding one of roles.
func RequireRoles(roles ...user.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFrom(r.Context())
			if !ok {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}
			if !actor.Is(roles...) {
				response.HandleError(w, user.ErrInsufficientPermissions)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// StatusReader looks up a user's current account status.
type StatusReader interface {
	GetByID(ctx context.Context, id string) (user.User, error)
}

// RequireActive re-reads the caller's status on every request so a user
// blocked after the token was issued is refused immediately.
func RequireActive(users StatusReader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFrom(r.Context())
			if !ok {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			u, err := users.GetByID(r.Context(), actor.ID)
			if err != nil {
				slog.Warn("RequireActive lookup failed", "user_id", actor.ID, "error", err)
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}
			if u.IsBlocked() {
				response.HandleError(w, user.ErrUserBlocked)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
