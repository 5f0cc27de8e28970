package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/devpatel-io/taskflow/internal/auth"
	"github.com/devpatel-io/taskflow/internal/models"
	"github.com/devpatel-io/taskflow/internal/monitoring"
	"github.com/devpatel-io/taskflow/internal/repositories"
	"github.com/devpatel-io/taskflow/internal/utils"
)

type contextKey string

const userKey contextKey = "user"

// UserFromContext returns the identity attached by the auth middleware.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userKey).(*models.User)
	return user, ok
}

// Authenticator gates every protected route: it extracts the bearer token,
// verifies it, resolves the subject to a live user record, and attaches that
// identity to the request context. Any failure ends the request with 401.
type Authenticator struct {
	tokens *auth.TokenService
	users  *repositories.UserRepository
	sink   monitoring.Sink
}

func NewAuthenticator(tokens *auth.TokenService, users *repositories.UserRepository, sink monitoring.Sink) *Authenticator {
	return &Authenticator{tokens: tokens, users: users, sink: sink}
}

func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		header := r.Header.Get("Authorization")
		tokenStr, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenStr == "" {
			a.reject(w, r, "no_token")
			return
		}

		userID, err := a.tokens.Verify(tokenStr)
		if err != nil {
			a.reject(w, r, failureKind(err))
			return
		}

		// The subject may have been deleted after the token was issued.
		user, err := a.users.FindByID(userID)
		if err != nil {
			a.reject(w, r, "user_not_found")
			return
		}

		a.sink.AddBreadcrumb(monitoring.Breadcrumb{
			Category: "auth",
			Message:  "User authenticated successfully",
			Level:    monitoring.LevelInfo,
			Data:     map[string]any{"userId": user.ID.String()},
		})

		ctx := context.WithValue(r.Context(), userKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// reject emits the failure breadcrumb and counter before writing 401. The
// sink is best-effort and cannot alter the decision.
func (a *Authenticator) reject(w http.ResponseWriter, r *http.Request, reason string) {
	a.sink.IncrCounter(monitoring.CounterAuthFailures, 1)
	a.sink.AddBreadcrumb(monitoring.Breadcrumb{
		Category: "auth",
		Message:  "Authentication failed",
		Level:    monitoring.LevelWarning,
		Data: map[string]any{
			"reason":    reason,
			"userAgent": r.UserAgent(),
			"path":      r.URL.Path,
		},
	})

	utils.JSONResponse(w, http.StatusUnauthorized, utils.Payload{
		Success: false,
		Message: "Unauthorized",
	})
}

func failureKind(err error) string {
	switch {
	case errors.Is(err, auth.ErrTokenExpired):
		return "token_expired"
	case errors.Is(err, auth.ErrTokenSignatureInvalid):
		return "invalid_signature"
	default:
		return "malformed_token"
	}
}
