package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dom/dietlog/internal/api/respond"
	"github.com/dom/dietlog/internal/session"
	"github.com/google/uuid"
)

type contextKey string

const (
	SessionIDKey contextKey = "sessionID"
)

// RequireSession rejects requests without a session cookie before any
// handler logic runs.
func RequireSession(resolver *session.Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID, ok := resolver.FromRequest(r)
			if !ok {
				slog.DebugContext(r.Context(), "missing session cookie", "path", r.URL.Path)
				respond.Error(w, http.StatusUnauthorized, "Unauthorized.")
				return
			}

			ctx := WithSessionID(r.Context(), sessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func WithSessionID(ctx context.Context, sessionID uuid.UUID) context.Context {
	return context.WithValue(ctx, SessionIDKey, sessionID)
}

func GetSessionID(ctx context.Context) (uuid.UUID, bool) {
	sessionID, ok := ctx.Value(SessionIDKey).(uuid.UUID)
	return sessionID, ok
}
