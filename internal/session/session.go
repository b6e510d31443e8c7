// Package session identifies anonymous clients by a cookie carrying a UUID.
package session

import (
	"net/http"
	"time"

	"github.com/dom/dietlog/internal/config"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

const (
	DefaultCookieName = "sessionId"
	DefaultMaxAge     = 7 * 24 * time.Hour
)

type Resolver struct {
	CookieName string
	MaxAge     time.Duration
	Secure     bool
	Clock      clockwork.Clock
}

func NewResolver(cfg *config.Config, clock clockwork.Clock) *Resolver {
	r := &Resolver{
		CookieName: cfg.SessionCookieName,
		MaxAge:     cfg.SessionMaxAge,
		Secure:     cfg.SessionCookieSecure,
		Clock:      clock,
	}
	if r.CookieName == "" {
		r.CookieName = DefaultCookieName
	}
	if r.MaxAge <= 0 {
		r.MaxAge = DefaultMaxAge
	}
	if r.Clock == nil {
		r.Clock = clockwork.NewRealClock()
	}
	return r
}

// FromRequest returns the session carried by the request cookie. A cookie
// whose value is not a UUID is treated as absent.
func (s *Resolver) FromRequest(r *http.Request) (uuid.UUID, bool) {
	c, err := r.Cookie(s.CookieName)
	if err != nil || c.Value == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(c.Value)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// Ensure returns the request's session, minting one and writing its cookie
// when the request has none. The second result reports whether a cookie was set.
func (s *Resolver) Ensure(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	if id, ok := s.FromRequest(r); ok {
		return id, false
	}

	id := uuid.New()
	http.SetCookie(w, &http.Cookie{
		Name:     s.CookieName,
		Value:    id.String(),
		Path:     "/",
		MaxAge:   int(s.MaxAge / time.Second),
		Expires:  s.Clock.Now().Add(s.MaxAge).UTC(),
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return id, true
}
