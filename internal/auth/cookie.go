package auth

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/crm-properties/crm-api/internal/core/domain"
)

// DefaultCookieName is used when no cookie name is configured.
const DefaultCookieName = "crm_properties_session"

// CookieManager carries the session token in an HTTP cookie that scripts
// cannot read. Every authenticated request re-sets the cookie with a
// freshly signed token, sliding the expiry a full TTL forward.
type CookieManager struct {
	name   string
	ttl    time.Duration
	secure bool
}

// NewCookieManager returns a CookieManager. secure should be true outside
// local development so the cookie is only sent over TLS.
func NewCookieManager(name string, ttl time.Duration, secure bool) *CookieManager {
	if name == "" {
		name = DefaultCookieName
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &CookieManager{name: name, ttl: ttl, secure: secure}
}

// Set writes the session cookie with lifetime equal to the TTL.
func (m *CookieManager) Set(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     m.name,
		Value:    token,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   m.secure,
		Path:     "/",
		MaxAge:   int(m.ttl / time.Second),
	})
}

// Clear removes the session cookie.
func (m *CookieManager) Clear(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     m.name,
		Value:    "",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   m.secure,
		Path:     "/",
		MaxAge:   -1,
	})
}

// Read returns the raw token from the request, or ErrUnauthorized when
// the cookie is missing or empty.
func (m *CookieManager) Read(c echo.Context) (string, error) {
	ck, err := c.Cookie(m.name)
	if err != nil || ck.Value == "" {
		return "", domain.ErrUnauthorized
	}
	return ck.Value, nil
}
