package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/crm-properties/crm-api/internal/api/metrics"
	"github.com/crm-properties/crm-api/internal/auth"
)

// Session resolves the session cookie, verifies the token, and slides the
// session window by re-setting the cookie with a freshly signed token.
// The verified session is injected into context under "session". There is
// no caching: every authenticated request re-verifies.
func Session(codec *auth.Codec, cookies *auth.CookieManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := cookies.Read(c)
			if err != nil {
				return err
			}

			sess, err := codec.Verify(token)
			if err != nil {
				return err
			}

			fresh, err := codec.Sign(sess)
			if err != nil {
				return err
			}
			cookies.Set(c, fresh)
			metrics.SessionsRefreshedTotal.Inc()

			c.Set("session", sess)
			return next(c)
		}
	}
}
