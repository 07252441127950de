package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/crm-properties/crm-api/internal/core/domain"
)

// envelope is the uniform success response: {ok:true, data}.
type envelope struct {
	OK   bool `json:"ok"`
	Data any  `json:"data"`
}

func respond(c echo.Context, status int, data any) error {
	return c.JSON(status, envelope{OK: true, Data: data})
}

// sessionFromContext extracts the session injected by the Session
// middleware. Its absence means the middleware did not run — treat the
// request as unauthenticated rather than panicking on a bad cast.
func sessionFromContext(c echo.Context) (domain.Session, error) {
	sess, ok := c.Get("session").(domain.Session)
	if !ok {
		return domain.Session{}, domain.ErrUnauthorized
	}
	return sess, nil
}

// pathID parses the :id route parameter as a positive integer.
func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid ID.")
	}
	return id, nil
}

// queryID parses a required positive-integer query parameter.
func queryID(c echo.Context, name string) (int64, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, echo.NewHTTPError(http.StatusBadRequest, name+" query param is required.")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid ID.")
	}
	return id, nil
}

// parseTimeParam parses an optional RFC 3339 query or body value.
func parseTimeParam(raw, name string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, name+" must be a valid RFC 3339 datetime.")
	}
	return &t, nil
}
