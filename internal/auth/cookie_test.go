package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/crm-properties/crm-api/internal/core/domain"
)

func TestCookieManager_SetAttributes(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	m := NewCookieManager("crm_properties_session", 25*time.Minute, false)
	m.Set(c, "tok")

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}
	ck := cookies[0]
	if ck.Name != "crm_properties_session" || ck.Value != "tok" {
		t.Fatalf("unexpected cookie: %+v", ck)
	}
	if !ck.HttpOnly {
		t.Fatalf("cookie must be httpOnly")
	}
	if ck.Path != "/" {
		t.Fatalf("expected path /, got %s", ck.Path)
	}
	if ck.MaxAge != 25*60 {
		t.Fatalf("expected max-age %d, got %d", 25*60, ck.MaxAge)
	}
	if ck.Secure {
		t.Fatalf("cookie should not be secure outside production")
	}
}

func TestCookieManager_Clear(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)

	m := NewCookieManager("", 0, true)
	m.Clear(c)

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}
	if cookies[0].Name != DefaultCookieName {
		t.Fatalf("expected default cookie name, got %s", cookies[0].Name)
	}
	if cookies[0].MaxAge >= 0 {
		t.Fatalf("expected negative max-age, got %d", cookies[0].MaxAge)
	}
}

func TestCookieManager_Read(t *testing.T) {
	e := echo.New()
	m := NewCookieManager(DefaultCookieName, time.Minute, false)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	if _, err := m.Read(c); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for missing cookie, got %v", err)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: DefaultCookieName, Value: "tok"})
	c = e.NewContext(req, httptest.NewRecorder())
	token, err := m.Read(c)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if token != "tok" {
		t.Fatalf("expected tok, got %s", token)
	}
}
