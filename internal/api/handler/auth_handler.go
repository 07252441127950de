package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/crm-properties/crm-api/internal/auth"
	"github.com/crm-properties/crm-api/internal/core/domain"
	"github.com/crm-properties/crm-api/internal/core/ports"
)

// AuthHandler handles registration, login, logout and session lookup.
type AuthHandler struct {
	authService ports.AuthService
	cookies     *auth.CookieManager
}

func NewAuthHandler(authService ports.AuthService, cookies *auth.CookieManager) *AuthHandler {
	return &AuthHandler{authService: authService, cookies: cookies}
}

type registerRequest struct {
	Name            string `json:"name"            validate:"required,min=2"`
	Email           string `json:"email"           validate:"required,email"`
	Password        string `json:"password"        validate:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type authUserResponse struct {
	Message string       `json:"message"`
	User    *domain.User `json:"user"`
}

// Register creates a seller account and establishes a session.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  map[string]any
// @Failure      400   {object}  map[string]any
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, token, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	// Auto-login after registration.
	h.cookies.Set(c, token)
	return respond(c, http.StatusCreated, authUserResponse{
		Message: "User registered successfully.",
		User:    user,
	})
}

// Login verifies credentials and establishes a session.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  map[string]any
// @Failure      400   {object}  map[string]any
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, token, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	h.cookies.Set(c, token)
	return respond(c, http.StatusOK, authUserResponse{
		Message: "User logged in successfully.",
		User:    user,
	})
}

// Logout clears the session cookie.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	h.cookies.Clear(c)
	return respond(c, http.StatusOK, map[string]string{
		"message": "User logged out successfully.",
	})
}

// Me returns the current user. The Session middleware has already slid
// the cookie forward; the role is read back from the store.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]any
// @Failure      401  {object}  map[string]any
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	sess, err := sessionFromContext(c)
	if err != nil {
		return err
	}

	user, err := h.authService.Me(c.Request().Context(), sess.UserID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, map[string]any{"user": user})
}
