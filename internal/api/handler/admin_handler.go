package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/crm-properties/crm-api/internal/core/ports"
)

// AdminHandler handles the admin-only user administration and global
// metrics endpoints.
type AdminHandler struct {
	adminService ports.AdminService
}

func NewAdminHandler(adminService ports.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

type updateUserRequest struct {
	Name  *string `json:"name"  validate:"omitempty,min=2"`
	Email *string `json:"email" validate:"omitempty,email"`
	Phone *string `json:"phone" validate:"omitempty,min=3"`
	Role  *string `json:"role"  validate:"omitempty,oneof=seller manager admin"`
}

// ListUsers returns all users.
//
// @Summary      List users
// @Tags         admin
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.adminService.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, map[string]any{"users": users})
}

// UpdateUser handles PUT: a full update, requiring the core fields.
//
// @Summary      Update a user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path      int                true  "User ID"
// @Param        body  body      updateUserRequest  true  "User fields"
// @Success      200   {object}  map[string]any
// @Failure      400   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /admin/users/{id} [put]
func (h *AdminHandler) UpdateUser(c echo.Context) error {
	return h.applyUserUpdate(c, true)
}

// PatchUser handles PATCH: only the provided fields change.
//
// @Summary      Partially update a user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path      int                true  "User ID"
// @Param        body  body      updateUserRequest  true  "Changed fields"
// @Success      200   {object}  map[string]any
// @Router       /admin/users/{id} [patch]
func (h *AdminHandler) PatchUser(c echo.Context) error {
	return h.applyUserUpdate(c, false)
}

func (h *AdminHandler) applyUserUpdate(c echo.Context, full bool) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if full && (req.Name == nil || req.Email == nil || req.Role == nil) {
		return echo.NewHTTPError(http.StatusBadRequest, "PUT requires name, email and role.")
	}

	user, err := h.adminService.UpdateUser(c.Request().Context(), id, ports.UserUpdate{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		Role:  req.Role,
	})
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, map[string]any{
		"message": "User updated successfully.",
		"user":    user,
	})
}

// DeleteUser removes a user with cascade; the last admin is protected.
//
// @Summary      Delete a user
// @Tags         admin
// @Produce      json
// @Param        id  path  int  true  "User ID"
// @Success      200  {object}  map[string]any
// @Failure      400  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.adminService.DeleteUser(c.Request().Context(), id); err != nil {
		return err
	}
	return respond(c, http.StatusOK, map[string]string{
		"message": "User deleted successfully.",
	})
}

// Metrics returns the global entity counts.
//
// @Summary      Global metrics
// @Tags         admin
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /admin/metrics [get]
func (h *AdminHandler) Metrics(c echo.Context) error {
	m, err := h.adminService.GlobalMetrics(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, map[string]any{"metrics": m})
}

// ExportMetrics serves the global metrics as a CSV attachment.
//
// @Summary      Export global metrics as CSV
// @Tags         admin
// @Produce      text/csv
// @Success      200  {string}  string
// @Router       /admin/metrics/export [get]
func (h *AdminHandler) ExportMetrics(c echo.Context) error {
	file, err := h.adminService.ExportGlobalMetricsCSV(c.Request().Context())
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename=%q`, file.Filename))
	return c.Blob(http.StatusOK, file.ContentType, file.Content)
}
