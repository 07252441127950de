package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/crm-properties/crm-api/internal/core/domain"
	"github.com/crm-properties/crm-api/internal/core/ports"
)

// ManagerHandler handles the manager/admin reporting endpoints.
type ManagerHandler struct {
	managerService ports.ManagerService
}

func NewManagerHandler(managerService ports.ManagerService) *ManagerHandler {
	return &ManagerHandler{managerService: managerService}
}

type filterDealsRequest struct {
	Stage         *string `json:"stage"         validate:"omitempty,oneof=new negotiation offer_sent won lost"`
	SellerID      *int64  `json:"sellerId"      validate:"omitempty,gt=0"`
	FromCloseDate *string `json:"fromCloseDate"`
	ToCloseDate   *string `json:"toCloseDate"`
}

type updateClientRequest struct {
	Name  *string `json:"name"  validate:"omitempty,min=2"`
	Email *string `json:"email" validate:"omitempty,email"`
	Phone *string `json:"phone" validate:"omitempty,min=3"`
	City  *string `json:"city"  validate:"omitempty,min=2"`
}

// ListSellers returns every seller with active and closed deal counts.
//
// @Summary      List sellers with deal counts
// @Tags         manager
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /manager/sellers [get]
func (h *ManagerHandler) ListSellers(c echo.Context) error {
	sellers, err := h.managerService.ListSellersWithCounts(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, map[string]any{"sellers": sellers})
}

// FilterDeals filters deals by stage, seller and closeDate range.
//
// @Summary      Filter deals
// @Tags         manager
// @Accept       json
// @Produce      json
// @Param        body  body      filterDealsRequest  true  "Filter criteria"
// @Success      200   {object}  map[string]any
// @Failure      400   {object}  map[string]any
// @Router       /manager/deals/filter [post]
func (h *ManagerHandler) FilterDeals(c echo.Context) error {
	var req filterDealsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	f := ports.DealFilter{SellerID: req.SellerID}
	if req.Stage != nil {
		stage := domain.DealStage(*req.Stage)
		f.Stage = &stage
	}
	var err error
	if req.FromCloseDate != nil {
		if f.FromCloseDate, err = parseTimeParam(*req.FromCloseDate, "fromCloseDate"); err != nil {
			return err
		}
	}
	if req.ToCloseDate != nil {
		if f.ToCloseDate, err = parseTimeParam(*req.ToCloseDate, "toCloseDate"); err != nil {
			return err
		}
	}

	deals, err := h.managerService.FilterDeals(c.Request().Context(), f)
	if err != nil {
		return err
	}
	if len(deals) == 0 {
		return respond(c, http.StatusOK, map[string]any{
			"deals":   []ports.DealDetail{},
			"message": "No deals for selected filters.",
		})
	}
	return respond(c, http.StatusOK, map[string]any{"deals": deals})
}

// SellerMetrics aggregates one seller's deals over an optional period.
//
// @Summary      Per-seller metrics
// @Tags         manager
// @Produce      json
// @Param        id    path      int     true   "Seller ID"
// @Param        from  query     string  false  "Period start (RFC 3339)"
// @Param        to    query     string  false  "Period end (RFC 3339)"
// @Success      200   {object}  map[string]any
// @Failure      400   {object}  map[string]any
// @Router       /manager/sellers/{id}/metrics [get]
func (h *ManagerHandler) SellerMetrics(c echo.Context) error {
	sellerID, err := pathID(c)
	if err != nil {
		return err
	}
	from, err := parseTimeParam(c.QueryParam("from"), "from")
	if err != nil {
		return err
	}
	to, err := parseTimeParam(c.QueryParam("to"), "to")
	if err != nil {
		return err
	}

	m, err := h.managerService.SellerMetrics(c.Request().Context(), sellerID, from, to)
	if err != nil {
		return err
	}
	if m == nil {
		// Empty period is not an error, but the client must be able to tell
		// it apart from all-zero metrics.
		return respond(c, http.StatusOK, map[string]any{
			"metrics": nil,
			"message": "No data for selected period.",
		})
	}
	return respond(c, http.StatusOK, map[string]any{"metrics": m})
}

// ExportSellerReport serves one seller's metrics as a CSV attachment.
//
// @Summary      Export seller report as CSV
// @Tags         manager
// @Produce      text/csv
// @Param        id    path      int     true   "Seller ID"
// @Param        from  query     string  false  "Period start (RFC 3339)"
// @Param        to    query     string  false  "Period end (RFC 3339)"
// @Success      200   {string}  string
// @Failure      400   {object}  map[string]any
// @Router       /manager/sellers/{id}/metrics/export [get]
func (h *ManagerHandler) ExportSellerReport(c echo.Context) error {
	sellerID, err := pathID(c)
	if err != nil {
		return err
	}
	from, err := parseTimeParam(c.QueryParam("from"), "from")
	if err != nil {
		return err
	}
	to, err := parseTimeParam(c.QueryParam("to"), "to")
	if err != nil {
		return err
	}

	file, err := h.managerService.ExportSellerReportCSV(c.Request().Context(), sellerID, from, to)
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename=%q`, file.Filename))
	return c.Blob(http.StatusOK, file.ContentType, file.Content)
}

// ListSellerClients lists clients transitively owned by a seller.
//
// @Summary      List a seller's clients
// @Tags         manager
// @Produce      json
// @Param        sellerId  query     int  true  "Seller ID"
// @Success      200       {object}  map[string]any
// @Failure      400       {object}  map[string]any
// @Router       /manager/sellers/clients [get]
func (h *ManagerHandler) ListSellerClients(c echo.Context) error {
	sellerID, err := queryID(c, "sellerId")
	if err != nil {
		return err
	}

	clients, err := h.managerService.ListSellerClients(c.Request().Context(), sellerID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, map[string]any{"clients": clients})
}

// GetClient returns a single client by id.
//
// @Summary      Get a client
// @Tags         manager
// @Produce      json
// @Param        id  path  int  true  "Client ID"
// @Success      200  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /manager/sellers/clients/{id} [get]
func (h *ManagerHandler) GetClient(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	client, err := h.managerService.GetClient(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, map[string]any{"client": client})
}

// UpdateClient handles PUT: a full update, requiring the client name.
//
// @Summary      Update a client
// @Tags         manager
// @Accept       json
// @Produce      json
// @Param        id    path      int                  true  "Client ID"
// @Param        body  body      updateClientRequest  true  "Client fields"
// @Success      200   {object}  map[string]any
// @Failure      400   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /manager/sellers/clients/{id} [put]
func (h *ManagerHandler) UpdateClient(c echo.Context) error {
	return h.applyClientUpdate(c, true)
}

// PatchClient handles PATCH: only the provided fields change.
//
// @Summary      Partially update a client
// @Tags         manager
// @Accept       json
// @Produce      json
// @Param        id    path      int                  true  "Client ID"
// @Param        body  body      updateClientRequest  true  "Changed fields"
// @Success      200   {object}  map[string]any
// @Router       /manager/sellers/clients/{id} [patch]
func (h *ManagerHandler) PatchClient(c echo.Context) error {
	return h.applyClientUpdate(c, false)
}

func (h *ManagerHandler) applyClientUpdate(c echo.Context, full bool) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req updateClientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if full && req.Name == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "PUT requires client name.")
	}

	client, err := h.managerService.UpdateClient(c.Request().Context(), id, ports.ClientUpdate{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		City:  req.City,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, map[string]any{
		"message": "Client updated successfully.",
		"client":  client,
	})
}
