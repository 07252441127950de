package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/crm-properties/crm-api/internal/core/domain"
	"github.com/crm-properties/crm-api/internal/core/ports"
)

// SellerHandler handles the seller/admin pipeline endpoints.
type SellerHandler struct {
	sellerService ports.SellerService
}

func NewSellerHandler(sellerService ports.SellerService) *SellerHandler {
	return &SellerHandler{sellerService: sellerService}
}

type createClientRequest struct {
	Name  string  `json:"name"  validate:"required,min=2"`
	Email *string `json:"email" validate:"omitempty,email"`
	Phone *string `json:"phone" validate:"omitempty,min=3"`
	City  *string `json:"city"  validate:"omitempty,min=2"`
}

type createDealRequest struct {
	Title         string   `json:"title"         validate:"required,min=2"`
	ClientID      int64    `json:"clientId"      validate:"required,gt=0"`
	PropertyID    int64    `json:"propertyId"    validate:"required,gt=0"`
	ExpectedValue *float64 `json:"expectedValue" validate:"omitempty,gte=0"`
	Stage         *string  `json:"stage"         validate:"omitempty,oneof=new negotiation offer_sent won lost"`
}

type updateStageRequest struct {
	Stage string `json:"stage" validate:"required,oneof=new negotiation offer_sent won lost"`
}

type addActivityRequest struct {
	Subject     string  `json:"subject"     validate:"required,min=2"`
	Type        *string `json:"type"        validate:"omitempty,oneof=call email meeting task"`
	Description *string `json:"description"`
	DueDate     *string `json:"dueDate"`
}

// ListDeals returns the seller's deals; an admin sees every deal.
//
// @Summary      List deals
// @Tags         seller
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /seller/deals [get]
func (h *SellerHandler) ListDeals(c echo.Context) error {
	sess, err := sessionFromContext(c)
	if err != nil {
		return err
	}

	deals, err := h.sellerService.ListDeals(c.Request().Context(), sess)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, map[string]any{"deals": deals})
}

// CreateDeal creates a deal owned by the session user.
//
// @Summary      Create a deal
// @Tags         seller
// @Accept       json
// @Produce      json
// @Param        body  body      createDealRequest  true  "Deal fields"
// @Success      201   {object}  map[string]any
// @Failure      400   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /seller/deals [post]
func (h *SellerHandler) CreateDeal(c echo.Context) error {
	sess, err := sessionFromContext(c)
	if err != nil {
		return err
	}

	var req createDealRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	in := ports.CreateDealInput{
		Title:         req.Title,
		ClientID:      req.ClientID,
		PropertyID:    req.PropertyID,
		ExpectedValue: req.ExpectedValue,
	}
	if req.Stage != nil {
		in.Stage = domain.DealStage(*req.Stage)
	}

	deal, err := h.sellerService.CreateDeal(c.Request().Context(), sess, in)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, map[string]any{
		"message": "Deal created successfully.",
		"deal":    deal,
	})
}

// UpdateStage moves a deal forward along the pipeline.
//
// @Summary      Update a deal's stage
// @Tags         seller
// @Accept       json
// @Produce      json
// @Param        id    path      int                 true  "Deal ID"
// @Param        body  body      updateStageRequest  true  "Target stage"
// @Success      200   {object}  map[string]any
// @Failure      400   {object}  map[string]any
// @Failure      403   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /seller/deals/{id}/stage [patch]
func (h *SellerHandler) UpdateStage(c echo.Context) error {
	sess, err := sessionFromContext(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req updateStageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	deal, err := h.sellerService.UpdateDealStage(c.Request().Context(), sess, id, domain.DealStage(req.Stage))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, map[string]any{
		"message": "Deal stage updated successfully.",
		"deal":    deal,
	})
}

// ListActivities returns a deal's activities, due date ascending.
//
// @Summary      List a deal's activities
// @Tags         seller
// @Produce      json
// @Param        id  path  int  true  "Deal ID"
// @Success      200  {object}  map[string]any
// @Failure      403  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /seller/deals/{id}/stage/activities [get]
func (h *SellerHandler) ListActivities(c echo.Context) error {
	sess, err := sessionFromContext(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	activities, err := h.sellerService.ListActivities(c.Request().Context(), sess, id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, map[string]any{"activities": activities})
}

// AddActivity appends an activity to an owned deal.
//
// @Summary      Add an activity to a deal
// @Tags         seller
// @Accept       json
// @Produce      json
// @Param        id    path      int                 true  "Deal ID"
// @Param        body  body      addActivityRequest  true  "Activity fields"
// @Success      201   {object}  map[string]any
// @Failure      400   {object}  map[string]any
// @Failure      403   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /seller/deals/{id}/stage/activities [post]
func (h *SellerHandler) AddActivity(c echo.Context) error {
	sess, err := sessionFromContext(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req addActivityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	in := ports.ActivityInput{
		Subject:     req.Subject,
		Type:        req.Type,
		Description: req.Description,
	}
	if req.DueDate != nil {
		due, err := parseTimeParam(*req.DueDate, "dueDate")
		if err != nil {
			return err
		}
		in.DueDate = due
	}

	activity, err := h.sellerService.AddActivity(c.Request().Context(), sess, id, in)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, map[string]any{
		"message":  "Activity added successfully.",
		"activity": activity,
	})
}

// ListMyClients lists the clients the seller has at least one deal with.
//
// @Summary      List my clients
// @Tags         seller
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /seller/clients [get]
func (h *SellerHandler) ListMyClients(c echo.Context) error {
	sess, err := sessionFromContext(c)
	if err != nil {
		return err
	}

	clients, err := h.sellerService.ListMyClients(c.Request().Context(), sess)
	if err != nil {
		return err
	}
	if len(clients) == 0 {
		return respond(c, http.StatusOK, map[string]any{
			"clients": []domain.Client{},
			"message": "You have no clients yet.",
		})
	}
	return respond(c, http.StatusOK, map[string]any{"clients": clients})
}

// CreateClient registers a new client.
//
// @Summary      Create a client
// @Tags         seller
// @Accept       json
// @Produce      json
// @Param        body  body      createClientRequest  true  "Client fields"
// @Success      201   {object}  map[string]any
// @Failure      400   {object}  map[string]any
// @Router       /seller/clients [post]
func (h *SellerHandler) CreateClient(c echo.Context) error {
	var req createClientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	client, err := h.sellerService.CreateClient(c.Request().Context(), ports.ClientInput{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		City:  req.City,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, map[string]any{
		"message": "Client created successfully.",
		"client":  client,
	})
}

// UpdateClient handles PUT: a full update, requiring the client name.
//
// @Summary      Update a client
// @Tags         seller
// @Accept       json
// @Produce      json
// @Param        id    path      int                  true  "Client ID"
// @Param        body  body      updateClientRequest  true  "Client fields"
// @Success      200   {object}  map[string]any
// @Failure      400   {object}  map[string]any
// @Failure      403   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /seller/clients/{id} [put]
func (h *SellerHandler) UpdateClient(c echo.Context) error {
	return h.applyClientUpdate(c, true)
}

// PatchClient handles PATCH: only the provided fields change.
//
// @Summary      Partially update a client
// @Tags         seller
// @Accept       json
// @Produce      json
// @Param        id    path      int                  true  "Client ID"
// @Param        body  body      updateClientRequest  true  "Changed fields"
// @Success      200   {object}  map[string]any
// @Router       /seller/clients/{id} [patch]
func (h *SellerHandler) PatchClient(c echo.Context) error {
	return h.applyClientUpdate(c, false)
}

func (h *SellerHandler) applyClientUpdate(c echo.Context, full bool) error {
	sess, err := sessionFromContext(c)
	if err != nil {
		return err
	}
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

	client, err := h.sellerService.UpdateClient(c.Request().Context(), sess, id, ports.ClientUpdate{
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

// ClientOptions lists every client, for the deal-creation combo box.
//
// @Summary      List client options
// @Tags         seller
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /seller/clients/options [get]
func (h *SellerHandler) ClientOptions(c echo.Context) error {
	clients, err := h.sellerService.ListClients(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, map[string]any{"clients": clients})
}

// ListProperties lists every property, title ascending.
//
// @Summary      List properties
// @Tags         seller
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /seller/properties [get]
func (h *SellerHandler) ListProperties(c echo.Context) error {
	properties, err := h.sellerService.ListProperties(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, map[string]any{"properties": properties})
}
