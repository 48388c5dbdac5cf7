package handler

import (
	"github.com/labstack/echo/v4"

	"propertyhub/internal/model"
	"propertyhub/internal/service"
)

// PropertyHandler handles listing endpoints.
type PropertyHandler struct {
	propertyService   service.PropertyService
	userService       service.UserService
	moderationService service.ModerationService
}

// NewPropertyHandler creates a new listing handler.
func NewPropertyHandler(
	propertyService service.PropertyService,
	userService service.UserService,
	moderationService service.ModerationService,
) *PropertyHandler {
	return &PropertyHandler{
		propertyService:   propertyService,
		userService:       userService,
		moderationService: moderationService,
	}
}

// FlagRequest carries the moderation reason. Required when flagging.
type FlagRequest struct {
	Reason string `json:"reason"`
}

// SaveResponse reports whether the listing is saved after the toggle.
type SaveResponse struct {
	Saved bool `json:"saved"`
}

// List godoc
// @Summary Search public listings
// @Tags properties
// @Produce json
// @Param search query string false "Matches title, description or locality"
// @Param city query string false "City substring"
// @Param purpose query string false "sell or rent"
// @Param propertyType query string false "flat, house, plot, shop or office"
// @Param furnishing query string false "furnished, semi-furnished or unfurnished"
// @Param bedrooms query int false "Exact bedroom count"
// @Param minPrice query number false "Inclusive lower price bound"
// @Param maxPrice query number false "Inclusive upper price bound"
// @Param page query int false "1-indexed page" default(1)
// @Param limit query int false "Page size, at most 100" default(10)
// @Param sort query string false "Sort key, prefix - for descending" default(-createdAt)
// @Success 200 {object} errors.Response{data=model.PropertyPage}
// @Failure 400 {object} errors.Response
// @Router /properties [get]
func (h *PropertyHandler) List(c echo.Context) error {
	q, err := listingQuery(c)
	if err != nil {
		return err
	}
	page, err := h.propertyService.Search(c.Request().Context(), actor(c), q)
	if err != nil {
		return err
	}
	return ok(c, "Properties fetched successfully", page)
}

// Get godoc
// @Summary Get a listing
// @Description Counts a view when the listing is public. Hidden listings are reported as not found.
// @Tags properties
// @Produce json
// @Param id path string true "Property ID"
// @Success 200 {object} errors.Response{data=model.Property}
// @Failure 404 {object} errors.Response
// @Router /properties/{id} [get]
func (h *PropertyHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	property, err := h.propertyService.Get(c.Request().Context(), actor(c), id)
	if err != nil {
		return err
	}
	return ok(c, "Property fetched", property)
}

// Create godoc
// @Summary Create a listing
// @Tags properties
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.PropertyDraft true "Listing content"
// @Success 201 {object} errors.Response{data=model.Property}
// @Failure 400 {object} errors.Response
// @Failure 401 {object} errors.Response
// @Router /properties [post]
func (h *PropertyHandler) Create(c echo.Context) error {
	var draft model.PropertyDraft
	if err := bind(c, &draft); err != nil {
		return err
	}
	property, err := h.propertyService.Create(c.Request().Context(), actor(c), draft)
	if err != nil {
		return err
	}
	return created(c, "Property created", property)
}

// Mine godoc
// @Summary List the caller's listings, including inactive and flagged ones
// @Tags properties
// @Produce json
// @Security BearerAuth
// @Param page query int false "1-indexed page" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} errors.Response{data=model.PropertyPage}
// @Failure 401 {object} errors.Response
// @Router /properties/my/properties [get]
func (h *PropertyHandler) Mine(c echo.Context) error {
	q, err := listingQuery(c)
	if err != nil {
		return err
	}
	page, err := h.propertyService.Mine(c.Request().Context(), actor(c), q)
	if err != nil {
		return err
	}
	return ok(c, "My properties fetched", page)
}

// Update godoc
// @Summary Update an owned, active listing
// @Description Only title, description, price, area, bedrooms, bathrooms, furnishing, images and address are applied.
// @Tags properties
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Property ID"
// @Param request body model.PropertyPatch true "Fields to change"
// @Success 200 {object} errors.Response{data=model.Property}
// @Failure 400 {object} errors.Response
// @Failure 403 {object} errors.Response
// @Failure 404 {object} errors.Response
// @Router /properties/{id} [put]
func (h *PropertyHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var patch model.PropertyPatch
	if err := bindBody(c, &patch); err != nil {
		return err
	}
	property, err := h.propertyService.Update(c.Request().Context(), actor(c), id, patch)
	if err != nil {
		return err
	}
	return ok(c, "Property updated", property)
}

// Delete godoc
// @Summary Deactivate a listing
// @Tags properties
// @Produce json
// @Security BearerAuth
// @Param id path string true "Property ID"
// @Success 200 {object} errors.Response
// @Failure 403 {object} errors.Response
// @Failure 404 {object} errors.Response
// @Router /properties/{id} [delete]
func (h *PropertyHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.propertyService.Delete(c.Request().Context(), actor(c), id); err != nil {
		return err
	}
	return ok(c, "Property deleted", nil)
}

// ToggleSave godoc
// @Summary Save or unsave a listing
// @Tags properties
// @Produce json
// @Security BearerAuth
// @Param id path string true "Property ID"
// @Success 200 {object} errors.Response{data=SaveResponse}
// @Failure 404 {object} errors.Response
// @Router /properties/{id}/save [post]
func (h *PropertyHandler) ToggleSave(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	saved, err := h.userService.ToggleSaved(c.Request().Context(), actor(c), id)
	if err != nil {
		return err
	}
	message := "Property removed from saved"
	if saved {
		message = "Property saved"
	}
	return ok(c, message, SaveResponse{Saved: saved})
}

// Saved godoc
// @Summary List saved listings that are still visible
// @Tags properties
// @Produce json
// @Security BearerAuth
// @Success 200 {object} errors.Response{data=[]model.Property}
// @Failure 401 {object} errors.Response
// @Router /properties/my/saved [get]
func (h *PropertyHandler) Saved(c echo.Context) error {
	properties, err := h.userService.SavedProperties(c.Request().Context(), actor(c))
	if err != nil {
		return err
	}
	return ok(c, "Saved properties fetched", properties)
}

// AdminList godoc
// @Summary List every listing, including inactive and flagged ones
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "1-indexed page" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} errors.Response{data=model.PropertyPage}
// @Failure 403 {object} errors.Response
// @Router /properties/admin/all [get]
func (h *PropertyHandler) AdminList(c echo.Context) error {
	q, err := listingQuery(c)
	if err != nil {
		return err
	}
	page, err := h.propertyService.ListAll(c.Request().Context(), actor(c), q)
	if err != nil {
		return err
	}
	return ok(c, "All properties fetched", page)
}

// ToggleFlag godoc
// @Summary Flag or unflag a listing
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Property ID"
// @Param request body FlagRequest false "Reason, required when flagging"
// @Success 200 {object} errors.Response{data=model.Property}
// @Failure 400 {object} errors.Response
// @Failure 403 {object} errors.Response
// @Failure 404 {object} errors.Response
// @Router /properties/{id}/flag [patch]
func (h *PropertyHandler) ToggleFlag(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req FlagRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	property, err := h.moderationService.ToggleFlag(c.Request().Context(), actor(c), id, req.Reason)
	if err != nil {
		return err
	}
	message := "Property unflagged"
	if property.IsFlagged {
		message = "Property flagged"
	}
	return ok(c, message, property)
}
