package handler

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	apperrors "propertyhub/internal/errors"
	"propertyhub/internal/service"
)

// ContactHandler handles buyer-to-owner contact endpoints.
type ContactHandler struct {
	contactService service.ContactService
}

// NewContactHandler creates a new contact handler.
func NewContactHandler(contactService service.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

// ContactRequest represents a contact request on a listing.
type ContactRequest struct {
	PropertyID string `json:"propertyId" validate:"required"`
	Message    string `json:"message" validate:"max=2000"`
}

// Create godoc
// @Summary Contact the owner of a listing
// @Description Returns the owner's name, email and phone. One contact per buyer and listing.
// @Tags contacts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ContactRequest true "Contact request"
// @Success 201 {object} errors.Response{data=model.ContactReceipt}
// @Failure 400 {object} errors.Response
// @Failure 404 {object} errors.Response
// @Failure 409 {object} errors.Response
// @Router /contacts [post]
func (h *ContactHandler) Create(c echo.Context) error {
	var req ContactRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	propertyID, err := uuid.Parse(req.PropertyID)
	if err != nil {
		return apperrors.InvalidInput("invalid propertyId")
	}

	receipt, err := h.contactService.Create(c.Request().Context(), actor(c), propertyID, req.Message)
	if err != nil {
		return err
	}
	return created(c, "Contact request sent", receipt)
}

// List godoc
// @Summary List contacts the caller sent or received
// @Description Admins receive every contact.
// @Tags contacts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} errors.Response{data=[]model.Contact}
// @Failure 401 {object} errors.Response
// @Router /contacts [get]
func (h *ContactHandler) List(c echo.Context) error {
	contacts, err := h.contactService.ListMine(c.Request().Context(), actor(c))
	if err != nil {
		return err
	}
	return ok(c, "Contacts fetched", contacts)
}

// Get godoc
// @Summary Get a contact
// @Tags contacts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Contact ID"
// @Success 200 {object} errors.Response{data=model.Contact}
// @Failure 403 {object} errors.Response
// @Failure 404 {object} errors.Response
// @Router /contacts/{id} [get]
func (h *ContactHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	contact, err := h.contactService.Get(c.Request().Context(), actor(c), id)
	if err != nil {
		return err
	}
	return ok(c, "Contact fetched", contact)
}

// Delete godoc
// @Summary Delete a contact
// @Description Allowed for the buyer who sent it and for admins.
// @Tags contacts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Contact ID"
// @Success 200 {object} errors.Response
// @Failure 403 {object} errors.Response
// @Failure 404 {object} errors.Response
// @Router /contacts/{id} [delete]
func (h *ContactHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.contactService.Delete(c.Request().Context(), actor(c), id); err != nil {
		return err
	}
	return ok(c, "Contact deleted", nil)
}
