package handler

import (
	"github.com/labstack/echo/v4"

	"propertyhub/internal/model"
	"propertyhub/internal/service"
)

// UserHandler bundles the admin user-management handlers.
type UserHandler struct {
	svc        service.UserService
	moderation service.ModerationService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService, moderation service.ModerationService) *UserHandler {
	return &UserHandler{svc: svc, moderation: moderation}
}

// ListUsers godoc
// @Summary List users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} errors.Response{data=[]model.User}
// @Failure 403 {object} errors.Response
// @Router /users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.svc.ListUsers(c.Request().Context(), actor(c))
	if err != nil {
		return err
	}
	return ok(c, "Users fetched", users)
}

// GetUser godoc
// @Summary Get user by id
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} errors.Response{data=model.User}
// @Failure 400 {object} errors.Response
// @Failure 404 {object} errors.Response
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	user, err := h.svc.GetUser(c.Request().Context(), actor(c), id)
	if err != nil {
		return err
	}
	return ok(c, "User fetched", user)
}

// UpdateUser godoc
// @Summary Update any field of a user
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param request body model.UserPatch true "Fields to change"
// @Success 200 {object} errors.Response{data=model.User}
// @Failure 400 {object} errors.Response
// @Failure 404 {object} errors.Response
// @Failure 409 {object} errors.Response
// @Router /users/{id} [put]
func (h *UserHandler) UpdateUser(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var patch model.UserPatch
	if err := bindBody(c, &patch); err != nil {
		return err
	}
	user, err := h.svc.UpdateUser(c.Request().Context(), actor(c), id, patch)
	if err != nil {
		return err
	}
	return ok(c, "User updated", user)
}

// DeleteUser godoc
// @Summary Delete a user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} errors.Response
// @Failure 404 {object} errors.Response
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.DeleteUser(c.Request().Context(), actor(c), id); err != nil {
		return err
	}
	return ok(c, "User deleted", nil)
}

// ToggleBlock godoc
// @Summary Block or unblock a user
// @Description A blocked user fails authentication on the next request, even with a valid token.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} errors.Response{data=model.User}
// @Failure 403 {object} errors.Response
// @Failure 404 {object} errors.Response
// @Router /users/{id}/block [patch]
func (h *UserHandler) ToggleBlock(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	user, err := h.moderation.ToggleBlockUser(c.Request().Context(), actor(c), id)
	if err != nil {
		return err
	}
	message := "User unblocked"
	if user.IsBlocked {
		message = "User blocked"
	}
	return ok(c, message, user)
}
