package handler

import (
	"github.com/labstack/echo/v4"

	"propertyhub/internal/middleware"
	"propertyhub/internal/model"
	"propertyhub/internal/service"
)

// AuthHandler handles authentication and self-service profile endpoints.
type AuthHandler struct {
	authService service.AuthService
	userService service.UserService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, userService service.UserService) *AuthHandler {
	return &AuthHandler{authService: authService, userService: userService}
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest represents a token refresh request.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// LogoutRequest represents a logout request. The refresh token is optional.
type LogoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// AuthResponse carries a reissued access token.
type AuthResponse struct {
	AccessToken string `json:"accessToken"`
}

// Register godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} errors.Response{data=model.User}
// @Failure 400 {object} errors.Response
// @Failure 409 {object} errors.Response
// @Router /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.authService.Register(c.Request().Context(), service.RegisterInput(req))
	if err != nil {
		return err
	}
	return created(c, "Registration successful", user)
}

// Login godoc
// @Summary Login user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} errors.Response{data=service.LoginResult}
// @Failure 400 {object} errors.Response
// @Failure 401 {object} errors.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	result, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return ok(c, "Login successful", result)
}

// Refresh godoc
// @Summary Refresh access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RefreshRequest true "Refresh token"
// @Success 200 {object} errors.Response{data=AuthResponse}
// @Failure 400 {object} errors.Response
// @Failure 401 {object} errors.Response
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req RefreshRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	accessToken, err := h.authService.RefreshToken(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return err
	}
	return ok(c, "Token refreshed", AuthResponse{AccessToken: accessToken})
}

// Logout godoc
// @Summary Logout user
// @Description Revokes the presented access token and, when given, the refresh token.
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body LogoutRequest false "Refresh token"
// @Success 200 {object} errors.Response
// @Failure 401 {object} errors.Response
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	var req LogoutRequest
	if c.Request().ContentLength != 0 {
		if err := bindBody(c, &req); err != nil {
			return err
		}
	}

	if err := h.authService.Logout(c.Request().Context(), middleware.ClaimsFrom(c), req.RefreshToken); err != nil {
		return err
	}
	return ok(c, "Logged out", nil)
}

// Profile godoc
// @Summary Current user's profile with saved listings
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} errors.Response{data=service.Profile}
// @Failure 401 {object} errors.Response
// @Router /auth/profile [get]
func (h *AuthHandler) Profile(c echo.Context) error {
	profile, err := h.userService.Profile(c.Request().Context(), actor(c))
	if err != nil {
		return err
	}
	return ok(c, "Profile fetched", profile)
}

// UpdateProfile godoc
// @Summary Update name, phone or avatar
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.ProfilePatch true "Profile fields"
// @Success 200 {object} errors.Response{data=model.User}
// @Failure 400 {object} errors.Response
// @Failure 401 {object} errors.Response
// @Router /auth/profile [put]
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	var patch model.ProfilePatch
	if err := bindBody(c, &patch); err != nil {
		return err
	}

	user, err := h.userService.UpdateProfile(c.Request().Context(), actor(c), patch)
	if err != nil {
		return err
	}
	return ok(c, "Profile updated", user)
}
