package controller

import (
	"net/http"

	"chatlink-auth/entity"
	"chatlink-auth/pkg/logger"
	"chatlink-auth/service"
	"chatlink-auth/validator"

	"github.com/labstack/echo/v4"
)

// AuthController handles login and logout
type AuthController struct {
	authService service.AuthService
	validator   *validator.Validator
	logger      *logger.Logger
}

// NewAuthController creates a new auth controller
func NewAuthController(authService service.AuthService, validator *validator.Validator, logger *logger.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		validator:   validator,
		logger:      logger,
	}
}

// Login authenticates with a password
// @Summary Login
// @Description Authenticate with username, email or phone number and password
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body entity.LoginRequest true "Credentials"
// @Success 200 {object} entity.AuthResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /auth/login [post]
func (c *AuthController) Login(ctx echo.Context) error {
	var req entity.LoginRequest
	if ok, err := bindAndValidate(ctx, c.validator, c.logger, &req); !ok {
		return err
	}

	response, err := c.authService.Login(ctx.Request().Context(), &req)
	if err != nil {
		return errorResponse(ctx, c.logger, err)
	}

	return ctx.JSON(http.StatusOK, response)
}

// @Summary Logout user
// @Description Logout user and revoke JWT token from Redis session store
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body entity.LogoutRequest false "Logout options"
// @Security BearerAuth
// @Success 200 {object} entity.LogoutResponse
// @Failure 401 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /auth/logout [post]
func (c *AuthController) Logout(ctx echo.Context) error {
	claims, ok := currentClaims(ctx)
	if !ok {
		return unauthorized(ctx, "Invalid token")
	}
	tokenString, _ := ctx.Get(TokenContextKey).(string)

	var req entity.LogoutRequest
	if err := ctx.Bind(&req); err != nil {
		// The body is optional
		req = entity.LogoutRequest{}
	}

	response, err := c.authService.Logout(ctx.Request().Context(), claims.UserID, tokenString, req.LogoutAll)
	if err != nil {
		return errorResponse(ctx, c.logger, err)
	}

	return ctx.JSON(http.StatusOK, response)
}
