package controller

import (
	"net/http"

	"chatlink-auth/entity"
	"chatlink-auth/pkg/logger"
	"chatlink-auth/service"
	"chatlink-auth/validator"

	"github.com/labstack/echo/v4"
)

// RegistrationController handles the OTP-gated sign up flow
type RegistrationController struct {
	registrationService service.RegistrationService
	validator           *validator.Validator
	logger              *logger.Logger
}

// NewRegistrationController creates a new registration controller instance
func NewRegistrationController(registrationService service.RegistrationService, validator *validator.Validator, logger *logger.Logger) *RegistrationController {
	return &RegistrationController{
		registrationService: registrationService,
		validator:           validator,
		logger:              logger,
	}
}

// Register starts a registration and sends an OTP
// @Summary Start registration
// @Description Validate the sign up form and send an OTP to the email or phone number
// @Tags Registration
// @Accept json
// @Produce json
// @Param request body entity.RegisterRequest true "Registration form"
// @Success 200 {object} entity.OTPResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /auth/register [post]
func (c *RegistrationController) Register(ctx echo.Context) error {
	var req entity.RegisterRequest
	if ok, err := bindAndValidate(ctx, c.validator, c.logger, &req); !ok {
		return err
	}

	response, err := c.registrationService.RequestRegistrationOTP(ctx.Request().Context(), &req)
	if err != nil {
		return errorResponse(ctx, c.logger, err)
	}

	return ctx.JSON(http.StatusOK, response)
}

// Verify completes a registration
// @Summary Verify registration OTP
// @Description Verify the OTP, set the password and create the account
// @Tags Registration
// @Accept json
// @Produce json
// @Param request body entity.VerifyRegistrationRequest true "Verification (token from register response)"
// @Success 201 {object} entity.AuthResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Failure 410 {object} map[string]interface{}
// @Failure 423 {object} map[string]interface{}
// @Router /auth/register/verify [post]
func (c *RegistrationController) Verify(ctx echo.Context) error {
	var req entity.VerifyRegistrationRequest
	if ok, err := bindAndValidate(ctx, c.validator, c.logger, &req); !ok {
		return err
	}

	response, err := c.registrationService.VerifyRegistrationOTP(ctx.Request().Context(), &req)
	if err != nil {
		return errorResponse(ctx, c.logger, err)
	}

	return ctx.JSON(http.StatusCreated, response)
}

// Resend re-sends the registration OTP
// @Summary Resend registration OTP
// @Tags Registration
// @Accept json
// @Produce json
// @Param request body entity.ResendRequest true "Resend"
// @Success 200 {object} entity.OTPResponse
// @Failure 410 {object} map[string]interface{}
// @Failure 429 {object} map[string]interface{}
// @Router /auth/register/resend [post]
func (c *RegistrationController) Resend(ctx echo.Context) error {
	var req entity.ResendRequest
	if ok, err := bindAndValidate(ctx, c.validator, c.logger, &req); !ok {
		return err
	}

	response, err := c.registrationService.ResendRegistrationOTP(ctx.Request().Context(), req.Token)
	if err != nil {
		return errorResponse(ctx, c.logger, err)
	}

	return ctx.JSON(http.StatusOK, response)
}

// Cancel discards a pending registration
// @Summary Cancel registration
// @Tags Registration
// @Produce json
// @Param token query string true "Registration token"
// @Success 200 {object} entity.MessageResponse
// @Router /auth/register [delete]
func (c *RegistrationController) Cancel(ctx echo.Context) error {
	token := cancelToken(ctx)
	if token == "" {
		return ctx.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":   "Validation failed",
			"details": "token is required",
		})
	}

	if err := c.registrationService.CancelRegistration(ctx.Request().Context(), token); err != nil {
		return errorResponse(ctx, c.logger, err)
	}

	return ctx.JSON(http.StatusOK, entity.MessageResponse{Message: "Registration cancelled"})
}

// cancelToken reads the token from the query string, falling back to a JSON body
func cancelToken(ctx echo.Context) string {
	if token := ctx.QueryParam("token"); token != "" {
		return token
	}
	var req entity.CancelRequest
	if err := ctx.Bind(&req); err != nil {
		return ""
	}
	return req.Token
}
