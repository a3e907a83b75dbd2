package controller

import (
	"net/http"

	"chatlink-auth/entity"
	"chatlink-auth/pkg/logger"
	"chatlink-auth/service"
	"chatlink-auth/validator"

	"github.com/labstack/echo/v4"
)

// PasswordController handles the forgot-password flow
type PasswordController struct {
	resetService service.PasswordResetService
	validator    *validator.Validator
	logger       *logger.Logger
}

// NewPasswordController creates a new password controller instance
func NewPasswordController(resetService service.PasswordResetService, validator *validator.Validator, logger *logger.Logger) *PasswordController {
	return &PasswordController{
		resetService: resetService,
		validator:    validator,
		logger:       logger,
	}
}

// Forgot starts a password reset
// @Summary Request password reset
// @Description Send a reset OTP to the account matching the username, email or phone number
// @Tags Password
// @Accept json
// @Produce json
// @Param request body entity.ForgotPasswordRequest true "Identifier"
// @Success 200 {object} entity.OTPResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 429 {object} map[string]interface{}
// @Router /auth/password/forgot [post]
func (c *PasswordController) Forgot(ctx echo.Context) error {
	var req entity.ForgotPasswordRequest
	if ok, err := bindAndValidate(ctx, c.validator, c.logger, &req); !ok {
		return err
	}

	response, err := c.resetService.RequestPasswordResetOTP(ctx.Request().Context(), req.Identifier)
	if err != nil {
		return errorResponse(ctx, c.logger, err)
	}

	return ctx.JSON(http.StatusOK, response)
}

// Verify checks the reset OTP
// @Summary Verify password reset OTP
// @Tags Password
// @Accept json
// @Produce json
// @Param request body entity.VerifyPasswordResetRequest true "Verification"
// @Success 200 {object} entity.MessageResponse
// @Failure 401 {object} map[string]interface{}
// @Failure 410 {object} map[string]interface{}
// @Failure 423 {object} map[string]interface{}
// @Router /auth/password/verify [post]
func (c *PasswordController) Verify(ctx echo.Context) error {
	var req entity.VerifyPasswordResetRequest
	if ok, err := bindAndValidate(ctx, c.validator, c.logger, &req); !ok {
		return err
	}

	response, err := c.resetService.VerifyPasswordResetOTP(ctx.Request().Context(), &req)
	if err != nil {
		return errorResponse(ctx, c.logger, err)
	}

	return ctx.JSON(http.StatusOK, response)
}

// Resend re-sends the reset OTP
// @Summary Resend password reset OTP
// @Tags Password
// @Accept json
// @Produce json
// @Param request body entity.ResendRequest true "Resend"
// @Success 200 {object} entity.OTPResponse
// @Failure 410 {object} map[string]interface{}
// @Failure 429 {object} map[string]interface{}
// @Router /auth/password/resend [post]
func (c *PasswordController) Resend(ctx echo.Context) error {
	var req entity.ResendRequest
	if ok, err := bindAndValidate(ctx, c.validator, c.logger, &req); !ok {
		return err
	}

	response, err := c.resetService.ResendPasswordResetOTP(ctx.Request().Context(), req.Token)
	if err != nil {
		return errorResponse(ctx, c.logger, err)
	}

	return ctx.JSON(http.StatusOK, response)
}

// Reset sets the new password
// @Summary Set new password
// @Description Requires a verified reset token no older than the verified window
// @Tags Password
// @Accept json
// @Produce json
// @Param request body entity.ResetPasswordRequest true "New password"
// @Success 200 {object} entity.MessageResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 410 {object} map[string]interface{}
// @Router /auth/password/reset [post]
func (c *PasswordController) Reset(ctx echo.Context) error {
	var req entity.ResetPasswordRequest
	if ok, err := bindAndValidate(ctx, c.validator, c.logger, &req); !ok {
		return err
	}

	response, err := c.resetService.CommitPasswordReset(ctx.Request().Context(), &req)
	if err != nil {
		return errorResponse(ctx, c.logger, err)
	}

	return ctx.JSON(http.StatusOK, response)
}

// Cancel discards an ongoing reset
// @Summary Cancel password reset
// @Tags Password
// @Produce json
// @Param token query string true "Reset token"
// @Success 200 {object} entity.MessageResponse
// @Router /auth/password [delete]
func (c *PasswordController) Cancel(ctx echo.Context) error {
	token := cancelToken(ctx)
	if token == "" {
		return ctx.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":   "Validation failed",
			"details": "token is required",
		})
	}

	if err := c.resetService.CancelPasswordReset(ctx.Request().Context(), token); err != nil {
		return errorResponse(ctx, c.logger, err)
	}

	return ctx.JSON(http.StatusOK, entity.MessageResponse{Message: "Password reset cancelled"})
}
