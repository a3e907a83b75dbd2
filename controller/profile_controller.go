package controller

import (
	"net/http"

	"chatlink-auth/entity"
	"chatlink-auth/pkg/logger"
	"chatlink-auth/service"
	"chatlink-auth/validator"

	"github.com/labstack/echo/v4"
)

// ProfileController handles the authenticated user's profile
type ProfileController struct {
	profileService service.ProfileService
	validator      *validator.Validator
	logger         *logger.Logger
}

// NewProfileController creates a new profile controller instance
func NewProfileController(profileService service.ProfileService, validator *validator.Validator, logger *logger.Logger) *ProfileController {
	return &ProfileController{
		profileService: profileService,
		validator:      validator,
		logger:         logger,
	}
}

// GetProfile returns the current user's profile
// @Summary Get profile
// @Tags Profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} entity.UserResponse
// @Failure 401 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /profile [get]
func (c *ProfileController) GetProfile(ctx echo.Context) error {
	claims, ok := currentClaims(ctx)
	if !ok {
		return unauthorized(ctx, "Invalid token")
	}

	profile, err := c.profileService.GetProfile(ctx.Request().Context(), claims.UserID)
	if err != nil {
		return errorResponse(ctx, c.logger, err)
	}

	return ctx.JSON(http.StatusOK, profile)
}

// UpdateProfile edits the current user's profile
// @Summary Update profile
// @Description A learning language change is allowed once every 15 days
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body entity.UpdateProfileRequest true "Profile"
// @Success 200 {object} entity.UserResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 429 {object} map[string]interface{}
// @Router /profile [put]
func (c *ProfileController) UpdateProfile(ctx echo.Context) error {
	claims, ok := currentClaims(ctx)
	if !ok {
		return unauthorized(ctx, "Invalid token")
	}

	var req entity.UpdateProfileRequest
	if ok, err := bindAndValidate(ctx, c.validator, c.logger, &req); !ok {
		return err
	}

	profile, err := c.profileService.UpdateProfile(ctx.Request().Context(), claims.UserID, &req)
	if err != nil {
		return errorResponse(ctx, c.logger, err)
	}

	return ctx.JSON(http.StatusOK, profile)
}

// UpdateLearningLanguage changes only the learning language
// @Summary Update learning language
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body entity.UpdateLearningLanguageRequest true "Learning language"
// @Success 200 {object} entity.UserResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 429 {object} map[string]interface{}
// @Router /profile/learning-language [put]
func (c *ProfileController) UpdateLearningLanguage(ctx echo.Context) error {
	claims, ok := currentClaims(ctx)
	if !ok {
		return unauthorized(ctx, "Invalid token")
	}

	var req entity.UpdateLearningLanguageRequest
	if ok, err := bindAndValidate(ctx, c.validator, c.logger, &req); !ok {
		return err
	}

	profile, err := c.profileService.UpdateLearningLanguage(ctx.Request().Context(), claims.UserID, req.LearningLanguage)
	if err != nil {
		return errorResponse(ctx, c.logger, err)
	}

	return ctx.JSON(http.StatusOK, profile)
}
