package controller

import (
	"net/http"

	"chatlink-auth/service"

	"github.com/labstack/echo/v4"
)

// LanguageController serves the language picker used by registration and profile forms
type LanguageController struct{}

func NewLanguageController() *LanguageController {
	return &LanguageController{}
}

// List returns the selectable languages
// @Summary List languages
// @Description ISO 639-1 codes accepted for native_language and learning_language, sorted by name
// @Tags System
// @Produce json
// @Success 200 {array} entity.Language
// @Router /languages [get]
func (c *LanguageController) List(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, service.Languages())
}
