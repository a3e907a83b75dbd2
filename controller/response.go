package controller

import (
	"errors"
	"net/http"

	"chatlink-auth/pkg/apperror"
	"chatlink-auth/pkg/logger"
	"chatlink-auth/service"
	"chatlink-auth/validator"

	"github.com/labstack/echo/v4"
)

// Context keys set by the JWT middleware
const (
	ClaimsContextKey = "claims"
	TokenContextKey  = "token"
)

// errorResponse renders a service error as {"error", "details"} with the status of its kind
func errorResponse(ctx echo.Context, log *logger.Logger, err error) error {
	var appErr *apperror.Error
	if !errors.As(err, &appErr) {
		appErr = apperror.Internal(err).(*apperror.Error)
	}

	status := appErr.StatusCode()
	if status >= http.StatusInternalServerError {
		log.Errorw("Request failed", "path", ctx.Path(), "error", err)
	} else {
		log.Warnw("Request rejected", "path", ctx.Path(), "kind", appErr.Kind(), "reason", appErr.Message())
	}

	return ctx.JSON(status, map[string]interface{}{
		"error":   appErr.Kind().String(),
		"details": appErr.Message(),
	})
}

// bindAndValidate binds the request body into req and runs struct validation.
// It writes the 400 response itself and reports whether the handler should continue.
func bindAndValidate(ctx echo.Context, v *validator.Validator, log *logger.Logger, req interface{}) (bool, error) {
	if err := ctx.Bind(req); err != nil {
		log.Warnw("Failed to bind request", "path", ctx.Path(), "error", err)
		return false, ctx.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":   "Invalid request format",
			"details": err.Error(),
		})
	}

	if err := v.ValidateStruct(req); err != nil {
		log.Warnw("Validation failed", "path", ctx.Path(), "error", err)
		return false, ctx.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":   "Validation failed",
			"details": err.Error(),
		})
	}

	return true, nil
}

// currentClaims returns the claims stored by the JWT middleware
func currentClaims(ctx echo.Context) (*service.JWTClaims, bool) {
	claims, ok := ctx.Get(ClaimsContextKey).(*service.JWTClaims)
	return claims, ok && claims != nil
}

func unauthorized(ctx echo.Context, details string) error {
	return ctx.JSON(http.StatusUnauthorized, map[string]interface{}{
		"error":   "Unauthorized",
		"details": details,
	})
}
