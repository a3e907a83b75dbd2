package handler

import (
	"net/http"
	"strings"
	"time"

	"chatlink-auth/controller"
	"chatlink-auth/pkg/logger"
	"chatlink-auth/service"

	"github.com/labstack/echo/v4"
)

// JWTMiddleware creates a JWT authentication middleware
func JWTMiddleware(jwtService service.JWTService, logger *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// Skip authentication for public endpoints
			path := c.Request().URL.Path
			if isPublicPath(path) {
				return next(c)
			}

			// Get Authorization header
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				logger.Warnw("Missing Authorization header", "path", path)
				return c.JSON(http.StatusUnauthorized, map[string]interface{}{
					"error":   "Unauthorized",
					"details": "Missing Authorization header",
				})
			}

			// Check Bearer token format
			if !strings.HasPrefix(authHeader, "Bearer ") {
				logger.Warnw("Invalid Authorization header format", "path", path)
				return c.JSON(http.StatusUnauthorized, map[string]interface{}{
					"error":   "Unauthorized",
					"details": "Invalid Authorization header format",
				})
			}

			// Extract token
			tokenString := authHeader[7:] // Remove "Bearer " prefix

			// Validate token
			claims, err := jwtService.ValidateToken(c.Request().Context(), tokenString)
			if err != nil {
				logger.Warnw("Invalid JWT token", "path", path, "error", err)
				return c.JSON(http.StatusUnauthorized, map[string]interface{}{
					"error":   "Unauthorized",
					"details": "Invalid or expired token",
				})
			}

			c.Set(controller.ClaimsContextKey, claims)
			c.Set(controller.TokenContextKey, tokenString)

			logger.Debugw("JWT authentication successful", "user_id", claims.UserID, "path", path)
			return next(c)
		}
	}
}

// isPublicPath reports whether a path is reachable without a bearer token.
// Registration and password reset are authenticated by their transaction token instead.
func isPublicPath(path string) bool {
	switch {
	case strings.HasPrefix(path, "/api/v1/auth/register"),
		strings.HasPrefix(path, "/api/v1/auth/password"),
		path == "/api/v1/auth/login",
		path == "/api/v1/languages",
		strings.HasPrefix(path, "/swagger"),
		strings.HasPrefix(path, "/docs"),
		path == "/",
		path == "/health":
		return true
	}
	return false
}

// CORSMiddleware creates a CORS middleware
func CORSMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set("Access-Control-Allow-Origin", "*")
			c.Response().Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			c.Response().Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

			if c.Request().Method == "OPTIONS" {
				return c.NoContent(http.StatusNoContent)
			}

			return next(c)
		}
	}
}

// RequestLoggerMiddleware creates a request logging middleware
func RequestLoggerMiddleware(logger *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			logger.Debugw("HTTP Request",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"remote_addr", c.RealIP(),
				"user_agent", c.Request().UserAgent(),
			)

			err := next(c)

			logger.Infow("HTTP Response",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", c.Response().Status,
				"latency", time.Since(start),
			)

			return err
		}
	}
}
