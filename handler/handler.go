package handler

import (
	"chatlink-auth/config"
	"chatlink-auth/controller"
	_ "chatlink-auth/docs" // Import for swagger docs
	"chatlink-auth/pkg/logger"
	"chatlink-auth/service"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// Controllers groups the HTTP controllers mounted by RegisterRoutes
type Controllers struct {
	Registration *controller.RegistrationController
	Password     *controller.PasswordController
	Auth         *controller.AuthController
	Profile      *controller.ProfileController
	Health       *controller.HealthController
	Language     *controller.LanguageController
}

// RegisterRoutes registers all HTTP routes and middleware
func RegisterRoutes(
	e *echo.Echo,
	controllers Controllers,
	jwtService service.JWTService,
	cfg *config.Config,
	logger *logger.Logger,
) {
	// Add common middleware
	e.Use(middleware.Recover())
	e.Use(CORSMiddleware())
	e.Use(RequestLoggerMiddleware(logger))
	e.Use(JWTMiddleware(jwtService, logger))

	// System endpoints
	e.GET("/health", controllers.Health.HealthCheck)
	e.GET("/", controllers.Health.ServiceInfo)

	// Swagger documentation
	if cfg.Swagger.Enabled {
		e.GET("/swagger/*", echoSwagger.WrapHandler)
		e.GET("/docs/*", echoSwagger.WrapHandler)
	}

	// API v1 group
	v1 := e.Group("/api/v1")
	v1.GET("/languages", controllers.Language.List)

	authGroup := v1.Group("/auth")

	// Registration routes (public, keyed by transaction token)
	authGroup.POST("/register", controllers.Registration.Register)
	authGroup.POST("/register/verify", controllers.Registration.Verify)
	authGroup.POST("/register/resend", controllers.Registration.Resend)
	authGroup.DELETE("/register", controllers.Registration.Cancel)

	// Password reset routes (public, keyed by transaction token)
	authGroup.POST("/password/forgot", controllers.Password.Forgot)
	authGroup.POST("/password/verify", controllers.Password.Verify)
	authGroup.POST("/password/resend", controllers.Password.Resend)
	authGroup.POST("/password/reset", controllers.Password.Reset)
	authGroup.DELETE("/password", controllers.Password.Cancel)

	// Session routes
	authGroup.POST("/login", controllers.Auth.Login)
	authGroup.POST("/logout", controllers.Auth.Logout)

	// Profile routes (protected)
	profileGroup := v1.Group("/profile")
	profileGroup.GET("", controllers.Profile.GetProfile)
	profileGroup.PUT("", controllers.Profile.UpdateProfile)
	profileGroup.PUT("/learning-language", controllers.Profile.UpdateLearningLanguage)
}
