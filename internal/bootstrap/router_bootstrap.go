package bootstrap

import (
	"fmt"

	"authd/internal/controller"
	"authd/internal/middleware"

	"github.com/gin-gonic/gin"
)

func (app *BootstrapApp) setupRouter() (*gin.Engine, error) {
	engine := gin.New()
	engine.Use(gin.Recovery())

	zerologMiddleware := middleware.NewZerologMiddleware()

	err := zerologMiddleware.Init()

	if err != nil {
		return nil, fmt.Errorf("failed to initialize zerolog middleware: %w", err)
	}

	engine.Use(zerologMiddleware.Middleware())

	authMiddleware := middleware.NewAuthMiddleware(app.services.authService)

	err = authMiddleware.Init()

	if err != nil {
		return nil, fmt.Errorf("failed to initialize auth middleware: %w", err)
	}

	engine.Use(authMiddleware.Middleware())

	apiRouter := engine.Group("/api")

	authController := controller.NewAuthController(controller.AuthControllerConfig{
		DevelopMode: app.config.DevelopMode,
	}, apiRouter, app.services.authService)

	authController.SetupRoutes()

	userController := controller.NewUserController(apiRouter, app.services.userService)

	userController.SetupRoutes()

	clientController := controller.NewClientController(apiRouter, app.services.clientService)

	clientController.SetupRoutes()

	healthController := controller.NewHealthController(apiRouter)

	healthController.SetupRoutes()

	return engine, nil
}
