package bootstrap

import (
	"fmt"

	"authd/internal/config"

	"github.com/rs/zerolog/log"
)

type BootstrapApp struct {
	config   config.Config
	services Services
}

func NewBootstrapApp(config config.Config) *BootstrapApp {
	return &BootstrapApp{
		config: config,
	}
}

// Setup wires the services and starts serving. Configuration is immutable
// from this point on.
func (app *BootstrapApp) Setup() error {
	services, err := app.initServices()

	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	app.services = services

	engine, err := app.setupRouter()

	if err != nil {
		return fmt.Errorf("failed to setup router: %w", err)
	}

	log.Info().Str("address", app.config.Address).Int("port", app.config.Port).Str("version", config.Version).Msg("Starting server")

	return engine.Run(fmt.Sprintf("%s:%d", app.config.Address, app.config.Port))
}
