package container

import (
	"fmt"

	"godem/adapters/excel"
	"godem/adapters/rng"
	"godem/app"
	"godem/domain/emission"
	"godem/internal"
	"godem/internal/config"
	"godem/ports"
)

// Container holds the application's dependencies for one command run
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure
	Store *excel.Store
	RNG   ports.RNGPort

	// Services
	Inversion *app.InversionService
}

// New wires every component from cfg. logger may be nil, in which case one
// is built from cfg.Logging.
func New(cfg *config.Config, logger *internal.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		logger = internal.NewLogger(internal.ParseLogLevel(cfg.Logging.Level))
	}

	c := &Container{
		Config: cfg,
		Logger: logger,
		Store:  excel.NewStore(logger, emission.WithEdgeTolerance(cfg.Inversion.EdgeTolerance)),
		RNG:    rng.NewSeededAdapter(),
	}
	c.Inversion = app.NewInversionService(c.Store, c.Store, c.RNG, logger, cfg.Inversion)

	logger.Debug("[Container] Initialized (seed %d, edge tolerance %g K)", cfg.Inversion.Seed, cfg.Inversion.EdgeTolerance)
	return c, nil
}

// Shutdown flushes buffered log output
func (c *Container) Shutdown() {
	_ = c.Logger.Sync()
}
