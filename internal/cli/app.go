package cli

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/alexanderramin/taskmate/internal/api"
	"github.com/alexanderramin/taskmate/internal/config"
)

// Runtime is the wired service graph for one resolved config.
type Runtime struct {
	api.Services
	// Metrics backs /metrics; nil disables the endpoint.
	Metrics prometheus.Gatherer
	Logger  *slog.Logger
	// Close releases the database; may be nil.
	Close func() error
}

// App holds everything CLI commands need. Config and Runtime are filled
// lazily from flags unless a test sets them up front.
type App struct {
	*Runtime
	Config *config.Config

	// Connect builds the runtime after config and flags are resolved.
	Connect func(cfg *config.Config) (*Runtime, error)

	// IsInteractive reports whether stdin is a terminal. Forms and the
	// live timer view only run when it returns true.
	IsInteractive func() bool

	// Now is the clock used for relative dates in output.
	Now func() time.Time

	connected bool
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) user() string {
	if a.Config == nil {
		return ""
	}
	return a.Config.User
}

func (a *App) logger() *slog.Logger {
	if a.Runtime != nil && a.Runtime.Logger != nil {
		return a.Runtime.Logger
	}
	return slog.Default()
}
