package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/alexanderramin/taskmate/internal/cli"
	"github.com/alexanderramin/taskmate/internal/config"
	"github.com/alexanderramin/taskmate/internal/db"
	"github.com/alexanderramin/taskmate/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	app := &cli.App{Connect: connect}

	// Forms and the live timer view only run on a terminal.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	err := cli.NewRootCmd(app).Execute()
	// PersistentPostRun is skipped when a command fails.
	if cerr := app.Release(); err == nil {
		err = cerr
	}
	return err
}

// connect opens the database named by the resolved config and wires the
// services with logging and metrics observers.
func connect(cfg *config.Config) (*cli.Runtime, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	database, err := db.OpenDB(cfg.DB.Path)
	if err != nil {
		return nil, err
	}

	// Use-case events are opt-in so CLI output stays clean.
	var observer service.UseCaseObserver
	if cfg.Log.UseCases {
		observer = service.NewSlogUseCaseObserver(logger)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return cli.NewRuntime(database, nil, logger, reg, observer), nil
}
