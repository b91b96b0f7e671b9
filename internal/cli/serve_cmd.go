package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/taskmate/internal/api"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return app.serve(ctx, cmd)
		},
	}

	cmd.Flags().String("addr", "", "listen address (overrides config and TASKMATE_ADDR)")

	return cmd
}

// serve runs the API until ctx is cancelled, then drains in-flight
// requests.
func (a *App) serve(ctx context.Context, cmd *cobra.Command) error {
	cfg := a.Config
	opts := api.Options{
		IdentityHeader: cfg.Server.IdentityHeader,
		WebhookHeader:  cfg.Server.WebhookHeader,
		WebhookSecret:  cfg.Server.WebhookSecret,
		StudySeconds:   cfg.Timer.StudyMinutes * 60,
		BreakSeconds:   cfg.Timer.BreakMinutes * 60,
		Logger:         a.logger(),
	}
	if cfg.Server.Metrics {
		opts.Metrics = a.Metrics
	}

	ln, err := net.Listen("tcp", cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", cfg.Server.Addr, err)
	}
	srv := &http.Server{
		Handler:           api.NewServer(a.Services, opts).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger := a.logger()
	if cfg.Server.WebhookSecret == "" {
		logger.Warn("identity webhook disabled, no webhook secret configured")
	}
	logger.Info("taskmate API listening", "addr", ln.Addr().String())
	fmt.Fprintf(cmd.OutOrStdout(), "Listening on http://%s\n", ln.Addr())

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}
