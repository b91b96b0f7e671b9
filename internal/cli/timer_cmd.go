package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/alexanderramin/taskmate/internal/cli/formatter"
	"github.com/alexanderramin/taskmate/internal/domain"
	"github.com/alexanderramin/taskmate/internal/service"
)

func newTimerCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "timer",
		Aliases: []string{"pomodoro"},
		Short:   "Run a Pomodoro timer; a full focus and break cycle earns points",
	}

	cmd.AddCommand(
		newTimerStartCmd(app),
		newTimerTransitionCmd(app, "pause", "Pause the running timer", func(a *App) timerOp { return a.Timer.Pause }),
		newTimerTransitionCmd(app, "resume", "Resume a paused timer", func(a *App) timerOp { return a.Timer.Resume }),
		newTimerStopCmd(app),
		newTimerStatusCmd(app),
		newTimerWatchCmd(app),
	)

	return cmd
}

type timerOp = func(ctx context.Context, userID string) (service.TimerSnapshot, error)

func newTimerStartCmd(app *App) *cobra.Command {
	var studyMin, breakMin int

	cmd := &cobra.Command{
		Use:   "start [name]",
		Short: "Start a focus session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("study") {
				studyMin = app.Config.Timer.StudyMinutes
			}
			if !cmd.Flags().Changed("break") {
				breakMin = app.Config.Timer.BreakMinutes
			}
			snap, err := app.Timer.Start(cmd.Context(), app.user(), strings.Join(args, " "), studyMin*60, breakMin*60)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTimer(snap.Session, snap.State))
			return nil
		},
	}

	cmd.Flags().IntVar(&studyMin, "study", 0, "focus minutes (default from config)")
	cmd.Flags().IntVar(&breakMin, "break", 0, "break minutes (default from config)")

	return cmd
}

func newTimerTransitionCmd(app *App, use, short string, op func(*App) timerOp) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := op(app)(cmd.Context(), app.user())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTimer(snap.Session, snap.State))
			return nil
		},
	}
}

func newTimerStopCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Discard the timer without earning points",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Timer.Stop(cmd.Context(), app.user()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Timer stopped.")
			return nil
		},
	}
}

// newTimerStatusCmd shows the timer. A cycle that has run out is
// completed and awarded here.
func newTimerStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the timer; completes a finished cycle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, awarded, err := app.Timer.Tick(cmd.Context(), app.user())
			if err != nil {
				return err
			}
			printTimerTick(cmd.OutOrStdout(), snap, awarded)
			return nil
		},
	}
}

func printTimerTick(w io.Writer, snap service.TimerSnapshot, awarded bool) {
	if awarded {
		fmt.Fprintln(w, formatter.StyleGreen.Render(fmt.Sprintf("Pomodoro complete! +%d points", domain.TimerCompletionPoints)))
		return
	}
	fmt.Fprint(w, formatter.FormatTimer(snap.Session, snap.State))
}

func newTimerWatchCmd(app *App) *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow the timer live until the cycle ends",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if app.interactive() {
				model := newTimerModel(ctx, app.Timer, app.user(), interval)
				final, err := tea.NewProgram(model, tea.WithContext(ctx), tea.WithOutput(cmd.OutOrStdout())).Run()
				if err != nil {
					return err
				}
				if m, ok := final.(*timerModel); ok && m.err != nil {
					return m.err
				}
				return nil
			}

			// Plain output prints one line per phase and the final result.
			out := cmd.OutOrStdout()
			var lastPhase domain.Phase
			var lastPaused bool
			watcher := service.NewTimerWatcher(app.Timer, app.user(), interval)
			return watcher.Run(ctx, func(snap service.TimerSnapshot, awarded bool) {
				switch {
				case awarded || snap.Session == nil:
					printTimerTick(out, snap, awarded)
				case snap.State.Phase != lastPhase || snap.State.Paused != lastPaused:
					lastPhase, lastPaused = snap.State.Phase, snap.State.Paused
					fmt.Fprintf(out, "%s %s remaining\n",
						formatter.PhaseBadge(snap.State.Phase), formatter.Clock(snap.State.RemainingSeconds))
				}
			})
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", time.Second, "refresh interval")

	return cmd
}
