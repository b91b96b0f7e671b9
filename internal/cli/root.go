package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/taskmate/internal/config"
)

// Command annotations. skipConnect commands run without opening the
// database; skipConfig commands also skip loading the config file.
const (
	skipConnect = "taskmate/skip-connect"
	skipConfig  = "taskmate/skip-config"
)

// NewRootCmd creates the top-level "taskmate" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "taskmate",
		Short:         "Tasks, sticky notes and a Pomodoro timer that earn you points",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.prepare(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return app.Release()
		},
	}

	root.PersistentFlags().String("user", "", "acting user id (overrides config and TASKMATE_USER)")
	root.PersistentFlags().String("config", "", "config file (default ~/.taskmate/taskmate.toml)")
	root.PersistentFlags().String("db", "", "database path (overrides config and TASKMATE_DB)")

	root.AddCommand(
		newTaskCmd(app),
		newNoteCmd(app),
		newTimerCmd(app),
		newProgressCmd(app),
		newLogsCmd(app),
		newLeaderboardCmd(app),
		newProfileCmd(app),
		newServeCmd(app),
		newConfigCmd(app),
	)

	return root
}

// prepare resolves config (file, env, flags) and connects the runtime.
func (a *App) prepare(cmd *cobra.Command) error {
	if cmd.Annotations[skipConfig] == "true" {
		return nil
	}
	if a.Config == nil {
		path, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(path)
		if err != nil {
			return err
		}
		a.Config = cfg
	}
	if err := a.Config.ApplyFlags(cmd.Flags()); err != nil {
		return err
	}

	if cmd.Annotations[skipConnect] == "true" || a.Runtime != nil {
		return nil
	}
	if a.Connect == nil {
		return errors.New("no runtime configured")
	}
	rt, err := a.Connect(a.Config)
	if err != nil {
		return fmt.Errorf("opening taskmate: %w", err)
	}
	a.Runtime = rt
	a.connected = true
	return nil
}

// Release closes a runtime opened by prepare. Runtimes supplied by the
// caller are left open.
func (a *App) Release() error {
	if !a.connected || a.Runtime == nil || a.Runtime.Close == nil {
		return nil
	}
	a.connected = false
	return a.Runtime.Close()
}
