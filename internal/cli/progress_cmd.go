package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/taskmate/internal/cli/formatter"
)

func newProgressCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "progress",
		Aliases: []string{"level"},
		Short:   "Show your points and level",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.Progress.GetUserProgress(cmd.Context(), app.user())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatProgress(p))
			return nil
		},
	}
}

func newLogsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "logs",
		Aliases: []string{"history"},
		Short:   "Show the points history, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logs, err := app.Progress.GetUserLogs(cmd.Context(), app.user())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatLogs(logs, app.now()))
			return nil
		},
	}
}

func newLeaderboardCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:     "leaderboard",
		Aliases: []string{"top"},
		Short:   "Rank users by points",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lb, err := app.Progress.Leaderboard(cmd.Context(), limit)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatLeaderboard(lb, app.user()))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "number of users to show")

	return cmd
}
