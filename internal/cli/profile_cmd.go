package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/taskmate/internal/cli/formatter"
	"github.com/alexanderramin/taskmate/internal/domain"
)

func newProfileCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "profile",
		Aliases: []string{"whoami"},
		Short:   "Show the acting user's profile and level",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			u, err := app.Users.Current(ctx, app.user())
			if err != nil && !errors.Is(err, domain.ErrNotFound) {
				return err
			}
			if u == nil {
				u = &domain.User{ID: app.user()}
			}
			p, err := app.Progress.GetUserProgress(ctx, app.user())
			if err != nil {
				return err
			}

			var b strings.Builder
			fmt.Fprintf(&b, "%s  %s\n", formatter.Bold(u.DisplayName()), formatter.Dim(u.ID))
			if u.Email != "" {
				fmt.Fprintf(&b, "%s\n", u.Email)
			}
			b.WriteString(formatter.FormatProgress(p))
			fmt.Fprint(cmd.OutOrStdout(), b.String())
			return nil
		},
	}

	cmd.AddCommand(newProfileSetCmd(app))

	return cmd
}

// newProfileSetCmd edits the local profile the same way the identity
// webhook does. Unset flags keep their stored values.
func newProfileSetCmd(app *App) *cobra.Command {
	var first, last, email, image string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update your name, email or avatar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			u, err := app.Users.Current(ctx, app.user())
			switch {
			case errors.Is(err, domain.ErrNotFound):
				u = &domain.User{ID: app.user()}
			case err != nil:
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("first") {
				u.FirstName = first
			}
			if flags.Changed("last") {
				u.LastName = last
			}
			if flags.Changed("email") {
				u.Email = email
			}
			if flags.Changed("image") {
				u.ImageURL = image
			}

			if err := app.Users.UpsertFromIdentity(ctx, u); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved profile for %s\n", formatter.Bold(u.DisplayName()))
			return nil
		},
	}

	cmd.Flags().StringVar(&first, "first", "", "first name")
	cmd.Flags().StringVar(&last, "last", "", "last name")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&image, "image", "", "avatar URL")

	return cmd
}
