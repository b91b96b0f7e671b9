package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/taskmate/internal/cli/formatter"
	"github.com/alexanderramin/taskmate/internal/domain"
)

const (
	defaultNoteColor  = "#fff59d"
	defaultNoteColumn = "todo"
)

func newNoteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "note",
		Aliases: []string{"notes", "n"},
		Short:   "Manage sticky notes on your board",
	}

	cmd.AddCommand(
		newNoteAddCmd(app),
		newNoteListCmd(app),
		newNoteMoveCmd(app),
		newNoteRemoveCmd(app),
	)

	return cmd
}

func newNoteAddCmd(app *App) *cobra.Command {
	var desc, color, icon, column string
	var order int
	var pinned bool

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Pin a new sticky note",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n := &domain.StickyNote{
				Name:        strings.Join(args, " "),
				Description: desc,
				Color:       color,
				Icon:        icon,
				ColumnID:    column,
				IsPinned:    pinned,
				Position:    domain.NotePosition{Order: order},
			}
			if err := app.Notes.Add(cmd.Context(), app.user(), n); err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatNoteAdded(n))
			return nil
		},
	}

	cmd.Flags().StringVarP(&desc, "desc", "d", "", "note text")
	cmd.Flags().StringVar(&color, "color", defaultNoteColor, "note color")
	cmd.Flags().StringVar(&icon, "icon", "", "icon shown before the title")
	cmd.Flags().StringVar(&column, "column", defaultNoteColumn, "board column")
	cmd.Flags().IntVar(&order, "order", 0, "position within the column")
	cmd.Flags().BoolVar(&pinned, "pin", false, "pin the note")

	return cmd
}

func newNoteListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls", "board"},
		Short:   "Show your board",
		RunE: func(cmd *cobra.Command, args []string) error {
			notes, err := app.Notes.List(cmd.Context(), app.user())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatNoteBoard(notes))
			return nil
		},
	}
}

func newNoteMoveCmd(app *App) *cobra.Command {
	var column string
	var order int

	cmd := &cobra.Command{
		Use:   "move <id>",
		Short: "Move a note to another column or position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := app.resolveNoteID(ctx, args[0])
			if err != nil {
				return err
			}
			move := domain.NoteMove{ID: id, ColumnID: column, Position: domain.NotePosition{Order: order}}
			if err := app.Notes.UpdateOrder(ctx, app.user(), []domain.NoteMove{move}); err != nil {
				return err
			}
			where := column
			if where == "" {
				where = "its column"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moved note %s to %s at %d\n", formatter.TruncID(id), where, order)
			return nil
		},
	}

	cmd.Flags().StringVar(&column, "column", "", "target column (default: keep)")
	cmd.Flags().IntVar(&order, "order", 0, "position within the column")

	return cmd
}

func newNoteRemoveCmd(app *App) *cobra.Command {
	var all, yes bool

	cmd := &cobra.Command{
		Use:     "rm [id]",
		Aliases: []string{"remove"},
		Short:   "Delete a note, or every note with --all",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if all {
				ok, err := app.confirm("Delete all your notes?", yes)
				if err != nil || !ok {
					return err
				}
				n, err := app.Notes.RemoveAll(ctx, app.user())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d notes\n", n)
				return nil
			}
			if len(args) == 0 {
				return fmt.Errorf("note id is required (or pass --all)")
			}
			id, err := app.resolveNoteID(ctx, args[0])
			if err != nil {
				return err
			}
			if err := app.Notes.Remove(ctx, app.user(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted note %s\n", formatter.TruncID(id))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "delete every note")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation")

	return cmd
}
