package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/taskmate/internal/cli/formatter"
	"github.com/alexanderramin/taskmate/internal/domain"
)

// taskmateHuhTheme matches huh forms to the formatter palette.
func taskmateHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// taskInput is the raw text of a new task, from flags or the form.
type taskInput struct {
	Name        string
	Category    string
	Color       string
	Priority    string
	Description string
	Due         string
	At          string
	Tags        []string
	Subtasks    []string
}

// toTask parses the text fields. Field rules beyond parsing are left to
// the task service.
func (in taskInput) toTask(now time.Time) (*domain.Task, error) {
	cat, err := parseCategory(in.Category, in.Color)
	if err != nil {
		return nil, err
	}
	t := &domain.Task{
		Name:        in.Name,
		Category:    cat,
		Description: in.Description,
		Priority:    domain.Priority(strings.ToLower(in.Priority)),
		Tags:        in.Tags,
		DueTime:     in.At,
	}
	for _, title := range in.Subtasks {
		t.Subtasks = append(t.Subtasks, domain.Subtask{Title: title})
	}
	if in.Due != "" {
		d, err := parseDay(in.Due, now)
		if err != nil {
			return nil, err
		}
		t.DueDate = &d
	}
	return t, nil
}

// parseCategory accepts a preset name in any case, or a custom name when
// a color is given.
func parseCategory(name, color string) (domain.Category, error) {
	name = strings.TrimSpace(name)
	if color != "" {
		return domain.CustomCategory(name, color)
	}
	if name == "" {
		return domain.NamedCategory(domain.PresetWork), nil
	}
	for p := range domain.ValidPresets {
		if strings.EqualFold(string(p), name) {
			return domain.NamedCategory(p), nil
		}
	}
	return domain.Category{}, &domain.ValidationError{
		Field:   "category",
		Message: fmt.Sprintf("%q is not a preset; pass --color to create a custom category", name),
	}
}

// parseDay accepts YYYY-MM-DD, "today" or "tomorrow".
func parseDay(s string, now time.Time) (time.Time, error) {
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	switch strings.ToLower(s) {
	case "today":
		return today, nil
	case "tomorrow":
		return today.AddDate(0, 0, 1), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, &domain.ValidationError{Field: "due", Message: "use YYYY-MM-DD, today or tomorrow"}
	}
	return t, nil
}

func validateTaskName(s string) error {
	if len([]rune(strings.TrimSpace(s))) < 3 {
		return fmt.Errorf("at least 3 letters")
	}
	return nil
}

func validateOptionalDay(s string) error {
	if s == "" {
		return nil
	}
	if _, err := parseDay(s, time.Now()); err != nil {
		return fmt.Errorf("use YYYY-MM-DD")
	}
	return nil
}

func validateOptionalClock(s string) error {
	if s == "" {
		return nil
	}
	if _, err := time.Parse(domain.DueTimeLayout, s); err != nil {
		return fmt.Errorf("use HH:MM")
	}
	return nil
}

// newTaskForm collects a task interactively into in.
func newTaskForm(in *taskInput) *huh.Form {
	presets := []domain.PresetCategory{
		domain.PresetWork, domain.PresetSport, domain.PresetReading,
		domain.PresetLearning, domain.PresetWorship,
	}
	catOptions := make([]huh.Option[string], len(presets))
	for i, p := range presets {
		catOptions[i] = huh.NewOption(string(p), string(p))
	}
	if in.Category == "" {
		in.Category = string(domain.PresetWork)
	}
	if in.Priority == "" {
		in.Priority = string(domain.PriorityMedium)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Task").Placeholder("Read two chapters").Value(&in.Name).Validate(validateTaskName),
			huh.NewSelect[string]().Title("Category").Options(catOptions...).Value(&in.Category),
			huh.NewSelect[string]().Title("Priority").Options(
				huh.NewOption("High", string(domain.PriorityHigh)),
				huh.NewOption("Medium", string(domain.PriorityMedium)),
				huh.NewOption("Low", string(domain.PriorityLow)),
			).Value(&in.Priority),
		),
		huh.NewGroup(
			huh.NewText().Title("Description (optional)").Value(&in.Description),
			huh.NewInput().Title("Due date (YYYY-MM-DD, blank for none)").Value(&in.Due).Validate(validateOptionalDay),
			huh.NewInput().Title("Due time (HH:MM, optional)").Value(&in.At).Validate(validateOptionalClock),
		),
	).WithTheme(taskmateHuhTheme()).WithShowHelp(false)
}

// confirm asks a yes/no question. Non-interactive callers must pass --yes.
func (a *App) confirm(title string, yes bool) (bool, error) {
	if yes {
		return true, nil
	}
	if !a.interactive() {
		return false, fmt.Errorf("%s: pass --yes to confirm", strings.TrimSuffix(title, "?"))
	}
	ok := false
	err := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().Title(title).Affirmative("Yes").Negative("No").Value(&ok),
	)).WithTheme(taskmateHuhTheme()).WithShowHelp(false).Run()
	return ok, err
}
