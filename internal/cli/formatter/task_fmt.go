package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/taskmate/internal/domain"
)

// FormatTaskList renders tasks as a table with a done/open summary.
func FormatTaskList(tasks []*domain.Task, now time.Time) string {
	if len(tasks) == 0 {
		return Dim("No tasks found.") + "\n"
	}

	headers := []string{"ID", "", "NAME", "CATEGORY", "PRIORITY", "SUBTASKS", "DUE"}
	rows := make([][]string, 0, len(tasks))
	done := 0
	for _, t := range tasks {
		name := StyleFg.Render(Truncate(t.Name, 40))
		if t.IsCompleted {
			done++
			name = Dim(Truncate(t.Name, 40))
		}
		rows = append(rows, []string{
			TruncID(t.ID),
			checkbox(t.IsCompleted),
			name,
			CategoryBadge(t.Category),
			PriorityBadge(t.Priority),
			subtaskSummary(t),
			DueStyled(t.DueDate, t.DueTime, t.IsCompleted, now),
		})
	}

	var b strings.Builder
	b.WriteString(RenderTable(headers, rows))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s, %s\n",
		StyleGreen.Render(fmt.Sprintf("%d done", done)),
		StyleYellow.Render(fmt.Sprintf("%d open", len(tasks)-done))))
	return b.String()
}

// FormatTask renders one task with its description, subtasks and tags.
func FormatTask(t *domain.Task, now time.Time) string {
	var b strings.Builder
	b.WriteString(checkbox(t.IsCompleted) + " " + Bold(t.Name) + "\n\n")

	field := func(label, value string) {
		b.WriteString(fmt.Sprintf("%s %s\n", Dim(fmt.Sprintf("%-10s", label)), value))
	}
	field("ID", StyleDim.Render(t.ID))
	field("Category", CategoryBadge(t.Category))
	field("Priority", PriorityBadge(t.Priority))
	field("Due", DueStyled(t.DueDate, t.DueTime, t.IsCompleted, now))
	if len(t.Tags) > 0 {
		tags := make([]string, len(t.Tags))
		for i, tag := range t.Tags {
			tags[i] = StylePurple.Render("#" + tag)
		}
		field("Tags", strings.Join(tags, " "))
	}
	field("Created", HumanTimestamp(t.CreatedAt, now))

	if t.Description != "" {
		b.WriteString("\n" + t.Description + "\n")
	}
	if len(t.Subtasks) > 0 {
		done, total := t.SubtaskProgress()
		b.WriteString(fmt.Sprintf("\n%s %s\n", Header("Subtasks"), Dim(fmt.Sprintf("%d/%d", done, total))))
		for _, st := range t.Subtasks {
			b.WriteString(fmt.Sprintf("  %s %s\n", checkbox(st.IsCompleted), st.Title))
		}
	}
	return RenderBox("Task", b.String())
}

// FormatToggle reports a completion flip and the resulting progress.
func FormatToggle(t *domain.Task, p domain.UserProgress) string {
	delta := domain.TaskCompletionPoints
	verb := "Completed"
	if !t.IsCompleted {
		delta = -delta
		verb = "Reopened"
	}
	return fmt.Sprintf("%s %s %s\n%s\n",
		verb, Bold(t.Name), SignedPoints(delta),
		levelLine(p))
}

func checkbox(done bool) string {
	if done {
		return StyleGreen.Render("✔")
	}
	return StyleDim.Render("○")
}

func subtaskSummary(t *domain.Task) string {
	done, total := t.SubtaskProgress()
	if total == 0 {
		return Dim("--")
	}
	text := fmt.Sprintf("%d/%d", done, total)
	if done == total {
		return StyleGreen.Render(text)
	}
	return StyleFg.Render(text)
}
