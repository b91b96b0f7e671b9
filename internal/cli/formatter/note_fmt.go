package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/taskmate/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

const noteCardWidth = 28

// FormatNoteBoard renders notes grouped by column, in board order. The
// notes must already be sorted by column then position.
func FormatNoteBoard(notes []*domain.StickyNote) string {
	if len(notes) == 0 {
		return Dim("No sticky notes yet.") + "\n"
	}

	var columns []string
	cards := map[string][]string{}
	for _, n := range notes {
		if _, seen := cards[n.ColumnID]; !seen {
			columns = append(columns, n.ColumnID)
		}
		cards[n.ColumnID] = append(cards[n.ColumnID], noteCard(n))
	}

	rendered := make([]string, len(columns))
	for i, col := range columns {
		body := Header(col) + "\n" + strings.Join(cards[col], "\n")
		rendered[i] = lipgloss.NewStyle().MarginRight(2).Render(body)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...) + "\n"
}

func noteCard(n *domain.StickyNote) string {
	border := ColorDim
	if n.Color != "" {
		border = lipgloss.Color(n.Color)
	}
	title := Truncate(n.Name, noteCardWidth-4)
	if n.Icon != "" {
		title = n.Icon + " " + title
	}
	if n.IsPinned {
		title = "📌 " + title
	}
	body := Bold(title) + "\n" + TruncID(n.ID)
	if n.Description != "" {
		body += "\n" + lipgloss.NewStyle().Width(noteCardWidth-4).Render(n.Description)
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Width(noteCardWidth).
		Padding(0, 1).
		Render(body)
}

// FormatNoteAdded confirms a created note.
func FormatNoteAdded(n *domain.StickyNote) string {
	return fmt.Sprintf("Added note %s to %s (%s)\n", Bold(n.Name), StyleBlue.Render(n.ColumnID), TruncID(n.ID))
}
