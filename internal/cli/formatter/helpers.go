package formatter

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		Padding(1, 2)

	if title == "" {
		return box.Render(content)
	}
	return box.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
}

// RelativeDay describes a calendar day relative to now: "Today",
// "Tomorrow", "In 3d", "2d ago". Days are compared by date, not by hours.
func RelativeDay(day, now time.Time) string {
	days := daysBetween(now, day)
	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Tomorrow"
	case days == -1:
		return "Yesterday"
	case days > 0 && days < 14:
		return fmt.Sprintf("In %dd", days)
	case days > 0:
		return fmt.Sprintf("In %dw", days/7)
	case days > -14:
		return fmt.Sprintf("%dd ago", -days)
	default:
		return fmt.Sprintf("%dw ago", -days/7)
	}
}

// DueStyled colors a due date by urgency. Completed tasks are dimmed.
func DueStyled(due *time.Time, dueTime string, completed bool, now time.Time) string {
	if due == nil {
		return Dim("--")
	}
	text := RelativeDay(*due, now)
	if dueTime != "" {
		text += " " + dueTime
	}
	if completed {
		return Dim(text)
	}
	switch days := daysBetween(now, *due); {
	case days < 0:
		return StyleRed.Render(text + " (overdue)")
	case days <= 1:
		return StyleRed.Render(text)
	case days <= 7:
		return StyleYellow.Render(text)
	default:
		return StyleFg.Render(text)
	}
}

// daysBetween counts calendar days from a to b in a's location.
func daysBetween(a, b time.Time) int {
	ya, ma, da := a.Date()
	yb, mb, db := b.Date()
	start := time.Date(ya, ma, da, 0, 0, 0, 0, time.UTC)
	end := time.Date(yb, mb, db, 0, 0, 0, 0, time.UTC)
	return int(math.Round(end.Sub(start).Hours() / 24))
}

// HumanTimestamp returns "Just now", "5m ago", "3h ago" or a date.
func HumanTimestamp(t, now time.Time) string {
	diff := now.Sub(t)
	switch {
	case diff < 0:
		return t.Format("Jan 2, 2006")
	case diff < time.Minute:
		return "Just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case daysBetween(t, now) == 1:
		return "Yesterday"
	default:
		return t.Format("Jan 2, 2006")
	}
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// Clock formats seconds as MM:SS, or H:MM:SS past an hour.
func Clock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h, m, s := seconds/3600, seconds/60%60, seconds%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// SignedPoints renders +10 in green and -10 in red.
func SignedPoints(n int) string {
	if n < 0 {
		return StyleRed.Render(fmt.Sprintf("%d", n))
	}
	return StyleGreen.Render(fmt.Sprintf("+%d", n))
}

// Truncate shortens s to max runes with an ellipsis.
func Truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max || max < 2 {
		return s
	}
	return string(r[:max-1]) + "…"
}
