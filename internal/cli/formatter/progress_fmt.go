package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/taskmate/internal/domain"
)

const levelBarWidth = 20

// FormatProgress renders points, level and a bar towards the next level.
func FormatProgress(p domain.UserProgress) string {
	info := domain.LevelInfo{Level: p.Level, Progress: p.Progress, RequiredPoints: p.RequiredPoints}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s %s\n", Dim("Points"), Bold(strconv.Itoa(p.Points))))
	b.WriteString(fmt.Sprintf("%s  %s\n\n", Dim("Level"), StyleHeader.Render(strconv.Itoa(p.Level))))
	b.WriteString(RenderProgress(info.Fraction(), levelBarWidth) + "\n")
	b.WriteString(Dim(fmt.Sprintf("%d/%d, %d points to level %d", p.Progress, p.RequiredPoints, info.PointsToNext(), p.Level+1)))
	return RenderBox("Progress", b.String())
}

func levelLine(p domain.UserProgress) string {
	info := domain.LevelInfo{Level: p.Level, Progress: p.Progress, RequiredPoints: p.RequiredPoints}
	return fmt.Sprintf("%s %s %s",
		StyleHeader.Render(fmt.Sprintf("Level %d", p.Level)),
		RenderCompactBar(info.Fraction(), 10),
		Dim(fmt.Sprintf("%d/%d", p.Progress, p.RequiredPoints)))
}

// FormatLogs renders the points history, newest first.
func FormatLogs(logs []*domain.PointsLogEntry, now time.Time) string {
	if len(logs) == 0 {
		return Dim("No points earned yet.") + "\n"
	}
	rows := make([][]string, len(logs))
	for i, l := range logs {
		rows[i] = []string{HumanTimestamp(l.Timestamp, now), SignedPoints(l.Points), l.Description}
	}
	return RenderTable([]string{"WHEN", "POINTS", "DESCRIPTION"}, rows)
}

// FormatLeaderboard ranks users and highlights currentUser.
func FormatLeaderboard(lb *domain.Leaderboard, currentUser string) string {
	if len(lb.Entries) == 0 {
		return Dim("Nobody has earned points yet.") + "\n"
	}
	rows := make([][]string, len(lb.Entries))
	for i, e := range lb.Entries {
		name := strings.TrimSpace(e.FirstName + " " + e.LastName)
		if e.UserID == currentUser {
			name = StyleGreen.Render(name + " (you)")
		}
		rows[i] = []string{rankBadge(e.Rank), name, strconv.Itoa(e.Level), strconv.Itoa(e.Points)}
	}
	var b strings.Builder
	b.WriteString(RenderTable([]string{"#", "NAME", "LEVEL", "POINTS"}, rows))
	b.WriteString("\n" + Dim(fmt.Sprintf("%d users with points", lb.TotalUsers)) + "\n")
	return b.String()
}

func rankBadge(rank int) string {
	switch rank {
	case 1:
		return StyleYellow.Render("1")
	case 2:
		return StyleFg.Render("2")
	case 3:
		return StyleHeader.Render("3")
	default:
		return Dim(strconv.Itoa(rank))
	}
}
