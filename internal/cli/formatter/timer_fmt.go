package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/taskmate/internal/domain"
)

// FormatTimer renders a timer session and its reconciled state. A nil
// session is the idle timer.
func FormatTimer(s *domain.TimerSession, st domain.TimerState) string {
	if s == nil || st.Idle() {
		return Dim("No timer running. Start one with `taskmate timer start`.") + "\n"
	}
	if st.Completed {
		return StyleGreen.Render(fmt.Sprintf("✔ %s finished", s.Name)) + "\n"
	}

	status := StyleGreen.Render("running")
	if st.Paused {
		status = StyleYellow.Render("paused")
	}
	total := s.PhaseSeconds(st.Phase)
	elapsed := 0.0
	if total > 0 {
		elapsed = float64(total-st.RemainingSeconds) / float64(total)
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s  %s  %s\n", Bold(s.Name), PhaseBadge(st.Phase), status))
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleHeader.Render(Clock(st.RemainingSeconds)), RenderCompactBar(elapsed, 20)))
	b.WriteString(Dim(fmt.Sprintf("focus %s, break %s", Clock(s.StudySeconds), Clock(s.BreakSeconds))) + "\n")
	return b.String()
}
