package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexanderramin/taskmate/internal/cli/formatter"
	"github.com/alexanderramin/taskmate/internal/domain"
	"github.com/alexanderramin/taskmate/internal/service"
)

type timerTickMsg time.Time

// timerSnapshotMsg carries the result of a service call. Manual results
// come from key presses and do not schedule another tick.
type timerSnapshotMsg struct {
	snap    service.TimerSnapshot
	awarded bool
	stopped bool
	manual  bool
	err     error
}

// timerModel is the live `timer watch` view. All timer state lives in the
// stored session; the model only polls Tick and renders.
type timerModel struct {
	ctx      context.Context
	timer    service.TimerService
	userID   string
	interval time.Duration

	snap    service.TimerSnapshot
	awarded bool
	stopped bool
	err     error
	bar     progress.Model
}

func newTimerModel(ctx context.Context, timer service.TimerService, userID string, interval time.Duration) *timerModel {
	if interval <= 0 {
		interval = time.Second
	}
	return &timerModel{
		ctx:      ctx,
		timer:    timer,
		userID:   userID,
		interval: interval,
		bar: progress.New(
			progress.WithSolidFill(string(formatter.ColorHeader)),
			progress.WithWidth(40),
			progress.WithoutPercentage(),
		),
	}
}

func timerTickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return timerTickMsg(t) })
}

func (m *timerModel) poll() tea.Cmd {
	return func() tea.Msg {
		snap, awarded, err := m.timer.Tick(m.ctx, m.userID)
		return timerSnapshotMsg{snap: snap, awarded: awarded, err: err}
	}
}

// togglePause pauses a running timer and resumes a paused one.
func (m *timerModel) togglePause() tea.Cmd {
	paused := m.snap.State.Paused
	return func() tea.Msg {
		op := m.timer.Pause
		if paused {
			op = m.timer.Resume
		}
		snap, err := op(m.ctx, m.userID)
		return timerSnapshotMsg{snap: snap, manual: true, err: err}
	}
}

func (m *timerModel) stop() tea.Cmd {
	return func() tea.Msg {
		err := m.timer.Stop(m.ctx, m.userID)
		return timerSnapshotMsg{stopped: true, manual: true, err: err}
	}
}

func (m *timerModel) Init() tea.Cmd {
	return m.poll()
}

func (m *timerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "p", " ":
			if m.snap.Session != nil {
				return m, m.togglePause()
			}
		case "s":
			return m, m.stop()
		}
	case tea.WindowSizeMsg:
		m.bar.Width = max(10, min(msg.Width-4, 60))
	case timerTickMsg:
		return m, m.poll()
	case timerSnapshotMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		if msg.stopped {
			m.stopped = true
			m.snap = service.TimerSnapshot{}
			return m, tea.Quit
		}
		m.snap = msg.snap
		m.awarded = m.awarded || msg.awarded
		if m.snap.Session == nil {
			return m, tea.Quit
		}
		if msg.manual {
			return m, nil
		}
		return m, timerTickCmd(m.interval)
	}
	return m, nil
}

// fraction is how much of the current phase has elapsed.
func (m *timerModel) fraction() float64 {
	s := m.snap.Session
	if s == nil {
		return 0
	}
	total := s.PhaseSeconds(m.snap.State.Phase)
	if total <= 0 {
		return 1
	}
	return float64(total-m.snap.State.RemainingSeconds) / float64(total)
}

func (m *timerModel) View() string {
	switch {
	case m.err != nil:
		return formatter.StyleRed.Render("Error: "+m.err.Error()) + "\n"
	case m.stopped:
		return "Timer stopped.\n"
	case m.awarded:
		return formatter.StyleGreen.Render(fmt.Sprintf("Pomodoro complete! +%d points", domain.TimerCompletionPoints)) + "\n"
	case m.snap.Session == nil:
		return formatter.Dim("No timer running.") + "\n"
	}

	s, st := m.snap.Session, m.snap.State
	var b strings.Builder
	b.WriteString(formatter.Bold(s.Name) + "  " + formatter.PhaseBadge(st.Phase))
	if st.Paused {
		b.WriteString("  " + formatter.StyleYellow.Render("paused"))
	}
	b.WriteString("\n\n")
	b.WriteString(formatter.StyleHeader.Render(formatter.Clock(st.RemainingSeconds)) + "  " + m.bar.ViewAs(m.fraction()) + "\n\n")
	b.WriteString(formatter.Dim("p pause/resume • s stop • q quit") + "\n")
	return b.String()
}
