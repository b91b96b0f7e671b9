package domain

import "time"

type Phase string

const (
	PhaseFocus Phase = "focus"
	PhaseBreak Phase = "break"
)

const (
	DefaultStudySeconds = 25 * 60
	DefaultBreakSeconds = 5 * 60
)

// TimerSession is the persisted Pomodoro cycle of one user. StartedAt marks
// the start of the focus phase and is shifted forward on every resume, so
// the whole cycle can be re-derived from absolute timestamps.
type TimerSession struct {
	UserID       string
	Name         string
	StudySeconds int
	BreakSeconds int
	StartedAt    time.Time
	PausedAt     *time.Time
	Phase        Phase
	CreatedAt    time.Time
}

// NewTimerSession validates durations and returns a running session.
func NewTimerSession(userID, name string, studySeconds, breakSeconds int, now time.Time) (*TimerSession, error) {
	if studySeconds <= 0 {
		return nil, invalid("studyTime", "must be greater than zero")
	}
	if breakSeconds < 0 {
		return nil, invalid("breakTime", "must not be negative")
	}
	if name == "" {
		name = "Pomodoro Session"
	}
	return &TimerSession{
		UserID:       userID,
		Name:         name,
		StudySeconds: studySeconds,
		BreakSeconds: breakSeconds,
		StartedAt:    now,
		Phase:        PhaseFocus,
		CreatedAt:    now,
	}, nil
}

// IsPaused reports whether a pause marker is set.
func (s *TimerSession) IsPaused() bool {
	return s.PausedAt != nil
}

// TotalSeconds is the full focus+break cycle length.
func (s *TimerSession) TotalSeconds() int {
	return s.StudySeconds + s.BreakSeconds
}

// Pause sets the pause marker. Pausing a paused session is a no-op.
func (s *TimerSession) Pause(now time.Time) {
	if s.IsPaused() {
		return
	}
	p := now
	s.PausedAt = &p
	s.Phase = Reconcile(s, now).Phase
}

// Resume shifts StartedAt forward by the paused interval and clears the
// pause marker. Resuming a running session is a no-op.
func (s *TimerSession) Resume(now time.Time) {
	if !s.IsPaused() {
		return
	}
	paused := now.Sub(*s.PausedAt)
	if paused > 0 {
		s.StartedAt = s.StartedAt.Add(paused)
	}
	s.PausedAt = nil
	s.Phase = Reconcile(s, now).Phase
}

// TimerState is the live view of a timer derived by Reconcile.
type TimerState struct {
	RemainingSeconds int
	Phase            Phase
	Running          bool
	Paused           bool
	Completed        bool
}

// Idle reports whether there is nothing to show.
func (t TimerState) Idle() bool {
	return !t.Running && !t.Paused && !t.Completed
}

// Reconcile derives the live timer state from persisted timestamps. It is a
// pure function of its inputs; a nil session yields the idle state.
func Reconcile(s *TimerSession, now time.Time) TimerState {
	if s == nil {
		return TimerState{Phase: PhaseFocus}
	}

	ref := now
	if s.IsPaused() {
		ref = *s.PausedAt
	}
	elapsed := int(ref.Sub(s.StartedAt) / time.Second)
	if elapsed < 0 {
		elapsed = 0
	}

	var st TimerState
	switch {
	case elapsed < s.StudySeconds:
		st.Phase = PhaseFocus
		st.RemainingSeconds = s.StudySeconds - elapsed
	case elapsed < s.TotalSeconds():
		st.Phase = PhaseBreak
		st.RemainingSeconds = s.BreakSeconds - (elapsed - s.StudySeconds)
	default:
		return TimerState{Phase: PhaseBreak, Completed: true}
	}

	if s.IsPaused() {
		st.Paused = true
	} else {
		st.Running = true
	}
	return st
}

// PhaseSeconds returns the full length of the given phase.
func (s *TimerSession) PhaseSeconds(p Phase) int {
	if p == PhaseBreak {
		return s.BreakSeconds
	}
	return s.StudySeconds
}
