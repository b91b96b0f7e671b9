package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTimer(t *testing.T, study, brk int) *TimerSession {
	t.Helper()
	s, err := NewTimerSession("u1", "", study, brk, fixedNow)
	require.NoError(t, err)
	return s
}

func at(sec int) time.Time {
	return fixedNow.Add(time.Duration(sec) * time.Second)
}

func TestNewTimerSession_Validation(t *testing.T) {
	_, err := NewTimerSession("u1", "", 0, 300, fixedNow)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = NewTimerSession("u1", "", 1500, -1, fixedNow)
	assert.ErrorIs(t, err, ErrValidation)

	s, err := NewTimerSession("u1", "", 1500, 0, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, "Pomodoro Session", s.Name)
	assert.Equal(t, PhaseFocus, s.Phase)
}

func TestReconcile_NilIsIdle(t *testing.T) {
	st := Reconcile(nil, fixedNow)
	assert.Equal(t, TimerState{Phase: PhaseFocus}, st)
	assert.True(t, st.Idle())
}

func TestReconcile_FocusRunning(t *testing.T) {
	s := newTestTimer(t, 1500, 300)
	st := Reconcile(s, at(100))
	assert.Equal(t, TimerState{RemainingSeconds: 1400, Phase: PhaseFocus, Running: true}, st)
}

func TestReconcile_FloorsSubSecondElapsed(t *testing.T) {
	s := newTestTimer(t, 1500, 300)
	st := Reconcile(s, fixedNow.Add(1999*time.Millisecond))
	assert.Equal(t, 1499, st.RemainingSeconds)
}

func TestReconcile_ClockSkewBeforeStart(t *testing.T) {
	s := newTestTimer(t, 1500, 300)
	st := Reconcile(s, fixedNow.Add(-time.Minute))
	assert.Equal(t, 1500, st.RemainingSeconds)
	assert.True(t, st.Running)
}

func TestReconcile_Idempotent(t *testing.T) {
	s := newTestTimer(t, 1500, 300)
	now := at(777)
	assert.Equal(t, Reconcile(s, now), Reconcile(s, now))
}

func TestReconcile_PomodoroScenario(t *testing.T) {
	s := newTestTimer(t, 1500, 300)

	st := Reconcile(s, at(1500))
	assert.Equal(t, TimerState{RemainingSeconds: 300, Phase: PhaseBreak, Running: true}, st)

	st = Reconcile(s, at(1650))
	assert.Equal(t, TimerState{RemainingSeconds: 150, Phase: PhaseBreak, Running: true}, st)

	st = Reconcile(s, at(1800))
	assert.True(t, st.Completed)
	assert.False(t, st.Running)
	assert.Equal(t, 0, st.RemainingSeconds)
}

func TestReconcile_ZeroBreakCompletesAtStudyEnd(t *testing.T) {
	s := newTestTimer(t, 60, 0)
	assert.True(t, Reconcile(s, at(60)).Completed)
	assert.Equal(t, 1, Reconcile(s, at(59)).RemainingSeconds)
}

func TestReconcile_PausedUsesPauseMarker(t *testing.T) {
	s := newTestTimer(t, 1500, 300)
	s.Pause(at(200))

	for _, later := range []int{200, 1000, 100000} {
		st := Reconcile(s, at(later))
		assert.Equal(t, TimerState{RemainingSeconds: 1300, Phase: PhaseFocus, Paused: true}, st, "now=+%ds", later)
	}
}

func TestPauseResume_RoundTrip(t *testing.T) {
	for _, pauseLen := range []int{0, 5, 3600, 86400} {
		s := newTestTimer(t, 1500, 300)
		p := 420
		s.Pause(at(p))
		assert.True(t, s.IsPaused())
		resumeAt := at(p + pauseLen)
		s.Resume(resumeAt)

		assert.False(t, s.IsPaused())
		assert.Nil(t, s.PausedAt)
		st := Reconcile(s, resumeAt)
		assert.Equal(t, 1500-p, st.RemainingSeconds, "pause length %ds", pauseLen)
		assert.True(t, st.Running)
	}
}

func TestPause_IsIdempotent(t *testing.T) {
	s := newTestTimer(t, 1500, 300)
	s.Pause(at(10))
	s.Pause(at(50))
	require.NotNil(t, s.PausedAt)
	assert.Equal(t, at(10), *s.PausedAt)
}

func TestResume_RunningIsNoop(t *testing.T) {
	s := newTestTimer(t, 1500, 300)
	s.Resume(at(30))
	assert.Equal(t, fixedNow, s.StartedAt)
}

func TestPause_DuringBreakCachesPhase(t *testing.T) {
	s := newTestTimer(t, 1500, 300)
	s.Pause(at(1600))
	assert.Equal(t, PhaseBreak, s.Phase)

	st := Reconcile(s, at(5000))
	assert.Equal(t, TimerState{RemainingSeconds: 200, Phase: PhaseBreak, Paused: true}, st)

	s.Resume(at(5000))
	st = Reconcile(s, at(5200))
	assert.True(t, st.Completed)
}

func TestPhaseSeconds(t *testing.T) {
	s := newTestTimer(t, 1500, 300)
	assert.Equal(t, 1500, s.PhaseSeconds(PhaseFocus))
	assert.Equal(t, 300, s.PhaseSeconds(PhaseBreak))
	assert.Equal(t, 1800, s.TotalSeconds())
}
