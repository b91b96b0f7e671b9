package cli

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/taskmate/internal/teatest"
	"github.com/alexanderramin/taskmate/internal/testutil"
)

// newTimerDriver starts a one-minute cycle and attaches the watch view.
// The hour-long poll interval keeps scheduled ticks out of the drain, so
// tests send timerTickMsg themselves.
func newTimerDriver(t *testing.T) (*App, *testutil.ManualClock, *teatest.Driver, *timerModel) {
	t.Helper()
	app, clock := testApp(t)
	_, err := app.Timer.Start(context.Background(), cliUser, "Focus", 60, 60)
	require.NoError(t, err)

	m := newTimerModel(context.Background(), app.Timer, cliUser, time.Hour)
	d := teatest.New(t, m, teatest.WithSize(80, 24))
	d.DrainInit()
	return app, clock, d, m
}

func TestTimerView_ShowsRunningSession(t *testing.T) {
	_, _, d, m := newTimerDriver(t)

	require.NotNil(t, m.snap.Session)
	assert.False(t, d.Quitting)
	view := d.View()
	assert.Contains(t, view, "Focus")
	assert.Contains(t, view, "01:00")
	assert.Contains(t, view, "q quit")
}

func TestTimerView_TickRefreshesCountdown(t *testing.T) {
	_, clock, d, _ := newTimerDriver(t)

	clock.Advance(15 * time.Second)
	d.Send(timerTickMsg(clock.Now()))

	assert.Contains(t, d.View(), "00:45")
	assert.False(t, d.Quitting)
}

func TestTimerView_PauseToggle(t *testing.T) {
	app, _, d, m := newTimerDriver(t)

	d.PressKey('p')
	assert.True(t, m.snap.State.Paused)
	assert.Contains(t, d.View(), "paused")

	d.PressKey(' ')
	assert.False(t, m.snap.State.Paused)

	snap, err := app.Timer.State(context.Background(), cliUser)
	require.NoError(t, err)
	assert.False(t, snap.State.Paused)
}

func TestTimerView_StopQuits(t *testing.T) {
	app, _, d, _ := newTimerDriver(t)

	d.PressKey('s')

	assert.True(t, d.Quitting)
	assert.Equal(t, "Timer stopped.\n", d.View())
	snap, err := app.Timer.State(context.Background(), cliUser)
	require.NoError(t, err)
	assert.Nil(t, snap.Session)
}

func TestTimerView_CompletionAwardsAndQuits(t *testing.T) {
	app, clock, d, _ := newTimerDriver(t)

	clock.Advance(3 * time.Minute)
	d.Send(timerTickMsg(clock.Now()))

	assert.True(t, d.Quitting)
	assert.Contains(t, d.View(), "Pomodoro complete! +10 points")

	p, err := app.Progress.GetUserProgress(context.Background(), cliUser)
	require.NoError(t, err)
	assert.Equal(t, 10, p.Points)
}

func TestTimerView_ErrorQuits(t *testing.T) {
	_, _, d, m := newTimerDriver(t)

	d.Send(timerSnapshotMsg{err: errors.New("boom")})

	assert.True(t, d.Quitting)
	assert.EqualError(t, m.err, "boom")
	assert.Contains(t, d.View(), "boom")
}

func TestTimerView_QuitKeys(t *testing.T) {
	for name, press := range map[string]func(*teatest.Driver){
		"q":      func(d *teatest.Driver) { d.PressKey('q') },
		"esc":    func(d *teatest.Driver) { d.PressEsc() },
		"ctrl+c": func(d *teatest.Driver) { d.PressCtrlC() },
	} {
		t.Run(name, func(t *testing.T) {
			_, _, d, _ := newTimerDriver(t)
			press(d)
			assert.True(t, d.Quitting)
		})
	}
}

func TestTimerView_BarFollowsWindowWidth(t *testing.T) {
	_, _, d, m := newTimerDriver(t)
	assert.Equal(t, 60, m.bar.Width)

	d.Send(tea.WindowSizeMsg{Width: 30, Height: 10})
	assert.Equal(t, 26, m.bar.Width)
}
