package domain

import "time"

const (
	levelBasePoints = 20
	levelIncrement  = 10

	// TaskCompletionPoints is awarded (or revoked) per task completion toggle.
	TaskCompletionPoints = 10
	// TimerCompletionPoints is awarded for a fully completed focus+break cycle.
	TimerCompletionPoints = 10
)

// LevelInfo is the level metadata derived from a cumulative points total.
type LevelInfo struct {
	Level          int
	Progress       int
	RequiredPoints int
}

// LevelOf maps a points total onto the level staircase. Each level needs
// 20, 30, 40, ... more points than the previous one. Negative totals are
// clamped to 0.
func LevelOf(points int) LevelInfo {
	if points < 0 {
		points = 0
	}

	level := 1
	cumulative := 0
	next := levelBasePoints

	for points >= cumulative+next {
		cumulative += next
		level++
		next = levelBasePoints + levelIncrement*(level-1)
	}

	return LevelInfo{
		Level:          level,
		Progress:       points - cumulative,
		RequiredPoints: next,
	}
}

// PointsToNext returns how many points are missing to reach the next level.
func (l LevelInfo) PointsToNext() int {
	return l.RequiredPoints - l.Progress
}

// Fraction returns progress within the current level in [0, 1).
func (l LevelInfo) Fraction() float64 {
	if l.RequiredPoints <= 0 {
		return 0
	}
	return float64(l.Progress) / float64(l.RequiredPoints)
}

// PointsLedger is the per-user points summary. Level is a cache of
// LevelOf(Points).Level and is rewritten on every Apply.
type PointsLedger struct {
	UserID    string
	Points    int
	Level     int
	UpdatedAt time.Time
}

// NewPointsLedger returns an empty ledger for a user.
func NewPointsLedger(userID string, now time.Time) *PointsLedger {
	return &PointsLedger{UserID: userID, Points: 0, Level: 1, UpdatedAt: now}
}

// Apply adds delta to the ledger, never dropping below zero, and refreshes
// the cached level. It returns the delta actually applied.
func (l *PointsLedger) Apply(delta int, now time.Time) int {
	before := l.Points
	l.Points += delta
	if l.Points < 0 {
		l.Points = 0
	}
	l.Level = LevelOf(l.Points).Level
	l.UpdatedAt = now
	return l.Points - before
}

// Info recomputes level metadata from Points, ignoring the cached Level.
func (l *PointsLedger) Info() LevelInfo {
	if l == nil {
		return LevelOf(0)
	}
	return LevelOf(l.Points)
}

// PointsLogEntry is one row of the append-only points audit trail.
type PointsLogEntry struct {
	ID          string
	UserID      string
	Description string
	Points      int
	Timestamp   time.Time
}

// UserProgress is the read model returned to clients.
type UserProgress struct {
	Points         int
	Level          int
	Progress       int
	RequiredPoints int
}

// ProgressFromLedger builds the read model; a nil ledger is a fresh user.
func ProgressFromLedger(l *PointsLedger) UserProgress {
	info := l.Info()
	points := 0
	if l != nil {
		points = l.Points
	}
	return UserProgress{
		Points:         points,
		Level:          info.Level,
		Progress:       info.Progress,
		RequiredPoints: info.RequiredPoints,
	}
}
