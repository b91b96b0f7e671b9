package domain

import "strings"

const (
	DefaultFirstName = "Anonymous"
	DefaultLastName  = "User"
	DefaultImageURL  = "/avatar.png"
)

// User mirrors the identity provider's profile; ID is the identity subject.
type User struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
	ImageURL  string
}

// DisplayName falls back to the anonymous placeholders for missing parts.
func (u *User) DisplayName() string {
	first, last := DefaultFirstName, DefaultLastName
	if u != nil {
		first = CoalesceStr(u.FirstName, DefaultFirstName)
		last = CoalesceStr(u.LastName, DefaultLastName)
	}
	return strings.TrimSpace(first + " " + last)
}

// LeaderboardEntry is one ranked row of the leaderboard.
type LeaderboardEntry struct {
	Rank      int
	UserID    string
	Points    int
	Level     int
	FirstName string
	LastName  string
	ImageURL  string
}

type Leaderboard struct {
	Entries    []LeaderboardEntry
	TotalUsers int
}
