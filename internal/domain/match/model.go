package match

import (
	"strings"
	"time"
)

const (
	StatusScheduled = "SCHEDULED"
	StatusTimed     = "TIMED"
	StatusLive      = "LIVE"
	StatusFinished  = "FINISHED"
	StatusPostponed = "POSTPONED"
	StatusCancelled = "CANCELLED"
)

// Match is one fixture in the competition. Immutable once finished except for
// the score fields, which later syncs may correct.
type Match struct {
	ID         int64
	Matchday   int
	HomeTeamID int64
	AwayTeamID int64
	HomeTeam   string
	AwayTeam   string
	KickoffAt  time.Time
	Status     string
	HomeScore  *int
	AwayScore  *int
}

func NormalizeStatus(value string) string {
	status := strings.ToUpper(strings.TrimSpace(value))
	if status == "" {
		return StatusScheduled
	}
	return status
}

func IsFinishedStatus(status string) bool {
	switch NormalizeStatus(status) {
	case StatusFinished, "FT", "AET", "PEN", "AWARDED":
		return true
	default:
		return false
	}
}

// HasFinalScore reports whether scoring may run for this match. A finished
// match missing either score is treated as pending, never as 0-0.
func (m Match) HasFinalScore() bool {
	return IsFinishedStatus(m.Status) && m.HomeScore != nil && m.AwayScore != nil
}

// GoalsAgainst returns how many goals the given side conceded. The second
// return is false when the team did not play in this match or the score is
// unknown.
func (m Match) GoalsAgainst(teamID int64) (int, bool) {
	if m.HomeScore == nil || m.AwayScore == nil {
		return 0, false
	}
	switch teamID {
	case m.HomeTeamID:
		return *m.AwayScore, true
	case m.AwayTeamID:
		return *m.HomeScore, true
	default:
		return 0, false
	}
}

// GoalsFor mirrors GoalsAgainst for the team's own score.
func (m Match) GoalsFor(teamID int64) (int, bool) {
	if m.HomeScore == nil || m.AwayScore == nil {
		return 0, false
	}
	switch teamID {
	case m.HomeTeamID:
		return *m.HomeScore, true
	case m.AwayTeamID:
		return *m.AwayScore, true
	default:
		return 0, false
	}
}
