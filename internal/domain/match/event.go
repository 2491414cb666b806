package match

import "strings"

// EventKind is the closed set of per-player match events the engine scores.
type EventKind string

const (
	EventGoal         EventKind = "GOAL"
	EventOwnGoal      EventKind = "OWN_GOAL"
	EventAssist       EventKind = "ASSIST"
	EventYellowCard   EventKind = "YELLOW_CARD"
	EventSecondYellow EventKind = "SECOND_YELLOW_CARD"
	EventRedCard      EventKind = "RED_CARD"
)

var AllEventKinds = map[EventKind]struct{}{
	EventGoal:         {},
	EventOwnGoal:      {},
	EventAssist:       {},
	EventYellowCard:   {},
	EventSecondYellow: {},
	EventRedCard:      {},
}

// ParseEventKind maps feed vocabulary onto the closed event enum. Penalty
// goals count as goals. The second return is false for kinds the engine does
// not score (substitutions, VAR reviews and similar).
func ParseEventKind(raw string) (EventKind, bool) {
	value := strings.ToUpper(strings.TrimSpace(raw))
	switch value {
	case "GOAL", "PENALTY", "PENALTY_GOAL":
		return EventGoal, true
	case "OWN", "OWN_GOAL":
		return EventOwnGoal, true
	case "ASSIST":
		return EventAssist, true
	case "YELLOW", "YELLOW_CARD":
		return EventYellowCard, true
	case "YELLOW_RED", "YELLOW_RED_CARD", "SECOND_YELLOW", "SECOND_YELLOW_CARD":
		return EventSecondYellow, true
	case "RED", "RED_CARD", "DIRECT_RED":
		return EventRedCard, true
	default:
		return "", false
	}
}

// Event belongs to exactly one match and one player. Events are append-only
// per sync of that match; replays replace the whole set for the match.
type Event struct {
	MatchID  int64
	PlayerID int64
	Kind     EventKind
	Minute   *int
}

const (
	RoleStarter    = "STARTER"
	RoleSubstitute = "SUB"
)

// LineupEntry records a player's role in one match and, crucially, the team
// the player represented in it. That team is authoritative over the player's
// current team: transfers must not rewrite scoring history.
type LineupEntry struct {
	MatchID  int64
	PlayerID int64
	TeamID   int64
	Role     string
}
