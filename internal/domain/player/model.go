package player

import (
	"fmt"
	"strings"
	"time"
)

// Position represents football position categories used in scoring rules.
type Position string

const (
	PositionGoalkeeper Position = "GK"
	PositionDefender   Position = "DEF"
	PositionMidfielder Position = "MID"
	PositionForward    Position = "FWD"
)

var AllPositions = map[Position]struct{}{
	PositionGoalkeeper: {},
	PositionDefender:   {},
	PositionMidfielder: {},
	PositionForward:    {},
}

// ParsePosition normalizes free-text feed vocabulary into the closed position
// enum. Unrecognized or empty input defaults to midfielder, the conservative
// middle of the goal-weight table.
func ParsePosition(raw string) Position {
	value := strings.ToUpper(strings.TrimSpace(raw))
	if value == "" {
		return PositionMidfielder
	}

	switch {
	case value == "GK" || strings.Contains(value, "GOALKEEPER") || strings.Contains(value, "KEEPER"):
		return PositionGoalkeeper
	case value == "DEF" ||
		strings.Contains(value, "DEFENDER") ||
		strings.Contains(value, "DEFENCE") ||
		strings.Contains(value, "BACK"):
		return PositionDefender
	case value == "MID" ||
		strings.Contains(value, "MIDFIELD") ||
		strings.Contains(value, "WINGER"):
		return PositionMidfielder
	case value == "FWD" ||
		strings.Contains(value, "FORWARD") ||
		strings.Contains(value, "STRIKER") ||
		strings.Contains(value, "ATTACK") ||
		strings.Contains(value, "OFFENCE"):
		return PositionForward
	default:
		return PositionMidfielder
	}
}

// BasePriceForPosition returns the starting market price in millions for a
// freshly imported player.
func BasePriceForPosition(pos Position) float64 {
	switch pos {
	case PositionGoalkeeper:
		return 8.0
	case PositionDefender:
		return 10.0
	case PositionMidfielder:
		return 12.0
	case PositionForward:
		return 15.0
	default:
		return 10.0
	}
}

// Player is an athlete in the competition pool. Created on squad sync; points,
// form and price fields are mutated by the scoring pass.
type Player struct {
	ID            int64
	TeamID        int64
	TeamName      string
	Name          string
	Position      Position
	Nationality   string
	ShirtNumber   int
	BasePrice     float64
	CurrentPrice  float64
	TotalPoints   int
	MatchesPlayed int
	Goals         int
	Assists       int
	YellowCards   int
	RedCards      int
	CleanSheets   int
	FormRating    float64
	Available     bool
	Injured       bool
	UpdatedAt     time.Time
}

func (p Player) Validate() error {
	if p.ID <= 0 {
		return fmt.Errorf("player id is required")
	}
	if p.TeamID <= 0 {
		return fmt.Errorf("player team id is required")
	}
	if p.Name == "" {
		return fmt.Errorf("player name is required")
	}
	if _, ok := AllPositions[p.Position]; !ok {
		return fmt.Errorf("invalid player position: %s", p.Position)
	}
	if p.BasePrice <= 0 {
		return fmt.Errorf("player base price must be greater than zero")
	}

	return nil
}

// PointsPerMatch is the season average used by price revaluation.
func (p Player) PointsPerMatch() float64 {
	if p.MatchesPlayed == 0 {
		return 0
	}
	return float64(p.TotalPoints) / float64(p.MatchesPlayed)
}
