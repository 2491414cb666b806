package scoring

import (
	"github.com/SanchuCortes/HouseManager-sub000/internal/domain/match"
	"github.com/SanchuCortes/HouseManager-sub000/internal/domain/player"
)

// Point weights for the canonical rule set.
const (
	StarterPoints    = 4
	SubstitutePoints = 2
	AssistPoints     = 4

	WinBonus  = 3
	DrawBonus = 1

	YellowCardPenalty   = -1
	SecondYellowPenalty = -3
	RedCardPenalty      = -4

	CaptainMultiplier = 2
)

// GoalPoints returns the per-goal weight for a position. Rarity inverts the
// attacking expectation: a goalkeeper goal is worth the most. Unknown
// positions fall back to the midfielder weight.
func GoalPoints(pos player.Position) int {
	switch pos {
	case player.PositionGoalkeeper:
		return 10
	case player.PositionDefender:
		return 8
	case player.PositionMidfielder:
		return 6
	case player.PositionForward:
		return 4
	default:
		return 6
	}
}

// ConcededPoints returns the clean-sheet / goals-conceded adjustment for a
// position given how many goals the player's match team conceded.
func ConcededPoints(pos player.Position, conceded int) int {
	if conceded < 0 {
		conceded = 0
	}

	switch pos {
	case player.PositionGoalkeeper:
		switch conceded {
		case 0:
			return 6
		case 1:
			return 4
		case 2:
			return 2
		case 3:
			return 0
		default:
			return -(conceded - 3)
		}
	case player.PositionDefender:
		switch conceded {
		case 0:
			return 4
		case 1:
			return 2
		case 2:
			return 1
		case 3:
			return 0
		default:
			return -((conceded - 3) / 2)
		}
	case player.PositionMidfielder:
		switch {
		case conceded == 0:
			return 2
		case conceded <= 2:
			return 1
		default:
			return 0
		}
	case player.PositionForward:
		if conceded == 0 {
			return 1
		}
		return 0
	default:
		return 0
	}
}

// PlayerMatchInput is everything needed to score one player in one match.
// Events must already be filtered to the player; LineupRole and MatchTeamID
// come from the lineup entry when present.
type PlayerMatchInput struct {
	Position    player.Position
	LineupRole  string // STARTER, SUB or empty when absent from the lineup
	MatchTeamID int64  // team the player represented in this match; 0 if unknown
	Events      []match.Event
	Match       match.Match
}

// ComputeMatchPoints scores one player for one match under the canonical rule
// set, flooring the total at zero. It is total over partial data: missing
// lineups, events or team resolution zero the affected components instead of
// erroring. The caller is responsible for skipping matches without a final
// score.
func ComputeMatchPoints(in PlayerMatchInput) int {
	pts := 0

	goals := 0
	assists := 0
	yellows := 0
	secondYellows := 0
	hasRed := false
	for _, ev := range in.Events {
		switch ev.Kind {
		case match.EventGoal:
			goals++
		case match.EventOwnGoal:
			// Own goals score nothing and stay out of the goal count.
		case match.EventAssist:
			assists++
		case match.EventYellowCard:
			yellows++
		case match.EventSecondYellow:
			secondYellows++
		case match.EventRedCard:
			hasRed = true
		}
	}

	// Participation: a substitute only scores when at least one personal
	// event proves they came on.
	switch in.LineupRole {
	case match.RoleStarter:
		pts += StarterPoints
	case match.RoleSubstitute:
		if len(in.Events) > 0 {
			pts += SubstitutePoints
		}
	}

	pts += goals * GoalPoints(in.Position)
	pts += assists * AssistPoints

	if in.MatchTeamID > 0 {
		if conceded, ok := in.Match.GoalsAgainst(in.MatchTeamID); ok {
			pts += ConcededPoints(in.Position, conceded)
		}

		scored, okFor := in.Match.GoalsFor(in.MatchTeamID)
		conceded, okAgainst := in.Match.GoalsAgainst(in.MatchTeamID)
		if okFor && okAgainst {
			if scored > conceded {
				pts += WinBonus
			} else if scored == conceded {
				pts += DrawBonus
			}
		}
	}

	// A direct red card caps the card penalty and never stacks with yellows
	// from the same match.
	if hasRed {
		pts += RedCardPenalty
	} else {
		pts += yellows * YellowCardPenalty
		pts += secondYellows * SecondYellowPenalty
	}

	if pts < 0 {
		pts = 0
	}

	return pts
}

// ApplyCaptainMultiplier doubles a captain's per-match total.
func ApplyCaptainMultiplier(pts int, isCaptain bool) int {
	if isCaptain {
		return pts * CaptainMultiplier
	}
	return pts
}
