package scoring

import (
	"testing"

	"github.com/SanchuCortes/HouseManager-sub000/internal/domain/match"
	"github.com/SanchuCortes/HouseManager-sub000/internal/domain/player"
)

func intPtr(v int) *int { return &v }

func finishedMatch(homeID, awayID int64, home, away int) match.Match {
	return match.Match{
		ID:         1,
		HomeTeamID: homeID,
		AwayTeamID: awayID,
		Status:     match.StatusFinished,
		HomeScore:  intPtr(home),
		AwayScore:  intPtr(away),
	}
}

func TestGoalPoints(t *testing.T) {
	t.Parallel()

	cases := []struct {
		pos  player.Position
		want int
	}{
		{player.PositionGoalkeeper, 10},
		{player.PositionDefender, 8},
		{player.PositionMidfielder, 6},
		{player.PositionForward, 4},
		{player.Position("???"), 6},
	}
	for _, tc := range cases {
		if got := GoalPoints(tc.pos); got != tc.want {
			t.Errorf("GoalPoints(%s) = %d, want %d", tc.pos, got, tc.want)
		}
	}
}

func TestConcededPoints(t *testing.T) {
	t.Parallel()

	cases := []struct {
		pos      player.Position
		conceded int
		want     int
	}{
		{player.PositionGoalkeeper, 0, 6},
		{player.PositionGoalkeeper, 1, 4},
		{player.PositionGoalkeeper, 2, 2},
		{player.PositionGoalkeeper, 3, 0},
		{player.PositionGoalkeeper, 5, -2},
		{player.PositionDefender, 0, 4},
		{player.PositionDefender, 1, 2},
		{player.PositionDefender, 2, 1},
		{player.PositionDefender, 3, 0},
		{player.PositionDefender, 5, -1},
		{player.PositionDefender, 7, -2},
		{player.PositionMidfielder, 0, 2},
		{player.PositionMidfielder, 1, 1},
		{player.PositionMidfielder, 2, 1},
		{player.PositionMidfielder, 4, 0},
		{player.PositionForward, 0, 1},
		{player.PositionForward, 3, 0},
		{player.Position("???"), 0, 0},
	}
	for _, tc := range cases {
		if got := ConcededPoints(tc.pos, tc.conceded); got != tc.want {
			t.Errorf("ConcededPoints(%s, %d) = %d, want %d", tc.pos, tc.conceded, got, tc.want)
		}
	}
}

func TestComputeMatchPointsDefenderCleanSheetGoal(t *testing.T) {
	t.Parallel()

	// Starter defender, scores in a 1-0 home win: 4 + 8 + 4 + 3 = 19.
	m := finishedMatch(10, 20, 1, 0)
	got := ComputeMatchPoints(PlayerMatchInput{
		Position:    player.PositionDefender,
		LineupRole:  match.RoleStarter,
		MatchTeamID: 10,
		Events:      []match.Event{{MatchID: 1, PlayerID: 7, Kind: match.EventGoal}},
		Match:       m,
	})
	if got != 19 {
		t.Fatalf("defender clean-sheet goal = %d, want 19", got)
	}
}

func TestComputeMatchPointsSubstituteNeedsEvent(t *testing.T) {
	t.Parallel()

	m := finishedMatch(10, 20, 2, 2)

	// Sub with no personal events did not provably play: no participation,
	// no team-derived components through the lineup.
	got := ComputeMatchPoints(PlayerMatchInput{
		Position:   player.PositionMidfielder,
		LineupRole: match.RoleSubstitute,
		Match:      m,
	})
	if got != 0 {
		t.Fatalf("eventless substitute = %d, want 0", got)
	}

	// Sub with an assist: 2 + 4 + conceded(MID,2)=1 + draw 1 = 8.
	got = ComputeMatchPoints(PlayerMatchInput{
		Position:    player.PositionMidfielder,
		LineupRole:  match.RoleSubstitute,
		MatchTeamID: 20,
		Events:      []match.Event{{MatchID: 1, PlayerID: 7, Kind: match.EventAssist}},
		Match:       m,
	})
	if got != 8 {
		t.Fatalf("substitute with assist = %d, want 8", got)
	}
}

func TestComputeMatchPointsRedCardDoesNotStack(t *testing.T) {
	t.Parallel()

	m := finishedMatch(10, 20, 0, 3)

	// Starter forward on the losing side with a yellow then a direct red:
	// 4 + conceded(FWD,3)=0 - 4 = 0. The yellow is absorbed by the red.
	got := ComputeMatchPoints(PlayerMatchInput{
		Position:    player.PositionForward,
		LineupRole:  match.RoleStarter,
		MatchTeamID: 10,
		Events: []match.Event{
			{MatchID: 1, PlayerID: 7, Kind: match.EventYellowCard},
			{MatchID: 1, PlayerID: 7, Kind: match.EventRedCard},
		},
		Match: m,
	})
	if got != 0 {
		t.Fatalf("red-carded forward = %d, want 0", got)
	}
}

func TestComputeMatchPointsSecondYellow(t *testing.T) {
	t.Parallel()

	m := finishedMatch(10, 20, 1, 1)

	// Starter midfielder, yellow + second yellow in a 1-1 draw:
	// 4 + conceded(MID,1)=1 + draw 1 - 1 - 3 = 2.
	got := ComputeMatchPoints(PlayerMatchInput{
		Position:    player.PositionMidfielder,
		LineupRole:  match.RoleStarter,
		MatchTeamID: 10,
		Events: []match.Event{
			{MatchID: 1, PlayerID: 7, Kind: match.EventYellowCard},
			{MatchID: 1, PlayerID: 7, Kind: match.EventSecondYellow},
		},
		Match: m,
	})
	if got != 2 {
		t.Fatalf("second-yellow midfielder = %d, want 2", got)
	}
}

func TestComputeMatchPointsOwnGoalScoresNothing(t *testing.T) {
	t.Parallel()

	m := finishedMatch(10, 20, 0, 1)

	// Starter defender whose own goal decided the match: 4 + conceded(DEF,1)=2.
	// The own goal itself contributes nothing.
	got := ComputeMatchPoints(PlayerMatchInput{
		Position:    player.PositionDefender,
		LineupRole:  match.RoleStarter,
		MatchTeamID: 10,
		Events:      []match.Event{{MatchID: 1, PlayerID: 7, Kind: match.EventOwnGoal}},
		Match:       m,
	})
	if got != 6 {
		t.Fatalf("own-goal defender = %d, want 6", got)
	}
}

func TestComputeMatchPointsFloorsAtZero(t *testing.T) {
	t.Parallel()

	m := finishedMatch(10, 20, 0, 6)

	// Goalkeeper shipping six and seeing red would go negative without the
	// floor: 4 + conceded(GK,6)=-3 - 4 = -3 -> 0.
	got := ComputeMatchPoints(PlayerMatchInput{
		Position:    player.PositionGoalkeeper,
		LineupRole:  match.RoleStarter,
		MatchTeamID: 10,
		Events:      []match.Event{{MatchID: 1, PlayerID: 7, Kind: match.EventRedCard}},
		Match:       m,
	})
	if got != 0 {
		t.Fatalf("floored total = %d, want 0", got)
	}
}

func TestComputeMatchPointsUnknownTeam(t *testing.T) {
	t.Parallel()

	m := finishedMatch(10, 20, 3, 0)

	// Without a resolved match team neither the conceded table nor the
	// result bonus applies.
	got := ComputeMatchPoints(PlayerMatchInput{
		Position:   player.PositionForward,
		LineupRole: match.RoleStarter,
		Events:     []match.Event{{MatchID: 1, PlayerID: 7, Kind: match.EventGoal}},
		Match:      m,
	})
	if got != 8 {
		t.Fatalf("unknown-team forward = %d, want 8", got)
	}
}

func TestApplyCaptainMultiplier(t *testing.T) {
	t.Parallel()

	if got := ApplyCaptainMultiplier(10, true); got != 20 {
		t.Fatalf("captain points = %d, want 20", got)
	}
	if got := ApplyCaptainMultiplier(10, false); got != 10 {
		t.Fatalf("non-captain points = %d, want 10", got)
	}
}
