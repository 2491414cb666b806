package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/SanchuCortes/HouseManager-sub000/internal/domain/match"
	"github.com/SanchuCortes/HouseManager-sub000/internal/domain/player"
	"github.com/SanchuCortes/HouseManager-sub000/internal/infrastructure/repository/memory"
)

func intPtr(v int) *int { return &v }

func newTestPlayer(id, teamID int64, pos player.Position) player.Player {
	base := player.BasePriceForPosition(pos)
	return player.Player{
		ID:           id,
		TeamID:       teamID,
		TeamName:     "Team",
		Name:         "Player",
		Position:     pos,
		BasePrice:    base,
		CurrentPrice: base,
		Available:    true,
	}
}

func TestScoringService_ScoreMatch_DefenderGoalCleanSheet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	matchRepo := memory.NewMatchRepository([]match.Match{{
		ID:         500,
		Matchday:   3,
		HomeTeamID: 10,
		AwayTeamID: 20,
		Status:     match.StatusFinished,
		HomeScore:  intPtr(1),
		AwayScore:  intPtr(0),
	}})
	playerRepo := memory.NewPlayerRepository([]player.Player{newTestPlayer(7, 10, player.PositionDefender)})
	pointsRepo := memory.NewPointsRepository()

	if err := matchRepo.ReplaceEvents(ctx, 500, []match.Event{
		{MatchID: 500, PlayerID: 7, Kind: match.EventGoal},
	}); err != nil {
		t.Fatalf("seed events: %v", err)
	}
	if err := matchRepo.ReplaceLineup(ctx, 500, []match.LineupEntry{
		{MatchID: 500, PlayerID: 7, TeamID: 10, Role: match.RoleStarter},
	}); err != nil {
		t.Fatalf("seed lineup: %v", err)
	}

	service := NewScoringService(matchRepo, playerRepo, pointsRepo)
	result, err := service.ScoreMatch(ctx, 500)
	if err != nil {
		t.Fatalf("ScoreMatch error: %v", err)
	}
	if result.PlayersScored != 1 || result.Replayed {
		t.Fatalf("unexpected result: %+v", result)
	}

	// Starter 4 + defender goal 8 + clean sheet 4 + win 3 = 19.
	row, exists, err := pointsRepo.Get(ctx, 500, 7)
	if err != nil || !exists {
		t.Fatalf("points row missing: exists=%v err=%v", exists, err)
	}
	if row.Points != 19 || row.Matchday != 3 {
		t.Fatalf("points row = %+v, want 19 points matchday 3", row)
	}

	p, _, _ := playerRepo.GetByID(ctx, 7)
	if p.TotalPoints != 19 || p.MatchesPlayed != 1 || p.Goals != 1 || p.CleanSheets != 1 {
		t.Fatalf("player season state = %+v", p)
	}
	// Form EMA from zero: 19 * 0.2 = 3.8.
	if p.FormRating < 3.79 || p.FormRating > 3.81 {
		t.Fatalf("form rating = %v, want 3.8", p.FormRating)
	}
	// Avg 19 pts/match: multiplier 1 + (19-5)*0.1 = 2.4 on base 10.
	if p.CurrentPrice < 23.99 || p.CurrentPrice > 24.01 {
		t.Fatalf("current price = %v, want 24.0", p.CurrentPrice)
	}
}

func TestScoringService_ScoreMatch_ReplayAdjustsByDelta(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	matchRepo := memory.NewMatchRepository([]match.Match{{
		ID:         501,
		Matchday:   1,
		HomeTeamID: 10,
		AwayTeamID: 20,
		Status:     match.StatusFinished,
		HomeScore:  intPtr(2),
		AwayScore:  intPtr(0),
	}})
	playerRepo := memory.NewPlayerRepository([]player.Player{newTestPlayer(9, 10, player.PositionForward)})
	pointsRepo := memory.NewPointsRepository()

	lineup := []match.LineupEntry{{MatchID: 501, PlayerID: 9, TeamID: 10, Role: match.RoleStarter}}
	if err := matchRepo.ReplaceLineup(ctx, 501, lineup); err != nil {
		t.Fatalf("seed lineup: %v", err)
	}
	if err := matchRepo.ReplaceEvents(ctx, 501, []match.Event{
		{MatchID: 501, PlayerID: 9, Kind: match.EventGoal},
	}); err != nil {
		t.Fatalf("seed events: %v", err)
	}

	service := NewScoringService(matchRepo, playerRepo, pointsRepo)
	if _, err := service.ScoreMatch(ctx, 501); err != nil {
		t.Fatalf("first ScoreMatch error: %v", err)
	}

	first, _, _ := playerRepo.GetByID(ctx, 9)
	// Starter 4 + goal 4 + clean sheet 1 + win 3 = 12.
	if first.TotalPoints != 12 || first.MatchesPlayed != 1 {
		t.Fatalf("first pass player = %+v", first)
	}

	// A late feed correction adds a second goal; the replay moves the total
	// by the delta and leaves matches played and form alone.
	if err := matchRepo.ReplaceEvents(ctx, 501, []match.Event{
		{MatchID: 501, PlayerID: 9, Kind: match.EventGoal},
		{MatchID: 501, PlayerID: 9, Kind: match.EventGoal},
	}); err != nil {
		t.Fatalf("replace events: %v", err)
	}
	result, err := service.ScoreMatch(ctx, 501)
	if err != nil {
		t.Fatalf("replay ScoreMatch error: %v", err)
	}
	if !result.Replayed {
		t.Fatal("replay must be flagged")
	}

	replayed, _, _ := playerRepo.GetByID(ctx, 9)
	if replayed.TotalPoints != 16 {
		t.Fatalf("replayed total = %d, want 16", replayed.TotalPoints)
	}
	if replayed.MatchesPlayed != 1 {
		t.Fatalf("matches played = %d, want 1", replayed.MatchesPlayed)
	}
	if replayed.FormRating != first.FormRating {
		t.Fatalf("form rating changed on replay: %v -> %v", first.FormRating, replayed.FormRating)
	}
	if replayed.Goals != 1 {
		t.Fatalf("goal counter = %d, counters must not move on replay", replayed.Goals)
	}

	row, _, _ := pointsRepo.Get(ctx, 501, 9)
	if row.Points != 16 {
		t.Fatalf("points row = %d, want 16", row.Points)
	}
}

func TestScoringService_ScoreMatch_RejectsUnfinished(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	matchRepo := memory.NewMatchRepository([]match.Match{{
		ID:         502,
		Matchday:   1,
		HomeTeamID: 10,
		AwayTeamID: 20,
		Status:     match.StatusLive,
	}})
	service := NewScoringService(matchRepo, memory.NewPlayerRepository(nil), memory.NewPointsRepository())

	if _, err := service.ScoreMatch(ctx, 502); err == nil {
		t.Fatal("expected error for live match")
	}
	if _, err := service.ScoreMatch(ctx, 999); err == nil {
		t.Fatal("expected error for unknown match")
	}
}

func TestScoringService_ScorePending_SkipsAlreadyScored(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	matchRepo := memory.NewMatchRepository([]match.Match{
		{ID: 600, Matchday: 1, HomeTeamID: 10, AwayTeamID: 20, Status: match.StatusFinished, HomeScore: intPtr(0), AwayScore: intPtr(0)},
		{ID: 601, Matchday: 2, HomeTeamID: 20, AwayTeamID: 10, Status: match.StatusFinished, HomeScore: intPtr(1), AwayScore: intPtr(1)},
		{ID: 602, Matchday: 3, HomeTeamID: 10, AwayTeamID: 20, Status: match.StatusScheduled},
	})
	playerRepo := memory.NewPlayerRepository([]player.Player{newTestPlayer(11, 10, player.PositionMidfielder)})
	pointsRepo := memory.NewPointsRepository()

	for _, matchID := range []int64{600, 601} {
		if err := matchRepo.ReplaceLineup(ctx, matchID, []match.LineupEntry{
			{MatchID: matchID, PlayerID: 11, TeamID: 10, Role: match.RoleStarter},
		}); err != nil {
			t.Fatalf("seed lineup: %v", err)
		}
	}

	service := NewScoringService(matchRepo, playerRepo, pointsRepo)
	service.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

	if _, err := service.ScoreMatch(ctx, 600); err != nil {
		t.Fatalf("ScoreMatch error: %v", err)
	}

	scored, err := service.ScorePending(ctx)
	if err != nil {
		t.Fatalf("ScorePending error: %v", err)
	}
	if len(scored) != 1 || scored[0].MatchID != 601 {
		t.Fatalf("pending pass scored %+v, want only match 601", scored)
	}

	p, _, _ := playerRepo.GetByID(ctx, 11)
	if p.MatchesPlayed != 2 {
		t.Fatalf("matches played = %d, want 2", p.MatchesPlayed)
	}
}
