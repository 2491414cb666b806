package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SanchuCortes/HouseManager-sub000/internal/domain/match"
	"github.com/SanchuCortes/HouseManager-sub000/internal/domain/player"
	"github.com/SanchuCortes/HouseManager-sub000/internal/domain/points"
	"github.com/SanchuCortes/HouseManager-sub000/internal/domain/team"
	"github.com/SanchuCortes/HouseManager-sub000/internal/infrastructure/repository/memory"
)

func newCatalogFixture(t *testing.T) (*CatalogService, *memory.MatchRepository, *memory.PointsRepository) {
	t.Helper()
	ctx := context.Background()

	teams := memory.NewTeamRepository([]team.Team{
		{ID: 10, Name: "Alpha", Position: 1},
		{ID: 20, Name: "Beta", Position: 2},
	})
	players := memory.NewPlayerRepository(nil)
	matches := memory.NewMatchRepository([]match.Match{
		{ID: 900, Matchday: 1, HomeTeamID: 10, AwayTeamID: 20, Status: match.StatusFinished},
		{ID: 901, Matchday: 2, HomeTeamID: 20, AwayTeamID: 10, Status: match.StatusScheduled},
	})
	pointsRepo := memory.NewPointsRepository()

	p := newTestPlayer(101, 10, player.PositionForward)
	if err := players.UpsertAll(ctx, []player.Player{p}); err != nil {
		t.Fatalf("seed player: %v", err)
	}

	return NewCatalogService(teams, players, matches, pointsRepo), matches, pointsRepo
}

func TestCatalogService_TeamWithSquad(t *testing.T) {
	t.Parallel()

	service, _, _ := newCatalogFixture(t)
	detail, err := service.Team(context.Background(), 10)
	if err != nil {
		t.Fatalf("Team error: %v", err)
	}
	if detail.Team.Name != "Alpha" {
		t.Fatalf("team = %+v", detail.Team)
	}
	if len(detail.Players) != 1 || detail.Players[0].ID != 101 {
		t.Fatalf("squad = %+v", detail.Players)
	}

	if _, err := service.Team(context.Background(), 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing team error = %v, want ErrNotFound", err)
	}
}

func TestCatalogService_PlayerWithHistory(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service, _, pointsRepo := newCatalogFixture(t)
	for _, row := range []points.PlayerMatchPoints{
		{MatchID: 900, PlayerID: 101, Matchday: 1, Points: 12, CalculatedAt: time.Now()},
		{MatchID: 901, PlayerID: 101, Matchday: 2, Points: 4, CalculatedAt: time.Now()},
	} {
		if err := pointsRepo.Upsert(ctx, row); err != nil {
			t.Fatalf("seed points: %v", err)
		}
	}

	detail, err := service.Player(ctx, 101)
	if err != nil {
		t.Fatalf("Player error: %v", err)
	}
	if len(detail.History) != 2 || detail.History[0].Matchday != 1 {
		t.Fatalf("history = %+v", detail.History)
	}
}

func TestCatalogService_MatchesByMatchday(t *testing.T) {
	t.Parallel()

	service, _, _ := newCatalogFixture(t)

	all, err := service.Matches(context.Background(), 0)
	if err != nil {
		t.Fatalf("Matches error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("all matches = %d, want 2", len(all))
	}

	one, err := service.Matches(context.Background(), 2)
	if err != nil {
		t.Fatalf("Matches error: %v", err)
	}
	if len(one) != 1 || one[0].ID != 901 {
		t.Fatalf("matchday 2 = %+v", one)
	}
}

func TestCatalogService_MatchDetail(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service, matches, _ := newCatalogFixture(t)
	if err := matches.ReplaceEvents(ctx, 900, []match.Event{
		{MatchID: 900, PlayerID: 101, Kind: match.EventGoal},
	}); err != nil {
		t.Fatalf("seed events: %v", err)
	}
	if err := matches.ReplaceLineup(ctx, 900, []match.LineupEntry{
		{MatchID: 900, PlayerID: 101, TeamID: 10, Role: match.RoleStarter},
	}); err != nil {
		t.Fatalf("seed lineup: %v", err)
	}

	detail, err := service.Match(ctx, 900)
	if err != nil {
		t.Fatalf("Match error: %v", err)
	}
	if len(detail.Events) != 1 || detail.Events[0].Kind != match.EventGoal {
		t.Fatalf("events = %+v", detail.Events)
	}
	if len(detail.Lineup) != 1 || detail.Lineup[0].Role != match.RoleStarter {
		t.Fatalf("lineup = %+v", detail.Lineup)
	}

	if _, err := service.Match(ctx, 555); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing match error = %v, want ErrNotFound", err)
	}
}
