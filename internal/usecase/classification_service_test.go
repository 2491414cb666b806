package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/SanchuCortes/HouseManager-sub000/internal/domain/league"
	"github.com/SanchuCortes/HouseManager-sub000/internal/domain/market"
	"github.com/SanchuCortes/HouseManager-sub000/internal/domain/player"
	"github.com/SanchuCortes/HouseManager-sub000/internal/domain/points"
	"github.com/SanchuCortes/HouseManager-sub000/internal/infrastructure/repository/memory"
	"github.com/SanchuCortes/HouseManager-sub000/internal/platform/cache"
)

type classificationFixture struct {
	leagues  *memory.LeagueRepository
	markets  *memory.MarketRepository
	players  *memory.PlayerRepository
	points   *memory.PointsRepository
	service  *ClassificationService
	listings []market.Listing
}

func newClassificationFixture(t *testing.T) *classificationFixture {
	t.Helper()

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	leagues := memory.NewLeagueRepository([]league.League{{
		ID: 1, Name: "Casa", Type: league.TypePrivate, Budget: 200, Creator: "ana", CreatedAt: now,
	}})
	markets := memory.NewMarketRepository(leagues)
	players := memory.NewPlayerRepository(nil)
	pointsRepo := memory.NewPointsRepository()

	service := NewClassificationService(leagues, markets, players, pointsRepo, cache.NewStore(time.Minute))
	return &classificationFixture{
		leagues: leagues,
		markets: markets,
		players: players,
		points:  pointsRepo,
		service: service,
	}
}

func (f *classificationFixture) addMember(t *testing.T, userID string) {
	t.Helper()
	if err := f.leagues.UpsertMember(context.Background(), league.Member{LeagueID: 1, UserID: userID, Budget: 200}); err != nil {
		t.Fatalf("seed member: %v", err)
	}
}

func (f *classificationFixture) addOwnedPlayer(t *testing.T, userID string, playerID int64, totalPoints int) {
	t.Helper()
	ctx := context.Background()

	p := newTestPlayer(playerID, 10, player.PositionMidfielder)
	p.TotalPoints = totalPoints
	if err := f.players.UpsertAll(ctx, []player.Player{p}); err != nil {
		t.Fatalf("seed player: %v", err)
	}
	// Ownership rows only come out of completed purchases, so seed a
	// listing and buy it.
	f.listings = append(f.listings, market.Listing{
		LeagueID: 1, PlayerID: playerID, Price: 10, ExpiresAt: time.Now().Add(time.Hour),
	})
	if err := f.markets.ReplaceListings(ctx, 1, f.listings); err != nil {
		t.Fatalf("seed listings: %v", err)
	}
	if err := f.markets.CompletePurchase(ctx, market.PurchaseOrder{
		Ownership:   market.Ownership{LeagueID: 1, PlayerID: playerID, OwnerUserID: userID, AcquiredPrice: 10},
		BudgetAfter: 200,
	}); err != nil {
		t.Fatalf("seed ownership: %v", err)
	}
}

func TestClassificationService_Season_CaptainAddsTotalOnceMore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newClassificationFixture(t)
	f.addMember(t, "ana")
	f.addMember(t, "ben")
	f.addMember(t, "cleo")

	f.addOwnedPlayer(t, "ana", 101, 10)
	f.addOwnedPlayer(t, "ana", 102, 20)
	f.addOwnedPlayer(t, "ana", 103, 30)
	f.addOwnedPlayer(t, "ben", 104, 25)

	if err := f.markets.UpsertCaptain(ctx, market.Captain{LeagueID: 1, UserID: "ana", PlayerID: 102}); err != nil {
		t.Fatalf("seed captain: %v", err)
	}

	rows, err := f.service.SeasonClassification(ctx, 1)
	if err != nil {
		t.Fatalf("SeasonClassification error: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("row count = %d, want 3 (zero-point member included)", len(rows))
	}

	// ana: 10+20+30 plus captain's 20 once more = 80.
	if rows[0].UserID != "ana" || rows[0].Points != 80 || rows[0].Rank != 1 {
		t.Fatalf("rank 1 row = %+v", rows[0])
	}
	if rows[1].UserID != "ben" || rows[1].Points != 25 || rows[1].Rank != 2 {
		t.Fatalf("rank 2 row = %+v", rows[1])
	}
	if rows[2].UserID != "cleo" || rows[2].Points != 0 || rows[2].PlayerCount != 0 || rows[2].Rank != 3 {
		t.Fatalf("rank 3 row = %+v", rows[2])
	}
}

func TestClassificationService_Matchday_DoublesCaptainRow(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newClassificationFixture(t)
	f.addMember(t, "ana")
	f.addMember(t, "ben")

	f.addOwnedPlayer(t, "ana", 101, 0)
	f.addOwnedPlayer(t, "ana", 102, 0)
	f.addOwnedPlayer(t, "ben", 103, 0)

	for _, row := range []points.PlayerMatchPoints{
		{MatchID: 1, PlayerID: 101, Matchday: 5, Points: 6},
		{MatchID: 1, PlayerID: 102, Matchday: 5, Points: 9},
		{MatchID: 2, PlayerID: 103, Matchday: 5, Points: 12},
		{MatchID: 3, PlayerID: 101, Matchday: 6, Points: 99},
	} {
		if err := f.points.Upsert(ctx, row); err != nil {
			t.Fatalf("seed points: %v", err)
		}
	}
	if err := f.markets.UpsertCaptain(ctx, market.Captain{LeagueID: 1, UserID: "ana", PlayerID: 102}); err != nil {
		t.Fatalf("seed captain: %v", err)
	}

	rows, err := f.service.MatchdayClassification(ctx, 1, 5)
	if err != nil {
		t.Fatalf("MatchdayClassification error: %v", err)
	}

	// ana: 6 + 9*2 = 24 beats ben's 12. Matchday 6 rows stay out.
	if rows[0].UserID != "ana" || rows[0].Points != 24 {
		t.Fatalf("rank 1 row = %+v", rows[0])
	}
	if rows[1].UserID != "ben" || rows[1].Points != 12 {
		t.Fatalf("rank 2 row = %+v", rows[1])
	}
}

func TestClassificationService_TieBreaksByUserID(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newClassificationFixture(t)
	f.addMember(t, "zoe")
	f.addMember(t, "ana")

	rows, err := f.service.SeasonClassification(ctx, 1)
	if err != nil {
		t.Fatalf("SeasonClassification error: %v", err)
	}
	if rows[0].UserID != "ana" || rows[1].UserID != "zoe" {
		t.Fatalf("tie order = %s, %s; want ana first", rows[0].UserID, rows[1].UserID)
	}
	if rows[0].Rank != 1 || rows[1].Rank != 1 {
		t.Fatalf("equal points must share rank 1: %+v", rows)
	}
}

func TestClassificationService_UnknownLeague(t *testing.T) {
	t.Parallel()

	f := newClassificationFixture(t)
	if _, err := f.service.SeasonClassification(context.Background(), 42); err == nil {
		t.Fatal("expected error for unknown league")
	}
}
