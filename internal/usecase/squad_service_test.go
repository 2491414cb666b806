package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SanchuCortes/HouseManager-sub000/internal/domain/league"
	"github.com/SanchuCortes/HouseManager-sub000/internal/domain/market"
	"github.com/SanchuCortes/HouseManager-sub000/internal/domain/player"
	"github.com/SanchuCortes/HouseManager-sub000/internal/infrastructure/repository/memory"
)

func newSquadFixture(t *testing.T) (*SquadService, *memory.LeagueRepository, *memory.MarketRepository, *memory.PlayerRepository) {
	t.Helper()

	ctx := context.Background()
	leagues := memory.NewLeagueRepository([]league.League{{
		ID: 1, Name: "Casa", Type: league.TypePrivate, Budget: 200, Creator: "ana",
	}})
	markets := memory.NewMarketRepository(leagues)
	players := memory.NewPlayerRepository(nil)

	if err := leagues.UpsertMember(ctx, league.Member{LeagueID: 1, UserID: "ana", Budget: 140}); err != nil {
		t.Fatalf("seed member: %v", err)
	}

	return NewSquadService(leagues, markets, players), leagues, markets, players
}

func seedOwnership(t *testing.T, markets *memory.MarketRepository, players *memory.PlayerRepository, userID string, playerID int64, totalPoints int) {
	t.Helper()
	ctx := context.Background()

	p := newTestPlayer(playerID, 10, player.PositionForward)
	p.TotalPoints = totalPoints
	if err := players.UpsertAll(ctx, []player.Player{p}); err != nil {
		t.Fatalf("seed player: %v", err)
	}

	listings, err := markets.ListListings(ctx, 1)
	if err != nil {
		t.Fatalf("list listings: %v", err)
	}
	listings = append(listings, market.Listing{
		LeagueID: 1, PlayerID: playerID, Price: 15, ExpiresAt: time.Now().Add(time.Hour),
	})
	if err := markets.ReplaceListings(ctx, 1, listings); err != nil {
		t.Fatalf("seed listing: %v", err)
	}
	if err := markets.CompletePurchase(ctx, market.PurchaseOrder{
		Ownership:   market.Ownership{LeagueID: 1, PlayerID: playerID, OwnerUserID: userID, AcquiredPrice: 15},
		BudgetAfter: 140,
	}); err != nil {
		t.Fatalf("seed ownership: %v", err)
	}
}

func TestSquadService_MySquad(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service, _, markets, players := newSquadFixture(t)
	seedOwnership(t, markets, players, "ana", 201, 30)
	seedOwnership(t, markets, players, "ana", 202, 10)

	if err := service.SetCaptain(ctx, 1, "ana", 202); err != nil {
		t.Fatalf("SetCaptain error: %v", err)
	}

	view, err := service.MySquad(ctx, 1, "ana")
	if err != nil {
		t.Fatalf("MySquad error: %v", err)
	}
	if view.Budget != 140 {
		t.Fatalf("budget = %v, want 140", view.Budget)
	}
	if len(view.Players) != 2 {
		t.Fatalf("player count = %d, want 2", len(view.Players))
	}
	// Ordered by total points; captain flag follows the pick.
	if view.Players[0].PlayerID != 201 || view.Players[0].IsCaptain {
		t.Fatalf("first row = %+v", view.Players[0])
	}
	if view.Players[1].PlayerID != 202 || !view.Players[1].IsCaptain {
		t.Fatalf("second row = %+v", view.Players[1])
	}
	if view.CaptainPlayerID != 202 {
		t.Fatalf("captain id = %d, want 202", view.CaptainPlayerID)
	}
	wantValue := view.Players[0].CurrentPrice + view.Players[1].CurrentPrice
	if view.TeamValue != wantValue {
		t.Fatalf("team value = %v, want %v", view.TeamValue, wantValue)
	}
}

func TestSquadService_MySquad_NonMember(t *testing.T) {
	t.Parallel()

	service, _, _, _ := newSquadFixture(t)
	if _, err := service.MySquad(context.Background(), 1, "stranger"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("error = %v, want ErrUnauthorized", err)
	}
}

func TestSquadService_SetCaptain_RequiresOwnership(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service, _, markets, players := newSquadFixture(t)
	seedOwnership(t, markets, players, "ana", 201, 0)

	if err := service.SetCaptain(ctx, 1, "ana", 999); !errors.Is(err, ErrNotOwned) {
		t.Fatalf("unowned captain error = %v, want ErrNotOwned", err)
	}
	if err := service.SetCaptain(ctx, 1, "ana", 201); err != nil {
		t.Fatalf("SetCaptain error: %v", err)
	}

	captain, exists, err := markets.GetCaptain(ctx, 1, "ana")
	if err != nil || !exists || captain.PlayerID != 201 {
		t.Fatalf("captain row = %+v exists=%v err=%v", captain, exists, err)
	}
}
