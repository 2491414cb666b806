package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SanchuCortes/HouseManager-sub000/internal/domain/league"
	"github.com/SanchuCortes/HouseManager-sub000/internal/domain/player"
	"github.com/SanchuCortes/HouseManager-sub000/internal/infrastructure/repository/memory"
)

type marketFixture struct {
	leagues *memory.LeagueRepository
	markets *memory.MarketRepository
	players *memory.PlayerRepository
	service *MarketService
	clock   time.Time
}

func newMarketFixture(t *testing.T, playerCount int) *marketFixture {
	t.Helper()

	clock := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	leagues := memory.NewLeagueRepository([]league.League{{
		ID:            1,
		Name:          "Casa",
		Type:          league.TypePrivate,
		Budget:        200,
		ClauseEnabled: true,
		BlockDays:     7,
		Creator:       "ana",
		CreatedAt:     clock,
	}})
	markets := memory.NewMarketRepository(leagues)

	seed := make([]player.Player, 0, playerCount)
	for i := 0; i < playerCount; i++ {
		seed = append(seed, newTestPlayer(int64(100+i), 10, player.PositionMidfielder))
	}
	players := memory.NewPlayerRepository(seed)

	f := &marketFixture{
		leagues: leagues,
		markets: markets,
		players: players,
		clock:   clock,
	}
	f.service = NewMarketService(leagues, markets, players)
	f.service.now = func() time.Time { return f.clock }
	// Identity shuffle keeps listing selection deterministic.
	f.service.shuffle = func(int, func(i, j int)) {}

	for _, userID := range []string{"ana", "ben"} {
		if err := leagues.UpsertMember(context.Background(), league.Member{
			LeagueID: 1, UserID: userID, Budget: 200, JoinedAt: clock,
		}); err != nil {
			t.Fatalf("seed member: %v", err)
		}
	}
	return f
}

func TestMarketService_Market_GeneratesBatch(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newMarketFixture(t, 14)

	view, err := f.service.Market(ctx, 1)
	if err != nil {
		t.Fatalf("Market error: %v", err)
	}
	if len(view.Listings) != 10 {
		t.Fatalf("listing count = %d, want 10", len(view.Listings))
	}
	if !view.ExpiresAt.Equal(f.clock.Add(24 * time.Hour)) {
		t.Fatalf("expires at = %v, want 24h from now", view.ExpiresAt)
	}

	// Within the cadence window the batch is stable.
	f.clock = f.clock.Add(2 * time.Hour)
	again, err := f.service.Market(ctx, 1)
	if err != nil {
		t.Fatalf("second Market error: %v", err)
	}
	if len(again.Listings) != 10 || !again.GeneratedAt.Equal(view.GeneratedAt) {
		t.Fatalf("batch regenerated inside cadence window: %+v", again)
	}

	// Past expiry a fresh batch is drawn.
	f.clock = f.clock.Add(23 * time.Hour)
	fresh, err := f.service.Market(ctx, 1)
	if err != nil {
		t.Fatalf("third Market error: %v", err)
	}
	if fresh.GeneratedAt.Equal(view.GeneratedAt) {
		t.Fatal("expired batch must be regenerated")
	}
}

func TestMarketService_Buy_DebitsBudgetAndWinsOnce(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newMarketFixture(t, 5)

	view, err := f.service.Market(ctx, 1)
	if err != nil {
		t.Fatalf("Market error: %v", err)
	}
	target := view.Listings[0]

	receipt, err := f.service.Buy(ctx, 1, "ana", target.PlayerID)
	if err != nil {
		t.Fatalf("Buy error: %v", err)
	}
	if receipt.Price != target.Price {
		t.Fatalf("price = %v, want %v", receipt.Price, target.Price)
	}
	if receipt.BudgetAfter != 200-target.Price {
		t.Fatalf("budget after = %v, want %v", receipt.BudgetAfter, 200-target.Price)
	}

	member, _, _ := f.leagues.GetMember(ctx, 1, "ana")
	if member.Budget != 200-target.Price {
		t.Fatalf("persisted budget = %v", member.Budget)
	}

	// The same listing cannot be won twice.
	if _, err := f.service.Buy(ctx, 1, "ben", target.PlayerID); !errors.Is(err, ErrListingUnavailable) {
		t.Fatalf("second buy error = %v, want ErrListingUnavailable", err)
	}

	// A sold player must not reappear in the next batch.
	f.clock = f.clock.Add(25 * time.Hour)
	next, err := f.service.Market(ctx, 1)
	if err != nil {
		t.Fatalf("regenerated Market error: %v", err)
	}
	for _, l := range next.Listings {
		if l.PlayerID == target.PlayerID {
			t.Fatalf("owned player %d relisted", target.PlayerID)
		}
	}
}

func TestMarketService_Buy_InsufficientFunds(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newMarketFixture(t, 3)

	if err := f.leagues.UpsertMember(ctx, league.Member{LeagueID: 1, UserID: "poor", Budget: 1}); err != nil {
		t.Fatalf("seed member: %v", err)
	}
	view, err := f.service.Market(ctx, 1)
	if err != nil {
		t.Fatalf("Market error: %v", err)
	}

	if _, err := f.service.Buy(ctx, 1, "poor", view.Listings[0].PlayerID); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("buy error = %v, want ErrInsufficientFunds", err)
	}

	member, _, _ := f.leagues.GetMember(ctx, 1, "poor")
	if member.Budget != 1 {
		t.Fatalf("failed buy moved budget: %v", member.Budget)
	}
}

func TestMarketService_Buy_RejectsNonMember(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newMarketFixture(t, 3)

	view, err := f.service.Market(ctx, 1)
	if err != nil {
		t.Fatalf("Market error: %v", err)
	}
	if _, err := f.service.Buy(ctx, 1, "stranger", view.Listings[0].PlayerID); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("buy error = %v, want ErrUnauthorized", err)
	}
}

func TestMarketService_Sell_CreditsCurrentPrice(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newMarketFixture(t, 3)

	view, err := f.service.Market(ctx, 1)
	if err != nil {
		t.Fatalf("Market error: %v", err)
	}
	target := view.Listings[0]
	if _, err := f.service.Buy(ctx, 1, "ana", target.PlayerID); err != nil {
		t.Fatalf("Buy error: %v", err)
	}

	receipt, err := f.service.Sell(ctx, 1, "ana", target.PlayerID)
	if err != nil {
		t.Fatalf("Sell error: %v", err)
	}
	if receipt.BudgetAfter != 200 {
		t.Fatalf("budget after round trip = %v, want 200", receipt.BudgetAfter)
	}

	if _, owned, _ := f.markets.GetOwnership(ctx, 1, target.PlayerID); owned {
		t.Fatal("ownership must be released after sale")
	}

	// Selling a player you do not own fails.
	if _, err := f.service.Sell(ctx, 1, "ben", target.PlayerID); !errors.Is(err, ErrNotOwned) {
		t.Fatalf("sell error = %v, want ErrNotOwned", err)
	}
}

func TestMarketService_ClauseBuy_RespectsBlockWindow(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newMarketFixture(t, 3)

	view, err := f.service.Market(ctx, 1)
	if err != nil {
		t.Fatalf("Market error: %v", err)
	}
	target := view.Listings[0]
	if _, err := f.service.Buy(ctx, 1, "ana", target.PlayerID); err != nil {
		t.Fatalf("Buy error: %v", err)
	}

	status, err := f.service.Clause(ctx, 1, target.PlayerID)
	if err != nil {
		t.Fatalf("Clause error: %v", err)
	}
	if !status.Locked {
		t.Fatal("clause must be locked right after acquisition")
	}
	if status.ClausePrice != target.Price*2 {
		t.Fatalf("clause price = %v, want %v", status.ClausePrice, target.Price*2)
	}

	if _, err := f.service.ClauseBuy(ctx, 1, "ben", target.PlayerID); !errors.Is(err, ErrClauseLocked) {
		t.Fatalf("locked clause buy error = %v, want ErrClauseLocked", err)
	}

	// After the 7 day block window the raid goes through at double price.
	f.clock = f.clock.Add(7*24*time.Hour + time.Minute)
	receipt, err := f.service.ClauseBuy(ctx, 1, "ben", target.PlayerID)
	if err != nil {
		t.Fatalf("ClauseBuy error: %v", err)
	}
	if receipt.Price != target.Price*2 {
		t.Fatalf("clause receipt price = %v", receipt.Price)
	}

	ownership, owned, _ := f.markets.GetOwnership(ctx, 1, target.PlayerID)
	if !owned || ownership.OwnerUserID != "ben" {
		t.Fatalf("ownership after raid = %+v", ownership)
	}

	buyer, _, _ := f.leagues.GetMember(ctx, 1, "ben")
	seller, _, _ := f.leagues.GetMember(ctx, 1, "ana")
	if buyer.Budget != 200-target.Price*2 {
		t.Fatalf("buyer budget = %v", buyer.Budget)
	}
	// Seller paid the listing price earlier and receives double back.
	if seller.Budget != 200-target.Price+target.Price*2 {
		t.Fatalf("seller budget = %v", seller.Budget)
	}

	// Raiding your own player is rejected.
	if _, err := f.service.ClauseBuy(ctx, 1, "ben", target.PlayerID); !errors.Is(err, ErrAlreadyOwned) {
		t.Fatalf("self raid error = %v, want ErrAlreadyOwned", err)
	}
}

func TestMarketService_PurgeExpired(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newMarketFixture(t, 6)

	if _, err := f.service.Market(ctx, 1); err != nil {
		t.Fatalf("Market error: %v", err)
	}

	f.clock = f.clock.Add(25 * time.Hour)
	removed, err := f.service.PurgeExpired(ctx, 1)
	if err != nil {
		t.Fatalf("PurgeExpired error: %v", err)
	}
	if removed != 6 {
		t.Fatalf("removed = %d, want 6", removed)
	}
}
