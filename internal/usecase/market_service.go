package usecase

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/SanchuCortes/HouseManager-sub000/internal/domain/league"
	"github.com/SanchuCortes/HouseManager-sub000/internal/domain/market"
	"github.com/SanchuCortes/HouseManager-sub000/internal/domain/player"
)

const (
	marketBatchSize = 10
	marketCadence   = 24 * time.Hour
	clauseFactor    = 2.0
)

// MarketService runs the per-league transfer market: a rotating batch of
// random listings, purchases and sales against member budgets, and clause
// raids on owned players. All money movement goes through the atomic
// Complete* repository methods under a per-league lock, so two concurrent
// buyers cannot both win a listing or overdraw a budget.
type MarketService struct {
	leagueRepo league.Repository
	marketRepo market.Repository
	playerRepo player.Repository
	now        func() time.Time
	shuffle    func(n int, swap func(i, j int))

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func NewMarketService(
	leagueRepo league.Repository,
	marketRepo market.Repository,
	playerRepo player.Repository,
) *MarketService {
	return &MarketService{
		leagueRepo: leagueRepo,
		marketRepo: marketRepo,
		playerRepo: playerRepo,
		now:        time.Now,
		shuffle:    rand.Shuffle,
		locks:      make(map[int64]*sync.Mutex),
	}
}

func (s *MarketService) leagueLock(leagueID int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[leagueID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[leagueID] = lock
	}
	return lock
}

type MarketListing struct {
	PlayerID  int64     `json:"player_id"`
	Name      string    `json:"name"`
	Position  string    `json:"position"`
	TeamName  string    `json:"team_name"`
	Price     float64   `json:"price"`
	ExpiresAt time.Time `json:"expires_at"`
}

type MarketView struct {
	LeagueID    int64           `json:"league_id"`
	ExpiresAt   time.Time       `json:"expires_at"`
	GeneratedAt time.Time       `json:"generated_at"`
	Listings    []MarketListing `json:"listings"`
}

type PurchaseReceipt struct {
	LeagueID    int64   `json:"league_id"`
	PlayerID    int64   `json:"player_id"`
	UserID      string  `json:"user_id"`
	Price       float64 `json:"price"`
	BudgetAfter float64 `json:"budget_after"`
}

type SaleReceipt struct {
	LeagueID    int64   `json:"league_id"`
	PlayerID    int64   `json:"player_id"`
	UserID      string  `json:"user_id"`
	Price       float64 `json:"price"`
	BudgetAfter float64 `json:"budget_after"`
}

type ClauseStatus struct {
	LeagueID    int64     `json:"league_id"`
	PlayerID    int64     `json:"player_id"`
	OwnerUserID string    `json:"owner_user_id"`
	ClausePrice float64   `json:"clause_price"`
	Locked      bool      `json:"locked"`
	UnlocksAt   time.Time `json:"unlocks_at"`
}

// Market returns the current listing batch for a league, regenerating it
// first when the previous batch has expired or was never created.
func (s *MarketService) Market(ctx context.Context, leagueID int64) (MarketView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MarketService.Market")
	defer span.End()

	lock := s.leagueLock(leagueID)
	lock.Lock()
	defer lock.Unlock()

	if err := s.ensureMarketLocked(ctx, leagueID); err != nil {
		return MarketView{}, err
	}
	return s.marketViewLocked(ctx, leagueID)
}

// EnsureMarket regenerates the listing batch when due. The sync orchestrator
// and a periodic job both call it; regeneration is idempotent within the
// cadence window.
func (s *MarketService) EnsureMarket(ctx context.Context, leagueID int64) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.MarketService.EnsureMarket")
	defer span.End()

	lock := s.leagueLock(leagueID)
	lock.Lock()
	defer lock.Unlock()

	return s.ensureMarketLocked(ctx, leagueID)
}

func (s *MarketService) ensureMarketLocked(ctx context.Context, leagueID int64) error {
	if leagueID <= 0 {
		return fmt.Errorf("%w: league id must be greater than zero", ErrInvalidInput)
	}
	if _, exists, err := s.leagueRepo.GetByID(ctx, leagueID); err != nil {
		return fmt.Errorf("get league for market: %w", err)
	} else if !exists {
		return fmt.Errorf("%w: league id=%d", ErrNotFound, leagueID)
	}

	now := s.now().UTC()
	state, exists, err := s.marketRepo.GetState(ctx, leagueID)
	if err != nil {
		return fmt.Errorf("get market state: %w", err)
	}
	if exists && now.Before(state.MarketExpiresAt) {
		return nil
	}

	return s.regenerateLocked(ctx, leagueID, now)
}

func (s *MarketService) regenerateLocked(ctx context.Context, leagueID int64, now time.Time) error {
	if _, err := s.marketRepo.DeleteExpiredListings(ctx, leagueID, now); err != nil {
		return fmt.Errorf("delete expired listings: %w", err)
	}

	available, err := s.playerRepo.ListAvailable(ctx)
	if err != nil {
		return fmt.Errorf("list available players: %w", err)
	}

	ownerships, err := s.marketRepo.ListOwnershipsByLeague(ctx, leagueID)
	if err != nil {
		return fmt.Errorf("list ownerships for market: %w", err)
	}
	owned := make(map[int64]struct{}, len(ownerships))
	for _, o := range ownerships {
		owned[o.PlayerID] = struct{}{}
	}

	pool := make([]player.Player, 0, len(available))
	for _, p := range available {
		if _, taken := owned[p.ID]; taken {
			continue
		}
		pool = append(pool, p)
	}

	s.shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	if len(pool) > marketBatchSize {
		pool = pool[:marketBatchSize]
	}

	expiresAt := now.Add(marketCadence)
	listings := make([]market.Listing, 0, len(pool))
	for _, p := range pool {
		listings = append(listings, market.Listing{
			LeagueID:  leagueID,
			PlayerID:  p.ID,
			Price:     p.CurrentPrice,
			ListedAt:  now,
			ExpiresAt: expiresAt,
		})
	}

	if err := s.marketRepo.ReplaceListings(ctx, leagueID, listings); err != nil {
		return fmt.Errorf("replace listings: %w", err)
	}
	if err := s.marketRepo.UpsertState(ctx, market.State{
		LeagueID:        leagueID,
		MarketExpiresAt: expiresAt,
		LastGeneratedAt: now,
	}); err != nil {
		return fmt.Errorf("upsert market state: %w", err)
	}

	return nil
}

func (s *MarketService) marketViewLocked(ctx context.Context, leagueID int64) (MarketView, error) {
	state, _, err := s.marketRepo.GetState(ctx, leagueID)
	if err != nil {
		return MarketView{}, fmt.Errorf("get market state: %w", err)
	}

	listings, err := s.marketRepo.ListListings(ctx, leagueID)
	if err != nil {
		return MarketView{}, fmt.Errorf("list listings: %w", err)
	}

	now := s.now().UTC()
	playerIDs := make([]int64, 0, len(listings))
	for _, l := range listings {
		if l.Active(now) {
			playerIDs = append(playerIDs, l.PlayerID)
		}
	}
	players, err := s.playerRepo.GetByIDs(ctx, playerIDs)
	if err != nil {
		return MarketView{}, fmt.Errorf("get listed players: %w", err)
	}
	playersByID := make(map[int64]player.Player, len(players))
	for _, p := range players {
		playersByID[p.ID] = p
	}

	view := MarketView{
		LeagueID:    leagueID,
		ExpiresAt:   state.MarketExpiresAt,
		GeneratedAt: state.LastGeneratedAt,
		Listings:    make([]MarketListing, 0, len(playerIDs)),
	}
	for _, l := range listings {
		if !l.Active(now) {
			continue
		}
		p := playersByID[l.PlayerID]
		view.Listings = append(view.Listings, MarketListing{
			PlayerID:  l.PlayerID,
			Name:      p.Name,
			Position:  string(p.Position),
			TeamName:  p.TeamName,
			Price:     l.Price,
			ExpiresAt: l.ExpiresAt,
		})
	}

	return view, nil
}

// Buy purchases a listed player for a league member at the listed price.
func (s *MarketService) Buy(ctx context.Context, leagueID int64, userID string, playerID int64) (PurchaseReceipt, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MarketService.Buy")
	defer span.End()

	if leagueID <= 0 || playerID <= 0 || userID == "" {
		return PurchaseReceipt{}, fmt.Errorf("%w: league id, player id and user id are required", ErrInvalidInput)
	}

	lock := s.leagueLock(leagueID)
	lock.Lock()
	defer lock.Unlock()

	if err := s.ensureMarketLocked(ctx, leagueID); err != nil {
		return PurchaseReceipt{}, err
	}

	member, exists, err := s.leagueRepo.GetMember(ctx, leagueID, userID)
	if err != nil {
		return PurchaseReceipt{}, fmt.Errorf("get member for purchase: %w", err)
	}
	if !exists {
		return PurchaseReceipt{}, fmt.Errorf("%w: user=%s is not a member of league=%d", ErrUnauthorized, userID, leagueID)
	}

	now := s.now().UTC()
	listing, exists, err := s.marketRepo.GetListing(ctx, leagueID, playerID)
	if err != nil {
		return PurchaseReceipt{}, fmt.Errorf("get listing for purchase: %w", err)
	}
	if !exists || !listing.Active(now) {
		return PurchaseReceipt{}, fmt.Errorf("%w: player=%d league=%d", ErrListingUnavailable, playerID, leagueID)
	}

	if _, owned, err := s.marketRepo.GetOwnership(ctx, leagueID, playerID); err != nil {
		return PurchaseReceipt{}, fmt.Errorf("get ownership for purchase: %w", err)
	} else if owned {
		return PurchaseReceipt{}, fmt.Errorf("%w: player=%d league=%d", ErrAlreadyOwned, playerID, leagueID)
	}

	if member.Budget < listing.Price {
		return PurchaseReceipt{}, fmt.Errorf("%w: budget=%.2f price=%.2f", ErrInsufficientFunds, member.Budget, listing.Price)
	}

	budgetAfter := member.Budget - listing.Price
	if err := s.marketRepo.CompletePurchase(ctx, market.PurchaseOrder{
		Ownership: market.Ownership{
			LeagueID:      leagueID,
			PlayerID:      playerID,
			OwnerUserID:   userID,
			AcquiredPrice: listing.Price,
			AcquiredAt:    now,
		},
		BudgetAfter: budgetAfter,
	}); err != nil {
		return PurchaseReceipt{}, fmt.Errorf("complete purchase player=%d league=%d: %w", playerID, leagueID, err)
	}

	return PurchaseReceipt{
		LeagueID:    leagueID,
		PlayerID:    playerID,
		UserID:      userID,
		Price:       listing.Price,
		BudgetAfter: budgetAfter,
	}, nil
}

// Sell releases an owned player back to the pool and credits the seller at
// the player's current market price.
func (s *MarketService) Sell(ctx context.Context, leagueID int64, userID string, playerID int64) (SaleReceipt, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MarketService.Sell")
	defer span.End()

	if leagueID <= 0 || playerID <= 0 || userID == "" {
		return SaleReceipt{}, fmt.Errorf("%w: league id, player id and user id are required", ErrInvalidInput)
	}

	lock := s.leagueLock(leagueID)
	lock.Lock()
	defer lock.Unlock()

	member, exists, err := s.leagueRepo.GetMember(ctx, leagueID, userID)
	if err != nil {
		return SaleReceipt{}, fmt.Errorf("get member for sale: %w", err)
	}
	if !exists {
		return SaleReceipt{}, fmt.Errorf("%w: user=%s is not a member of league=%d", ErrUnauthorized, userID, leagueID)
	}

	ownership, exists, err := s.marketRepo.GetOwnership(ctx, leagueID, playerID)
	if err != nil {
		return SaleReceipt{}, fmt.Errorf("get ownership for sale: %w", err)
	}
	if !exists || ownership.OwnerUserID != userID {
		return SaleReceipt{}, fmt.Errorf("%w: player=%d user=%s", ErrNotOwned, playerID, userID)
	}

	p, exists, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return SaleReceipt{}, fmt.Errorf("get player for sale: %w", err)
	}
	if !exists {
		return SaleReceipt{}, fmt.Errorf("%w: player id=%d", ErrNotFound, playerID)
	}

	budgetAfter := member.Budget + p.CurrentPrice
	if err := s.marketRepo.CompleteSale(ctx, market.SaleOrder{
		LeagueID:    leagueID,
		PlayerID:    playerID,
		SellerID:    userID,
		BudgetAfter: budgetAfter,
	}); err != nil {
		return SaleReceipt{}, fmt.Errorf("complete sale player=%d league=%d: %w", playerID, leagueID, err)
	}

	return SaleReceipt{
		LeagueID:    leagueID,
		PlayerID:    playerID,
		UserID:      userID,
		Price:       p.CurrentPrice,
		BudgetAfter: budgetAfter,
	}, nil
}

// Clause reports the buyout terms for an owned player: double the current
// market price, locked for the league's block window after acquisition.
func (s *MarketService) Clause(ctx context.Context, leagueID, playerID int64) (ClauseStatus, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MarketService.Clause")
	defer span.End()

	l, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return ClauseStatus{}, fmt.Errorf("get league for clause: %w", err)
	}
	if !exists {
		return ClauseStatus{}, fmt.Errorf("%w: league id=%d", ErrNotFound, leagueID)
	}
	if !l.ClauseEnabled {
		return ClauseStatus{}, fmt.Errorf("%w: clause transfers are disabled for league=%d", ErrInvalidInput, leagueID)
	}

	ownership, exists, err := s.marketRepo.GetOwnership(ctx, leagueID, playerID)
	if err != nil {
		return ClauseStatus{}, fmt.Errorf("get ownership for clause: %w", err)
	}
	if !exists {
		return ClauseStatus{}, fmt.Errorf("%w: player=%d has no owner in league=%d", ErrNotOwned, playerID, leagueID)
	}

	p, exists, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return ClauseStatus{}, fmt.Errorf("get player for clause: %w", err)
	}
	if !exists {
		return ClauseStatus{}, fmt.Errorf("%w: player id=%d", ErrNotFound, playerID)
	}

	unlocksAt := ownership.AcquiredAt.Add(time.Duration(l.BlockDays) * 24 * time.Hour)
	now := s.now().UTC()
	return ClauseStatus{
		LeagueID:    leagueID,
		PlayerID:    playerID,
		OwnerUserID: ownership.OwnerUserID,
		ClausePrice: p.CurrentPrice * clauseFactor,
		Locked:      now.Before(unlocksAt),
		UnlocksAt:   unlocksAt,
	}, nil
}

// ClauseBuy transfers an owned player to another member by paying the clause
// price. The seller is credited the full amount.
func (s *MarketService) ClauseBuy(ctx context.Context, leagueID int64, buyerID string, playerID int64) (PurchaseReceipt, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MarketService.ClauseBuy")
	defer span.End()

	if leagueID <= 0 || playerID <= 0 || buyerID == "" {
		return PurchaseReceipt{}, fmt.Errorf("%w: league id, player id and user id are required", ErrInvalidInput)
	}

	lock := s.leagueLock(leagueID)
	lock.Lock()
	defer lock.Unlock()

	status, err := s.Clause(ctx, leagueID, playerID)
	if err != nil {
		return PurchaseReceipt{}, err
	}
	if status.OwnerUserID == buyerID {
		return PurchaseReceipt{}, fmt.Errorf("%w: player=%d league=%d", ErrAlreadyOwned, playerID, leagueID)
	}
	if status.Locked {
		return PurchaseReceipt{}, fmt.Errorf("%w: player=%d unlocks at %s", ErrClauseLocked, playerID, status.UnlocksAt.Format(time.RFC3339))
	}

	buyer, exists, err := s.leagueRepo.GetMember(ctx, leagueID, buyerID)
	if err != nil {
		return PurchaseReceipt{}, fmt.Errorf("get buyer for clause: %w", err)
	}
	if !exists {
		return PurchaseReceipt{}, fmt.Errorf("%w: user=%s is not a member of league=%d", ErrUnauthorized, buyerID, leagueID)
	}
	if buyer.Budget < status.ClausePrice {
		return PurchaseReceipt{}, fmt.Errorf("%w: budget=%.2f clause=%.2f", ErrInsufficientFunds, buyer.Budget, status.ClausePrice)
	}

	seller, exists, err := s.leagueRepo.GetMember(ctx, leagueID, status.OwnerUserID)
	if err != nil {
		return PurchaseReceipt{}, fmt.Errorf("get seller for clause: %w", err)
	}
	if !exists {
		return PurchaseReceipt{}, fmt.Errorf("%w: owner=%s left league=%d", ErrNotFound, status.OwnerUserID, leagueID)
	}

	now := s.now().UTC()
	if err := s.marketRepo.CompleteClauseTransfer(ctx, market.ClauseOrder{
		Ownership: market.Ownership{
			LeagueID:      leagueID,
			PlayerID:      playerID,
			OwnerUserID:   buyerID,
			AcquiredPrice: status.ClausePrice,
			AcquiredAt:    now,
		},
		BuyerBudgetAfter:  buyer.Budget - status.ClausePrice,
		SellerID:          status.OwnerUserID,
		SellerBudgetAfter: seller.Budget + status.ClausePrice,
	}); err != nil {
		return PurchaseReceipt{}, fmt.Errorf("complete clause transfer player=%d league=%d: %w", playerID, leagueID, err)
	}

	return PurchaseReceipt{
		LeagueID:    leagueID,
		PlayerID:    playerID,
		UserID:      buyerID,
		Price:       status.ClausePrice,
		BudgetAfter: buyer.Budget - status.ClausePrice,
	}, nil
}

// PurgeExpired drops listings whose window has passed. Returns how many rows
// were removed.
func (s *MarketService) PurgeExpired(ctx context.Context, leagueID int64) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MarketService.PurgeExpired")
	defer span.End()

	lock := s.leagueLock(leagueID)
	lock.Lock()
	defer lock.Unlock()

	removed, err := s.marketRepo.DeleteExpiredListings(ctx, leagueID, s.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("delete expired listings: %w", err)
	}
	return removed, nil
}
