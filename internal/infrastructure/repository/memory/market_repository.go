package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/SanchuCortes/HouseManager-sub000/internal/domain/market"
)

type ownershipKey struct {
	leagueID int64
	playerID int64
}

type captainKey struct {
	leagueID int64
	userID   string
}

// MarketRepository holds market state in process. The Complete* operations
// mutate listings, ownerships and member budgets under one lock, mirroring
// the transactional contract of the SQL implementation.
type MarketRepository struct {
	mu         sync.RWMutex
	leagues    *LeagueRepository
	states     map[int64]market.State
	listings   map[ownershipKey]market.Listing
	ownerships map[ownershipKey]market.Ownership
	captains   map[captainKey]market.Captain
}

func NewMarketRepository(leagues *LeagueRepository) *MarketRepository {
	return &MarketRepository{
		leagues:    leagues,
		states:     make(map[int64]market.State),
		listings:   make(map[ownershipKey]market.Listing),
		ownerships: make(map[ownershipKey]market.Ownership),
		captains:   make(map[captainKey]market.Captain),
	}
}

func (r *MarketRepository) GetState(_ context.Context, leagueID int64) (market.State, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state, ok := r.states[leagueID]
	return state, ok, nil
}

func (r *MarketRepository) UpsertState(_ context.Context, s market.State) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.states[s.LeagueID] = s
	return nil
}

func (r *MarketRepository) ListListings(_ context.Context, leagueID int64) ([]market.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]market.Listing, 0)
	for key, listing := range r.listings {
		if key.leagueID == leagueID {
			out = append(out, listing)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })
	return out, nil
}

func (r *MarketRepository) GetListing(_ context.Context, leagueID, playerID int64) (market.Listing, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	listing, ok := r.listings[ownershipKey{leagueID: leagueID, playerID: playerID}]
	return listing, ok, nil
}

func (r *MarketRepository) ReplaceListings(_ context.Context, leagueID int64, listings []market.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key := range r.listings {
		if key.leagueID == leagueID {
			delete(r.listings, key)
		}
	}
	for _, listing := range listings {
		r.listings[ownershipKey{leagueID: listing.LeagueID, playerID: listing.PlayerID}] = listing
	}
	return nil
}

func (r *MarketRepository) DeleteExpiredListings(_ context.Context, leagueID int64, before time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for key, listing := range r.listings {
		if key.leagueID != leagueID {
			continue
		}
		if listing.Sold || !listing.ExpiresAt.After(before) {
			delete(r.listings, key)
			removed++
		}
	}
	return removed, nil
}

func (r *MarketRepository) GetOwnership(_ context.Context, leagueID, playerID int64) (market.Ownership, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ownership, ok := r.ownerships[ownershipKey{leagueID: leagueID, playerID: playerID}]
	return ownership, ok, nil
}

func (r *MarketRepository) ListOwnershipsByLeague(_ context.Context, leagueID int64) ([]market.Ownership, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.listOwnershipsLocked(leagueID, ""), nil
}

func (r *MarketRepository) ListOwnershipsByOwner(_ context.Context, leagueID int64, userID string) ([]market.Ownership, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.listOwnershipsLocked(leagueID, userID), nil
}

func (r *MarketRepository) GetCaptain(_ context.Context, leagueID int64, userID string) (market.Captain, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	captain, ok := r.captains[captainKey{leagueID: leagueID, userID: userID}]
	return captain, ok, nil
}

func (r *MarketRepository) UpsertCaptain(_ context.Context, c market.Captain) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.captains[captainKey{leagueID: c.LeagueID, userID: c.UserID}] = c
	return nil
}

func (r *MarketRepository) CompletePurchase(_ context.Context, order market.PurchaseOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := ownershipKey{leagueID: order.Ownership.LeagueID, playerID: order.Ownership.PlayerID}
	listing, ok := r.listings[key]
	if !ok || listing.Sold {
		return fmt.Errorf("listing not purchasable league=%d player=%d", key.leagueID, key.playerID)
	}
	if !r.leagues.setMemberBudget(key.leagueID, order.Ownership.OwnerUserID, order.BudgetAfter) {
		return fmt.Errorf("member not found league=%d user=%s", key.leagueID, order.Ownership.OwnerUserID)
	}

	listing.Sold = true
	r.listings[key] = listing
	r.ownerships[key] = order.Ownership
	return nil
}

func (r *MarketRepository) CompleteSale(_ context.Context, order market.SaleOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := ownershipKey{leagueID: order.LeagueID, playerID: order.PlayerID}
	ownership, ok := r.ownerships[key]
	if !ok || ownership.OwnerUserID != order.SellerID {
		return fmt.Errorf("ownership not sellable league=%d player=%d", key.leagueID, key.playerID)
	}
	if !r.leagues.setMemberBudget(order.LeagueID, order.SellerID, order.BudgetAfter) {
		return fmt.Errorf("member not found league=%d user=%s", order.LeagueID, order.SellerID)
	}

	delete(r.ownerships, key)

	// Only selling the captain clears the pick.
	sellerKey := captainKey{leagueID: order.LeagueID, userID: order.SellerID}
	if captain, ok := r.captains[sellerKey]; ok && captain.PlayerID == order.PlayerID {
		delete(r.captains, sellerKey)
	}
	return nil
}

func (r *MarketRepository) CompleteClauseTransfer(_ context.Context, order market.ClauseOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := ownershipKey{leagueID: order.Ownership.LeagueID, playerID: order.Ownership.PlayerID}
	current, ok := r.ownerships[key]
	if !ok || current.OwnerUserID != order.SellerID {
		return fmt.Errorf("ownership not transferable league=%d player=%d", key.leagueID, key.playerID)
	}
	if !r.leagues.setMemberBudget(key.leagueID, order.Ownership.OwnerUserID, order.BuyerBudgetAfter) {
		return fmt.Errorf("buyer not found league=%d user=%s", key.leagueID, order.Ownership.OwnerUserID)
	}
	if !r.leagues.setMemberBudget(key.leagueID, order.SellerID, order.SellerBudgetAfter) {
		return fmt.Errorf("seller not found league=%d user=%s", key.leagueID, order.SellerID)
	}

	r.ownerships[key] = order.Ownership

	// A raided captain pick does not follow the player.
	sellerKey := captainKey{leagueID: key.leagueID, userID: order.SellerID}
	if captain, ok := r.captains[sellerKey]; ok && captain.PlayerID == key.playerID {
		delete(r.captains, sellerKey)
	}
	return nil
}

func (r *MarketRepository) listOwnershipsLocked(leagueID int64, userID string) []market.Ownership {
	out := make([]market.Ownership, 0)
	for key, ownership := range r.ownerships {
		if key.leagueID != leagueID {
			continue
		}
		if userID != "" && ownership.OwnerUserID != userID {
			continue
		}
		out = append(out, ownership)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })
	return out
}
