package market

import (
	"context"
	"time"
)

// Repository describes market persistence needs. The Complete* methods carry
// the purchase-path atomicity requirement: each applies all of its writes or
// none of them.
type Repository interface {
	GetState(ctx context.Context, leagueID int64) (State, bool, error)
	UpsertState(ctx context.Context, s State) error

	ListListings(ctx context.Context, leagueID int64) ([]Listing, error)
	GetListing(ctx context.Context, leagueID, playerID int64) (Listing, bool, error)
	ReplaceListings(ctx context.Context, leagueID int64, listings []Listing) error
	DeleteExpiredListings(ctx context.Context, leagueID int64, before time.Time) (int, error)

	GetOwnership(ctx context.Context, leagueID, playerID int64) (Ownership, bool, error)
	ListOwnershipsByLeague(ctx context.Context, leagueID int64) ([]Ownership, error)
	ListOwnershipsByOwner(ctx context.Context, leagueID int64, userID string) ([]Ownership, error)

	GetCaptain(ctx context.Context, leagueID int64, userID string) (Captain, bool, error)
	UpsertCaptain(ctx context.Context, c Captain) error

	CompletePurchase(ctx context.Context, order PurchaseOrder) error
	CompleteSale(ctx context.Context, order SaleOrder) error
	CompleteClauseTransfer(ctx context.Context, order ClauseOrder) error
}
