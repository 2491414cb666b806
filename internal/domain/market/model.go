package market

import "time"

// Ownership ties a player to the manager who owns them inside one league.
// Invariant: at most one owner per (league, player); acquiring overwrites the
// prior row.
type Ownership struct {
	LeagueID      int64
	PlayerID      int64
	OwnerUserID   string
	AcquiredPrice float64
	AcquiredAt    time.Time
}

// Listing is one time-boxed market offer for a player within a league.
// Invariant: at most one active (unsold, unexpired) listing per
// (league, player).
type Listing struct {
	LeagueID  int64
	PlayerID  int64
	Price     float64
	ListedAt  time.Time
	ExpiresAt time.Time
	Sold      bool
}

// Active reports whether the listing can still be bought. Expired rows are
// inactive on every read path even before the cleanup pass deletes them.
func (l Listing) Active(now time.Time) bool {
	return !l.Sold && now.Before(l.ExpiresAt)
}

// State tracks, per league, when the current market batch was generated and
// when it expires.
type State struct {
	LeagueID        int64
	MarketExpiresAt time.Time
	LastGeneratedAt time.Time
}

// Captain is the player whose points a manager doubles. One per manager per
// league.
type Captain struct {
	LeagueID int64
	UserID   string
	PlayerID int64
}

// PurchaseOrder groups the writes of one market purchase. Implementations
// must apply ownership upsert, listing mark-sold and budget debit atomically.
type PurchaseOrder struct {
	Ownership   Ownership
	BudgetAfter float64
}

// SaleOrder removes an ownership and credits the seller.
type SaleOrder struct {
	LeagueID    int64
	PlayerID    int64
	SellerID    string
	BudgetAfter float64
}

// ClauseOrder transfers an owned player between managers at the clause price.
type ClauseOrder struct {
	Ownership         Ownership
	BuyerBudgetAfter  float64
	SellerID          string
	SellerBudgetAfter float64
}
