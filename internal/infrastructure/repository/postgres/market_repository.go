package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/SanchuCortes/HouseManager-sub000/internal/domain/market"
	qb "github.com/SanchuCortes/HouseManager-sub000/internal/platform/querybuilder"
)

type MarketRepository struct {
	db *sqlx.DB
}

func NewMarketRepository(db *sqlx.DB) *MarketRepository {
	return &MarketRepository{db: db}
}

func (r *MarketRepository) GetState(ctx context.Context, leagueID int64) (market.State, bool, error) {
	query, args, err := qb.Select("*").From("market_states").
		Where(qb.Eq("league_id", leagueID)).
		ToSQL()
	if err != nil {
		return market.State{}, false, fmt.Errorf("build get market state query: %w", err)
	}

	var row marketStateTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return market.State{}, false, nil
		}
		return market.State{}, false, fmt.Errorf("get market state: %w", err)
	}

	return market.State{
		LeagueID:        row.LeagueID,
		MarketExpiresAt: row.MarketExpiresAt,
		LastGeneratedAt: row.LastGeneratedAt,
	}, true, nil
}

func (r *MarketRepository) UpsertState(ctx context.Context, s market.State) error {
	query, args, err := qb.InsertInto("market_states").
		Columns("league_id", "market_expires_at", "last_generated_at").
		Values(s.LeagueID, s.MarketExpiresAt, s.LastGeneratedAt).
		Suffix(`ON CONFLICT (league_id) DO UPDATE SET
market_expires_at = EXCLUDED.market_expires_at,
last_generated_at = EXCLUDED.last_generated_at`).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build upsert market state query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert market state: %w", err)
	}

	return nil
}

func (r *MarketRepository) ListListings(ctx context.Context, leagueID int64) ([]market.Listing, error) {
	query, args, err := qb.Select("*").From("market_listings").
		Where(qb.Eq("league_id", leagueID)).
		OrderBy("player_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select market listings query: %w", err)
	}

	var rows []marketListingTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select market listings: %w", err)
	}

	out := make([]market.Listing, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapListingRow(row))
	}

	return out, nil
}

func (r *MarketRepository) GetListing(ctx context.Context, leagueID, playerID int64) (market.Listing, bool, error) {
	query, args, err := qb.Select("*").From("market_listings").
		Where(
			qb.Eq("league_id", leagueID),
			qb.Eq("player_id", playerID),
		).
		ToSQL()
	if err != nil {
		return market.Listing{}, false, fmt.Errorf("build get market listing query: %w", err)
	}

	var row marketListingTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return market.Listing{}, false, nil
		}
		return market.Listing{}, false, fmt.Errorf("get market listing: %w", err)
	}

	return mapListingRow(row), true, nil
}

func (r *MarketRepository) ReplaceListings(ctx context.Context, leagueID int64, listings []market.Listing) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace market listings tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	deleteQuery, deleteArgs, err := qb.DeleteFrom("market_listings").
		Where(qb.Eq("league_id", leagueID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete market listings query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return fmt.Errorf("delete market listings: %w", err)
	}

	for _, l := range listings {
		row := marketListingTableModel{
			LeagueID:  leagueID,
			PlayerID:  l.PlayerID,
			Price:     l.Price,
			ListedAt:  l.ListedAt,
			ExpiresAt: l.ExpiresAt,
			Sold:      l.Sold,
		}
		query, args, err := qb.InsertModel("market_listings", row, "")
		if err != nil {
			return fmt.Errorf("build insert market listing query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert market listing: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace market listings tx: %w", err)
	}

	return nil
}

func (r *MarketRepository) DeleteExpiredListings(ctx context.Context, leagueID int64, before time.Time) (int, error) {
	query, args, err := qb.DeleteFrom("market_listings").
		Where(
			qb.Eq("league_id", leagueID),
			qb.Expr("(sold = TRUE OR expires_at <= ?)", before),
		).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build delete expired market listings query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete expired market listings: %w", err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count deleted market listings: %w", err)
	}

	return int(removed), nil
}

func (r *MarketRepository) GetOwnership(ctx context.Context, leagueID, playerID int64) (market.Ownership, bool, error) {
	query, args, err := qb.Select("*").From("ownerships").
		Where(
			qb.Eq("league_id", leagueID),
			qb.Eq("player_id", playerID),
		).
		ToSQL()
	if err != nil {
		return market.Ownership{}, false, fmt.Errorf("build get ownership query: %w", err)
	}

	var row ownershipTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return market.Ownership{}, false, nil
		}
		return market.Ownership{}, false, fmt.Errorf("get ownership: %w", err)
	}

	return mapOwnershipRow(row), true, nil
}

func (r *MarketRepository) ListOwnershipsByLeague(ctx context.Context, leagueID int64) ([]market.Ownership, error) {
	query, args, err := qb.Select("*").From("ownerships").
		Where(qb.Eq("league_id", leagueID)).
		OrderBy("player_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select ownerships by league query: %w", err)
	}

	return r.selectOwnerships(ctx, query, args)
}

func (r *MarketRepository) ListOwnershipsByOwner(ctx context.Context, leagueID int64, userID string) ([]market.Ownership, error) {
	query, args, err := qb.Select("*").From("ownerships").
		Where(
			qb.Eq("league_id", leagueID),
			qb.Eq("owner_user_id", userID),
		).
		OrderBy("player_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select ownerships by owner query: %w", err)
	}

	return r.selectOwnerships(ctx, query, args)
}

func (r *MarketRepository) GetCaptain(ctx context.Context, leagueID int64, userID string) (market.Captain, bool, error) {
	query, args, err := qb.Select("*").From("captains").
		Where(
			qb.Eq("league_id", leagueID),
			qb.Eq("user_id", userID),
		).
		ToSQL()
	if err != nil {
		return market.Captain{}, false, fmt.Errorf("build get captain query: %w", err)
	}

	var row captainTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return market.Captain{}, false, nil
		}
		return market.Captain{}, false, fmt.Errorf("get captain: %w", err)
	}

	return market.Captain{
		LeagueID: row.LeagueID,
		UserID:   row.UserID,
		PlayerID: row.PlayerID,
	}, true, nil
}

func (r *MarketRepository) UpsertCaptain(ctx context.Context, c market.Captain) error {
	query, args, err := qb.InsertInto("captains").
		Columns("league_id", "user_id", "player_id").
		Values(c.LeagueID, c.UserID, c.PlayerID).
		Suffix(`ON CONFLICT (league_id, user_id) DO UPDATE SET
player_id = EXCLUDED.player_id`).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build upsert captain query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert captain: %w", err)
	}

	return nil
}

// CompletePurchase marks the listing sold, writes the ownership row and
// debits the buyer inside one transaction. The sold = FALSE guard makes two
// racing buyers resolve to exactly one winner.
func (r *MarketRepository) CompletePurchase(ctx context.Context, order market.PurchaseOrder) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin purchase tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	own := order.Ownership
	listingQuery, listingArgs, err := qb.Update("market_listings").
		Set("sold", true).
		Where(
			qb.Eq("league_id", own.LeagueID),
			qb.Eq("player_id", own.PlayerID),
			qb.Eq("sold", false),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build mark listing sold query: %w", err)
	}
	result, err := tx.ExecContext(ctx, listingQuery, listingArgs...)
	if err != nil {
		return fmt.Errorf("mark listing sold: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check listing update: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("listing league=%d player=%d is not purchasable", own.LeagueID, own.PlayerID)
	}

	if err := upsertOwnershipTx(ctx, tx, own); err != nil {
		return err
	}
	if err := setMemberBudgetTx(ctx, tx, own.LeagueID, own.OwnerUserID, order.BudgetAfter); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit purchase tx: %w", err)
	}

	return nil
}

// CompleteSale releases the player back to the pool, drops a captain pick
// that pointed at them and credits the seller, all or nothing.
func (r *MarketRepository) CompleteSale(ctx context.Context, order market.SaleOrder) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin sale tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	deleteQuery, deleteArgs, err := qb.DeleteFrom("ownerships").
		Where(
			qb.Eq("league_id", order.LeagueID),
			qb.Eq("player_id", order.PlayerID),
			qb.Eq("owner_user_id", order.SellerID),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete ownership query: %w", err)
	}
	result, err := tx.ExecContext(ctx, deleteQuery, deleteArgs...)
	if err != nil {
		return fmt.Errorf("delete ownership: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check ownership delete: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("ownership league=%d player=%d is not held by %s", order.LeagueID, order.PlayerID, order.SellerID)
	}

	if err := deleteCaptainPickTx(ctx, tx, order.LeagueID, order.SellerID, order.PlayerID); err != nil {
		return err
	}
	if err := setMemberBudgetTx(ctx, tx, order.LeagueID, order.SellerID, order.BudgetAfter); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit sale tx: %w", err)
	}

	return nil
}

// CompleteClauseTransfer moves an owned player to the clause buyer and
// settles both budgets in one transaction.
func (r *MarketRepository) CompleteClauseTransfer(ctx context.Context, order market.ClauseOrder) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin clause transfer tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	own := order.Ownership
	updateQuery, updateArgs, err := qb.Update("ownerships").
		Set("owner_user_id", own.OwnerUserID).
		Set("acquired_price", own.AcquiredPrice).
		Set("acquired_at", own.AcquiredAt).
		Where(
			qb.Eq("league_id", own.LeagueID),
			qb.Eq("player_id", own.PlayerID),
			qb.Eq("owner_user_id", order.SellerID),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build transfer ownership query: %w", err)
	}
	result, err := tx.ExecContext(ctx, updateQuery, updateArgs...)
	if err != nil {
		return fmt.Errorf("transfer ownership: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check ownership transfer: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("ownership league=%d player=%d is not held by %s", own.LeagueID, own.PlayerID, order.SellerID)
	}

	if err := deleteCaptainPickTx(ctx, tx, own.LeagueID, order.SellerID, own.PlayerID); err != nil {
		return err
	}
	if err := setMemberBudgetTx(ctx, tx, own.LeagueID, own.OwnerUserID, order.BuyerBudgetAfter); err != nil {
		return err
	}
	if err := setMemberBudgetTx(ctx, tx, own.LeagueID, order.SellerID, order.SellerBudgetAfter); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit clause transfer tx: %w", err)
	}

	return nil
}

func (r *MarketRepository) selectOwnerships(ctx context.Context, query string, args []any) ([]market.Ownership, error) {
	var rows []ownershipTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select ownerships: %w", err)
	}

	out := make([]market.Ownership, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapOwnershipRow(row))
	}

	return out, nil
}

func upsertOwnershipTx(ctx context.Context, tx *sqlx.Tx, own market.Ownership) error {
	query, args, err := qb.InsertInto("ownerships").
		Columns("league_id", "player_id", "owner_user_id", "acquired_price", "acquired_at").
		Values(own.LeagueID, own.PlayerID, own.OwnerUserID, own.AcquiredPrice, own.AcquiredAt).
		Suffix(`ON CONFLICT (league_id, player_id) DO UPDATE SET
owner_user_id = EXCLUDED.owner_user_id,
acquired_price = EXCLUDED.acquired_price,
acquired_at = EXCLUDED.acquired_at`).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build upsert ownership query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert ownership: %w", err)
	}

	return nil
}

func setMemberBudgetTx(ctx context.Context, tx *sqlx.Tx, leagueID int64, userID string, budget float64) error {
	query, args, err := qb.Update("league_members").
		Set("budget", budget).
		Where(
			qb.Eq("league_id", leagueID),
			qb.Eq("user_id", userID),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update member budget query: %w", err)
	}
	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update member budget: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check member budget update: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("member league=%d user=%s not found", leagueID, userID)
	}

	return nil
}

func deleteCaptainPickTx(ctx context.Context, tx *sqlx.Tx, leagueID int64, userID string, playerID int64) error {
	query, args, err := qb.DeleteFrom("captains").
		Where(
			qb.Eq("league_id", leagueID),
			qb.Eq("user_id", userID),
			qb.Eq("player_id", playerID),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete captain pick query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete captain pick: %w", err)
	}

	return nil
}

func mapListingRow(row marketListingTableModel) market.Listing {
	return market.Listing{
		LeagueID:  row.LeagueID,
		PlayerID:  row.PlayerID,
		Price:     row.Price,
		ListedAt:  row.ListedAt,
		ExpiresAt: row.ExpiresAt,
		Sold:      row.Sold,
	}
}

func mapOwnershipRow(row ownershipTableModel) market.Ownership {
	return market.Ownership{
		LeagueID:      row.LeagueID,
		PlayerID:      row.PlayerID,
		OwnerUserID:   row.OwnerUserID,
		AcquiredPrice: row.AcquiredPrice,
		AcquiredAt:    row.AcquiredAt,
	}
}
