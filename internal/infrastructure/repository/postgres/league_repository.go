package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/SanchuCortes/HouseManager-sub000/internal/domain/league"
	qb "github.com/SanchuCortes/HouseManager-sub000/internal/platform/querybuilder"
)

type LeagueRepository struct {
	db *sqlx.DB
}

func NewLeagueRepository(db *sqlx.DB) *LeagueRepository {
	return &LeagueRepository{db: db}
}

func (r *LeagueRepository) List(ctx context.Context) ([]league.League, error) {
	query, args, err := qb.Select("*").From("leagues").
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select leagues query: %w", err)
	}

	var rows []leagueTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select leagues: %w", err)
	}

	out := make([]league.League, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapLeagueRow(row))
	}

	return out, nil
}

func (r *LeagueRepository) GetByID(ctx context.Context, leagueID int64) (league.League, bool, error) {
	query, args, err := qb.Select("*").From("leagues").
		Where(qb.Eq("id", leagueID)).
		ToSQL()
	if err != nil {
		return league.League{}, false, fmt.Errorf("build get league by id query: %w", err)
	}

	var row leagueTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.League{}, false, nil
		}
		return league.League{}, false, fmt.Errorf("get league by id: %w", err)
	}

	return mapLeagueRow(row), true, nil
}

func (r *LeagueRepository) Create(ctx context.Context, l league.League) (league.League, error) {
	query, args, err := qb.InsertInto("leagues").
		Columns(
			"name", "type", "budget", "market_hour", "clause_enabled",
			"block_days", "loan_allowed", "creator", "invite_code", "created_at",
		).
		Values(
			l.Name, l.Type, l.Budget, l.MarketHour, l.ClauseEnabled,
			l.BlockDays, l.LoanAllowed, l.Creator, l.InviteCode, l.CreatedAt,
		).
		Suffix("RETURNING id").
		ToSQL()
	if err != nil {
		return league.League{}, fmt.Errorf("build insert league query: %w", err)
	}

	var id int64
	if err := r.db.GetContext(ctx, &id, query, args...); err != nil {
		return league.League{}, fmt.Errorf("insert league: %w", err)
	}

	l.ID = id
	return l, nil
}

// Delete removes the league row. Memberships, market state, listings,
// ownerships and captain picks cascade off it.
func (r *LeagueRepository) Delete(ctx context.Context, leagueID int64) error {
	query, args, err := qb.DeleteFrom("leagues").
		Where(qb.Eq("id", leagueID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete league query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete league: %w", err)
	}

	return nil
}

func (r *LeagueRepository) ListMembers(ctx context.Context, leagueID int64) ([]league.Member, error) {
	query, args, err := qb.Select("*").From("league_members").
		Where(qb.Eq("league_id", leagueID)).
		OrderBy("joined_at", "user_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select league members query: %w", err)
	}

	var rows []leagueMemberTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select league members: %w", err)
	}

	out := make([]league.Member, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapMemberRow(row))
	}

	return out, nil
}

func (r *LeagueRepository) GetMember(ctx context.Context, leagueID int64, userID string) (league.Member, bool, error) {
	query, args, err := qb.Select("*").From("league_members").
		Where(
			qb.Eq("league_id", leagueID),
			qb.Eq("user_id", userID),
		).
		ToSQL()
	if err != nil {
		return league.Member{}, false, fmt.Errorf("build get league member query: %w", err)
	}

	var row leagueMemberTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.Member{}, false, nil
		}
		return league.Member{}, false, fmt.Errorf("get league member: %w", err)
	}

	return mapMemberRow(row), true, nil
}

func (r *LeagueRepository) UpsertMember(ctx context.Context, m league.Member) error {
	query, args, err := qb.InsertInto("league_members").
		Columns("league_id", "user_id", "budget", "joined_at").
		Values(m.LeagueID, m.UserID, m.Budget, m.JoinedAt).
		Suffix(`ON CONFLICT (league_id, user_id) DO UPDATE SET
budget = EXCLUDED.budget`).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build upsert league member query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert league member: %w", err)
	}

	return nil
}

func mapLeagueRow(row leagueTableModel) league.League {
	return league.League{
		ID:            row.ID,
		Name:          row.Name,
		Type:          row.Type,
		Budget:        row.Budget,
		MarketHour:    row.MarketHour,
		ClauseEnabled: row.ClauseEnabled,
		BlockDays:     row.BlockDays,
		LoanAllowed:   row.LoanAllowed,
		Creator:       row.Creator,
		InviteCode:    row.InviteCode,
		CreatedAt:     row.CreatedAt,
	}
}

func mapMemberRow(row leagueMemberTableModel) league.Member {
	return league.Member{
		LeagueID: row.LeagueID,
		UserID:   row.UserID,
		Budget:   row.Budget,
		JoinedAt: row.JoinedAt,
	}
}
