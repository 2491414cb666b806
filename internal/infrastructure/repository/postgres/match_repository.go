package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/SanchuCortes/HouseManager-sub000/internal/domain/match"
	qb "github.com/SanchuCortes/HouseManager-sub000/internal/platform/querybuilder"
)

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) List(ctx context.Context) ([]match.Match, error) {
	query, args, err := qb.Select("*").From("matches").
		OrderBy("matchday", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select matches query: %w", err)
	}

	return r.selectMatches(ctx, query, args)
}

func (r *MatchRepository) ListFinished(ctx context.Context) ([]match.Match, error) {
	matches, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	// Finished statuses form an open vocabulary (FT, AET and friends), so
	// the filter lives in the domain rather than in SQL.
	out := make([]match.Match, 0, len(matches))
	for _, m := range matches {
		if match.IsFinishedStatus(m.Status) {
			out = append(out, m)
		}
	}

	return out, nil
}

func (r *MatchRepository) ListByMatchday(ctx context.Context, matchday int) ([]match.Match, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(qb.Eq("matchday", matchday)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select matches by matchday query: %w", err)
	}

	return r.selectMatches(ctx, query, args)
}

func (r *MatchRepository) GetByID(ctx context.Context, matchID int64) (match.Match, bool, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(qb.Eq("id", matchID)).
		ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build get match by id query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("get match by id: %w", err)
	}

	return mapMatchRow(row), true, nil
}

func (r *MatchRepository) UpsertAll(ctx context.Context, matches []match.Match) error {
	if len(matches) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert matches tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, m := range matches {
		query, args, err := qb.InsertInto("matches").
			Columns(
				"id", "matchday", "home_team_id", "away_team_id",
				"home_team", "away_team", "kickoff_at", "status",
				"home_score", "away_score",
			).
			Values(
				m.ID, m.Matchday, m.HomeTeamID, m.AwayTeamID,
				m.HomeTeam, m.AwayTeam, m.KickoffAt, m.Status,
				intPtrToNullInt64(m.HomeScore), intPtrToNullInt64(m.AwayScore),
			).
			Suffix(`ON CONFLICT (id) DO UPDATE SET
matchday = EXCLUDED.matchday,
home_team_id = EXCLUDED.home_team_id,
away_team_id = EXCLUDED.away_team_id,
home_team = EXCLUDED.home_team,
away_team = EXCLUDED.away_team,
kickoff_at = EXCLUDED.kickoff_at,
status = EXCLUDED.status,
home_score = EXCLUDED.home_score,
away_score = EXCLUDED.away_score`).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build upsert match query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert match %d: %w", m.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert matches tx: %w", err)
	}

	return nil
}

func (r *MatchRepository) ListEvents(ctx context.Context, matchID int64) ([]match.Event, error) {
	query, args, err := qb.Select("*").From("match_events").
		Where(qb.Eq("match_id", matchID)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select match events query: %w", err)
	}

	var rows []matchEventTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select match events: %w", err)
	}

	out := make([]match.Event, 0, len(rows))
	for _, row := range rows {
		out = append(out, match.Event{
			MatchID:  row.MatchID,
			PlayerID: row.PlayerID,
			Kind:     match.EventKind(row.Kind),
			Minute:   nullInt64ToIntPtr(row.Minute),
		})
	}

	return out, nil
}

func (r *MatchRepository) ReplaceEvents(ctx context.Context, matchID int64, events []match.Event) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace match events tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	deleteQuery, deleteArgs, err := qb.DeleteFrom("match_events").
		Where(qb.Eq("match_id", matchID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete match events query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return fmt.Errorf("delete match events: %w", err)
	}

	for _, e := range events {
		query, args, err := qb.InsertInto("match_events").
			Columns("match_id", "player_id", "kind", "minute").
			Values(matchID, e.PlayerID, string(e.Kind), intPtrToNullInt64(e.Minute)).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build insert match event query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert match event: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace match events tx: %w", err)
	}

	return nil
}

func (r *MatchRepository) ListLineup(ctx context.Context, matchID int64) ([]match.LineupEntry, error) {
	query, args, err := qb.Select("*").From("match_lineups").
		Where(qb.Eq("match_id", matchID)).
		OrderBy("player_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select match lineup query: %w", err)
	}

	var rows []matchLineupTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select match lineup: %w", err)
	}

	out := make([]match.LineupEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, match.LineupEntry{
			MatchID:  row.MatchID,
			PlayerID: row.PlayerID,
			TeamID:   row.TeamID,
			Role:     row.Role,
		})
	}

	return out, nil
}

func (r *MatchRepository) ReplaceLineup(ctx context.Context, matchID int64, entries []match.LineupEntry) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace match lineup tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	deleteQuery, deleteArgs, err := qb.DeleteFrom("match_lineups").
		Where(qb.Eq("match_id", matchID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete match lineup query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return fmt.Errorf("delete match lineup: %w", err)
	}

	for _, e := range entries {
		query, args, err := qb.InsertInto("match_lineups").
			Columns("match_id", "player_id", "team_id", "role").
			Values(matchID, e.PlayerID, e.TeamID, e.Role).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build insert match lineup entry query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert match lineup entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace match lineup tx: %w", err)
	}

	return nil
}

func (r *MatchRepository) selectMatches(ctx context.Context, query string, args []any) ([]match.Match, error) {
	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select matches: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapMatchRow(row))
	}

	return out, nil
}

func mapMatchRow(row matchTableModel) match.Match {
	return match.Match{
		ID:         row.ID,
		Matchday:   row.Matchday,
		HomeTeamID: row.HomeTeamID,
		AwayTeamID: row.AwayTeamID,
		HomeTeam:   row.HomeTeam,
		AwayTeam:   row.AwayTeam,
		KickoffAt:  row.KickoffAt,
		Status:     row.Status,
		HomeScore:  nullInt64ToIntPtr(row.HomeScore),
		AwayScore:  nullInt64ToIntPtr(row.AwayScore),
	}
}
