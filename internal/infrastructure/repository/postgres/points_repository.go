package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/SanchuCortes/HouseManager-sub000/internal/domain/points"
	qb "github.com/SanchuCortes/HouseManager-sub000/internal/platform/querybuilder"
)

type PointsRepository struct {
	db *sqlx.DB
}

func NewPointsRepository(db *sqlx.DB) *PointsRepository {
	return &PointsRepository{db: db}
}

func (r *PointsRepository) Get(ctx context.Context, matchID, playerID int64) (points.PlayerMatchPoints, bool, error) {
	query, args, err := qb.Select("*").From("player_match_points").
		Where(
			qb.Eq("match_id", matchID),
			qb.Eq("player_id", playerID),
		).
		ToSQL()
	if err != nil {
		return points.PlayerMatchPoints{}, false, fmt.Errorf("build get player match points query: %w", err)
	}

	var row playerPointsTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return points.PlayerMatchPoints{}, false, nil
		}
		return points.PlayerMatchPoints{}, false, fmt.Errorf("get player match points: %w", err)
	}

	return mapPointsRow(row), true, nil
}

func (r *PointsRepository) Upsert(ctx context.Context, row points.PlayerMatchPoints) error {
	query, args, err := qb.InsertInto("player_match_points").
		Columns("match_id", "player_id", "matchday", "points", "calculated_at").
		Values(row.MatchID, row.PlayerID, row.Matchday, row.Points, row.CalculatedAt).
		Suffix(`ON CONFLICT (match_id, player_id) DO UPDATE SET
matchday = EXCLUDED.matchday,
points = EXCLUDED.points,
calculated_at = EXCLUDED.calculated_at`).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build upsert player match points query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert player match points: %w", err)
	}

	return nil
}

func (r *PointsRepository) ListByMatchday(ctx context.Context, matchday int) ([]points.PlayerMatchPoints, error) {
	query, args, err := qb.Select("*").From("player_match_points").
		Where(qb.Eq("matchday", matchday)).
		OrderBy("match_id", "player_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select points by matchday query: %w", err)
	}

	return r.selectPoints(ctx, query, args)
}

func (r *PointsRepository) ListByPlayer(ctx context.Context, playerID int64) ([]points.PlayerMatchPoints, error) {
	query, args, err := qb.Select("*").From("player_match_points").
		Where(qb.Eq("player_id", playerID)).
		OrderBy("matchday", "match_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select points by player query: %w", err)
	}

	return r.selectPoints(ctx, query, args)
}

func (r *PointsRepository) ListScoredMatchIDs(ctx context.Context) ([]int64, error) {
	query, args, err := qb.Select("match_id").From("player_match_points").
		GroupBy("match_id").
		OrderBy("match_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select scored match ids query: %w", err)
	}

	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, query, args...); err != nil {
		return nil, fmt.Errorf("select scored match ids: %w", err)
	}

	return ids, nil
}

func (r *PointsRepository) selectPoints(ctx context.Context, query string, args []any) ([]points.PlayerMatchPoints, error) {
	var rows []playerPointsTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select player match points: %w", err)
	}

	out := make([]points.PlayerMatchPoints, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapPointsRow(row))
	}

	return out, nil
}

func mapPointsRow(row playerPointsTableModel) points.PlayerMatchPoints {
	return points.PlayerMatchPoints{
		MatchID:      row.MatchID,
		PlayerID:     row.PlayerID,
		Matchday:     row.Matchday,
		Points:       row.Points,
		CalculatedAt: row.CalculatedAt,
	}
}
