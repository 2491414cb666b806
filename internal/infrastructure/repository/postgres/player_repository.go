package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/SanchuCortes/HouseManager-sub000/internal/domain/player"
	qb "github.com/SanchuCortes/HouseManager-sub000/internal/platform/querybuilder"
)

type PlayerRepository struct {
	db *sqlx.DB
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) List(ctx context.Context) ([]player.Player, error) {
	query, args, err := qb.Select("*").From("players").
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select players query: %w", err)
	}

	return r.selectPlayers(ctx, query, args)
}

func (r *PlayerRepository) ListByTeam(ctx context.Context, teamID int64) ([]player.Player, error) {
	query, args, err := qb.Select("*").From("players").
		Where(qb.Eq("team_id", teamID)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select players by team query: %w", err)
	}

	return r.selectPlayers(ctx, query, args)
}

func (r *PlayerRepository) ListAvailable(ctx context.Context) ([]player.Player, error) {
	query, args, err := qb.Select("*").From("players").
		Where(
			qb.Eq("available", true),
			qb.Eq("injured", false),
		).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select available players query: %w", err)
	}

	return r.selectPlayers(ctx, query, args)
}

func (r *PlayerRepository) GetByID(ctx context.Context, playerID int64) (player.Player, bool, error) {
	query, args, err := qb.Select("*").From("players").
		Where(qb.Eq("id", playerID)).
		ToSQL()
	if err != nil {
		return player.Player{}, false, fmt.Errorf("build get player by id query: %w", err)
	}

	var row playerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, fmt.Errorf("get player by id: %w", err)
	}

	return mapPlayerRow(row), true, nil
}

func (r *PlayerRepository) GetByIDs(ctx context.Context, playerIDs []int64) ([]player.Player, error) {
	if len(playerIDs) == 0 {
		return nil, nil
	}

	values := make([]any, 0, len(playerIDs))
	for _, id := range playerIDs {
		values = append(values, id)
	}

	query, args, err := qb.Select("*").From("players").
		Where(qb.In("id", values)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select players by ids query: %w", err)
	}

	return r.selectPlayers(ctx, query, args)
}

func (r *PlayerRepository) UpsertAll(ctx context.Context, players []player.Player) error {
	if len(players) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert players tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, p := range players {
		query, args, err := qb.InsertInto("players").
			Columns(
				"id", "team_id", "team_name", "name", "position",
				"nationality", "shirt_number", "base_price", "current_price",
				"total_points", "matches_played", "goals", "assists",
				"yellow_cards", "red_cards", "clean_sheets", "form_rating",
				"available", "injured", "updated_at",
			).
			Values(
				p.ID, p.TeamID, p.TeamName, p.Name, string(p.Position),
				p.Nationality, p.ShirtNumber, p.BasePrice, p.CurrentPrice,
				p.TotalPoints, p.MatchesPlayed, p.Goals, p.Assists,
				p.YellowCards, p.RedCards, p.CleanSheets, p.FormRating,
				p.Available, p.Injured, p.UpdatedAt,
			).
			Suffix(`ON CONFLICT (id) DO UPDATE SET
team_id = EXCLUDED.team_id,
team_name = EXCLUDED.team_name,
name = EXCLUDED.name,
position = EXCLUDED.position,
nationality = EXCLUDED.nationality,
shirt_number = EXCLUDED.shirt_number,
base_price = EXCLUDED.base_price,
current_price = EXCLUDED.current_price,
total_points = EXCLUDED.total_points,
matches_played = EXCLUDED.matches_played,
goals = EXCLUDED.goals,
assists = EXCLUDED.assists,
yellow_cards = EXCLUDED.yellow_cards,
red_cards = EXCLUDED.red_cards,
clean_sheets = EXCLUDED.clean_sheets,
form_rating = EXCLUDED.form_rating,
available = EXCLUDED.available,
injured = EXCLUDED.injured,
updated_at = EXCLUDED.updated_at`).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build upsert player query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert player %d: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert players tx: %w", err)
	}

	return nil
}

// UpdateScoringFields writes only the columns the scoring pass owns, so a
// concurrent squad sync cannot clobber points with stale descriptive rows.
func (r *PlayerRepository) UpdateScoringFields(ctx context.Context, p player.Player) error {
	query, args, err := qb.Update("players").
		Set("current_price", p.CurrentPrice).
		Set("total_points", p.TotalPoints).
		Set("matches_played", p.MatchesPlayed).
		Set("goals", p.Goals).
		Set("assists", p.Assists).
		Set("yellow_cards", p.YellowCards).
		Set("red_cards", p.RedCards).
		Set("clean_sheets", p.CleanSheets).
		Set("form_rating", p.FormRating).
		Set("updated_at", p.UpdatedAt).
		Where(qb.Eq("id", p.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update player scoring fields query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update player scoring fields: %w", err)
	}

	return nil
}

func (r *PlayerRepository) selectPlayers(ctx context.Context, query string, args []any) ([]player.Player, error) {
	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select players: %w", err)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapPlayerRow(row))
	}

	return out, nil
}

func mapPlayerRow(row playerTableModel) player.Player {
	return player.Player{
		ID:            row.ID,
		TeamID:        row.TeamID,
		TeamName:      row.TeamName,
		Name:          row.Name,
		Position:      player.Position(row.Position),
		Nationality:   row.Nationality,
		ShirtNumber:   row.ShirtNumber,
		BasePrice:     row.BasePrice,
		CurrentPrice:  row.CurrentPrice,
		TotalPoints:   row.TotalPoints,
		MatchesPlayed: row.MatchesPlayed,
		Goals:         row.Goals,
		Assists:       row.Assists,
		YellowCards:   row.YellowCards,
		RedCards:      row.RedCards,
		CleanSheets:   row.CleanSheets,
		FormRating:    row.FormRating,
		Available:     row.Available,
		Injured:       row.Injured,
		UpdatedAt:     row.UpdatedAt,
	}
}
