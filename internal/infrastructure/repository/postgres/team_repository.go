package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/SanchuCortes/HouseManager-sub000/internal/domain/team"
	qb "github.com/SanchuCortes/HouseManager-sub000/internal/platform/querybuilder"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	query, args, err := qb.Select("*").From("teams").
		OrderBy("position", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select teams query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select teams: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapTeamRow(row))
	}

	return out, nil
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID int64) (team.Team, bool, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(qb.Eq("id", teamID)).
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build get team by id query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("get team by id: %w", err)
	}

	return mapTeamRow(row), true, nil
}

func (r *TeamRepository) UpsertAll(ctx context.Context, teams []team.Team) error {
	if len(teams) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert teams tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, t := range teams {
		query, args, err := qb.InsertInto("teams").
			Columns(
				"id", "name", "short_name", "tla", "crest_url",
				"position", "played", "won", "draw", "lost",
				"goals_for", "goals_against",
			).
			Values(
				t.ID, t.Name, t.ShortName, t.TLA, t.CrestURL,
				t.Position, t.Played, t.Won, t.Draw, t.Lost,
				t.GoalsFor, t.GoalsAgainst,
			).
			Suffix(`ON CONFLICT (id) DO UPDATE SET
name = EXCLUDED.name,
short_name = EXCLUDED.short_name,
tla = EXCLUDED.tla,
crest_url = EXCLUDED.crest_url,
position = EXCLUDED.position,
played = EXCLUDED.played,
won = EXCLUDED.won,
draw = EXCLUDED.draw,
lost = EXCLUDED.lost,
goals_for = EXCLUDED.goals_for,
goals_against = EXCLUDED.goals_against`).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build upsert team query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert team %d: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert teams tx: %w", err)
	}

	return nil
}

func mapTeamRow(row teamTableModel) team.Team {
	return team.Team{
		ID:           row.ID,
		Name:         row.Name,
		ShortName:    row.ShortName,
		TLA:          row.TLA,
		CrestURL:     row.CrestURL,
		Position:     row.Position,
		Played:       row.Played,
		Won:          row.Won,
		Draw:         row.Draw,
		Lost:         row.Lost,
		GoalsFor:     row.GoalsFor,
		GoalsAgainst: row.GoalsAgainst,
	}
}
