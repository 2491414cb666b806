package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/SanchuCortes/HouseManager-sub000/internal/domain/points"
)

type pointsKey struct {
	matchID  int64
	playerID int64
}

type PointsRepository struct {
	mu   sync.RWMutex
	rows map[pointsKey]points.PlayerMatchPoints
}

func NewPointsRepository() *PointsRepository {
	return &PointsRepository{rows: make(map[pointsKey]points.PlayerMatchPoints)}
}

func (r *PointsRepository) Get(_ context.Context, matchID, playerID int64) (points.PlayerMatchPoints, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	row, ok := r.rows[pointsKey{matchID: matchID, playerID: playerID}]
	return row, ok, nil
}

func (r *PointsRepository) Upsert(_ context.Context, row points.PlayerMatchPoints) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rows[pointsKey{matchID: row.MatchID, playerID: row.PlayerID}] = row
	return nil
}

func (r *PointsRepository) ListByMatchday(_ context.Context, matchday int) ([]points.PlayerMatchPoints, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.listLocked(func(row points.PlayerMatchPoints) bool { return row.Matchday == matchday }), nil
}

func (r *PointsRepository) ListByPlayer(_ context.Context, playerID int64) ([]points.PlayerMatchPoints, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.listLocked(func(row points.PlayerMatchPoints) bool { return row.PlayerID == playerID }), nil
}

func (r *PointsRepository) ListScoredMatchIDs(_ context.Context) ([]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[int64]struct{})
	out := make([]int64, 0)
	for key := range r.rows {
		if _, ok := seen[key.matchID]; ok {
			continue
		}
		seen[key.matchID] = struct{}{}
		out = append(out, key.matchID)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func (r *PointsRepository) listLocked(keep func(points.PlayerMatchPoints) bool) []points.PlayerMatchPoints {
	out := make([]points.PlayerMatchPoints, 0)
	for _, row := range r.rows {
		if keep(row) {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].MatchID != out[j].MatchID {
			return out[i].MatchID < out[j].MatchID
		}
		return out[i].PlayerID < out[j].PlayerID
	})
	return out
}
