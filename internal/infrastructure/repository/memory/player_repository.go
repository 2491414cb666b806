package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/SanchuCortes/HouseManager-sub000/internal/domain/player"
)

type PlayerRepository struct {
	mu      sync.RWMutex
	players map[int64]player.Player
}

func NewPlayerRepository(players []player.Player) *PlayerRepository {
	byID := make(map[int64]player.Player, len(players))
	for _, item := range players {
		byID[item.ID] = item
	}
	return &PlayerRepository{players: byID}
}

func (r *PlayerRepository) List(_ context.Context) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sortedLocked(func(player.Player) bool { return true }), nil
}

func (r *PlayerRepository) ListByTeam(_ context.Context, teamID int64) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sortedLocked(func(p player.Player) bool { return p.TeamID == teamID }), nil
}

func (r *PlayerRepository) ListAvailable(_ context.Context) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sortedLocked(func(p player.Player) bool { return p.Available && !p.Injured }), nil
}

func (r *PlayerRepository) GetByID(_ context.Context, playerID int64) (player.Player, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.players[playerID]
	return item, ok, nil
}

func (r *PlayerRepository) GetByIDs(_ context.Context, playerIDs []int64) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0, len(playerIDs))
	for _, id := range playerIDs {
		if item, ok := r.players[id]; ok {
			out = append(out, item)
		}
	}

	return out, nil
}

func (r *PlayerRepository) UpsertAll(_ context.Context, players []player.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range players {
		if item.ID <= 0 {
			continue
		}
		r.players[item.ID] = item
	}

	return nil
}

func (r *PlayerRepository) UpdateScoringFields(_ context.Context, p player.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.players[p.ID]
	if !ok {
		r.players[p.ID] = p
		return nil
	}

	current.TotalPoints = p.TotalPoints
	current.MatchesPlayed = p.MatchesPlayed
	current.Goals = p.Goals
	current.Assists = p.Assists
	current.YellowCards = p.YellowCards
	current.RedCards = p.RedCards
	current.CleanSheets = p.CleanSheets
	current.FormRating = p.FormRating
	current.CurrentPrice = p.CurrentPrice
	current.UpdatedAt = p.UpdatedAt
	r.players[p.ID] = current

	return nil
}

func (r *PlayerRepository) sortedLocked(keep func(player.Player) bool) []player.Player {
	out := make([]player.Player, 0, len(r.players))
	for _, item := range r.players {
		if keep(item) {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
