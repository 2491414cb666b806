package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/SanchuCortes/HouseManager-sub000/internal/domain/match"
)

type MatchRepository struct {
	mu      sync.RWMutex
	matches map[int64]match.Match
	events  map[int64][]match.Event
	lineups map[int64][]match.LineupEntry
}

func NewMatchRepository(matches []match.Match) *MatchRepository {
	byID := make(map[int64]match.Match, len(matches))
	for _, item := range matches {
		byID[item.ID] = item
	}
	return &MatchRepository{
		matches: byID,
		events:  make(map[int64][]match.Event),
		lineups: make(map[int64][]match.LineupEntry),
	}
}

func (r *MatchRepository) List(_ context.Context) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sortedLocked(func(match.Match) bool { return true }), nil
}

func (r *MatchRepository) ListFinished(_ context.Context) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sortedLocked(func(m match.Match) bool {
		return match.IsFinishedStatus(m.Status)
	}), nil
}

func (r *MatchRepository) ListByMatchday(_ context.Context, matchday int) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sortedLocked(func(m match.Match) bool { return m.Matchday == matchday }), nil
}

func (r *MatchRepository) GetByID(_ context.Context, matchID int64) (match.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.matches[matchID]
	return item, ok, nil
}

func (r *MatchRepository) UpsertAll(_ context.Context, matches []match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range matches {
		if item.ID <= 0 {
			continue
		}
		r.matches[item.ID] = item
	}

	return nil
}

func (r *MatchRepository) ListEvents(_ context.Context, matchID int64) ([]match.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Event, len(r.events[matchID]))
	copy(out, r.events[matchID])
	return out, nil
}

func (r *MatchRepository) ReplaceEvents(_ context.Context, matchID int64, events []match.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows := make([]match.Event, len(events))
	copy(rows, events)
	r.events[matchID] = rows
	return nil
}

func (r *MatchRepository) ListLineup(_ context.Context, matchID int64) ([]match.LineupEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.LineupEntry, len(r.lineups[matchID]))
	copy(out, r.lineups[matchID])
	return out, nil
}

func (r *MatchRepository) ReplaceLineup(_ context.Context, matchID int64, entries []match.LineupEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows := make([]match.LineupEntry, len(entries))
	copy(rows, entries)
	r.lineups[matchID] = rows
	return nil
}

func (r *MatchRepository) sortedLocked(keep func(match.Match) bool) []match.Match {
	out := make([]match.Match, 0, len(r.matches))
	for _, item := range r.matches {
		if keep(item) {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Matchday != out[j].Matchday {
			return out[i].Matchday < out[j].Matchday
		}
		return out[i].ID < out[j].ID
	})
	return out
}
