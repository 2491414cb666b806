package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/SanchuCortes/HouseManager-sub000/internal/domain/league"
)

type memberKey struct {
	leagueID int64
	userID   string
}

type LeagueRepository struct {
	mu      sync.RWMutex
	nextID  int64
	leagues map[int64]league.League
	members map[memberKey]league.Member
}

func NewLeagueRepository(leagues []league.League) *LeagueRepository {
	byID := make(map[int64]league.League, len(leagues))
	nextID := int64(1)
	for _, item := range leagues {
		byID[item.ID] = item
		if item.ID >= nextID {
			nextID = item.ID + 1
		}
	}
	return &LeagueRepository{
		nextID:  nextID,
		leagues: byID,
		members: make(map[memberKey]league.Member),
	}
}

func (r *LeagueRepository) List(_ context.Context) ([]league.League, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]league.League, 0, len(r.leagues))
	for _, item := range r.leagues {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *LeagueRepository) GetByID(_ context.Context, leagueID int64) (league.League, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.leagues[leagueID]
	return item, ok, nil
}

func (r *LeagueRepository) Create(_ context.Context, l league.League) (league.League, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if l.ID <= 0 {
		l.ID = r.nextID
		r.nextID++
	} else if l.ID >= r.nextID {
		r.nextID = l.ID + 1
	}
	r.leagues[l.ID] = l
	return l, nil
}

func (r *LeagueRepository) Delete(_ context.Context, leagueID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.leagues, leagueID)
	for key := range r.members {
		if key.leagueID == leagueID {
			delete(r.members, key)
		}
	}
	return nil
}

func (r *LeagueRepository) ListMembers(_ context.Context, leagueID int64) ([]league.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]league.Member, 0)
	for key, member := range r.members {
		if key.leagueID == leagueID {
			out = append(out, member)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (r *LeagueRepository) GetMember(_ context.Context, leagueID int64, userID string) (league.Member, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	member, ok := r.members[memberKey{leagueID: leagueID, userID: userID}]
	return member, ok, nil
}

func (r *LeagueRepository) UpsertMember(_ context.Context, m league.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.members[memberKey{leagueID: m.LeagueID, userID: m.UserID}] = m
	return nil
}

// setMemberBudget is the hook the in-memory market repository uses to apply
// budget movements inside its atomic operations.
func (r *LeagueRepository) setMemberBudget(leagueID int64, userID string, budget float64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := memberKey{leagueID: leagueID, userID: userID}
	member, ok := r.members[key]
	if !ok {
		return false
	}
	member.Budget = budget
	r.members[key] = member
	return true
}
