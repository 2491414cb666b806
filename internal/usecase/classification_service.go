package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/SanchuCortes/HouseManager-sub000/internal/domain/league"
	"github.com/SanchuCortes/HouseManager-sub000/internal/domain/market"
	"github.com/SanchuCortes/HouseManager-sub000/internal/domain/player"
	"github.com/SanchuCortes/HouseManager-sub000/internal/domain/points"
	"github.com/SanchuCortes/HouseManager-sub000/internal/platform/cache"
	"github.com/SanchuCortes/HouseManager-sub000/internal/platform/resilience"
)

// ClassificationService aggregates owned-player points into league tables.
// Both views double the captain: the matchday view doubles the captain's row,
// the season view adds the captain's season total once more on top of the
// plain sum. Members who own nothing still get a zero row.
type ClassificationService struct {
	leagueRepo league.Repository
	marketRepo market.Repository
	playerRepo player.Repository
	pointsRepo points.Repository
	store      *cache.Store
	flight     resilience.SingleFlight
}

func NewClassificationService(
	leagueRepo league.Repository,
	marketRepo market.Repository,
	playerRepo player.Repository,
	pointsRepo points.Repository,
	store *cache.Store,
) *ClassificationService {
	return &ClassificationService{
		leagueRepo: leagueRepo,
		marketRepo: marketRepo,
		playerRepo: playerRepo,
		pointsRepo: pointsRepo,
		store:      store,
	}
}

type ClassificationRow struct {
	Rank        int     `json:"rank"`
	UserID      string  `json:"user_id"`
	Points      int     `json:"points"`
	PlayerCount int     `json:"player_count"`
	TeamValue   float64 `json:"team_value"`
}

// SeasonClassification ranks league members by cumulative owned-player
// points. Current ownership is authoritative: selling a player forfeits his
// season points, matching the aggregate-over-ownership model.
func (s *ClassificationService) SeasonClassification(ctx context.Context, leagueID int64) ([]ClassificationRow, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ClassificationService.SeasonClassification")
	defer span.End()

	key := fmt.Sprintf("classification:season:%d", leagueID)
	return s.cachedRows(ctx, key, func() ([]ClassificationRow, error) {
		return s.buildSeasonRows(ctx, leagueID)
	})
}

// MatchdayClassification ranks league members by owned-player points for a
// single matchday.
func (s *ClassificationService) MatchdayClassification(ctx context.Context, leagueID int64, matchday int) ([]ClassificationRow, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ClassificationService.MatchdayClassification")
	defer span.End()

	if matchday <= 0 {
		return nil, fmt.Errorf("%w: matchday must be greater than zero", ErrInvalidInput)
	}

	key := fmt.Sprintf("classification:matchday:%d:%d", leagueID, matchday)
	return s.cachedRows(ctx, key, func() ([]ClassificationRow, error) {
		return s.buildMatchdayRows(ctx, leagueID, matchday)
	})
}

func (s *ClassificationService) cachedRows(ctx context.Context, key string, build func() ([]ClassificationRow, error)) ([]ClassificationRow, error) {
	if s.store != nil {
		if cached, ok := s.store.Get(ctx, key); ok {
			if rows, ok := cached.([]ClassificationRow); ok {
				return rows, nil
			}
		}
	}

	value, err, _ := s.flight.Do(key, func() (any, error) {
		rows, err := build()
		if err != nil {
			return nil, err
		}
		if s.store != nil {
			s.store.Set(ctx, key, rows)
		}
		return rows, nil
	})
	if err != nil {
		return nil, err
	}

	rows, _ := value.([]ClassificationRow)
	return rows, nil
}

func (s *ClassificationService) buildSeasonRows(ctx context.Context, leagueID int64) ([]ClassificationRow, error) {
	members, ownershipsByUser, playersByID, captains, err := s.loadLeagueRoster(ctx, leagueID)
	if err != nil {
		return nil, err
	}

	rows := make([]ClassificationRow, 0, len(members))
	for _, member := range members {
		row := ClassificationRow{UserID: member.UserID}
		for _, owned := range ownershipsByUser[member.UserID] {
			p, ok := playersByID[owned.PlayerID]
			if !ok {
				continue
			}
			row.Points += p.TotalPoints
			row.TeamValue += p.CurrentPrice
			row.PlayerCount++
		}
		if captainID, ok := captains[member.UserID]; ok {
			if p, owned := playersByID[captainID]; owned && ownsPlayer(ownershipsByUser[member.UserID], captainID) {
				row.Points += p.TotalPoints
			}
		}
		rows = append(rows, row)
	}

	rankRows(rows)
	return rows, nil
}

func (s *ClassificationService) buildMatchdayRows(ctx context.Context, leagueID int64, matchday int) ([]ClassificationRow, error) {
	members, ownershipsByUser, playersByID, captains, err := s.loadLeagueRoster(ctx, leagueID)
	if err != nil {
		return nil, err
	}

	matchdayRows, err := s.pointsRepo.ListByMatchday(ctx, matchday)
	if err != nil {
		return nil, fmt.Errorf("list points by matchday: %w", err)
	}
	pointsByPlayer := make(map[int64]int, len(matchdayRows))
	for _, row := range matchdayRows {
		pointsByPlayer[row.PlayerID] += row.Points
	}

	rows := make([]ClassificationRow, 0, len(members))
	for _, member := range members {
		captainID := captains[member.UserID]
		row := ClassificationRow{UserID: member.UserID}
		for _, owned := range ownershipsByUser[member.UserID] {
			pts := pointsByPlayer[owned.PlayerID]
			if owned.PlayerID == captainID {
				pts *= 2
			}
			row.Points += pts
			row.PlayerCount++
			if p, ok := playersByID[owned.PlayerID]; ok {
				row.TeamValue += p.CurrentPrice
			}
		}
		rows = append(rows, row)
	}

	rankRows(rows)
	return rows, nil
}

func (s *ClassificationService) loadLeagueRoster(ctx context.Context, leagueID int64) (
	[]league.Member,
	map[string][]market.Ownership,
	map[int64]player.Player,
	map[string]int64,
	error,
) {
	if leagueID <= 0 {
		return nil, nil, nil, nil, fmt.Errorf("%w: league id must be greater than zero", ErrInvalidInput)
	}
	if _, exists, err := s.leagueRepo.GetByID(ctx, leagueID); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("get league for classification: %w", err)
	} else if !exists {
		return nil, nil, nil, nil, fmt.Errorf("%w: league id=%d", ErrNotFound, leagueID)
	}

	members, err := s.leagueRepo.ListMembers(ctx, leagueID)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("list league members: %w", err)
	}

	ownerships, err := s.marketRepo.ListOwnershipsByLeague(ctx, leagueID)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("list ownerships by league: %w", err)
	}
	ownershipsByUser := make(map[string][]market.Ownership, len(members))
	playerIDs := make([]int64, 0, len(ownerships))
	for _, owned := range ownerships {
		ownershipsByUser[owned.OwnerUserID] = append(ownershipsByUser[owned.OwnerUserID], owned)
		playerIDs = append(playerIDs, owned.PlayerID)
	}

	players, err := s.playerRepo.GetByIDs(ctx, playerIDs)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("get owned players: %w", err)
	}
	playersByID := make(map[int64]player.Player, len(players))
	for _, p := range players {
		playersByID[p.ID] = p
	}

	captains := make(map[string]int64, len(members))
	for _, member := range members {
		captain, exists, err := s.marketRepo.GetCaptain(ctx, leagueID, member.UserID)
		if err != nil {
			return nil, nil, nil, nil, fmt.Errorf("get captain user=%s: %w", member.UserID, err)
		}
		if exists {
			captains[member.UserID] = captain.PlayerID
		}
	}

	return members, ownershipsByUser, playersByID, captains, nil
}

func ownsPlayer(owned []market.Ownership, playerID int64) bool {
	for _, o := range owned {
		if o.PlayerID == playerID {
			return true
		}
	}
	return false
}

func rankRows(rows []ClassificationRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Points != rows[j].Points {
			return rows[i].Points > rows[j].Points
		}
		return rows[i].UserID < rows[j].UserID
	})

	lastPoints := 0
	rank := 0
	for idx := range rows {
		if idx == 0 || rows[idx].Points != lastPoints {
			rank = idx + 1
			lastPoints = rows[idx].Points
		}
		rows[idx].Rank = rank
	}
}
