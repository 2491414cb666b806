package usecase

import (
	"context"
	"fmt"

	"github.com/SanchuCortes/HouseManager-sub000/internal/domain/match"
	"github.com/SanchuCortes/HouseManager-sub000/internal/domain/player"
	"github.com/SanchuCortes/HouseManager-sub000/internal/domain/points"
	"github.com/SanchuCortes/HouseManager-sub000/internal/domain/team"
)

// CatalogService serves the read-only browse surface: teams, players and
// matches as last synced from the competition feed.
type CatalogService struct {
	teamRepo   team.Repository
	playerRepo player.Repository
	matchRepo  match.Repository
	pointsRepo points.Repository
}

func NewCatalogService(
	teamRepo team.Repository,
	playerRepo player.Repository,
	matchRepo match.Repository,
	pointsRepo points.Repository,
) *CatalogService {
	return &CatalogService{
		teamRepo:   teamRepo,
		playerRepo: playerRepo,
		matchRepo:  matchRepo,
		pointsRepo: pointsRepo,
	}
}

type TeamDetail struct {
	Team    team.Team
	Players []player.Player
}

type PlayerDetail struct {
	Player  player.Player
	History []points.PlayerMatchPoints
}

type MatchDetail struct {
	Match  match.Match
	Events []match.Event
	Lineup []match.LineupEntry
}

func (s *CatalogService) Teams(ctx context.Context) ([]team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.Catalog.Teams")
	defer span.End()

	return s.teamRepo.List(ctx)
}

func (s *CatalogService) Team(ctx context.Context, teamID int64) (TeamDetail, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.Catalog.Team")
	defer span.End()

	t, exists, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return TeamDetail{}, fmt.Errorf("get team: %w", err)
	}
	if !exists {
		return TeamDetail{}, fmt.Errorf("%w: team %d", ErrNotFound, teamID)
	}

	squad, err := s.playerRepo.ListByTeam(ctx, teamID)
	if err != nil {
		return TeamDetail{}, fmt.Errorf("list team players: %w", err)
	}

	return TeamDetail{Team: t, Players: squad}, nil
}

func (s *CatalogService) Players(ctx context.Context) ([]player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.Catalog.Players")
	defer span.End()

	return s.playerRepo.List(ctx)
}

func (s *CatalogService) Player(ctx context.Context, playerID int64) (PlayerDetail, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.Catalog.Player")
	defer span.End()

	p, exists, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return PlayerDetail{}, fmt.Errorf("get player: %w", err)
	}
	if !exists {
		return PlayerDetail{}, fmt.Errorf("%w: player %d", ErrNotFound, playerID)
	}

	history, err := s.pointsRepo.ListByPlayer(ctx, playerID)
	if err != nil {
		return PlayerDetail{}, fmt.Errorf("list player points history: %w", err)
	}

	return PlayerDetail{Player: p, History: history}, nil
}

// Matches lists fixtures, optionally restricted to one matchday. A matchday
// of zero means the whole season.
func (s *CatalogService) Matches(ctx context.Context, matchday int) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.Catalog.Matches")
	defer span.End()

	if matchday > 0 {
		return s.matchRepo.ListByMatchday(ctx, matchday)
	}
	return s.matchRepo.List(ctx)
}

func (s *CatalogService) Match(ctx context.Context, matchID int64) (MatchDetail, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.Catalog.Match")
	defer span.End()

	m, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return MatchDetail{}, fmt.Errorf("get match: %w", err)
	}
	if !exists {
		return MatchDetail{}, fmt.Errorf("%w: match %d", ErrNotFound, matchID)
	}

	events, err := s.matchRepo.ListEvents(ctx, matchID)
	if err != nil {
		return MatchDetail{}, fmt.Errorf("list match events: %w", err)
	}
	lineup, err := s.matchRepo.ListLineup(ctx, matchID)
	if err != nil {
		return MatchDetail{}, fmt.Errorf("list match lineup: %w", err)
	}

	return MatchDetail{Match: m, Events: events, Lineup: lineup}, nil
}
