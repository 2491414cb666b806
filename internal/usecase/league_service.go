package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/SanchuCortes/HouseManager-sub000/internal/domain/league"
	"github.com/SanchuCortes/HouseManager-sub000/internal/platform/id"
)

const (
	defaultLeagueBudget = 200.0
	inviteCodeLength    = 8
)

// LeagueService manages league lifecycle and membership. Every member starts
// with the league's full budget; the market engine is the only thing that
// moves it afterwards.
type LeagueService struct {
	leagueRepo league.Repository
	idGen      id.Generator
	now        func() time.Time
}

func NewLeagueService(leagueRepo league.Repository, idGen id.Generator) *LeagueService {
	return &LeagueService{
		leagueRepo: leagueRepo,
		idGen:      idGen,
		now:        time.Now,
	}
}

type CreateLeagueInput struct {
	Name          string  `json:"name" validate:"required,min=3,max=64"`
	Type          string  `json:"type" validate:"omitempty,oneof=PRIVATE COMMUNITY"`
	Budget        float64 `json:"budget" validate:"omitempty,gt=0"`
	MarketHour    string  `json:"market_hour"`
	ClauseEnabled bool    `json:"clause_enabled"`
	BlockDays     int     `json:"block_days" validate:"omitempty,min=0,max=30"`
	LoanAllowed   bool    `json:"loan_allowed"`
	Creator       string  `json:"creator" validate:"required"`
}

func (s *LeagueService) CreateLeague(ctx context.Context, input CreateLeagueInput) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.CreateLeague")
	defer span.End()

	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Creator) == "" {
		return league.League{}, fmt.Errorf("%w: league name and creator are required", ErrInvalidInput)
	}
	if input.Type == "" {
		input.Type = league.TypePrivate
	}
	if input.Budget <= 0 {
		input.Budget = defaultLeagueBudget
	}

	code, err := s.idGen.NewID()
	if err != nil {
		return league.League{}, fmt.Errorf("generate invite code: %w", err)
	}
	if len(code) > inviteCodeLength {
		code = code[:inviteCodeLength]
	}

	now := s.now().UTC()
	candidate := league.League{
		Name:          strings.TrimSpace(input.Name),
		Type:          input.Type,
		Budget:        input.Budget,
		MarketHour:    input.MarketHour,
		ClauseEnabled: input.ClauseEnabled,
		BlockDays:     input.BlockDays,
		LoanAllowed:   input.LoanAllowed,
		Creator:       input.Creator,
		InviteCode:    strings.ToUpper(code),
		CreatedAt:     now,
	}
	if err := candidate.Validate(); err != nil {
		return league.League{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	created, err := s.leagueRepo.Create(ctx, candidate)
	if err != nil {
		return league.League{}, fmt.Errorf("create league: %w", err)
	}

	// The creator is always the first member.
	if err := s.leagueRepo.UpsertMember(ctx, league.Member{
		LeagueID: created.ID,
		UserID:   created.Creator,
		Budget:   created.Budget,
		JoinedAt: now,
	}); err != nil {
		return league.League{}, fmt.Errorf("add creator membership league=%d: %w", created.ID, err)
	}

	return created, nil
}

// JoinLeague adds a user to a league with the full starting budget. Joining
// twice is a no-op that returns the existing membership.
func (s *LeagueService) JoinLeague(ctx context.Context, leagueID int64, userID string) (league.Member, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.JoinLeague")
	defer span.End()

	if leagueID <= 0 || strings.TrimSpace(userID) == "" {
		return league.Member{}, fmt.Errorf("%w: league id and user id are required", ErrInvalidInput)
	}

	l, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return league.Member{}, fmt.Errorf("get league for join: %w", err)
	}
	if !exists {
		return league.Member{}, fmt.Errorf("%w: league id=%d", ErrNotFound, leagueID)
	}

	if member, exists, err := s.leagueRepo.GetMember(ctx, leagueID, userID); err != nil {
		return league.Member{}, fmt.Errorf("get member for join: %w", err)
	} else if exists {
		return member, nil
	}

	member := league.Member{
		LeagueID: leagueID,
		UserID:   userID,
		Budget:   l.Budget,
		JoinedAt: s.now().UTC(),
	}
	if err := s.leagueRepo.UpsertMember(ctx, member); err != nil {
		return league.Member{}, fmt.Errorf("upsert member league=%d user=%s: %w", leagueID, userID, err)
	}

	return member, nil
}

// JoinByInviteCode resolves a private league's invite code and joins it.
func (s *LeagueService) JoinByInviteCode(ctx context.Context, code, userID string) (league.Member, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.JoinByInviteCode")
	defer span.End()

	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return league.Member{}, fmt.Errorf("%w: invite code is required", ErrInvalidInput)
	}

	leagues, err := s.leagueRepo.List(ctx)
	if err != nil {
		return league.Member{}, fmt.Errorf("list leagues for invite code: %w", err)
	}
	for _, l := range leagues {
		if l.InviteCode == code {
			return s.JoinLeague(ctx, l.ID, userID)
		}
	}

	return league.Member{}, fmt.Errorf("%w: invite code=%s", ErrNotFound, code)
}

func (s *LeagueService) Leagues(ctx context.Context) ([]league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.Leagues")
	defer span.End()

	leagues, err := s.leagueRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list leagues: %w", err)
	}
	return leagues, nil
}

func (s *LeagueService) GetLeague(ctx context.Context, leagueID int64) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.GetLeague")
	defer span.End()

	l, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return league.League{}, fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return league.League{}, fmt.Errorf("%w: league id=%d", ErrNotFound, leagueID)
	}
	return l, nil
}

func (s *LeagueService) Members(ctx context.Context, leagueID int64) ([]league.Member, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.Members")
	defer span.End()

	if _, err := s.GetLeague(ctx, leagueID); err != nil {
		return nil, err
	}
	members, err := s.leagueRepo.ListMembers(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list league members: %w", err)
	}
	return members, nil
}

// DeleteLeague removes a league. Only the creator may delete it.
func (s *LeagueService) DeleteLeague(ctx context.Context, leagueID int64, requesterID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.DeleteLeague")
	defer span.End()

	l, err := s.GetLeague(ctx, leagueID)
	if err != nil {
		return err
	}
	if l.Creator != requesterID {
		return fmt.Errorf("%w: only the creator can delete league=%d", ErrUnauthorized, leagueID)
	}
	if err := s.leagueRepo.Delete(ctx, leagueID); err != nil {
		return fmt.Errorf("delete league: %w", err)
	}
	return nil
}
