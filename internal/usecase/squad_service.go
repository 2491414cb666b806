package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/SanchuCortes/HouseManager-sub000/internal/domain/league"
	"github.com/SanchuCortes/HouseManager-sub000/internal/domain/market"
	"github.com/SanchuCortes/HouseManager-sub000/internal/domain/player"
)

// SquadService reads a manager's owned players and manages the captain pick.
type SquadService struct {
	leagueRepo league.Repository
	marketRepo market.Repository
	playerRepo player.Repository
}

func NewSquadService(
	leagueRepo league.Repository,
	marketRepo market.Repository,
	playerRepo player.Repository,
) *SquadService {
	return &SquadService{
		leagueRepo: leagueRepo,
		marketRepo: marketRepo,
		playerRepo: playerRepo,
	}
}

type SquadPlayer struct {
	PlayerID      int64   `json:"player_id"`
	Name          string  `json:"name"`
	Position      string  `json:"position"`
	TeamName      string  `json:"team_name"`
	CurrentPrice  float64 `json:"current_price"`
	AcquiredPrice float64 `json:"acquired_price"`
	TotalPoints   int     `json:"total_points"`
	FormRating    float64 `json:"form_rating"`
	IsCaptain     bool    `json:"is_captain"`
}

type SquadView struct {
	LeagueID        int64         `json:"league_id"`
	UserID          string        `json:"user_id"`
	Budget          float64       `json:"budget"`
	TeamValue       float64       `json:"team_value"`
	CaptainPlayerID int64         `json:"captain_player_id,omitempty"`
	Players         []SquadPlayer `json:"players"`
}

func (s *SquadService) MySquad(ctx context.Context, leagueID int64, userID string) (SquadView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SquadService.MySquad")
	defer span.End()

	if leagueID <= 0 || userID == "" {
		return SquadView{}, fmt.Errorf("%w: league id and user id are required", ErrInvalidInput)
	}

	member, exists, err := s.leagueRepo.GetMember(ctx, leagueID, userID)
	if err != nil {
		return SquadView{}, fmt.Errorf("get member for squad: %w", err)
	}
	if !exists {
		return SquadView{}, fmt.Errorf("%w: user=%s is not a member of league=%d", ErrUnauthorized, userID, leagueID)
	}

	ownerships, err := s.marketRepo.ListOwnershipsByOwner(ctx, leagueID, userID)
	if err != nil {
		return SquadView{}, fmt.Errorf("list ownerships for squad: %w", err)
	}

	captainID := int64(0)
	if captain, exists, err := s.marketRepo.GetCaptain(ctx, leagueID, userID); err != nil {
		return SquadView{}, fmt.Errorf("get captain for squad: %w", err)
	} else if exists {
		captainID = captain.PlayerID
	}

	playerIDs := make([]int64, 0, len(ownerships))
	acquiredByPlayer := make(map[int64]float64, len(ownerships))
	for _, o := range ownerships {
		playerIDs = append(playerIDs, o.PlayerID)
		acquiredByPlayer[o.PlayerID] = o.AcquiredPrice
	}
	players, err := s.playerRepo.GetByIDs(ctx, playerIDs)
	if err != nil {
		return SquadView{}, fmt.Errorf("get squad players: %w", err)
	}

	view := SquadView{
		LeagueID:        leagueID,
		UserID:          userID,
		Budget:          member.Budget,
		CaptainPlayerID: captainID,
		Players:         make([]SquadPlayer, 0, len(players)),
	}
	for _, p := range players {
		view.TeamValue += p.CurrentPrice
		view.Players = append(view.Players, SquadPlayer{
			PlayerID:      p.ID,
			Name:          p.Name,
			Position:      string(p.Position),
			TeamName:      p.TeamName,
			CurrentPrice:  p.CurrentPrice,
			AcquiredPrice: acquiredByPlayer[p.ID],
			TotalPoints:   p.TotalPoints,
			FormRating:    p.FormRating,
			IsCaptain:     p.ID == captainID,
		})
	}

	sort.SliceStable(view.Players, func(i, j int) bool {
		if view.Players[i].TotalPoints != view.Players[j].TotalPoints {
			return view.Players[i].TotalPoints > view.Players[j].TotalPoints
		}
		return view.Players[i].PlayerID < view.Players[j].PlayerID
	})

	return view, nil
}

// SetCaptain picks the player whose points double for this manager. The
// player must currently be owned by the manager in that league.
func (s *SquadService) SetCaptain(ctx context.Context, leagueID int64, userID string, playerID int64) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.SquadService.SetCaptain")
	defer span.End()

	if leagueID <= 0 || playerID <= 0 || userID == "" {
		return fmt.Errorf("%w: league id, player id and user id are required", ErrInvalidInput)
	}

	if _, exists, err := s.leagueRepo.GetMember(ctx, leagueID, userID); err != nil {
		return fmt.Errorf("get member for captain: %w", err)
	} else if !exists {
		return fmt.Errorf("%w: user=%s is not a member of league=%d", ErrUnauthorized, userID, leagueID)
	}

	ownership, exists, err := s.marketRepo.GetOwnership(ctx, leagueID, playerID)
	if err != nil {
		return fmt.Errorf("get ownership for captain: %w", err)
	}
	if !exists || ownership.OwnerUserID != userID {
		return fmt.Errorf("%w: player=%d user=%s", ErrNotOwned, playerID, userID)
	}

	if err := s.marketRepo.UpsertCaptain(ctx, market.Captain{
		LeagueID: leagueID,
		UserID:   userID,
		PlayerID: playerID,
	}); err != nil {
		return fmt.Errorf("upsert captain league=%d user=%s: %w", leagueID, userID, err)
	}

	return nil
}
