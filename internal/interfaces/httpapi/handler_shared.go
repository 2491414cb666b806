package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/SanchuCortes/HouseManager-sub000/internal/domain/league"
	"github.com/SanchuCortes/HouseManager-sub000/internal/domain/match"
	"github.com/SanchuCortes/HouseManager-sub000/internal/domain/player"
	"github.com/SanchuCortes/HouseManager-sub000/internal/domain/team"
	"github.com/SanchuCortes/HouseManager-sub000/internal/usecase"
)

const maxRequestBodyBytes = 1 << 20

func (h *Handler) decodeJSONBody(r *http.Request, target any) error {
	decoder := sonic.ConfigDefault.NewDecoder(http.MaxBytesReader(nil, r.Body, maxRequestBodyBytes))
	if err := decoder.Decode(target); err != nil {
		// Joined so callers with optional bodies can still detect io.EOF.
		return fmt.Errorf("decode request body: %w", errors.Join(usecase.ErrInvalidInput, err))
	}
	return nil
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func parseIDPathValue(r *http.Request, name string) (int64, error) {
	raw := strings.TrimSpace(r.PathValue(name))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid %s %q", usecase.ErrInvalidInput, name, raw)
	}
	return id, nil
}

func parseOptionalIntQuery(r *http.Request, name string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0, fmt.Errorf("%w: invalid %s %q", usecase.ErrInvalidInput, name, raw)
	}
	return value, nil
}

type setCaptainRequest struct {
	PlayerID int64 `json:"player_id" validate:"required,gt=0"`
}

type marketOrderRequest struct {
	PlayerID int64 `json:"player_id" validate:"required,gt=0"`
}

type joinByInviteRequest struct {
	InviteCode string `json:"invite_code" validate:"required,min=4,max=16"`
}

type leagueDTO struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Type          string  `json:"type"`
	Budget        float64 `json:"budget"`
	MarketHour    string  `json:"market_hour,omitempty"`
	ClauseEnabled bool    `json:"clause_enabled"`
	BlockDays     int     `json:"block_days"`
	LoanAllowed   bool    `json:"loan_allowed"`
	Creator       string  `json:"creator"`
	InviteCode    string  `json:"invite_code,omitempty"`
	CreatedAt     string  `json:"created_at"`
}

type memberDTO struct {
	UserID   string  `json:"user_id"`
	Budget   float64 `json:"budget"`
	JoinedAt string  `json:"joined_at"`
}

type teamDTO struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	ShortName    string `json:"short_name,omitempty"`
	TLA          string `json:"tla,omitempty"`
	CrestURL     string `json:"crest_url,omitempty"`
	Position     int    `json:"position"`
	Played       int    `json:"played"`
	Won          int    `json:"won"`
	Draw         int    `json:"draw"`
	Lost         int    `json:"lost"`
	GoalsFor     int    `json:"goals_for"`
	GoalsAgainst int    `json:"goals_against"`
}

type playerDTO struct {
	ID            int64   `json:"id"`
	TeamID        int64   `json:"team_id"`
	TeamName      string  `json:"team_name,omitempty"`
	Name          string  `json:"name"`
	Position      string  `json:"position"`
	Nationality   string  `json:"nationality,omitempty"`
	ShirtNumber   int     `json:"shirt_number,omitempty"`
	BasePrice     float64 `json:"base_price"`
	CurrentPrice  float64 `json:"current_price"`
	TotalPoints   int     `json:"total_points"`
	MatchesPlayed int     `json:"matches_played"`
	Goals         int     `json:"goals"`
	Assists       int     `json:"assists"`
	YellowCards   int     `json:"yellow_cards"`
	RedCards      int     `json:"red_cards"`
	CleanSheets   int     `json:"clean_sheets"`
	FormRating    float64 `json:"form_rating"`
	Available     bool    `json:"available"`
	Injured       bool    `json:"injured"`
}

type playerHistoryDTO struct {
	MatchID  int64 `json:"match_id"`
	Matchday int   `json:"matchday"`
	Points   int   `json:"points"`
}

type matchDTO struct {
	ID         int64  `json:"id"`
	Matchday   int    `json:"matchday"`
	HomeTeamID int64  `json:"home_team_id"`
	AwayTeamID int64  `json:"away_team_id"`
	HomeTeam   string `json:"home_team"`
	AwayTeam   string `json:"away_team"`
	KickoffAt  string `json:"kickoff_at"`
	Status     string `json:"status"`
	HomeScore  *int   `json:"home_score,omitempty"`
	AwayScore  *int   `json:"away_score,omitempty"`
}

type matchEventDTO struct {
	PlayerID int64  `json:"player_id"`
	Kind     string `json:"kind"`
	Minute   *int   `json:"minute,omitempty"`
}

type lineupEntryDTO struct {
	PlayerID int64  `json:"player_id"`
	TeamID   int64  `json:"team_id"`
	Role     string `json:"role"`
}

func leagueToDTO(v league.League) leagueDTO {
	return leagueDTO{
		ID:            v.ID,
		Name:          v.Name,
		Type:          v.Type,
		Budget:        v.Budget,
		MarketHour:    v.MarketHour,
		ClauseEnabled: v.ClauseEnabled,
		BlockDays:     v.BlockDays,
		LoanAllowed:   v.LoanAllowed,
		Creator:       v.Creator,
		InviteCode:    v.InviteCode,
		CreatedAt:     formatTime(v.CreatedAt),
	}
}

func memberToDTO(v league.Member) memberDTO {
	return memberDTO{
		UserID:   v.UserID,
		Budget:   v.Budget,
		JoinedAt: formatTime(v.JoinedAt),
	}
}

func teamToDTO(v team.Team) teamDTO {
	return teamDTO{
		ID:           v.ID,
		Name:         v.Name,
		ShortName:    v.ShortName,
		TLA:          v.TLA,
		CrestURL:     v.CrestURL,
		Position:     v.Position,
		Played:       v.Played,
		Won:          v.Won,
		Draw:         v.Draw,
		Lost:         v.Lost,
		GoalsFor:     v.GoalsFor,
		GoalsAgainst: v.GoalsAgainst,
	}
}

func playerToDTO(v player.Player) playerDTO {
	return playerDTO{
		ID:            v.ID,
		TeamID:        v.TeamID,
		TeamName:      v.TeamName,
		Name:          v.Name,
		Position:      string(v.Position),
		Nationality:   v.Nationality,
		ShirtNumber:   v.ShirtNumber,
		BasePrice:     v.BasePrice,
		CurrentPrice:  v.CurrentPrice,
		TotalPoints:   v.TotalPoints,
		MatchesPlayed: v.MatchesPlayed,
		Goals:         v.Goals,
		Assists:       v.Assists,
		YellowCards:   v.YellowCards,
		RedCards:      v.RedCards,
		CleanSheets:   v.CleanSheets,
		FormRating:    v.FormRating,
		Available:     v.Available,
		Injured:       v.Injured,
	}
}

func matchToDTO(v match.Match) matchDTO {
	return matchDTO{
		ID:         v.ID,
		Matchday:   v.Matchday,
		HomeTeamID: v.HomeTeamID,
		AwayTeamID: v.AwayTeamID,
		HomeTeam:   v.HomeTeam,
		AwayTeam:   v.AwayTeam,
		KickoffAt:  formatTime(v.KickoffAt),
		Status:     v.Status,
		HomeScore:  v.HomeScore,
		AwayScore:  v.AwayScore,
	}
}

func matchEventToDTO(v match.Event) matchEventDTO {
	return matchEventDTO{
		PlayerID: v.PlayerID,
		Kind:     string(v.Kind),
		Minute:   v.Minute,
	}
}

func lineupEntryToDTO(v match.LineupEntry) lineupEntryDTO {
	return lineupEntryDTO{
		PlayerID: v.PlayerID,
		TeamID:   v.TeamID,
		Role:     v.Role,
	}
}

func formatTime(v time.Time) string {
	if v.IsZero() {
		return ""
	}
	return v.UTC().Format(time.RFC3339)
}
