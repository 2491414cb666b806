package usecase

import (
	"context"
	"time"

	"github.com/SanchuCortes/HouseManager-sub000/internal/domain/match"
	"github.com/SanchuCortes/HouseManager-sub000/internal/domain/player"
	"github.com/SanchuCortes/HouseManager-sub000/internal/domain/team"
)

// DataProvider is the competition feed boundary. Implementations live under
// external/ and own retries, throttling and transport concerns.
type DataProvider interface {
	FetchStandings(ctx context.Context) ([]ExternalTeam, error)
	FetchSquad(ctx context.Context, teamID int64) ([]ExternalPlayer, error)
	FetchMatches(ctx context.Context) ([]ExternalMatch, error)
	FetchMatchDetail(ctx context.Context, matchID int64) (ExternalMatchDetail, error)
}

type ExternalTeam struct {
	ID           int64
	Name         string
	ShortName    string
	TLA          string
	CrestURL     string
	Position     int
	Played       int
	Won          int
	Draw         int
	Lost         int
	GoalsFor     int
	GoalsAgainst int
}

type ExternalPlayer struct {
	ID          int64
	Name        string
	Position    string
	Nationality string
	ShirtNumber int
}

type ExternalMatch struct {
	ID           int64
	Matchday     int
	Status       string
	KickoffAt    time.Time
	HomeTeamID   int64
	HomeTeamName string
	AwayTeamID   int64
	AwayTeamName string
	HomeScore    *int
	AwayScore    *int
}

type ExternalMatchEvent struct {
	PlayerID int64
	TeamID   int64
	Kind     string
	Minute   *int
}

type ExternalLineupEntry struct {
	PlayerID int64
	TeamID   int64
	Starter  bool
}

type ExternalMatchDetail struct {
	Match  ExternalMatch
	Events []ExternalMatchEvent
	Lineup []ExternalLineupEntry
}

func mapExternalTeamsToDomain(items []ExternalTeam) []team.Team {
	out := make([]team.Team, 0, len(items))
	for _, item := range items {
		if item.ID <= 0 {
			continue
		}
		out = append(out, team.Team{
			ID:           item.ID,
			Name:         item.Name,
			ShortName:    item.ShortName,
			TLA:          item.TLA,
			CrestURL:     item.CrestURL,
			Position:     item.Position,
			Played:       item.Played,
			Won:          item.Won,
			Draw:         item.Draw,
			Lost:         item.Lost,
			GoalsFor:     item.GoalsFor,
			GoalsAgainst: item.GoalsAgainst,
		})
	}
	return out
}

// mapExternalPlayersToDomain builds fresh player rows for a squad import.
// Points, form and price state belong to the scoring pass; the sync merge
// preserves them for players that already exist.
func mapExternalPlayersToDomain(teamID int64, teamName string, items []ExternalPlayer, now time.Time) []player.Player {
	out := make([]player.Player, 0, len(items))
	for _, item := range items {
		if item.ID <= 0 {
			continue
		}
		pos := player.ParsePosition(item.Position)
		base := player.BasePriceForPosition(pos)
		out = append(out, player.Player{
			ID:           item.ID,
			TeamID:       teamID,
			TeamName:     teamName,
			Name:         item.Name,
			Position:     pos,
			Nationality:  item.Nationality,
			ShirtNumber:  item.ShirtNumber,
			BasePrice:    base,
			CurrentPrice: base,
			Available:    true,
			UpdatedAt:    now,
		})
	}
	return out
}

func mapExternalMatchToDomain(item ExternalMatch) match.Match {
	return match.Match{
		ID:         item.ID,
		Matchday:   item.Matchday,
		HomeTeamID: item.HomeTeamID,
		AwayTeamID: item.AwayTeamID,
		HomeTeam:   item.HomeTeamName,
		AwayTeam:   item.AwayTeamName,
		KickoffAt:  item.KickoffAt,
		Status:     match.NormalizeStatus(item.Status),
		HomeScore:  item.HomeScore,
		AwayScore:  item.AwayScore,
	}
}

func mapExternalMatchesToDomain(items []ExternalMatch) []match.Match {
	out := make([]match.Match, 0, len(items))
	for _, item := range items {
		if item.ID <= 0 {
			continue
		}
		out = append(out, mapExternalMatchToDomain(item))
	}
	return out
}

func mapExternalEventsToDomain(matchID int64, items []ExternalMatchEvent) []match.Event {
	out := make([]match.Event, 0, len(items))
	for _, item := range items {
		if item.PlayerID <= 0 {
			continue
		}
		kind, ok := match.ParseEventKind(item.Kind)
		if !ok {
			continue
		}
		out = append(out, match.Event{
			MatchID:  matchID,
			PlayerID: item.PlayerID,
			Kind:     kind,
			Minute:   item.Minute,
		})
	}
	return out
}

func mapExternalLineupToDomain(matchID int64, items []ExternalLineupEntry) []match.LineupEntry {
	out := make([]match.LineupEntry, 0, len(items))
	for _, item := range items {
		if item.PlayerID <= 0 {
			continue
		}
		role := match.RoleSubstitute
		if item.Starter {
			role = match.RoleStarter
		}
		out = append(out, match.LineupEntry{
			MatchID:  matchID,
			PlayerID: item.PlayerID,
			TeamID:   item.TeamID,
			Role:     role,
		})
	}
	return out
}
