package memory

import (
	"time"

	"github.com/SanchuCortes/HouseManager-sub000/internal/domain/league"
	"github.com/SanchuCortes/HouseManager-sub000/internal/domain/player"
	"github.com/SanchuCortes/HouseManager-sub000/internal/domain/team"
)

// SeedTeams returns a small demo competition for running the API without a
// database or a feed token.
func SeedTeams() []team.Team {
	return []team.Team{
		{ID: 81, Name: "FC Barcelona", ShortName: "Barça", TLA: "FCB", Position: 1, Played: 4, Won: 4, GoalsFor: 12, GoalsAgainst: 3},
		{ID: 86, Name: "Real Madrid CF", ShortName: "Real Madrid", TLA: "RMA", Position: 2, Played: 4, Won: 3, Draw: 1, GoalsFor: 9, GoalsAgainst: 4},
		{ID: 78, Name: "Club Atlético de Madrid", ShortName: "Atleti", TLA: "ATM", Position: 3, Played: 4, Won: 2, Draw: 2, GoalsFor: 7, GoalsAgainst: 4},
	}
}

func SeedPlayers(now time.Time) []player.Player {
	seed := []struct {
		id     int64
		teamID int64
		team   string
		name   string
		pos    player.Position
	}{
		{1001, 81, "FC Barcelona", "Marc-André ter Stegen", player.PositionGoalkeeper},
		{1002, 81, "FC Barcelona", "Pau Cubarsí", player.PositionDefender},
		{1003, 81, "FC Barcelona", "Pedri", player.PositionMidfielder},
		{1004, 81, "FC Barcelona", "Lamine Yamal", player.PositionForward},
		{1005, 86, "Real Madrid CF", "Thibaut Courtois", player.PositionGoalkeeper},
		{1006, 86, "Real Madrid CF", "Antonio Rüdiger", player.PositionDefender},
		{1007, 86, "Real Madrid CF", "Jude Bellingham", player.PositionMidfielder},
		{1008, 86, "Real Madrid CF", "Kylian Mbappé", player.PositionForward},
		{1009, 78, "Club Atlético de Madrid", "Jan Oblak", player.PositionGoalkeeper},
		{1010, 78, "Club Atlético de Madrid", "José María Giménez", player.PositionDefender},
		{1011, 78, "Club Atlético de Madrid", "Koke", player.PositionMidfielder},
		{1012, 78, "Club Atlético de Madrid", "Antoine Griezmann", player.PositionForward},
	}

	out := make([]player.Player, 0, len(seed))
	for _, item := range seed {
		base := player.BasePriceForPosition(item.pos)
		out = append(out, player.Player{
			ID:           item.id,
			TeamID:       item.teamID,
			TeamName:     item.team,
			Name:         item.name,
			Position:     item.pos,
			BasePrice:    base,
			CurrentPrice: base,
			Available:    true,
			UpdatedAt:    now,
		})
	}
	return out
}

func SeedLeagues(now time.Time) []league.League {
	return []league.League{
		{
			ID:            1,
			Name:          "Casa Demo",
			Type:          league.TypePrivate,
			Budget:        200,
			MarketHour:    "09:00",
			ClauseEnabled: true,
			BlockDays:     7,
			Creator:       "demo-user",
			InviteCode:    "DEMO1234",
			CreatedAt:     now,
		},
	}
}
