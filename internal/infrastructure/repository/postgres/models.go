package postgres

import (
	"database/sql"
	"time"
)

type teamTableModel struct {
	ID           int64  `db:"id"`
	Name         string `db:"name"`
	ShortName    string `db:"short_name"`
	TLA          string `db:"tla"`
	CrestURL     string `db:"crest_url"`
	Position     int    `db:"position"`
	Played       int    `db:"played"`
	Won          int    `db:"won"`
	Draw         int    `db:"draw"`
	Lost         int    `db:"lost"`
	GoalsFor     int    `db:"goals_for"`
	GoalsAgainst int    `db:"goals_against"`
}

type playerTableModel struct {
	ID            int64     `db:"id"`
	TeamID        int64     `db:"team_id"`
	TeamName      string    `db:"team_name"`
	Name          string    `db:"name"`
	Position      string    `db:"position"`
	Nationality   string    `db:"nationality"`
	ShirtNumber   int       `db:"shirt_number"`
	BasePrice     float64   `db:"base_price"`
	CurrentPrice  float64   `db:"current_price"`
	TotalPoints   int       `db:"total_points"`
	MatchesPlayed int       `db:"matches_played"`
	Goals         int       `db:"goals"`
	Assists       int       `db:"assists"`
	YellowCards   int       `db:"yellow_cards"`
	RedCards      int       `db:"red_cards"`
	CleanSheets   int       `db:"clean_sheets"`
	FormRating    float64   `db:"form_rating"`
	Available     bool      `db:"available"`
	Injured       bool      `db:"injured"`
	UpdatedAt     time.Time `db:"updated_at"`
}

type matchTableModel struct {
	ID         int64         `db:"id"`
	Matchday   int           `db:"matchday"`
	HomeTeamID int64         `db:"home_team_id"`
	AwayTeamID int64         `db:"away_team_id"`
	HomeTeam   string        `db:"home_team"`
	AwayTeam   string        `db:"away_team"`
	KickoffAt  time.Time     `db:"kickoff_at"`
	Status     string        `db:"status"`
	HomeScore  sql.NullInt64 `db:"home_score"`
	AwayScore  sql.NullInt64 `db:"away_score"`
}

type matchEventTableModel struct {
	ID       int64         `db:"id"`
	MatchID  int64         `db:"match_id"`
	PlayerID int64         `db:"player_id"`
	Kind     string        `db:"kind"`
	Minute   sql.NullInt64 `db:"minute"`
}

type matchLineupTableModel struct {
	MatchID  int64  `db:"match_id"`
	PlayerID int64  `db:"player_id"`
	TeamID   int64  `db:"team_id"`
	Role     string `db:"role"`
}

type leagueTableModel struct {
	ID            int64     `db:"id"`
	Name          string    `db:"name"`
	Type          string    `db:"type"`
	Budget        float64   `db:"budget"`
	MarketHour    string    `db:"market_hour"`
	ClauseEnabled bool      `db:"clause_enabled"`
	BlockDays     int       `db:"block_days"`
	LoanAllowed   bool      `db:"loan_allowed"`
	Creator       string    `db:"creator"`
	InviteCode    string    `db:"invite_code"`
	CreatedAt     time.Time `db:"created_at"`
}

type leagueMemberTableModel struct {
	LeagueID int64     `db:"league_id"`
	UserID   string    `db:"user_id"`
	Budget   float64   `db:"budget"`
	JoinedAt time.Time `db:"joined_at"`
}

type marketStateTableModel struct {
	LeagueID        int64     `db:"league_id"`
	MarketExpiresAt time.Time `db:"market_expires_at"`
	LastGeneratedAt time.Time `db:"last_generated_at"`
}

type marketListingTableModel struct {
	LeagueID  int64     `db:"league_id"`
	PlayerID  int64     `db:"player_id"`
	Price     float64   `db:"price"`
	ListedAt  time.Time `db:"listed_at"`
	ExpiresAt time.Time `db:"expires_at"`
	Sold      bool      `db:"sold"`
}

type ownershipTableModel struct {
	LeagueID      int64     `db:"league_id"`
	PlayerID      int64     `db:"player_id"`
	OwnerUserID   string    `db:"owner_user_id"`
	AcquiredPrice float64   `db:"acquired_price"`
	AcquiredAt    time.Time `db:"acquired_at"`
}

type captainTableModel struct {
	LeagueID int64  `db:"league_id"`
	UserID   string `db:"user_id"`
	PlayerID int64  `db:"player_id"`
}

type playerPointsTableModel struct {
	MatchID      int64     `db:"match_id"`
	PlayerID     int64     `db:"player_id"`
	Matchday     int       `db:"matchday"`
	Points       int       `db:"points"`
	CalculatedAt time.Time `db:"calculated_at"`
}
