package league

import (
	"fmt"
	"time"
)

const (
	TypePrivate   = "PRIVATE"
	TypeCommunity = "COMMUNITY"
)

// League is one fantasy league: a group of managers sharing a budget ceiling,
// a transfer market and a classification.
type League struct {
	ID            int64
	Name          string
	Type          string
	Budget        float64
	MarketHour    string
	ClauseEnabled bool
	BlockDays     int
	LoanAllowed   bool
	Creator       string
	InviteCode    string
	CreatedAt     time.Time
}

func (l League) Validate() error {
	if l.Name == "" {
		return fmt.Errorf("league name is required")
	}
	if l.Type != TypePrivate && l.Type != TypeCommunity {
		return fmt.Errorf("invalid league type: %s", l.Type)
	}
	if l.Budget <= 0 {
		return fmt.Errorf("league budget must be greater than zero")
	}
	if l.BlockDays < 0 {
		return fmt.Errorf("league block days cannot be negative")
	}

	return nil
}

// Member is one manager inside a league. Budget is the current spendable
// amount; the market engine is the only writer.
type Member struct {
	LeagueID int64
	UserID   string
	Budget   float64
	JoinedAt time.Time
}
