package team

import "fmt"

// Team is a real-world club imported from the feed, including its league
// table counters. Rows are overwritten wholesale on sync.
type Team struct {
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

func (t Team) Validate() error {
	if t.ID <= 0 {
		return fmt.Errorf("team id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}

	return nil
}
