package points

import "time"

// PlayerMatchPoints is the scored outcome of one player in one match. One row
// per (match, player); scoring upserts are idempotent so sync replays are
// safe.
type PlayerMatchPoints struct {
	MatchID      int64
	PlayerID     int64
	Matchday     int
	Points       int
	CalculatedAt time.Time
}
