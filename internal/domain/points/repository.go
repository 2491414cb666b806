package points

import "context"

// Repository describes computed-points persistence needs.
type Repository interface {
	Get(ctx context.Context, matchID, playerID int64) (PlayerMatchPoints, bool, error)
	Upsert(ctx context.Context, row PlayerMatchPoints) error
	ListByMatchday(ctx context.Context, matchday int) ([]PlayerMatchPoints, error)
	ListByPlayer(ctx context.Context, playerID int64) ([]PlayerMatchPoints, error)
	ListScoredMatchIDs(ctx context.Context) ([]int64, error)
}
