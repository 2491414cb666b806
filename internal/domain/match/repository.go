package match

import "context"

// Repository describes match, event and lineup persistence needs.
type Repository interface {
	List(ctx context.Context) ([]Match, error)
	ListFinished(ctx context.Context) ([]Match, error)
	ListByMatchday(ctx context.Context, matchday int) ([]Match, error)
	GetByID(ctx context.Context, matchID int64) (Match, bool, error)
	UpsertAll(ctx context.Context, matches []Match) error

	ListEvents(ctx context.Context, matchID int64) ([]Event, error)
	ReplaceEvents(ctx context.Context, matchID int64, events []Event) error

	ListLineup(ctx context.Context, matchID int64) ([]LineupEntry, error)
	ReplaceLineup(ctx context.Context, matchID int64, entries []LineupEntry) error
}
