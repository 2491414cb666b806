package league

import "context"

// Repository describes league and membership persistence needs.
type Repository interface {
	List(ctx context.Context) ([]League, error)
	GetByID(ctx context.Context, leagueID int64) (League, bool, error)
	Create(ctx context.Context, l League) (League, error)
	Delete(ctx context.Context, leagueID int64) error

	ListMembers(ctx context.Context, leagueID int64) ([]Member, error)
	GetMember(ctx context.Context, leagueID int64, userID string) (Member, bool, error)
	UpsertMember(ctx context.Context, m Member) error
}
