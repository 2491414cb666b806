package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/SanchuCortes/HouseManager-sub000/internal/infrastructure/repository/memory"
	"github.com/SanchuCortes/HouseManager-sub000/internal/platform/id"
)

func TestLeagueService_CreateLeague_CreatorJoins(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	leagues := memory.NewLeagueRepository(nil)
	service := NewLeagueService(leagues, id.NewRandomGenerator())

	created, err := service.CreateLeague(ctx, CreateLeagueInput{
		Name:          "Casa de Ana",
		ClauseEnabled: true,
		BlockDays:     7,
		Creator:       "ana",
	})
	if err != nil {
		t.Fatalf("CreateLeague error: %v", err)
	}
	if created.ID <= 0 {
		t.Fatalf("created league id = %d", created.ID)
	}
	if created.Type != "PRIVATE" || created.Budget != 200 {
		t.Fatalf("defaults not applied: %+v", created)
	}
	if len(created.InviteCode) != 8 {
		t.Fatalf("invite code = %q, want 8 chars", created.InviteCode)
	}

	member, exists, err := leagues.GetMember(ctx, created.ID, "ana")
	if err != nil || !exists {
		t.Fatalf("creator membership missing: exists=%v err=%v", exists, err)
	}
	if member.Budget != created.Budget {
		t.Fatalf("creator budget = %v, want full league budget", member.Budget)
	}
}

func TestLeagueService_CreateLeague_Invalid(t *testing.T) {
	t.Parallel()

	service := NewLeagueService(memory.NewLeagueRepository(nil), id.NewRandomGenerator())
	if _, err := service.CreateLeague(context.Background(), CreateLeagueInput{Name: " "}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("error = %v, want ErrInvalidInput", err)
	}
}

func TestLeagueService_JoinLeague_Idempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	leagues := memory.NewLeagueRepository(nil)
	service := NewLeagueService(leagues, id.NewRandomGenerator())

	created, err := service.CreateLeague(ctx, CreateLeagueInput{Name: "Casa", Creator: "ana"})
	if err != nil {
		t.Fatalf("CreateLeague error: %v", err)
	}

	first, err := service.JoinLeague(ctx, created.ID, "ben")
	if err != nil {
		t.Fatalf("JoinLeague error: %v", err)
	}
	if first.Budget != created.Budget {
		t.Fatalf("joined budget = %v", first.Budget)
	}

	// Spend some budget, then join again: the membership must be untouched.
	first.Budget = 50
	if err := leagues.UpsertMember(ctx, first); err != nil {
		t.Fatalf("update member: %v", err)
	}
	second, err := service.JoinLeague(ctx, created.ID, "ben")
	if err != nil {
		t.Fatalf("second JoinLeague error: %v", err)
	}
	if second.Budget != 50 {
		t.Fatalf("rejoin reset budget to %v", second.Budget)
	}

	if _, err := service.JoinLeague(ctx, 999, "ben"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("join unknown league error = %v, want ErrNotFound", err)
	}
}

func TestLeagueService_JoinByInviteCode(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service := NewLeagueService(memory.NewLeagueRepository(nil), id.NewRandomGenerator())

	created, err := service.CreateLeague(ctx, CreateLeagueInput{Name: "Casa", Creator: "ana"})
	if err != nil {
		t.Fatalf("CreateLeague error: %v", err)
	}

	member, err := service.JoinByInviteCode(ctx, created.InviteCode, "ben")
	if err != nil {
		t.Fatalf("JoinByInviteCode error: %v", err)
	}
	if member.LeagueID != created.ID {
		t.Fatalf("joined league = %d, want %d", member.LeagueID, created.ID)
	}

	if _, err := service.JoinByInviteCode(ctx, "NOPE", "ben"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("bad code error = %v, want ErrNotFound", err)
	}
}

func TestLeagueService_DeleteLeague_CreatorOnly(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service := NewLeagueService(memory.NewLeagueRepository(nil), id.NewRandomGenerator())

	created, err := service.CreateLeague(ctx, CreateLeagueInput{Name: "Casa", Creator: "ana"})
	if err != nil {
		t.Fatalf("CreateLeague error: %v", err)
	}

	if err := service.DeleteLeague(ctx, created.ID, "ben"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("delete by non-creator error = %v, want ErrUnauthorized", err)
	}
	if err := service.DeleteLeague(ctx, created.ID, "ana"); err != nil {
		t.Fatalf("delete by creator error: %v", err)
	}
	if _, err := service.GetLeague(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get deleted league error = %v, want ErrNotFound", err)
	}
}
