package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SanchuCortes/HouseManager-sub000/internal/domain/league"
	leaguemock "github.com/SanchuCortes/HouseManager-sub000/internal/mocks/domain/league"
	"github.com/SanchuCortes/HouseManager-sub000/internal/platform/id"
	"github.com/stretchr/testify/mock"
)

func TestLeagueService_JoinLeague_SuccessUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	leagueRepo := leaguemock.NewRepository(t)
	service := NewLeagueService(leagueRepo, id.NewRandomGenerator())

	leagueID := int64(42)
	userID := "manager-7"

	leagueRepo.
		On("GetByID", mock.Anything, leagueID).
		Return(league.League{ID: leagueID, Name: "Liga de Amigos", Budget: 200}, true, nil).
		Once()
	leagueRepo.
		On("GetMember", mock.Anything, leagueID, userID).
		Return(league.Member{}, false, nil).
		Once()
	leagueRepo.
		On("UpsertMember", mock.Anything, mock.MatchedBy(func(m league.Member) bool {
			return m.LeagueID == leagueID && m.UserID == userID && m.Budget == 200
		})).
		Return(nil).
		Once()

	member, err := service.JoinLeague(ctx, leagueID, userID)
	if err != nil {
		t.Fatalf("join league: %v", err)
	}
	if member.Budget != 200 {
		t.Fatalf("expected full starting budget, got %v", member.Budget)
	}
}

func TestLeagueService_JoinLeague_ExistingMemberIsNoOpUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	leagueRepo := leaguemock.NewRepository(t)
	service := NewLeagueService(leagueRepo, id.NewRandomGenerator())

	leagueID := int64(42)
	userID := "manager-7"
	existing := league.Member{
		LeagueID: leagueID,
		UserID:   userID,
		Budget:   133.5,
		JoinedAt: time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC),
	}

	leagueRepo.
		On("GetByID", mock.Anything, leagueID).
		Return(league.League{ID: leagueID, Budget: 200}, true, nil).
		Once()
	leagueRepo.
		On("GetMember", mock.Anything, leagueID, userID).
		Return(existing, true, nil).
		Once()

	member, err := service.JoinLeague(ctx, leagueID, userID)
	if err != nil {
		t.Fatalf("join league twice: %v", err)
	}
	if member.Budget != existing.Budget {
		t.Fatalf("expected existing membership back, got budget %v", member.Budget)
	}
}

func TestLeagueService_JoinLeague_NotFoundUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	leagueRepo := leaguemock.NewRepository(t)
	service := NewLeagueService(leagueRepo, id.NewRandomGenerator())

	leagueRepo.
		On("GetByID", mock.Anything, int64(999)).
		Return(league.League{}, false, nil).
		Once()

	_, err := service.JoinLeague(ctx, 999, "manager-7")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLeagueService_DeleteLeague_OnlyCreatorUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	leagueRepo := leaguemock.NewRepository(t)
	service := NewLeagueService(leagueRepo, id.NewRandomGenerator())

	leagueRepo.
		On("GetByID", mock.Anything, int64(42)).
		Return(league.League{ID: 42, Creator: "manager-1"}, true, nil).
		Once()

	err := service.DeleteLeague(ctx, 42, "manager-2")
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	leagueRepo.AssertNotCalled(t, "Delete", mock.Anything, int64(42))
}
