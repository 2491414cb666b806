package usecase

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/SanchuCortes/HouseManager-sub000/internal/domain/player"
	"github.com/SanchuCortes/HouseManager-sub000/internal/infrastructure/repository/memory"
	"github.com/SanchuCortes/HouseManager-sub000/internal/platform/bus"
)

type fakeProvider struct {
	standings   []ExternalTeam
	squads      map[int64][]ExternalPlayer
	failSquads  map[int64]bool
	matches     []ExternalMatch
	details     map[int64]ExternalMatchDetail
	failDetails map[int64]bool
}

func (p *fakeProvider) FetchStandings(context.Context) ([]ExternalTeam, error) {
	return p.standings, nil
}

func (p *fakeProvider) FetchSquad(_ context.Context, teamID int64) ([]ExternalPlayer, error) {
	if p.failSquads[teamID] {
		return nil, fmt.Errorf("squad fetch failed team=%d", teamID)
	}
	return p.squads[teamID], nil
}

func (p *fakeProvider) FetchMatches(context.Context) ([]ExternalMatch, error) {
	return p.matches, nil
}

func (p *fakeProvider) FetchMatchDetail(_ context.Context, matchID int64) (ExternalMatchDetail, error) {
	if p.failDetails[matchID] {
		return ExternalMatchDetail{}, fmt.Errorf("detail fetch failed match=%d", matchID)
	}
	return p.details[matchID], nil
}

type countingPlayerRepo struct {
	*memory.PlayerRepository
	upsertCalls atomic.Int32
}

func (r *countingPlayerRepo) UpsertAll(ctx context.Context, players []player.Player) error {
	r.upsertCalls.Add(1)
	return r.PlayerRepository.UpsertAll(ctx, players)
}

func newSyncFixture(provider *fakeProvider, playerRepo player.Repository) (*SyncService, *memory.MatchRepository, *memory.PointsRepository, *bus.Bus) {
	teams := memory.NewTeamRepository(nil)
	matches := memory.NewMatchRepository(nil)
	leagues := memory.NewLeagueRepository(nil)
	pointsRepo := memory.NewPointsRepository()
	events := bus.New(4)

	scoring := NewScoringService(matches, playerRepo, pointsRepo)
	service := NewSyncService(provider, teams, playerRepo, matches, leagues, scoring, nil, events)
	service.sleep = func(time.Duration) {}
	return service, matches, pointsRepo, events
}

func TestSyncService_SyncSquads_PartialFailureStillCommitsOnce(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	provider := &fakeProvider{
		standings: []ExternalTeam{
			{ID: 10, Name: "Alpha", Position: 1},
			{ID: 20, Name: "Beta", Position: 2},
			{ID: 30, Name: "Gamma", Position: 3},
		},
		squads: map[int64][]ExternalPlayer{
			10: {{ID: 101, Name: "A One", Position: "Goalkeeper"}, {ID: 102, Name: "A Two", Position: "Defence"}},
			30: {{ID: 301, Name: "C One", Position: "Offence"}},
		},
		failSquads: map[int64]bool{20: true},
	}
	playerRepo := &countingPlayerRepo{PlayerRepository: memory.NewPlayerRepository(nil)}
	service, _, _, _ := newSyncFixture(provider, playerRepo)

	if _, err := service.SyncTeams(ctx); err != nil {
		t.Fatalf("SyncTeams error: %v", err)
	}

	result, err := service.SyncSquads(ctx, 4)
	if err != nil {
		t.Fatalf("SyncSquads error: %v", err)
	}
	if result.TeamCount != 3 || result.TeamsProcessed != 2 || result.TeamsFailed != 1 {
		t.Fatalf("squad result = %+v", result)
	}
	if result.PlayersImported != 3 {
		t.Fatalf("players imported = %d, want 3", result.PlayersImported)
	}
	if calls := playerRepo.upsertCalls.Load(); calls != 1 {
		t.Fatalf("player upsert commits = %d, want exactly 1", calls)
	}

	imported, _ := playerRepo.List(ctx)
	if len(imported) != 3 {
		t.Fatalf("stored players = %d, want 3", len(imported))
	}
	for _, p := range imported {
		if p.BasePrice <= 0 || p.CurrentPrice != p.BasePrice {
			t.Fatalf("imported player pricing = %+v", p)
		}
	}
}

func TestSyncService_SyncSquads_PreservesScoringStateOnReimport(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	existing := newTestPlayer(101, 10, player.PositionGoalkeeper)
	existing.TotalPoints = 40
	existing.MatchesPlayed = 5
	existing.FormRating = 6.5
	existing.CurrentPrice = 12.4

	provider := &fakeProvider{
		standings: []ExternalTeam{{ID: 10, Name: "Alpha", Position: 1}},
		squads: map[int64][]ExternalPlayer{
			10: {{ID: 101, Name: "A One Renamed", Position: "Goalkeeper", ShirtNumber: 13}},
		},
	}
	playerRepo := &countingPlayerRepo{PlayerRepository: memory.NewPlayerRepository([]player.Player{existing})}
	service, _, _, _ := newSyncFixture(provider, playerRepo)

	if _, err := service.SyncTeams(ctx); err != nil {
		t.Fatalf("SyncTeams error: %v", err)
	}
	if _, err := service.SyncSquads(ctx, 1); err != nil {
		t.Fatalf("SyncSquads error: %v", err)
	}

	p, exists, _ := playerRepo.GetByID(ctx, 101)
	if !exists {
		t.Fatal("player missing after reimport")
	}
	if p.Name != "A One Renamed" || p.ShirtNumber != 13 {
		t.Fatalf("descriptive fields not refreshed: %+v", p)
	}
	if p.TotalPoints != 40 || p.MatchesPlayed != 5 || p.FormRating != 6.5 || p.CurrentPrice != 12.4 {
		t.Fatalf("scoring state lost on reimport: %+v", p)
	}
}

func TestSyncService_SyncAll_FullPipeline(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	kickoff := time.Date(2026, 3, 7, 18, 0, 0, 0, time.UTC)
	provider := &fakeProvider{
		standings: []ExternalTeam{
			{ID: 10, Name: "Alpha", Position: 1},
			{ID: 20, Name: "Beta", Position: 2},
		},
		squads: map[int64][]ExternalPlayer{
			10: {{ID: 101, Name: "A One", Position: "Striker"}},
			20: {{ID: 201, Name: "B One", Position: "Keeper"}},
		},
		matches: []ExternalMatch{
			{
				ID: 900, Matchday: 1, Status: "FINISHED", KickoffAt: kickoff,
				HomeTeamID: 10, HomeTeamName: "Alpha", AwayTeamID: 20, AwayTeamName: "Beta",
				HomeScore: intPtr(2), AwayScore: intPtr(0),
			},
			{
				ID: 901, Matchday: 2, Status: "SCHEDULED", KickoffAt: kickoff.Add(7 * 24 * time.Hour),
				HomeTeamID: 20, HomeTeamName: "Beta", AwayTeamID: 10, AwayTeamName: "Alpha",
			},
		},
		details: map[int64]ExternalMatchDetail{
			900: {
				Events: []ExternalMatchEvent{
					{PlayerID: 101, TeamID: 10, Kind: "GOAL"},
					{PlayerID: 101, TeamID: 10, Kind: "PENALTY"},
				},
				Lineup: []ExternalLineupEntry{
					{PlayerID: 101, TeamID: 10, Starter: true},
					{PlayerID: 201, TeamID: 20, Starter: true},
				},
			},
		},
	}

	playerRepo := &countingPlayerRepo{PlayerRepository: memory.NewPlayerRepository(nil)}
	service, matchRepo, pointsRepo, events := newSyncFixture(provider, playerRepo)

	ch, cancel := events.Subscribe(TopicSyncCompleted)
	defer cancel()
	progressCh, cancelProgress := events.Subscribe(TopicSyncProgress)
	defer cancelProgress()

	result, err := service.SyncAll(ctx, SyncInput{MaxWorkers: 2})
	if err != nil {
		t.Fatalf("SyncAll error: %v", err)
	}
	if result.Status != SyncStatusSuccess {
		t.Fatalf("status = %q, want %q", result.Status, SyncStatusSuccess)
	}
	if result.TeamCount != 2 || result.TeamsProcessed != 2 || result.TeamsFailed != 0 {
		t.Fatalf("team counts = %+v", result)
	}

	for i := 0; i < 2; i++ {
		select {
		case ev := <-progressCh:
			progress, ok := ev.Payload.(SyncProgress)
			if !ok || progress.Total != 2 || progress.Failed {
				t.Fatalf("progress payload = %+v", ev.Payload)
			}
		default:
			t.Fatalf("progress event %d not published", i+1)
		}
	}
	if result.MatchesImported != 2 || result.DetailsFetched != 1 || result.DetailsFailed != 0 {
		t.Fatalf("match counts = %+v", result)
	}
	if result.MatchesScored != 1 {
		t.Fatalf("matches scored = %d, want 1", result.MatchesScored)
	}

	// Striker with two goals in a 2-0 win: 4 + 4 + 4 + 1 + 3 = 16.
	row, exists, _ := pointsRepo.Get(ctx, 900, 101)
	if !exists || row.Points != 16 {
		t.Fatalf("scored row = %+v exists=%v", row, exists)
	}
	// Keeper shipping two: 4 + 2 = 6.
	row, exists, _ = pointsRepo.Get(ctx, 900, 201)
	if !exists || row.Points != 6 {
		t.Fatalf("keeper row = %+v exists=%v", row, exists)
	}

	lineup, _ := matchRepo.ListLineup(ctx, 900)
	if len(lineup) != 2 {
		t.Fatalf("stored lineup = %d entries, want 2", len(lineup))
	}

	select {
	case ev := <-ch:
		payload, ok := ev.Payload.(SyncResult)
		if !ok || payload.MatchesScored != 1 || payload.Status != SyncStatusSuccess {
			t.Fatalf("published payload = %+v", ev.Payload)
		}
	default:
		t.Fatal("sync completion event not published")
	}

	// Second run: nothing new to fetch or score.
	again, err := service.SyncAll(ctx, SyncInput{MaxWorkers: 2})
	if err != nil {
		t.Fatalf("second SyncAll error: %v", err)
	}
	if again.DetailsFetched != 0 || again.MatchesScored != 0 {
		t.Fatalf("second run refetched or rescored: %+v", again)
	}
}

func TestSyncService_SyncAll_AllTeamsFailedReportsFailure(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	provider := &fakeProvider{
		standings: []ExternalTeam{
			{ID: 10, Name: "Alpha", Position: 1},
			{ID: 20, Name: "Beta", Position: 2},
		},
		failSquads: map[int64]bool{10: true, 20: true},
	}
	playerRepo := &countingPlayerRepo{PlayerRepository: memory.NewPlayerRepository(nil)}
	service, _, _, events := newSyncFixture(provider, playerRepo)

	ch, cancel := events.Subscribe(TopicSyncCompleted)
	defer cancel()
	progressCh, cancelProgress := events.Subscribe(TopicSyncProgress)
	defer cancelProgress()

	result, err := service.SyncAll(ctx, SyncInput{})
	if err != nil {
		t.Fatalf("SyncAll error: %v", err)
	}
	if result.Status != SyncStatusFailure {
		t.Fatalf("status = %q, want %q", result.Status, SyncStatusFailure)
	}
	if result.TeamsProcessed != 0 || result.TeamsFailed != 2 {
		t.Fatalf("team counts = %+v", result)
	}

	for i := 0; i < 2; i++ {
		select {
		case ev := <-progressCh:
			progress, ok := ev.Payload.(SyncProgress)
			if !ok || !progress.Failed {
				t.Fatalf("progress payload = %+v", ev.Payload)
			}
		default:
			t.Fatalf("progress event %d not published", i+1)
		}
	}

	select {
	case ev := <-ch:
		payload, ok := ev.Payload.(SyncResult)
		if !ok || payload.Status != SyncStatusFailure {
			t.Fatalf("terminal payload = %+v", ev.Payload)
		}
	default:
		t.Fatal("terminal event not published")
	}
}

func TestSyncService_SyncSquads_PacesSubmissions(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	provider := &fakeProvider{
		standings: []ExternalTeam{
			{ID: 10, Name: "Alpha", Position: 1},
			{ID: 20, Name: "Beta", Position: 2},
			{ID: 30, Name: "Gamma", Position: 3},
		},
		squads: map[int64][]ExternalPlayer{
			10: {{ID: 101, Name: "A One", Position: "Goalkeeper"}},
			20: {{ID: 201, Name: "B One", Position: "Defence"}},
			30: {{ID: 301, Name: "C One", Position: "Offence"}},
		},
	}
	playerRepo := &countingPlayerRepo{PlayerRepository: memory.NewPlayerRepository(nil)}
	service, _, _, _ := newSyncFixture(provider, playerRepo)

	var sleeps atomic.Int32
	service.sleep = func(d time.Duration) {
		if d == syncTeamFetchDelay {
			sleeps.Add(1)
		}
	}

	if _, err := service.SyncTeams(ctx); err != nil {
		t.Fatalf("SyncTeams error: %v", err)
	}
	if _, err := service.SyncSquads(ctx, 4); err != nil {
		t.Fatalf("SyncSquads error: %v", err)
	}

	// Fetches are spaced at submission time, one gap between each pair of
	// teams, independent of how many workers run them.
	if got := sleeps.Load(); got != 2 {
		t.Fatalf("pacing sleeps = %d, want 2", got)
	}
}

func TestNormalizeSyncWorkerCount(t *testing.T) {
	t.Parallel()

	cases := []struct {
		value, tasks, want int
	}{
		{0, 10, 3},
		{3, 10, 3},
		{8, 10, 8},
		{9, 10, 8},
		{4, 2, 2},
		{2, 0, 1},
	}
	for _, tc := range cases {
		if got := normalizeSyncWorkerCount(tc.value, tc.tasks); got != tc.want {
			t.Errorf("normalizeSyncWorkerCount(%d, %d) = %d, want %d", tc.value, tc.tasks, got, tc.want)
		}
	}
}
