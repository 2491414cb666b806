package usecase

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc/pool"

	"github.com/SanchuCortes/HouseManager-sub000/internal/domain/league"
	"github.com/SanchuCortes/HouseManager-sub000/internal/domain/match"
	"github.com/SanchuCortes/HouseManager-sub000/internal/domain/player"
	"github.com/SanchuCortes/HouseManager-sub000/internal/domain/team"
	"github.com/SanchuCortes/HouseManager-sub000/internal/platform/bus"
)

const (
	// Pacing between squad fetches. The upstream free tier throttles hard;
	// spacing requests out keeps a full competition sync under the limit.
	syncTeamFetchDelay = 150 * time.Millisecond

	syncDefaultWorkers   = 3
	syncMaxWorkers       = 8
	syncDetailMaxWorkers = 4

	TopicSyncProgress  = "sync.progress"
	TopicSyncCompleted = "sync.completed"
)

// Terminal sync outcomes. A run is a failure only when every team failed;
// anything in between is partial.
const (
	SyncStatusSuccess = "success"
	SyncStatusPartial = "partial"
	SyncStatusFailure = "failure"
)

// SyncService orchestrates the competition import: standings, squads,
// matches with their events and lineups, then the scoring pass and market
// regeneration. Squad imports are all-or-per-team: failed teams are counted
// and skipped, and the players of the successful teams land in one commit.
type SyncService struct {
	provider   DataProvider
	teamRepo   team.Repository
	playerRepo player.Repository
	matchRepo  match.Repository
	leagueRepo league.Repository
	scoring    *ScoringService
	market     *MarketService
	events     *bus.Bus
	now        func() time.Time
	sleep      func(time.Duration)
}

func NewSyncService(
	provider DataProvider,
	teamRepo team.Repository,
	playerRepo player.Repository,
	matchRepo match.Repository,
	leagueRepo league.Repository,
	scoring *ScoringService,
	market *MarketService,
	events *bus.Bus,
) *SyncService {
	return &SyncService{
		provider:   provider,
		teamRepo:   teamRepo,
		playerRepo: playerRepo,
		matchRepo:  matchRepo,
		leagueRepo: leagueRepo,
		scoring:    scoring,
		market:     market,
		events:     events,
		now:        time.Now,
		sleep:      time.Sleep,
	}
}

type SyncInput struct {
	MaxWorkers int `json:"max_workers" validate:"omitempty,min=1,max=8"`
}

// SyncProgress is published per team while squads import, so listeners can
// follow the run as it advances.
type SyncProgress struct {
	TeamID    int64  `json:"team_id"`
	TeamName  string `json:"team_name"`
	Failed    bool   `json:"failed"`
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
}

type SyncResult struct {
	Status          string `json:"status"`
	TeamCount       int    `json:"team_count"`
	TeamsProcessed  int    `json:"teams_processed"`
	TeamsFailed     int    `json:"teams_failed"`
	PlayersImported int    `json:"players_imported"`
	MatchesImported int    `json:"matches_imported"`
	DetailsFetched  int    `json:"details_fetched"`
	DetailsFailed   int    `json:"details_failed"`
	MatchesScored   int    `json:"matches_scored"`
	MarketsRefresh  int    `json:"markets_refreshed"`
	WorkerCount     int    `json:"worker_count"`
	DurationMs      int64  `json:"duration_ms"`
	CompletedAt     string `json:"completed_at"`
}

// SyncAll runs the full pipeline. Partial squad failures do not abort the
// run; a failed match import does.
func (s *SyncService) SyncAll(ctx context.Context, input SyncInput) (SyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.SyncAll")
	defer span.End()

	if s.provider == nil {
		return SyncResult{}, fmt.Errorf("%w: data provider is not configured", ErrDependencyUnavailable)
	}

	start := s.now()
	result := SyncResult{}

	teamCount, err := s.SyncTeams(ctx)
	if err != nil {
		return SyncResult{}, err
	}
	result.TeamCount = teamCount

	squads, err := s.SyncSquads(ctx, input.MaxWorkers)
	if err != nil {
		return SyncResult{}, err
	}
	result.TeamsProcessed = squads.TeamsProcessed
	result.TeamsFailed = squads.TeamsFailed
	result.PlayersImported = squads.PlayersImported
	result.WorkerCount = squads.WorkerCount

	matches, err := s.SyncMatches(ctx)
	if err != nil {
		return SyncResult{}, err
	}
	result.MatchesImported = matches.MatchesImported
	result.DetailsFetched = matches.DetailsFetched
	result.DetailsFailed = matches.DetailsFailed

	scored, err := s.scoring.ScorePending(ctx)
	if err != nil {
		return SyncResult{}, err
	}
	result.MatchesScored = len(scored)

	refreshed, err := s.refreshMarkets(ctx)
	if err != nil {
		return SyncResult{}, err
	}
	result.MarketsRefresh = refreshed

	completedAt := s.now().UTC()
	result.DurationMs = completedAt.Sub(start.UTC()).Milliseconds()
	result.CompletedAt = completedAt.Format(time.RFC3339)
	result.Status = syncStatus(result)

	if s.events != nil {
		s.events.Publish(TopicSyncCompleted, result)
	}

	return result, nil
}

func syncStatus(r SyncResult) string {
	switch {
	case r.TeamCount > 0 && r.TeamsProcessed == 0:
		return SyncStatusFailure
	case r.TeamsFailed > 0 || r.DetailsFailed > 0:
		return SyncStatusPartial
	default:
		return SyncStatusSuccess
	}
}

func (s *SyncService) SyncTeams(ctx context.Context) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.SyncTeams")
	defer span.End()

	standings, err := s.provider.FetchStandings(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetch standings: %w", err)
	}

	teams := mapExternalTeamsToDomain(standings)
	for _, row := range teams {
		if err := row.Validate(); err != nil {
			return 0, fmt.Errorf("validate team id=%d: %w", row.ID, err)
		}
	}
	if len(teams) == 0 {
		return 0, nil
	}
	if err := s.teamRepo.UpsertAll(ctx, teams); err != nil {
		return 0, fmt.Errorf("upsert teams: %w", err)
	}

	return len(teams), nil
}

type SquadSyncResult struct {
	TeamCount       int `json:"team_count"`
	TeamsProcessed  int `json:"teams_processed"`
	TeamsFailed     int `json:"teams_failed"`
	PlayersImported int `json:"players_imported"`
	WorkerCount     int `json:"worker_count"`
}

// SyncSquads fetches every team's squad through a bounded worker pool and
// lands all imported players in one commit. A team that fails to fetch is
// counted as failed; the remaining teams still commit.
func (s *SyncService) SyncSquads(ctx context.Context, maxWorkers int) (SquadSyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.SyncSquads")
	defer span.End()

	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return SquadSyncResult{}, fmt.Errorf("list teams for squad sync: %w", err)
	}

	workerCount := normalizeSyncWorkerCount(maxWorkers, len(teams))
	result := SquadSyncResult{
		TeamCount:   len(teams),
		WorkerCount: workerCount,
	}
	if len(teams) == 0 {
		return result, nil
	}

	existing, err := s.playerRepo.List(ctx)
	if err != nil {
		return SquadSyncResult{}, fmt.Errorf("list existing players for merge: %w", err)
	}
	existingByID := make(map[int64]player.Player, len(existing))
	for _, p := range existing {
		existingByID[p.ID] = p
	}

	now := s.now().UTC()

	workerPool, err := ants.NewPool(workerCount)
	if err != nil {
		return SquadSyncResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer workerPool.Release()

	var processed atomic.Int32
	var failed atomic.Int32
	var mu sync.Mutex
	imported := make([]player.Player, 0, len(teams)*25)

	var workers sync.WaitGroup
	for i, t := range teams {
		t := t
		// The fetch gap is enforced between submissions so it holds at any
		// pool width.
		if i > 0 {
			s.sleep(syncTeamFetchDelay)
		}
		workers.Add(1)
		if err := workerPool.Submit(func() {
			defer workers.Done()

			squad, err := s.provider.FetchSquad(ctx, t.ID)
			if err != nil {
				failed.Add(1)
				s.publishProgress(SyncProgress{
					TeamID:    t.ID,
					TeamName:  t.Name,
					Failed:    true,
					Completed: int(processed.Load() + failed.Load()),
					Total:     len(teams),
				})
				return
			}

			mapped := mapExternalPlayersToDomain(t.ID, t.Name, squad, now)
			merged := make([]player.Player, 0, len(mapped))
			mu.Lock()
			for _, p := range mapped {
				merged = append(merged, mergeImportedPlayer(existingByID, p))
			}
			imported = append(imported, merged...)
			mu.Unlock()

			processed.Add(1)
			s.publishProgress(SyncProgress{
				TeamID:    t.ID,
				TeamName:  t.Name,
				Completed: int(processed.Load() + failed.Load()),
				Total:     len(teams),
			})
		}); err != nil {
			workers.Done()
			return SquadSyncResult{}, fmt.Errorf("submit squad sync task team=%d: %w", t.ID, err)
		}
	}

	workers.Wait()

	result.TeamsProcessed = int(processed.Load())
	result.TeamsFailed = int(failed.Load())
	result.PlayersImported = len(imported)

	if len(imported) > 0 {
		if err := s.playerRepo.UpsertAll(ctx, imported); err != nil {
			return SquadSyncResult{}, fmt.Errorf("upsert players: %w", err)
		}
	}

	return result, nil
}

// mergeImportedPlayer keeps the mutable scoring and pricing state of an
// already known player while refreshing the descriptive fields from the feed.
func mergeImportedPlayer(existingByID map[int64]player.Player, incoming player.Player) player.Player {
	prev, known := existingByID[incoming.ID]
	if !known {
		return incoming
	}

	incoming.BasePrice = prev.BasePrice
	incoming.CurrentPrice = prev.CurrentPrice
	incoming.TotalPoints = prev.TotalPoints
	incoming.MatchesPlayed = prev.MatchesPlayed
	incoming.Goals = prev.Goals
	incoming.Assists = prev.Assists
	incoming.YellowCards = prev.YellowCards
	incoming.RedCards = prev.RedCards
	incoming.CleanSheets = prev.CleanSheets
	incoming.FormRating = prev.FormRating
	incoming.Injured = prev.Injured
	return incoming
}

type MatchSyncResult struct {
	MatchesImported int `json:"matches_imported"`
	DetailsFetched  int `json:"details_fetched"`
	DetailsFailed   int `json:"details_failed"`
}

// SyncMatches imports the full match list, then fans out detail fetches for
// finished matches that have no events stored yet.
func (s *SyncService) SyncMatches(ctx context.Context) (MatchSyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.SyncMatches")
	defer span.End()

	external, err := s.provider.FetchMatches(ctx)
	if err != nil {
		return MatchSyncResult{}, fmt.Errorf("fetch matches: %w", err)
	}

	matches := mapExternalMatchesToDomain(external)
	if len(matches) > 0 {
		if err := s.matchRepo.UpsertAll(ctx, matches); err != nil {
			return MatchSyncResult{}, fmt.Errorf("upsert matches: %w", err)
		}
	}
	result := MatchSyncResult{MatchesImported: len(matches)}

	pending := make([]match.Match, 0)
	for _, m := range matches {
		if !m.HasFinalScore() {
			continue
		}
		events, err := s.matchRepo.ListEvents(ctx, m.ID)
		if err != nil {
			return MatchSyncResult{}, fmt.Errorf("list events match=%d: %w", m.ID, err)
		}
		if len(events) > 0 {
			continue
		}
		pending = append(pending, m)
	}
	if len(pending) == 0 {
		return result, nil
	}

	var fetched atomic.Int32
	var failed atomic.Int32

	detailPool := pool.New().WithMaxGoroutines(syncDetailMaxWorkers)
	for _, m := range pending {
		m := m
		detailPool.Go(func() {
			detail, err := s.provider.FetchMatchDetail(ctx, m.ID)
			if err != nil {
				failed.Add(1)
				return
			}

			events := mapExternalEventsToDomain(m.ID, detail.Events)
			if err := s.matchRepo.ReplaceEvents(ctx, m.ID, events); err != nil {
				failed.Add(1)
				return
			}
			lineup := mapExternalLineupToDomain(m.ID, detail.Lineup)
			if err := s.matchRepo.ReplaceLineup(ctx, m.ID, lineup); err != nil {
				failed.Add(1)
				return
			}

			fetched.Add(1)
		})
	}
	detailPool.Wait()

	result.DetailsFetched = int(fetched.Load())
	result.DetailsFailed = int(failed.Load())
	return result, nil
}

func (s *SyncService) refreshMarkets(ctx context.Context) (int, error) {
	if s.market == nil || s.leagueRepo == nil {
		return 0, nil
	}

	leagues, err := s.leagueRepo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list leagues for market refresh: %w", err)
	}

	refreshed := 0
	for _, l := range leagues {
		if err := s.market.EnsureMarket(ctx, l.ID); err != nil {
			return refreshed, fmt.Errorf("ensure market league=%d: %w", l.ID, err)
		}
		refreshed++
	}
	return refreshed, nil
}

func (s *SyncService) publishProgress(p SyncProgress) {
	if s.events != nil {
		s.events.Publish(TopicSyncProgress, p)
	}
}

func normalizeSyncWorkerCount(value int, taskCount int) int {
	if taskCount <= 0 {
		return 1
	}
	if value <= 0 {
		value = syncDefaultWorkers
	}
	if value > syncMaxWorkers {
		value = syncMaxWorkers
	}
	if value > taskCount {
		value = taskCount
	}
	return value
}
