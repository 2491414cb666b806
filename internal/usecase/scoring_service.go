package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SanchuCortes/HouseManager-sub000/internal/domain/match"
	"github.com/SanchuCortes/HouseManager-sub000/internal/domain/player"
	"github.com/SanchuCortes/HouseManager-sub000/internal/domain/points"
	"github.com/SanchuCortes/HouseManager-sub000/internal/domain/scoring"
)

// ScoringService turns finished matches into per-player points, then feeds
// the season totals into price revaluation. Scoring the same match twice is
// safe: totals move by the delta between the new and the stored row.
type ScoringService struct {
	matchRepo  match.Repository
	playerRepo player.Repository
	pointsRepo points.Repository
	now        func() time.Time
}

func NewScoringService(
	matchRepo match.Repository,
	playerRepo player.Repository,
	pointsRepo points.Repository,
) *ScoringService {
	return &ScoringService{
		matchRepo:  matchRepo,
		playerRepo: playerRepo,
		pointsRepo: pointsRepo,
		now:        time.Now,
	}
}

type MatchScoreResult struct {
	MatchID       int64 `json:"match_id"`
	Matchday      int   `json:"matchday"`
	PlayersScored int   `json:"players_scored"`
	Replayed      bool  `json:"replayed"`
}

type MatchdayScoreResult struct {
	Matchday      int                `json:"matchday"`
	MatchesScored int                `json:"matches_scored"`
	Skipped       int                `json:"skipped"`
	Matches       []MatchScoreResult `json:"matches"`
}

func (s *ScoringService) ScoreMatch(ctx context.Context, matchID int64) (MatchScoreResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.ScoreMatch")
	defer span.End()

	if matchID <= 0 {
		return MatchScoreResult{}, fmt.Errorf("%w: match id must be greater than zero", ErrInvalidInput)
	}

	m, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return MatchScoreResult{}, fmt.Errorf("get match for scoring: %w", err)
	}
	if !exists {
		return MatchScoreResult{}, fmt.Errorf("%w: match id=%d", ErrNotFound, matchID)
	}
	if !m.HasFinalScore() {
		return MatchScoreResult{}, fmt.Errorf("%w: match id=%d has no final score", ErrInvalidInput, matchID)
	}

	return s.scoreFinishedMatch(ctx, m)
}

// ScoreMatchday scores every finished match of one matchday. Matches without
// a final score are skipped rather than failed so a live matchday can be
// scored incrementally.
func (s *ScoringService) ScoreMatchday(ctx context.Context, matchday int) (MatchdayScoreResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.ScoreMatchday")
	defer span.End()

	if matchday <= 0 {
		return MatchdayScoreResult{}, fmt.Errorf("%w: matchday must be greater than zero", ErrInvalidInput)
	}

	matches, err := s.matchRepo.ListByMatchday(ctx, matchday)
	if err != nil {
		return MatchdayScoreResult{}, fmt.Errorf("list matches by matchday: %w", err)
	}

	result := MatchdayScoreResult{Matchday: matchday}
	for _, m := range matches {
		if !m.HasFinalScore() {
			result.Skipped++
			continue
		}
		row, err := s.scoreFinishedMatch(ctx, m)
		if err != nil {
			return MatchdayScoreResult{}, err
		}
		result.Matches = append(result.Matches, row)
		result.MatchesScored++
	}

	return result, nil
}

// ScorePending scores every finished match that has no points rows yet.
// The sync orchestrator calls this after a match import.
func (s *ScoringService) ScorePending(ctx context.Context) ([]MatchScoreResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.ScorePending")
	defer span.End()

	finished, err := s.matchRepo.ListFinished(ctx)
	if err != nil {
		return nil, fmt.Errorf("list finished matches: %w", err)
	}

	scoredIDs, err := s.pointsRepo.ListScoredMatchIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list scored match ids: %w", err)
	}
	scored := make(map[int64]struct{}, len(scoredIDs))
	for _, id := range scoredIDs {
		scored[id] = struct{}{}
	}

	out := make([]MatchScoreResult, 0)
	for _, m := range finished {
		if _, done := scored[m.ID]; done {
			continue
		}
		if !m.HasFinalScore() {
			continue
		}
		row, err := s.scoreFinishedMatch(ctx, m)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}

	return out, nil
}

func (s *ScoringService) scoreFinishedMatch(ctx context.Context, m match.Match) (MatchScoreResult, error) {
	now := s.now().UTC()

	events, err := s.matchRepo.ListEvents(ctx, m.ID)
	if err != nil {
		return MatchScoreResult{}, fmt.Errorf("list events match=%d: %w", m.ID, err)
	}
	lineup, err := s.matchRepo.ListLineup(ctx, m.ID)
	if err != nil {
		return MatchScoreResult{}, fmt.Errorf("list lineup match=%d: %w", m.ID, err)
	}

	eventsByPlayer := make(map[int64][]match.Event)
	for _, ev := range events {
		eventsByPlayer[ev.PlayerID] = append(eventsByPlayer[ev.PlayerID], ev)
	}
	lineupByPlayer := make(map[int64]match.LineupEntry, len(lineup))
	for _, entry := range lineup {
		lineupByPlayer[entry.PlayerID] = entry
	}

	playerIDs := make([]int64, 0, len(lineupByPlayer)+len(eventsByPlayer))
	seen := make(map[int64]struct{}, len(lineupByPlayer)+len(eventsByPlayer))
	for id := range lineupByPlayer {
		seen[id] = struct{}{}
		playerIDs = append(playerIDs, id)
	}
	for id := range eventsByPlayer {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		playerIDs = append(playerIDs, id)
	}
	sort.Slice(playerIDs, func(i, j int) bool { return playerIDs[i] < playerIDs[j] })

	players, err := s.playerRepo.GetByIDs(ctx, playerIDs)
	if err != nil {
		return MatchScoreResult{}, fmt.Errorf("get players for scoring match=%d: %w", m.ID, err)
	}
	playersByID := make(map[int64]player.Player, len(players))
	for _, p := range players {
		playersByID[p.ID] = p
	}

	result := MatchScoreResult{MatchID: m.ID, Matchday: m.Matchday}
	for _, playerID := range playerIDs {
		p, known := playersByID[playerID]
		if !known {
			// The feed can report an event for a player the squad sync has
			// not imported yet. Skip; the next sync plus replay picks it up.
			continue
		}

		entry := lineupByPlayer[playerID]
		pts := scoring.ComputeMatchPoints(scoring.PlayerMatchInput{
			Position:    p.Position,
			LineupRole:  entry.Role,
			MatchTeamID: entry.TeamID,
			Events:      eventsByPlayer[playerID],
			Match:       m,
		})

		prev, existed, err := s.pointsRepo.Get(ctx, m.ID, playerID)
		if err != nil {
			return MatchScoreResult{}, fmt.Errorf("get previous points match=%d player=%d: %w", m.ID, playerID, err)
		}
		previousPoints := 0
		if existed {
			previousPoints = prev.Points
			result.Replayed = true
		}

		p.TotalPoints += pts - previousPoints
		if !existed {
			p.MatchesPlayed++
			applyEventCounters(&p, eventsByPlayer[playerID])
			if keepsCleanSheet(p.Position, entry, m) {
				p.CleanSheets++
			}
		}
		p.Revalue(pts, !existed)
		p.UpdatedAt = now

		if err := s.playerRepo.UpdateScoringFields(ctx, p); err != nil {
			return MatchScoreResult{}, fmt.Errorf("update player scoring fields player=%d: %w", playerID, err)
		}
		if err := s.pointsRepo.Upsert(ctx, points.PlayerMatchPoints{
			MatchID:      m.ID,
			PlayerID:     playerID,
			Matchday:     m.Matchday,
			Points:       pts,
			CalculatedAt: now,
		}); err != nil {
			return MatchScoreResult{}, fmt.Errorf("upsert points match=%d player=%d: %w", m.ID, playerID, err)
		}
		result.PlayersScored++
	}

	return result, nil
}

// applyEventCounters folds one match's raw events into the season stat
// counters. Only called on the first scoring of a match; replays adjust
// points but leave counters alone.
func applyEventCounters(p *player.Player, events []match.Event) {
	for _, ev := range events {
		switch ev.Kind {
		case match.EventGoal:
			p.Goals++
		case match.EventAssist:
			p.Assists++
		case match.EventYellowCard:
			p.YellowCards++
		case match.EventSecondYellow:
			p.YellowCards++
			p.RedCards++
		case match.EventRedCard:
			p.RedCards++
		}
	}
}

func keepsCleanSheet(pos player.Position, entry match.LineupEntry, m match.Match) bool {
	if pos != player.PositionGoalkeeper && pos != player.PositionDefender {
		return false
	}
	if entry.Role == "" || entry.TeamID <= 0 {
		return false
	}
	conceded, ok := m.GoalsAgainst(entry.TeamID)
	return ok && conceded == 0
}
