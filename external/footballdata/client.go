package footballdata

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/SanchuCortes/HouseManager-sub000/internal/platform/logging"
	"github.com/SanchuCortes/HouseManager-sub000/internal/platform/resilience"
	"github.com/SanchuCortes/HouseManager-sub000/internal/usecase"
)

const (
	defaultBaseURL     = "https://api.football-data.org/v4"
	defaultCompetition = "PD"
	maxResponseBytes   = 6 << 20
)

var errFootballDataTransient = crerr.New("football-data transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Token          string
	Competition    string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client talks to the football-data.org v4 API and adapts its payloads to
// the provider boundary the sync orchestrator consumes.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	token          string
	competition    string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	competition := strings.TrimSpace(cfg.Competition)
	if competition == "" {
		competition = defaultCompetition
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		token:          strings.TrimSpace(cfg.Token),
		competition:    competition,
		maxRetries:     cfg.MaxRetries,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

func (c *Client) FetchStandings(ctx context.Context) ([]usecase.ExternalTeam, error) {
	var envelope standingsEnvelope
	path := fmt.Sprintf("/competitions/%s/standings", c.competition)
	if err := c.doJSON(ctx, path, &envelope); err != nil {
		return nil, fmt.Errorf("fetch standings competition=%s: %w", c.competition, err)
	}

	out := make([]usecase.ExternalTeam, 0, 24)
	for _, standing := range envelope.Standings {
		// The feed repeats the table as TOTAL, HOME and AWAY views.
		if standing.Type != "" && standing.Type != "TOTAL" {
			continue
		}
		for _, row := range standing.Table {
			if row.Team.ID <= 0 {
				continue
			}
			out = append(out, usecase.ExternalTeam{
				ID:           row.Team.ID,
				Name:         row.Team.Name,
				ShortName:    row.Team.ShortName,
				TLA:          row.Team.TLA,
				CrestURL:     row.Team.Crest,
				Position:     row.Position,
				Played:       row.PlayedGames,
				Won:          row.Won,
				Draw:         row.Draw,
				Lost:         row.Lost,
				GoalsFor:     row.GoalsFor,
				GoalsAgainst: row.GoalsAgainst,
			})
		}
	}

	return out, nil
}

func (c *Client) FetchSquad(ctx context.Context, teamID int64) ([]usecase.ExternalPlayer, error) {
	if teamID <= 0 {
		return nil, fmt.Errorf("team id must be greater than zero")
	}

	var envelope squadEnvelope
	if err := c.doJSON(ctx, fmt.Sprintf("/teams/%d", teamID), &envelope); err != nil {
		return nil, fmt.Errorf("fetch squad team_id=%d: %w", teamID, err)
	}

	out := make([]usecase.ExternalPlayer, 0, len(envelope.Squad))
	for _, member := range envelope.Squad {
		if member.ID <= 0 {
			continue
		}
		out = append(out, usecase.ExternalPlayer{
			ID:          member.ID,
			Name:        member.Name,
			Position:    member.Position,
			Nationality: member.Nationality,
			ShirtNumber: member.ShirtNumber,
		})
	}

	return out, nil
}

func (c *Client) FetchMatches(ctx context.Context) ([]usecase.ExternalMatch, error) {
	var envelope matchesEnvelope
	path := fmt.Sprintf("/competitions/%s/matches", c.competition)
	if err := c.doJSON(ctx, path, &envelope); err != nil {
		return nil, fmt.Errorf("fetch matches competition=%s: %w", c.competition, err)
	}

	out := make([]usecase.ExternalMatch, 0, len(envelope.Matches))
	for _, item := range envelope.Matches {
		if item.ID <= 0 {
			continue
		}
		out = append(out, mapMatchPayload(item))
	}

	return out, nil
}

func (c *Client) FetchMatchDetail(ctx context.Context, matchID int64) (usecase.ExternalMatchDetail, error) {
	if matchID <= 0 {
		return usecase.ExternalMatchDetail{}, fmt.Errorf("match id must be greater than zero")
	}

	var envelope matchDetailEnvelope
	if err := c.doJSON(ctx, fmt.Sprintf("/matches/%d", matchID), &envelope); err != nil {
		return usecase.ExternalMatchDetail{}, fmt.Errorf("fetch match detail match_id=%d: %w", matchID, err)
	}

	detail := usecase.ExternalMatchDetail{
		Match: usecase.ExternalMatch{
			ID:           envelope.ID,
			Matchday:     envelope.Matchday,
			Status:       envelope.Status,
			KickoffAt:    parseFeedTime(envelope.UTCDate),
			HomeTeamID:   envelope.HomeTeam.ID,
			HomeTeamName: envelope.HomeTeam.Name,
			AwayTeamID:   envelope.AwayTeam.ID,
			AwayTeamName: envelope.AwayTeam.Name,
			HomeScore:    envelope.Score.FullTime.Home,
			AwayScore:    envelope.Score.FullTime.Away,
		},
		Events: mapDetailEvents(envelope),
		Lineup: mapDetailLineup(envelope),
	}

	return detail, nil
}

func mapMatchPayload(item matchPayload) usecase.ExternalMatch {
	return usecase.ExternalMatch{
		ID:           item.ID,
		Matchday:     item.Matchday,
		Status:       item.Status,
		KickoffAt:    parseFeedTime(item.UTCDate),
		HomeTeamID:   item.HomeTeam.ID,
		HomeTeamName: item.HomeTeam.Name,
		AwayTeamID:   item.AwayTeam.ID,
		AwayTeamName: item.AwayTeam.Name,
		HomeScore:    item.Score.FullTime.Home,
		AwayScore:    item.Score.FullTime.Away,
	}
}

func mapDetailEvents(envelope matchDetailEnvelope) []usecase.ExternalMatchEvent {
	events := make([]usecase.ExternalMatchEvent, 0, len(envelope.Goals)*2+len(envelope.Bookings))

	for _, goal := range envelope.Goals {
		minute := goal.Minute
		kind := "GOAL"
		if strings.EqualFold(goal.Type, "OWN") {
			kind = "OWN_GOAL"
		}
		if goal.Scorer.ID > 0 {
			events = append(events, usecase.ExternalMatchEvent{
				PlayerID: goal.Scorer.ID,
				TeamID:   goal.Team.ID,
				Kind:     kind,
				Minute:   &minute,
			})
		}
		if goal.Assist != nil && goal.Assist.ID > 0 {
			assistMinute := goal.Minute
			events = append(events, usecase.ExternalMatchEvent{
				PlayerID: goal.Assist.ID,
				TeamID:   goal.Team.ID,
				Kind:     "ASSIST",
				Minute:   &assistMinute,
			})
		}
	}

	for _, booking := range envelope.Bookings {
		if booking.Player.ID <= 0 {
			continue
		}
		minute := booking.Minute
		kind := "YELLOW_CARD"
		switch strings.ToUpper(strings.TrimSpace(booking.Card)) {
		case "YELLOW_RED", "SECOND_YELLOW":
			kind = "SECOND_YELLOW_CARD"
		case "RED", "RED_CARD", "DIRECT_RED":
			kind = "RED_CARD"
		}
		events = append(events, usecase.ExternalMatchEvent{
			PlayerID: booking.Player.ID,
			TeamID:   booking.Team.ID,
			Kind:     kind,
			Minute:   &minute,
		})
	}

	return events
}

func mapDetailLineup(envelope matchDetailEnvelope) []usecase.ExternalLineupEntry {
	entries := make([]usecase.ExternalLineupEntry, 0,
		len(envelope.HomeTeam.Lineup)+len(envelope.HomeTeam.Bench)+
			len(envelope.AwayTeam.Lineup)+len(envelope.AwayTeam.Bench))

	appendSide := func(side matchDetailSide) {
		for _, p := range side.Lineup {
			if p.ID <= 0 {
				continue
			}
			entries = append(entries, usecase.ExternalLineupEntry{
				PlayerID: p.ID,
				TeamID:   side.ID,
				Starter:  true,
			})
		}
		for _, p := range side.Bench {
			if p.ID <= 0 {
				continue
			}
			entries = append(entries, usecase.ExternalLineupEntry{
				PlayerID: p.ID,
				TeamID:   side.ID,
				Starter:  false,
			})
		}
	}
	appendSide(envelope.HomeTeam)
	appendSide(envelope.AwayTeam)

	return entries
}

func (c *Client) doJSON(ctx context.Context, path string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "football-data circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: competition feed is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	fullURL := c.baseURL + path
	out, err, _ := c.flight.Do(path, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && crerr.Is(reqErr, errFootballDataTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode feed payload: %w", err)
	}

	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if c.token != "" {
			req.Header.Set("X-Auth-Token", c.token)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errFootballDataTransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errFootballDataTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: feed status=%d", errFootballDataTransient, resp.StatusCode)
			default:
				return nil, fmt.Errorf("feed status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("feed request failed")
	}
	c.logger.WarnContext(ctx, "football-data request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func isRetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

func abbreviateBody(raw []byte) string {
	const limit = 200
	body := strings.TrimSpace(string(raw))
	if len(body) > limit {
		return body[:limit] + "..."
	}
	return body
}
