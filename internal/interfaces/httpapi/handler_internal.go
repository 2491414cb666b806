package httpapi

import (
	"errors"
	"io"
	"net/http"

	"github.com/SanchuCortes/HouseManager-sub000/internal/usecase"
)

// RunSync triggers a full competition sync. The body is optional and may
// carry a worker-count override for the per-team squad fan-out.
func (h *Handler) RunSync(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSync")
	defer span.End()

	var input usecase.SyncInput
	if err := h.decodeJSONBody(r, &input); err != nil && !isEmptyBodyError(err) {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, input); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.syncService.SyncAll(ctx, input)
	if err != nil {
		h.logger.ErrorContext(ctx, "run sync", "error", err)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "sync completed",
		"status", result.Status,
		"teams", result.TeamCount,
		"players_imported", result.PlayersImported,
		"matches_imported", result.MatchesImported,
		"matches_scored", result.MatchesScored)
	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) ScoreMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ScoreMatch")
	defer span.End()

	matchID, err := parseIDPathValue(r, "matchID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.scoringService.ScoreMatch(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "score match", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "match scored", "match_id", matchID)
	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) ScoreMatchday(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ScoreMatchday")
	defer span.End()

	matchdayID, err := parseIDPathValue(r, "matchday")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.scoringService.ScoreMatchday(ctx, int(matchdayID))
	if err != nil {
		h.logger.WarnContext(ctx, "score matchday", "matchday", matchdayID, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "matchday scored", "matchday", matchdayID)
	writeSuccess(ctx, w, http.StatusOK, result)
}

func isEmptyBodyError(err error) bool {
	return errors.Is(err, io.EOF)
}
