package httpapi

import (
	"net/http"

	"github.com/SanchuCortes/HouseManager-sub000/internal/usecase"
)

func (h *Handler) GetMySquad(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMySquad")
	defer span.End()

	userID, ok := userIDFromContext(ctx)
	if !ok {
		writeError(ctx, w, usecase.ErrUnauthorized)
		return
	}

	leagueID, err := parseIDPathValue(r, "leagueID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	view, err := h.squadService.MySquad(ctx, leagueID, userID)
	if err != nil {
		h.logger.WarnContext(ctx, "get squad", "league_id", leagueID, "user_id", userID, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, view)
}

func (h *Handler) SetCaptain(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetCaptain")
	defer span.End()

	userID, ok := userIDFromContext(ctx)
	if !ok {
		writeError(ctx, w, usecase.ErrUnauthorized)
		return
	}

	leagueID, err := parseIDPathValue(r, "leagueID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req setCaptainRequest
	if err := h.decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.squadService.SetCaptain(ctx, leagueID, userID, req.PlayerID); err != nil {
		h.logger.WarnContext(ctx, "set captain",
			"league_id", leagueID, "user_id", userID, "player_id", req.PlayerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "captain set",
		"league_id", leagueID, "user_id", userID, "player_id", req.PlayerID)
	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"league_id": leagueID,
		"player_id": req.PlayerID,
		"captain":   true,
	})
}
