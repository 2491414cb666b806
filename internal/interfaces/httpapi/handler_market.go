package httpapi

import (
	"net/http"

	"github.com/SanchuCortes/HouseManager-sub000/internal/usecase"
)

func (h *Handler) GetMarket(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMarket")
	defer span.End()

	leagueID, err := parseIDPathValue(r, "leagueID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	view, err := h.marketService.Market(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "get market", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, view)
}

func (h *Handler) BuyPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.BuyPlayer")
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

	var req marketOrderRequest
	if err := h.decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	receipt, err := h.marketService.Buy(ctx, leagueID, userID, req.PlayerID)
	if err != nil {
		h.logger.WarnContext(ctx, "buy player",
			"league_id", leagueID, "user_id", userID, "player_id", req.PlayerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "player purchased",
		"league_id", leagueID, "user_id", userID, "player_id", req.PlayerID)
	writeSuccess(ctx, w, http.StatusOK, receipt)
}

func (h *Handler) SellPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SellPlayer")
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

	var req marketOrderRequest
	if err := h.decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	receipt, err := h.marketService.Sell(ctx, leagueID, userID, req.PlayerID)
	if err != nil {
		h.logger.WarnContext(ctx, "sell player",
			"league_id", leagueID, "user_id", userID, "player_id", req.PlayerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "player sold",
		"league_id", leagueID, "user_id", userID, "player_id", req.PlayerID)
	writeSuccess(ctx, w, http.StatusOK, receipt)
}

func (h *Handler) GetClauseStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetClauseStatus")
	defer span.End()

	leagueID, err := parseIDPathValue(r, "leagueID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	playerID, err := parseIDPathValue(r, "playerID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	status, err := h.marketService.Clause(ctx, leagueID, playerID)
	if err != nil {
		h.logger.WarnContext(ctx, "get clause status",
			"league_id", leagueID, "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, status)
}

func (h *Handler) BuyClause(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.BuyClause")
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
	playerID, err := parseIDPathValue(r, "playerID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	receipt, err := h.marketService.ClauseBuy(ctx, leagueID, userID, playerID)
	if err != nil {
		h.logger.WarnContext(ctx, "buy clause",
			"league_id", leagueID, "user_id", userID, "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "clause executed",
		"league_id", leagueID, "user_id", userID, "player_id", playerID)
	writeSuccess(ctx, w, http.StatusOK, receipt)
}
