package httpapi

import (
	"fmt"
	"net/http"

	"github.com/SanchuCortes/HouseManager-sub000/internal/usecase"
)

func (h *Handler) ListLeagues(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLeagues")
	defer span.End()

	leagues, err := h.leagueService.Leagues(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list leagues", "error", err)
		writeError(ctx, w, err)
		return
	}

	payload := make([]leagueDTO, 0, len(leagues))
	for _, l := range leagues {
		payload = append(payload, leagueToDTO(l))
	}
	writeSuccess(ctx, w, http.StatusOK, payload)
}

func (h *Handler) GetLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeague")
	defer span.End()

	leagueID, err := parseIDPathValue(r, "leagueID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	found, err := h.leagueService.GetLeague(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "get league", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, leagueToDTO(found))
}

func (h *Handler) ListLeagueMembers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLeagueMembers")
	defer span.End()

	leagueID, err := parseIDPathValue(r, "leagueID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	members, err := h.leagueService.Members(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "list league members", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	payload := make([]memberDTO, 0, len(members))
	for _, m := range members {
		payload = append(payload, memberToDTO(m))
	}
	writeSuccess(ctx, w, http.StatusOK, payload)
}

func (h *Handler) CreateLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateLeague")
	defer span.End()

	userID, ok := userIDFromContext(ctx)
	if !ok {
		writeError(ctx, w, usecase.ErrUnauthorized)
		return
	}

	var input usecase.CreateLeagueInput
	if err := h.decodeJSONBody(r, &input); err != nil {
		writeError(ctx, w, err)
		return
	}
	// The creator comes from the authenticated identity, never from the body.
	input.Creator = userID

	if err := h.validateRequest(ctx, input); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.leagueService.CreateLeague(ctx, input)
	if err != nil {
		h.logger.ErrorContext(ctx, "create league", "creator", userID, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "league created", "league_id", created.ID, "creator", userID)
	writeSuccess(ctx, w, http.StatusCreated, leagueToDTO(created))
}

func (h *Handler) DeleteLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteLeague")
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

	if err := h.leagueService.DeleteLeague(ctx, leagueID, userID); err != nil {
		h.logger.WarnContext(ctx, "delete league", "league_id", leagueID, "user_id", userID, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "league deleted", "league_id", leagueID, "user_id", userID)
	writeSuccess(ctx, w, http.StatusOK, map[string]any{"league_id": leagueID, "deleted": true})
}

func (h *Handler) JoinLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.JoinLeague")
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

	member, err := h.leagueService.JoinLeague(ctx, leagueID, userID)
	if err != nil {
		h.logger.WarnContext(ctx, "join league", "league_id", leagueID, "user_id", userID, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "member joined", "league_id", leagueID, "user_id", userID)
	writeSuccess(ctx, w, http.StatusCreated, memberToDTO(member))
}

func (h *Handler) JoinLeagueByInvite(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.JoinLeagueByInvite")
	defer span.End()

	userID, ok := userIDFromContext(ctx)
	if !ok {
		writeError(ctx, w, usecase.ErrUnauthorized)
		return
	}

	var req joinByInviteRequest
	if err := h.decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	member, err := h.leagueService.JoinByInviteCode(ctx, req.InviteCode, userID)
	if err != nil {
		h.logger.WarnContext(ctx, "join league by invite", "user_id", userID, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "member joined by invite", "league_id", member.LeagueID, "user_id", userID)
	writeSuccess(ctx, w, http.StatusCreated, memberToDTO(member))
}

func (h *Handler) GetClassification(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetClassification")
	defer span.End()

	leagueID, err := parseIDPathValue(r, "leagueID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	matchday, err := parseOptionalIntQuery(r, "matchday")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var rows []usecase.ClassificationRow
	if matchday > 0 {
		rows, err = h.classificationService.MatchdayClassification(ctx, leagueID, matchday)
	} else {
		rows, err = h.classificationService.SeasonClassification(ctx, leagueID)
	}
	if err != nil {
		h.logger.WarnContext(ctx, "get classification",
			"league_id", leagueID, "matchday", matchday, "error", err)
		writeError(ctx, w, fmt.Errorf("classification league=%d: %w", leagueID, err))
		return
	}
	writeSuccess(ctx, w, http.StatusOK, rows)
}
