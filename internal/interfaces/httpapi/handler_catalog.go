package httpapi

import "net/http"

type teamDetailResponse struct {
	Team    teamDTO     `json:"team"`
	Players []playerDTO `json:"players"`
}

type playerDetailResponse struct {
	Player  playerDTO          `json:"player"`
	History []playerHistoryDTO `json:"history"`
}

type matchDetailResponse struct {
	Match  matchDTO         `json:"match"`
	Events []matchEventDTO  `json:"events"`
	Lineup []lineupEntryDTO `json:"lineup"`
}

func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeams")
	defer span.End()

	teams, err := h.catalogService.Teams(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list teams", "error", err)
		writeError(ctx, w, err)
		return
	}

	payload := make([]teamDTO, 0, len(teams))
	for _, t := range teams {
		payload = append(payload, teamToDTO(t))
	}
	writeSuccess(ctx, w, http.StatusOK, payload)
}

func (h *Handler) GetTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeam")
	defer span.End()

	teamID, err := parseIDPathValue(r, "teamID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	detail, err := h.catalogService.Team(ctx, teamID)
	if err != nil {
		h.logger.WarnContext(ctx, "get team", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	payload := teamDetailResponse{
		Team:    teamToDTO(detail.Team),
		Players: make([]playerDTO, 0, len(detail.Players)),
	}
	for _, p := range detail.Players {
		payload.Players = append(payload.Players, playerToDTO(p))
	}
	writeSuccess(ctx, w, http.StatusOK, payload)
}

func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPlayers")
	defer span.End()

	players, err := h.catalogService.Players(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list players", "error", err)
		writeError(ctx, w, err)
		return
	}

	payload := make([]playerDTO, 0, len(players))
	for _, p := range players {
		payload = append(payload, playerToDTO(p))
	}
	writeSuccess(ctx, w, http.StatusOK, payload)
}

func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayer")
	defer span.End()

	playerID, err := parseIDPathValue(r, "playerID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	detail, err := h.catalogService.Player(ctx, playerID)
	if err != nil {
		h.logger.WarnContext(ctx, "get player", "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	payload := playerDetailResponse{
		Player:  playerToDTO(detail.Player),
		History: make([]playerHistoryDTO, 0, len(detail.History)),
	}
	for _, row := range detail.History {
		payload.History = append(payload.History, playerHistoryDTO{
			MatchID:  row.MatchID,
			Matchday: row.Matchday,
			Points:   row.Points,
		})
	}
	writeSuccess(ctx, w, http.StatusOK, payload)
}

func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatches")
	defer span.End()

	matchday, err := parseOptionalIntQuery(r, "matchday")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	matches, err := h.catalogService.Matches(ctx, matchday)
	if err != nil {
		h.logger.ErrorContext(ctx, "list matches", "matchday", matchday, "error", err)
		writeError(ctx, w, err)
		return
	}

	payload := make([]matchDTO, 0, len(matches))
	for _, m := range matches {
		payload = append(payload, matchToDTO(m))
	}
	writeSuccess(ctx, w, http.StatusOK, payload)
}

func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatch")
	defer span.End()

	matchID, err := parseIDPathValue(r, "matchID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	detail, err := h.catalogService.Match(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "get match", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	payload := matchDetailResponse{
		Match:  matchToDTO(detail.Match),
		Events: make([]matchEventDTO, 0, len(detail.Events)),
		Lineup: make([]lineupEntryDTO, 0, len(detail.Lineup)),
	}
	for _, e := range detail.Events {
		payload.Events = append(payload.Events, matchEventToDTO(e))
	}
	for _, entry := range detail.Lineup {
		payload.Lineup = append(payload.Lineup, lineupEntryToDTO(entry))
	}
	writeSuccess(ctx, w, http.StatusOK, payload)
}
