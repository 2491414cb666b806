package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerCatalogRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/teams", handler.ListTeams)
	mux.HandleFunc("GET /v1/teams/{teamID}", handler.GetTeam)
	mux.HandleFunc("GET /v1/players", handler.ListPlayers)
	mux.HandleFunc("GET /v1/players/{playerID}", handler.GetPlayer)
	mux.HandleFunc("GET /v1/matches", handler.ListMatches)
	mux.HandleFunc("GET /v1/matches/{matchID}", handler.GetMatch)
}

func registerLeagueRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/leagues", handler.ListLeagues)
	mux.HandleFunc("GET /v1/leagues/{leagueID}", handler.GetLeague)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/members", handler.ListLeagueMembers)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/classification", handler.GetClassification)

	mux.Handle("POST /v1/leagues", RequireUser(http.HandlerFunc(handler.CreateLeague)))
	mux.Handle("DELETE /v1/leagues/{leagueID}", RequireUser(http.HandlerFunc(handler.DeleteLeague)))
	mux.Handle("POST /v1/leagues/{leagueID}/join", RequireUser(http.HandlerFunc(handler.JoinLeague)))
	mux.Handle("POST /v1/leagues/join", RequireUser(http.HandlerFunc(handler.JoinLeagueByInvite)))

	mux.Handle("GET /v1/leagues/{leagueID}/market", RequireUser(http.HandlerFunc(handler.GetMarket)))
	mux.Handle("POST /v1/leagues/{leagueID}/market/buy", RequireUser(http.HandlerFunc(handler.BuyPlayer)))
	mux.Handle("POST /v1/leagues/{leagueID}/market/sell", RequireUser(http.HandlerFunc(handler.SellPlayer)))
	mux.Handle("GET /v1/leagues/{leagueID}/players/{playerID}/clause", RequireUser(http.HandlerFunc(handler.GetClauseStatus)))
	mux.Handle("POST /v1/leagues/{leagueID}/players/{playerID}/clause/buy", RequireUser(http.HandlerFunc(handler.BuyClause)))

	mux.Handle("GET /v1/leagues/{leagueID}/squad", RequireUser(http.HandlerFunc(handler.GetMySquad)))
	mux.Handle("PUT /v1/leagues/{leagueID}/squad/captain", RequireUser(http.HandlerFunc(handler.SetCaptain)))
}

func registerInternalRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/sync", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSync)))
	mux.Handle("POST /v1/internal/score/matches/{matchID}", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.ScoreMatch)))
	mux.Handle("POST /v1/internal/score/matchdays/{matchday}", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.ScoreMatchday)))
}
