package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/competitions", handler.ListCompetitions)
	mux.HandleFunc("GET /v1/competitions/{competitionID}", handler.GetCompetition)
	mux.HandleFunc("GET /v1/competitions/{competitionID}/standings", handler.GetStandings)
	mux.HandleFunc("GET /v1/teams/{teamID}", handler.GetTeam)
	mux.HandleFunc("GET /v1/matches", handler.ListMatches)
	mux.HandleFunc("GET /v1/matches/{matchID}", handler.GetMatch)
	mux.HandleFunc("GET /v1/matches/{matchID}/head2head", handler.GetMatchHeadToHead)
}

func registerMaintenanceRoutes(mux *http.ServeMux, handler *Handler, updateToken string) {
	mux.Handle("PUT /maintenance/update/server", RequireUpdateToken(updateToken, http.HandlerFunc(handler.TriggerUpdate)))
	mux.HandleFunc("GET /maintenance/update/status", handler.GetUpdateStatus)
}
