package main

import (
	"expvar"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (app *application) routes() http.Handler {
	router := chi.NewRouter()

	// Router
	router.NotFound(app.notFoundResponse)
	router.MethodNotAllowed(app.methodNotAllowedResponse)

	// Middleware
	router.Use(app.metrics)
	router.Use(app.tagRequest)
	router.Use(app.logRequest)
	router.Use(app.recoverPanic)
	router.Use(app.enableCORS)
	router.Use(app.rateLimit)

	// Healthcheck
	router.Get("/v1/healthcheck", app.HealthCheck)
	router.Method(http.MethodGet, "/v1/metrics", expvar.Handler())

	// Team Endpoints
	router.Route("/v1/team", func(router chi.Router) {
		router.Post("/", app.InsertTeam)
		router.Get("/", app.GetAllTeams)
		router.Get("/{id}", app.GetTeam)
		router.Patch("/{id}", app.UpdateTeam)
		router.Delete("/{id}", app.DeleteTeam)
		router.Get("/{id}/stats", app.GetTeamStats)
	})

	// Player Endpoints
	router.Route("/v1/player", func(router chi.Router) {
		router.Post("/", app.InsertPlayer)
		router.Get("/", app.GetAllPlayers)
		router.Get("/{id}", app.GetPlayer)
		router.Patch("/{id}", app.UpdatePlayer)
		router.Delete("/{id}", app.DeletePlayer)
		router.Get("/{id}/stats", app.GetPlayerStats)
	})

	// Game Endpoints
	router.Route("/v1/game", func(router chi.Router) {
		router.Post("/", app.InsertGame)
		router.Get("/", app.GetAllGames)
		router.Get("/{id}", app.GetGame)
		router.Patch("/{id}", app.UpdateGame)
		router.Delete("/{id}", app.DeleteGame)
		router.Get("/{id}/events", app.GetGameEvents)
		router.Get("/{id}/report", app.GetGameReport)
		router.Post("/{id}/start", app.StartGame)

		// Live Game
		router.Route("/{id}/live", func(router chi.Router) {
			router.Get("/", app.GetLiveGame)
			router.Post("/clock", app.UpdateLiveClock)
			router.Post("/select", app.SelectPlayer)
			router.Post("/stats", app.RecordStat)
			router.Post("/goal", app.ConfirmGoal)
			router.Delete("/goal", app.CancelGoal)
			router.Delete("/events/{eventID}", app.UndoEvent)
			router.Post("/substitutions", app.Substitute)
			router.Post("/end-period", app.EndPeriod)
			router.Get("/keep", app.KeepGame)
			router.Get("/watch", app.WatchGame)
		})
	})

	// Backup
	router.Get("/v1/backup", app.ExportBackup)
	router.Post("/v1/backup", app.ImportBackup)

	return router
}
