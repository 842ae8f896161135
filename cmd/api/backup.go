package main

import (
	"MatchTracker/internal/data"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ExportBackup downloads every team, player, game, lineup entry and event as one document.
func (app *application) ExportBackup(w http.ResponseWriter, r *http.Request) {
	backup, err := app.store.Export(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="match-tracker-%s.json"`,
		backup.ExportDate.Format(time.DateOnly)))
	err = backup.Write(w)
	if err != nil {
		app.logError(r, err)
	}
}

// ImportBackup replaces the whole store with an uploaded backup. Games in progress are closed
// first so no session writes over the imported rows.
func (app *application) ImportBackup(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 32<<20)

	backup, err := data.ReadBackup(r.Body)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrUnsupportedBackup):
			app.failedValidationResponse(w, r, map[string]string{"version": err.Error()})
		default:
			app.badRequestResponse(w, r, err)
		}
		return
	}

	if err := app.sessions.CloseAll(r.Context()); err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.store.Import(r.Context(), backup)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	app.logger.Info().Int("teams", len(backup.Data.Teams)).Int("games", len(backup.Data.Games)).
		Msg("backup imported")
	app.persistBackup()

	err = app.writeJSON(w, http.StatusOK, envelope{
		"message": "backup successfully imported",
		"counts": map[string]int{
			"teams":   len(backup.Data.Teams),
			"players": len(backup.Data.Players),
			"games":   len(backup.Data.Games),
			"lineups": len(backup.Data.GameLineups),
			"events":  len(backup.Data.GameEvents),
		},
	}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
