package main

import (
	"MatchTracker/internal/data"
	"MatchTracker/internal/report"
	"MatchTracker/internal/validator"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"time"
)

var errGameInProgress = errors.New("game is in progress")

func (app *application) InsertGame(w http.ResponseWriter, r *http.Request) {
	var input struct {
		TeamID     int64  `json:"team_id"`
		Date       string `json:"date"`
		Opponent   string `json:"opponent"`
		HalfLength int    `json:"half_length"`
	}

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	game := &data.Game{
		TeamID:     input.TeamID,
		Date:       parseDate(v, input.Date),
		Opponent:   input.Opponent,
		HalfLength: input.HalfLength,
	}
	if game.HalfLength == 0 {
		game.HalfLength = app.rules.HalfLength
	}

	if data.ValidateGame(v, game); !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	err = app.store.InsertGame(r.Context(), game)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			v.AddError("team_id", "team could not be found")
			app.failedValidationResponse(w, r, v.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	headers := make(http.Header)
	headers.Set("Location", fmt.Sprintf("/v1/game/%d", game.ID))
	err = app.writeJSON(w, http.StatusCreated, envelope{"game": game}, headers)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) GetGame(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	game, err := app.store.GetGame(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	lineup, err := app.store.GetGameLineup(r.Context(), id)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"game": game, "lineup": lineup}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) GetAllGames(w http.ResponseWriter, r *http.Request) {
	var input struct {
		TeamID   int64
		Statuses []data.GameStatus
		From     time.Time
	}

	v := validator.New()
	qs := r.URL.Query()

	input.TeamID = app.readInt64(qs, "team_id", 0, v)
	input.Statuses = app.readCSGameStatus(qs, nil, v)
	input.From = app.readDate(qs, "from", time.Time{}, v)
	v.Check(input.TeamID > 0, "team_id", "must be provided")
	if !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	games, err := app.store.GetAllGames(r.Context(), input.TeamID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	games = slices.DeleteFunc(games, func(g *data.Game) bool {
		if len(input.Statuses) > 0 && !slices.Contains(input.Statuses, g.Status) {
			return true
		}
		return g.Date.Before(input.From)
	})

	err = app.writeJSON(w, http.StatusOK, envelope{"games": games}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// UpdateGame edits the fixture details of a game that is not being played.
func (app *application) UpdateGame(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	game, err := app.store.GetGame(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}
	if game.Status == data.GameLive {
		app.conflictResponse(w, r, errGameInProgress)
		return
	}

	var input struct {
		Date       *string `json:"date"`
		Opponent   *string `json:"opponent"`
		HalfLength *int    `json:"half_length"`
	}

	err = app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	update := data.GameUpdate{
		Opponent:   input.Opponent,
		HalfLength: input.HalfLength,
	}
	if input.Date != nil {
		date := parseDate(v, *input.Date)
		update.Date = &date
	}

	if data.ValidateGameUpdate(v, update); !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	game, err = app.store.UpdateGame(r.Context(), id, update)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"game": game}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) DeleteGame(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	err = app.sessions.Close(r.Context(), id)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.store.DeleteGame(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "game successfully deleted"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) GetGameEvents(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	v := validator.New()
	limit := app.readInt(r.URL.Query(), "limit", 0, v)
	v.Check(limit >= 0, "limit", "must be 0 or greater")
	if !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	if _, err := app.store.GetGame(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	events, err := app.store.GetGameEvents(r.Context(), id)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
	if limit > 0 && len(events) > limit {
		events = events[len(events)-limit:]
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"events": events}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// GetGameReport answers with the post-game review, as JSON or, with format=csv, as the
// spreadsheet export.
func (app *application) GetGameReport(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	v := validator.New()
	format := app.readString(r.URL.Query(), "format", "json")
	v.Check(validator.PermittedValue(format, "json", "csv"), "format",
		`must be selected from the following: "json","csv"`)
	if !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	rep, err := report.Game(r.Context(), app.store, id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	if format == "csv" {
		team, err := app.store.GetTeam(r.Context(), rep.Game.TeamID)
		if err != nil {
			app.serverErrorResponse(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition",
			fmt.Sprintf(`attachment; filename="game-%d.csv"`, rep.Game.ID))
		err = rep.WriteCSV(w, team.Name)
		if err != nil {
			app.logError(r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"report": rep}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func parseDate(v *validator.Validator, s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		v.AddError("date", "must be a valid date (YYYY-MM-DD)")
		return time.Time{}
	}
	return t
}
