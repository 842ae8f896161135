package main

import (
	"MatchTracker/internal/clock"
	"MatchTracker/internal/live"
	"MatchTracker/internal/stats"
	"MatchTracker/internal/validator"
	"net/http"
	"slices"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

// liveSession resolves the {id} of a live route to its open session. Failures are answered
// and a nil session is returned.
func (app *application) liveSession(w http.ResponseWriter, r *http.Request) *live.Session {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return nil
	}

	session, err := app.sessions.Open(r.Context(), id)
	if err != nil {
		app.liveErrorResponse(w, r, err)
		return nil
	}
	return session
}

func (app *application) writeSnapshot(w http.ResponseWriter, r *http.Request, status int,
	session *live.Session, extra envelope) {
	env := envelope{"live": session.Snapshot()}
	for k, v := range extra {
		env[k] = v
	}

	err := app.writeJSON(w, status, env, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// StartGame commits the starting lineup of a scheduled game and puts it live.
func (app *application) StartGame(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	var input struct {
		Squad    []int64 `json:"squad"`
		Starters []int64 `json:"starters"`
	}

	err = app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	session, err := app.sessions.Start(r.Context(), id, input.Squad, input.Starters)
	if err != nil {
		app.liveErrorResponse(w, r, err)
		return
	}

	app.logger.Info().Int64("game_id", id).Int("squad", len(input.Squad)).Msg("game started")
	app.writeSnapshot(w, r, http.StatusCreated, session, nil)
}

func (app *application) GetLiveGame(w http.ResponseWriter, r *http.Request) {
	session := app.liveSession(w, r)
	if session == nil {
		return
	}

	app.writeSnapshot(w, r, http.StatusOK, session, nil)
}

func (app *application) UpdateLiveClock(w http.ResponseWriter, r *http.Request) {
	session := app.liveSession(w, r)
	if session == nil {
		return
	}

	var input struct {
		Action string          `json:"action"`
		Value  *clock.Duration `json:"value"`
	}

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	v.Check(validator.PermittedValue(input.Action, "start", "pause", "toggle", "set"), "action",
		`must be selected from the following: "start","pause","toggle","set"`)
	if input.Action == "set" {
		v.Check(input.Value != nil, "value", "must be provided")
	}
	if !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	switch input.Action {
	case "start":
		err = session.StartClock()
	case "pause":
		err = session.PauseClock(r.Context())
	case "toggle":
		err = session.ToggleClock(r.Context())
	case "set":
		var seconds int
		seconds, err = input.Value.Seconds()
		if err == nil {
			err = session.SetClock(r.Context(), seconds)
		}
	}
	if err != nil {
		app.liveErrorResponse(w, r, err)
		return
	}

	app.writeSnapshot(w, r, http.StatusOK, session, nil)
}

// SelectPlayer selects the player the next stat is credited to. A null player_id clears the
// selection.
func (app *application) SelectPlayer(w http.ResponseWriter, r *http.Request) {
	session := app.liveSession(w, r)
	if session == nil {
		return
	}

	var input struct {
		PlayerID *int64 `json:"player_id"`
	}

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if input.PlayerID == nil {
		session.ClearSelection()
	} else if err := session.SelectPlayer(*input.PlayerID); err != nil {
		app.liveErrorResponse(w, r, err)
		return
	}

	app.writeSnapshot(w, r, http.StatusOK, session, nil)
}

// RecordStat records a stat for the selected player. Goals are held until confirmed and are
// answered with 202.
func (app *application) RecordStat(w http.ResponseWriter, r *http.Request) {
	session := app.liveSession(w, r)
	if session == nil {
		return
	}

	var input struct {
		EventType stats.EventType `json:"event_type"`
	}

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	event, err := session.RecordStat(r.Context(), input.EventType)
	if err != nil {
		app.liveErrorResponse(w, r, err)
		return
	}

	if event == nil {
		app.writeSnapshot(w, r, http.StatusAccepted, session, nil)
		return
	}
	app.writeSnapshot(w, r, http.StatusCreated, session, envelope{"event": event})
}

func (app *application) ConfirmGoal(w http.ResponseWriter, r *http.Request) {
	session := app.liveSession(w, r)
	if session == nil {
		return
	}

	var input struct {
		AssisterID *int64 `json:"assister_id"`
	}

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	goal, err := session.ConfirmGoal(r.Context(), input.AssisterID)
	if err != nil {
		app.liveErrorResponse(w, r, err)
		return
	}

	app.writeSnapshot(w, r, http.StatusCreated, session, envelope{"event": goal})
}

func (app *application) CancelGoal(w http.ResponseWriter, r *http.Request) {
	session := app.liveSession(w, r)
	if session == nil {
		return
	}

	if err := session.CancelGoal(); err != nil {
		app.liveErrorResponse(w, r, err)
		return
	}

	app.writeSnapshot(w, r, http.StatusOK, session, nil)
}

func (app *application) UndoEvent(w http.ResponseWriter, r *http.Request) {
	session := app.liveSession(w, r)
	if session == nil {
		return
	}

	eventID, err := strconv.ParseInt(chi.URLParam(r, "eventID"), 10, 64)
	if err != nil || eventID < 1 {
		app.notFoundResponse(w, r)
		return
	}

	if err := session.Undo(r.Context(), eventID); err != nil {
		app.liveErrorResponse(w, r, err)
		return
	}

	app.writeSnapshot(w, r, http.StatusOK, session, nil)
}

func (app *application) Substitute(w http.ResponseWriter, r *http.Request) {
	session := app.liveSession(w, r)
	if session == nil {
		return
	}

	var input struct {
		PlayerOut int64 `json:"player_out"`
		PlayerIn  int64 `json:"player_in"`
	}

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	v.Check(input.PlayerOut > 0, "player_out", "must be provided")
	v.Check(input.PlayerIn > 0, "player_in", "must be provided")
	v.Check(input.PlayerOut != input.PlayerIn, "player_in", "must differ from player_out")
	if !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	if err := session.Substitute(r.Context(), input.PlayerOut, input.PlayerIn); err != nil {
		app.liveErrorResponse(w, r, err)
		return
	}

	app.writeSnapshot(w, r, http.StatusOK, session, nil)
}

// EndPeriod ends the current half. Ending the second half completes the game, closes its
// session and answers with the final game record.
func (app *application) EndPeriod(w http.ResponseWriter, r *http.Request) {
	session := app.liveSession(w, r)
	if session == nil {
		return
	}

	over, err := session.EndPeriod(r.Context())
	if err != nil {
		app.liveErrorResponse(w, r, err)
		return
	}

	if !over {
		app.writeSnapshot(w, r, http.StatusOK, session, envelope{"game_over": false})
		return
	}

	game, err := app.store.GetGame(r.Context(), session.GameID())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
	app.logger.Info().Int64("game_id", game.ID).Int("home_score", game.HomeScore).
		Int("away_score", game.AwayScore).Msg("game completed")
	app.persistBackup()

	err = app.writeJSON(w, http.StatusOK, envelope{"game_over": true, "game": game}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" || app.config.env == "development" {
				return true
			}
			return slices.Contains(app.config.cors.trustedOrigins, origin)
		},
	}
}

// KeepGame upgrades to a websocket that drives the live game with commands and receives its
// snapshots.
func (app *application) KeepGame(w http.ResponseWriter, r *http.Request) {
	app.joinHub(w, r, true)
}

// WatchGame upgrades to a read-only websocket receiving the snapshots of a live game.
func (app *application) WatchGame(w http.ResponseWriter, r *http.Request) {
	app.joinHub(w, r, false)
}

func (app *application) joinHub(w http.ResponseWriter, r *http.Request, keeper bool) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	hub, err := app.hubs.Get(r.Context(), id)
	if err != nil {
		app.liveErrorResponse(w, r, err)
		return
	}

	upgrader := app.upgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		app.logError(r, err)
		return
	}

	if keeper {
		err = hub.JoinKeeper(conn)
	} else {
		err = hub.JoinWatcher(conn)
	}
	if err != nil {
		app.logError(r, err)
		return
	}
	app.logger.Info().Int64("game_id", id).Bool("keeper", keeper).
		Str("request_id", requestID(r)).Msg("websocket joined")
}

// persistBackup writes the memory store to its backup file in the background.
func (app *application) persistBackup() {
	if app.config.store != "memory" || app.config.backup == "" {
		return
	}

	app.backgroundTask(func() {
		if err := saveBackup(app.store, app.config.backup); err != nil {
			app.logger.Error().Err(err).Str("path", app.config.backup).Msg("backup failed")
		}
	})
}
