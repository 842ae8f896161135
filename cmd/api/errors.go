package main

import (
	"MatchTracker/internal/clock"
	"MatchTracker/internal/data"
	"MatchTracker/internal/events"
	"MatchTracker/internal/lineup"
	"MatchTracker/internal/live"
	"errors"
	"fmt"
	"net/http"
)

func (app *application) logError(r *http.Request, err error) {
	app.logger.Error().Err(err).
		Str("request_method", r.Method).
		Str("request_url", r.URL.String()).
		Str("request_id", requestID(r)).
		Msg("request failed")
}

func (app *application) errorResponse(w http.ResponseWriter, r *http.Request, status int,
	message any) {
	response := envelope{"error": message}

	err := app.writeJSON(w, status, response, nil)
	if err != nil {
		app.logError(r, err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (app *application) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logError(r, err)

	message := "the server encountered a problem and could not process your request"
	app.errorResponse(w, r, http.StatusInternalServerError, message)
}

func (app *application) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	message := "the requested resource could not be found"
	app.errorResponse(w, r, http.StatusNotFound, message)
}

func (app *application) methodNotAllowedResponse(w http.ResponseWriter, r *http.Request) {
	message := fmt.Sprintf("the %s method is not supported for this resource", r.Method)
	app.errorResponse(w, r, http.StatusMethodNotAllowed, message)
}

func (app *application) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func (app *application) failedValidationResponse(w http.ResponseWriter, r *http.Request,
	errors map[string]string) {
	app.errorResponse(w, r, http.StatusUnprocessableEntity, errors)
}

func (app *application) editConflictResponse(w http.ResponseWriter, r *http.Request) {
	message := "unable to update the record due to an edit conflict, please try again"
	app.errorResponse(w, r, http.StatusConflict, message)
}

func (app *application) conflictResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.errorResponse(w, r, http.StatusConflict, err.Error())
}

func (app *application) rateLimitExceededResponse(w http.ResponseWriter, r *http.Request) {
	message := "rate limit exceeded"
	app.errorResponse(w, r, http.StatusTooManyRequests, message)
}

// liveErrorResponse maps the errors of the live game core onto responses.
func (app *application) liveErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr data.ModelValidationErr

	switch {
	case errors.As(err, &validationErr):
		app.failedValidationResponse(w, r, validationErr.Errors)
	case errors.Is(err, live.ErrGameNotFound), errors.Is(err, data.ErrRecordNotFound):
		app.notFoundResponse(w, r)
	case errors.Is(err, events.ErrUnknownEventType):
		app.failedValidationResponse(w, r, map[string]string{"event_type": err.Error()})
	case errors.Is(err, events.ErrSelfAssist):
		app.failedValidationResponse(w, r, map[string]string{"assister_id": err.Error()})
	case errors.Is(err, clock.ErrInvalidDuration):
		app.failedValidationResponse(w, r, map[string]string{"value": err.Error()})
	case errors.Is(err, live.ErrGameNotLive),
		errors.Is(err, clock.ErrClosed),
		errors.Is(err, live.ErrGameNotReady),
		errors.Is(err, live.ErrSessionClosed),
		errors.Is(err, live.ErrClockStopped),
		errors.Is(err, live.ErrNoSelection),
		errors.Is(err, live.ErrPlayerNotActive),
		errors.Is(err, live.ErrPlayerActive),
		errors.Is(err, live.ErrGoalPending),
		errors.Is(err, live.ErrNoPendingGoal),
		errors.Is(err, events.ErrNotOnRoster),
		errors.Is(err, lineup.ErrNotInLineup):
		app.conflictResponse(w, r, err)
	default:
		app.serverErrorResponse(w, r, err)
	}
}
