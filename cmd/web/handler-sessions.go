package main

import (
	"net/http"
	"time"

	"github.com/mkarvo/coachapp/internal/workout"
)

type sessionLogRequest struct {
	Date         string               `json:"date"`
	WorkoutDayID *int64               `json:"workout_day_id"`
	Notes        string               `json:"notes"`
	Sets         []workout.SessionSet `json:"sets"`
}

func (app *application) sessionLogPOST(w http.ResponseWriter, r *http.Request) {
	clientID, ok := app.parseClientIDParam(w, r)
	if !ok {
		return
	}

	var req sessionLogRequest
	if !app.readJSON(w, r, &req) {
		return
	}

	var date time.Time
	if req.Date != "" {
		var err error
		if date, err = time.Parse(time.DateOnly, req.Date); err != nil {
			app.clientError(w, r, http.StatusBadRequest, "date must be formatted YYYY-MM-DD")
			return
		}
	}

	session, err := app.workoutService.LogSession(r.Context(), workout.Session{
		ClientID:     clientID,
		WorkoutDayID: req.WorkoutDayID,
		Date:         date,
		Notes:        req.Notes,
		Sets:         req.Sets,
	})
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}

	app.writeJSON(w, r, http.StatusCreated, session)
}

func (app *application) sessionListGET(w http.ResponseWriter, r *http.Request) {
	clientID, ok := app.parseClientIDParam(w, r)
	if !ok {
		return
	}

	sessions, err := app.workoutService.ListSessions(r.Context(), clientID)
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}
	if sessions == nil {
		sessions = []workout.Session{}
	}

	app.writeJSON(w, r, http.StatusOK, sessions)
}

func (app *application) suggestionGET(w http.ResponseWriter, r *http.Request) {
	clientID, ok := app.parseClientIDParam(w, r)
	if !ok {
		return
	}
	exerciseName := r.PathValue("exercise")

	suggestion, err := app.workoutService.SuggestWeight(r.Context(), clientID, exerciseName)
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}

	app.writeJSON(w, r, http.StatusOK, suggestion)
}
