package main

import (
	"net/http"

	"github.com/mkarvo/coachapp/internal/workout"
)

type programGenerateRequest struct {
	SplitType string `json:"split_type"`
}

func (app *application) programGeneratePOST(w http.ResponseWriter, r *http.Request) {
	clientID, ok := app.parseClientIDParam(w, r)
	if !ok {
		return
	}

	var req programGenerateRequest
	if !app.readJSON(w, r, &req) {
		return
	}

	program, err := app.workoutService.GenerateProgram(r.Context(), clientID, req.SplitType)
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}

	app.writeJSON(w, r, http.StatusCreated, program)
}

func (app *application) programListGET(w http.ResponseWriter, r *http.Request) {
	clientID, ok := app.parseClientIDParam(w, r)
	if !ok {
		return
	}

	programs, err := app.workoutService.ListPrograms(r.Context(), clientID)
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}
	if programs == nil {
		programs = []workout.Program{}
	}

	app.writeJSON(w, r, http.StatusOK, programs)
}

func (app *application) programCurrentGET(w http.ResponseWriter, r *http.Request) {
	clientID, ok := app.parseClientIDParam(w, r)
	if !ok {
		return
	}

	program, err := app.workoutService.CurrentProgram(r.Context(), clientID)
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}

	app.writeJSON(w, r, http.StatusOK, program)
}
