package main

import (
	"net/http"

	"github.com/mkarvo/coachapp/internal/nutrition"
)

// macrosGET computes macro targets from the client's current profile without
// persisting anything.
func (app *application) macrosGET(w http.ResponseWriter, r *http.Request) {
	clientID, ok := app.parseClientIDParam(w, r)
	if !ok {
		return
	}

	targets, err := app.nutritionService.Targets(r.Context(), clientID)
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}

	app.writeJSON(w, r, http.StatusOK, targets)
}

func (app *application) mealPlanGeneratePOST(w http.ResponseWriter, r *http.Request) {
	clientID, ok := app.parseClientIDParam(w, r)
	if !ok {
		return
	}

	plan, err := app.nutritionService.GeneratePlan(r.Context(), clientID)
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}

	app.writeJSON(w, r, http.StatusCreated, plan)
}

func (app *application) mealPlanListGET(w http.ResponseWriter, r *http.Request) {
	clientID, ok := app.parseClientIDParam(w, r)
	if !ok {
		return
	}

	plans, err := app.nutritionService.ListPlans(r.Context(), clientID)
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}
	if plans == nil {
		plans = []nutrition.Plan{}
	}

	app.writeJSON(w, r, http.StatusOK, plans)
}

func (app *application) mealPlanCurrentGET(w http.ResponseWriter, r *http.Request) {
	clientID, ok := app.parseClientIDParam(w, r)
	if !ok {
		return
	}

	plan, err := app.nutritionService.CurrentPlan(r.Context(), clientID)
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}

	app.writeJSON(w, r, http.StatusOK, plan)
}
