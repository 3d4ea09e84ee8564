package main

import "net/http"

func (app *application) routes() http.Handler {
	mux := http.NewServeMux()

	var (
		base = func(next http.Handler) http.Handler {
			return app.recoverPanic(app.logAndTraceRequest(secureHeaders(app.corsPolicy(next))))
		}
		session = func(next http.Handler) http.Handler {
			return base(app.sessionManager.LoadAndSave(app.coachSession(app.timeout(defaultTimeout)(next))))
		}
		// notes generation calls OpenAI and export writes a database file.
		slowSession = func(next http.Handler) http.Handler {
			return base(app.sessionManager.LoadAndSave(app.coachSession(app.timeout(slowTimeout)(next))))
		}
	)

	mux.Handle("GET /api/healthy", base(http.HandlerFunc(app.healthy)))

	mux.Handle("POST /api/clients", session(http.HandlerFunc(app.clientCreatePOST)))
	mux.Handle("GET /api/clients", session(http.HandlerFunc(app.clientListGET)))
	mux.Handle("GET /api/clients/{id}", session(http.HandlerFunc(app.clientGET)))
	mux.Handle("PUT /api/clients/{id}", session(http.HandlerFunc(app.clientUpdatePUT)))
	mux.Handle("DELETE /api/clients/{id}", session(http.HandlerFunc(app.clientDELETE)))

	mux.Handle("GET /api/clients/{id}/macros", session(http.HandlerFunc(app.macrosGET)))

	mux.Handle("POST /api/clients/{id}/meal-plans", session(http.HandlerFunc(app.mealPlanGeneratePOST)))
	mux.Handle("GET /api/clients/{id}/meal-plans", session(http.HandlerFunc(app.mealPlanListGET)))
	mux.Handle("GET /api/clients/{id}/meal-plans/current", session(http.HandlerFunc(app.mealPlanCurrentGET)))

	mux.Handle("POST /api/clients/{id}/programs", session(http.HandlerFunc(app.programGeneratePOST)))
	mux.Handle("GET /api/clients/{id}/programs", session(http.HandlerFunc(app.programListGET)))
	mux.Handle("GET /api/clients/{id}/programs/current", session(http.HandlerFunc(app.programCurrentGET)))

	mux.Handle("POST /api/clients/{id}/sessions", session(http.HandlerFunc(app.sessionLogPOST)))
	mux.Handle("GET /api/clients/{id}/sessions", session(http.HandlerFunc(app.sessionListGET)))
	mux.Handle("GET /api/clients/{id}/suggestions/{exercise}", session(http.HandlerFunc(app.suggestionGET)))

	mux.Handle("POST /api/clients/{id}/notes/generate", slowSession(http.HandlerFunc(app.notesGeneratePOST)))
	mux.Handle("GET /api/clients/{id}/notes", session(http.HandlerFunc(app.notesGET)))
	mux.Handle("GET /api/clients/{id}/export", slowSession(http.HandlerFunc(app.exportGET)))

	return mux
}
