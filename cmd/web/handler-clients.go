package main

import (
	"net/http"

	"github.com/mkarvo/coachapp/internal/client"
)

func (app *application) clientCreatePOST(w http.ResponseWriter, r *http.Request) {
	var c client.Client
	if !app.readJSON(w, r, &c) {
		return
	}
	c.ID = 0

	created, err := app.clientService.Create(r.Context(), c)
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}

	app.writeJSON(w, r, http.StatusCreated, created)
}

func (app *application) clientListGET(w http.ResponseWriter, r *http.Request) {
	clients, err := app.clientService.List(r.Context())
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}
	if clients == nil {
		clients = []client.Client{}
	}

	app.writeJSON(w, r, http.StatusOK, clients)
}

func (app *application) clientGET(w http.ResponseWriter, r *http.Request) {
	clientID, ok := app.parseClientIDParam(w, r)
	if !ok {
		return
	}

	c, err := app.clientService.Get(r.Context(), clientID)
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}

	app.writeJSON(w, r, http.StatusOK, c)
}

func (app *application) clientUpdatePUT(w http.ResponseWriter, r *http.Request) {
	clientID, ok := app.parseClientIDParam(w, r)
	if !ok {
		return
	}

	var c client.Client
	if !app.readJSON(w, r, &c) {
		return
	}
	c.ID = clientID

	updated, err := app.clientService.Update(r.Context(), c)
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}

	app.writeJSON(w, r, http.StatusOK, updated)
}

func (app *application) clientDELETE(w http.ResponseWriter, r *http.Request) {
	clientID, ok := app.parseClientIDParam(w, r)
	if !ok {
		return
	}

	if err := app.clientService.Delete(r.Context(), clientID); err != nil {
		app.handleServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
