package main

import "net/http"

type notesResponse struct {
	NotesMarkdown string `json:"notes_markdown"`
}

func (app *application) notesGeneratePOST(w http.ResponseWriter, r *http.Request) {
	clientID, ok := app.parseClientIDParam(w, r)
	if !ok {
		return
	}

	notes, err := app.clientService.GenerateNotes(r.Context(), clientID)
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}

	app.writeJSON(w, r, http.StatusOK, notesResponse{NotesMarkdown: notes})
}

// notesGET serves the stored coaching notes as an HTML fragment the mobile
// client embeds in a web view.
func (app *application) notesGET(w http.ResponseWriter, r *http.Request) {
	clientID, ok := app.parseClientIDParam(w, r)
	if !ok {
		return
	}

	html, err := app.clientService.NotesHTML(r.Context(), clientID)
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(html))
}
