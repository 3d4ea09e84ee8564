package main

import (
	"fmt"
	"net/http"
	"path/filepath"
)

// exportGET writes the client's data to a standalone sqlite file and serves
// it as a download.
func (app *application) exportGET(w http.ResponseWriter, r *http.Request) {
	clientID, ok := app.parseClientIDParam(w, r)
	if !ok {
		return
	}

	path, err := app.clientService.Export(r.Context(), clientID, app.exportDir)
	if err != nil {
		app.handleServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", filepath.Base(path)))
	http.ServeFile(w, r, path)
}
