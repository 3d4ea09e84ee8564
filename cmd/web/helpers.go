package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mkarvo/coachapp/internal/client"
	"github.com/mkarvo/coachapp/internal/errors"
	"github.com/mkarvo/coachapp/internal/nutrition"
	"github.com/mkarvo/coachapp/internal/workout"
)

// maxRequestBody bounds JSON request bodies. A month of logged sets stays
// well under this.
const maxRequestBody = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

func (app *application) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		app.logger.LogAttrs(r.Context(), slog.LevelError, "encode response",
			errors.SlogError(err))
	}
}

func (app *application) readJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		app.clientError(w, r, http.StatusBadRequest, fmt.Sprintf("malformed request body: %v", err))
		return false
	}
	return true
}

func (app *application) serverError(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.LogAttrs(r.Context(), slog.LevelError, "server error", errors.SlogError(err))
	app.writeJSON(w, r, http.StatusInternalServerError,
		errorResponse{Error: http.StatusText(http.StatusInternalServerError)})
}

func (app *application) clientError(w http.ResponseWriter, r *http.Request, status int, message string) {
	app.writeJSON(w, r, status, errorResponse{Error: message})
}

// handleServiceError maps the service-layer sentinels to response codes.
func (app *application) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, client.ErrNotFound),
		errors.Is(err, nutrition.ErrNotFound),
		errors.Is(err, workout.ErrNotFound):
		app.clientError(w, r, http.StatusNotFound, "not found")
	case errors.Is(err, client.ErrInvalid):
		app.clientError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, workout.ErrUnknownSplit):
		app.clientError(w, r, http.StatusUnprocessableEntity, err.Error())
	default:
		app.serverError(w, r, err)
	}
}

// parseClientIDParam parses the "id" path parameter from the request URL.
// On failure, sends HTTP 404 automatically.
func (app *application) parseClientIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	clientID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		app.clientError(w, r, http.StatusNotFound, "not found")
		return 0, false
	}
	return clientID, true
}
