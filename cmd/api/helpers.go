package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"storefront/internal/models"
)

var errConfigNoStore = errors.New("MONGO_URI not set and ALLOW_DEGRADED disabled")

func errFromPanic(v interface{}) error {
	if err, ok := v.(error); ok {
		return err
	}
	return fmt.Errorf("%v", v)
}

type envelope map[string]interface{}

func (app *application) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		app.errorLog.Printf("encoding response: %v", err)
	}
}

func (app *application) readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	return json.NewDecoder(r.Body).Decode(dst)
}

// serverError logs the underlying error with a stack trace and sends a
// generic 500. The real message never reaches the client.
func (app *application) serverError(w http.ResponseWriter, err error) {
	trace := fmt.Sprintf("%s\n%s", err.Error(), debug.Stack())
	app.errorLog.Output(2, trace)
	app.writeJSON(w, http.StatusInternalServerError, envelope{"message": "the server encountered a problem and could not process your request"})
}

func (app *application) clientError(w http.ResponseWriter, status int, message string) {
	app.writeJSON(w, status, envelope{"message": message})
}

func (app *application) notFound(w http.ResponseWriter) {
	app.clientError(w, http.StatusNotFound, "resource not found")
}

func (app *application) badRequest(w http.ResponseWriter, message string) {
	app.clientError(w, http.StatusBadRequest, message)
}

// storeError translates the model error taxonomy into HTTP responses. Errors
// it does not recognise become a 500.
func (app *application) storeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrNoRecord):
		app.notFound(w)
	case errors.Is(err, models.ErrInvalidCredentials):
		app.clientError(w, http.StatusUnauthorized, "invalid email address or password")
	case errors.Is(err, models.ErrDuplicateEmail):
		// The frontend treats conflicts as plain 400s.
		app.badRequest(w, "user already exists")
	case errors.Is(err, models.ErrDuplicateReview):
		app.badRequest(w, "product already reviewed")
	case errors.Is(err, models.ErrInsufficientStock):
		app.badRequest(w, "insufficient stock")
	case errors.Is(err, models.ErrAdminDelete):
		app.badRequest(w, "you can't delete an admin")
	case errors.Is(err, models.ErrAlreadyPaid):
		app.badRequest(w, "order already paid with a different transaction")
	case errors.Is(err, models.ErrDegraded):
		app.clientError(w, http.StatusServiceUnavailable, "store unavailable, running in degraded mode")
	default:
		app.serverError(w, err)
	}
}
