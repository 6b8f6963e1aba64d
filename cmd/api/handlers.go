package main

import (
	"fmt"
	"net/http"
)

func (app *application) home(w http.ResponseWriter, r *http.Request) {
	// "/" is a prefix match, so everything unrouted lands here.
	if r.URL.Path != "/" {
		app.notFound(w)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "API is running....")
}

func (app *application) healthcheck(w http.ResponseWriter, r *http.Request) {
	app.writeJSON(w, http.StatusOK, envelope{
		"status":   "ok",
		"degraded": app.degraded,
	})
}
