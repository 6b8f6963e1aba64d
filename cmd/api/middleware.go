package main

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"storefront/internal/models"
	"storefront/internal/session"
)

type contextKey string

const userContextKey = contextKey("user")

func (app *application) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		app.infoLog.Printf("%s - %s %s %s", r.RemoteAddr, r.Proto, r.Method, r.URL.RequestURI())
		next.ServeHTTP(w, r)
	})
}

func (app *application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				w.Header().Set("Connection", "close")
				app.serverError(w, errFromPanic(err))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// requestID tags every request with an id that is echoed in the response
// headers, so a client report can be matched against the logs.
func (app *application) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
	})
}

// requireAuth admits requests carrying a valid, unexpired session cookie that
// still resolves to an existing user. The user is placed on the request
// context for the wrapped handler.
func (app *application) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(session.CookieName)
		if err != nil {
			app.clientError(w, http.StatusUnauthorized, "not authorized, no token")
			return
		}

		userID, err := app.sessions.Parse(cookie.Value)
		if err != nil {
			app.clientError(w, http.StatusUnauthorized, "not authorized, token failed")
			return
		}

		user, err := app.users.Get(r.Context(), userID)
		if err != nil {
			app.clientError(w, http.StatusUnauthorized, "not authorized, token failed")
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next(w, r.WithContext(ctx))
	}
}

func (app *application) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return app.requireAuth(func(w http.ResponseWriter, r *http.Request) {
		if !app.contextUser(r).IsAdmin {
			app.clientError(w, http.StatusUnauthorized, "not authorized as admin")
			return
		}
		next(w, r)
	})
}

// contextUser returns the authenticated user. It panics if called outside a
// requireAuth chain.
func (app *application) contextUser(r *http.Request) *models.User {
	user, ok := r.Context().Value(userContextKey).(*models.User)
	if !ok {
		panic("no user in request context")
	}
	return user
}
