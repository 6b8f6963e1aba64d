package main

import (
	"net/http"

	"storefront/internal/models"
)

type userResponse struct {
	ID      string `json:"_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}

func newUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:      u.ID.Hex(),
		Name:    u.Name,
		Email:   u.Email,
		IsAdmin: u.IsAdmin,
	}
}

func (app *application) registerUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := app.readJSON(w, r, &req); err != nil {
		app.badRequest(w, "invalid request body")
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		app.badRequest(w, "name, email and password are required")
		return
	}

	user, err := app.users.Insert(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		app.storeError(w, err)
		return
	}

	if err := app.issueSession(w, user); err != nil {
		app.serverError(w, err)
		return
	}
	app.writeJSON(w, http.StatusCreated, newUserResponse(user))
}

func (app *application) loginUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := app.readJSON(w, r, &req); err != nil {
		app.badRequest(w, "invalid request body")
		return
	}

	user, err := app.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		app.storeError(w, err)
		return
	}

	if err := app.issueSession(w, user); err != nil {
		app.serverError(w, err)
		return
	}
	app.writeJSON(w, http.StatusOK, newUserResponse(user))
}

func (app *application) logoutUser(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, app.sessions.ExpiredCookie())
	app.writeJSON(w, http.StatusOK, envelope{"message": "logged out successfully"})
}

func (app *application) issueSession(w http.ResponseWriter, user *models.User) error {
	token, err := app.sessions.Issue(user.ID.Hex())
	if err != nil {
		return err
	}
	http.SetCookie(w, app.sessions.Cookie(token))
	return nil
}

func (app *application) getProfile(w http.ResponseWriter, r *http.Request) {
	app.writeJSON(w, http.StatusOK, newUserResponse(app.contextUser(r)))
}

func (app *application) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := app.readJSON(w, r, &req); err != nil {
		app.badRequest(w, "invalid request body")
		return
	}

	user := app.contextUser(r)
	updated, err := app.users.Update(r.Context(), user.ID.Hex(), models.UserUpdate{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		app.storeError(w, err)
		return
	}
	app.writeJSON(w, http.StatusOK, newUserResponse(updated))
}

func (app *application) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := app.users.GetAll(r.Context())
	if err != nil {
		app.storeError(w, err)
		return
	}

	resp := make([]userResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, newUserResponse(u))
	}
	app.writeJSON(w, http.StatusOK, resp)
}

func (app *application) getUser(w http.ResponseWriter, r *http.Request) {
	user, err := app.users.Get(r.Context(), r.URL.Query().Get(":id"))
	if err != nil {
		app.storeError(w, err)
		return
	}
	app.writeJSON(w, http.StatusOK, newUserResponse(user))
}

func (app *application) updateUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		IsAdmin *bool  `json:"isAdmin"`
	}
	if err := app.readJSON(w, r, &req); err != nil {
		app.badRequest(w, "invalid request body")
		return
	}

	updated, err := app.users.Update(r.Context(), r.URL.Query().Get(":id"), models.UserUpdate{
		Name:    req.Name,
		Email:   req.Email,
		IsAdmin: req.IsAdmin,
	})
	if err != nil {
		app.storeError(w, err)
		return
	}
	app.writeJSON(w, http.StatusOK, newUserResponse(updated))
}

func (app *application) deleteUser(w http.ResponseWriter, r *http.Request) {
	err := app.users.Delete(r.Context(), r.URL.Query().Get(":id"))
	if err != nil {
		app.storeError(w, err)
		return
	}
	app.writeJSON(w, http.StatusOK, envelope{"message": "user deleted successfully"})
}
