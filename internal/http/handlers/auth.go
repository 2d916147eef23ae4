package handlers

import (
	"encoding/json"
	"net/http"

	"bloodlink/internal/filter"
)

type verifyPasswordRequest struct {
	Password string `json:"password" validate:"max=1024"`
}

type loginData struct {
	Error string
}

// LoginPage shows the password form, or skips it for signed-in admins.
func (a *App) LoginPage(w http.ResponseWriter, r *http.Request) {
	if a.Auth.HasSession(r) {
		http.Redirect(w, r, "/admin/dashboard", http.StatusSeeOther)
		return
	}
	a.render(w, r, http.StatusOK, "login", a.newPage(r, "Admin Login", "", loginData{}))
}

// Login checks the submitted password and starts a session.
func (a *App) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		a.render(w, r, http.StatusBadRequest, "login", a.newPage(r, "Admin Login", "", loginData{Error: "Invalid request"}))
		return
	}
	if !a.Auth.VerifyPassword(r.PostFormValue("password")) {
		a.Logger.Warn().Str("path", r.URL.Path).Msg("admin login rejected")
		a.render(w, r, http.StatusUnauthorized, "login", a.newPage(r, "Admin Login", "", loginData{Error: "Invalid password"}))
		return
	}
	cookie, err := a.Auth.SessionCookie(a.now())
	if err != nil {
		a.Logger.Error().Err(err).Msg("issue session failed")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	http.SetCookie(w, cookie)
	http.Redirect(w, r, "/admin/dashboard", http.StatusSeeOther)
}

// Logout deletes the session cookie.
func (a *App) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, a.Auth.ClearCookie())
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// VerifyPassword answers {"valid":true} or 401 {"valid":false}; a body that
// is not JSON gets 400 {"error":"Invalid request"}.
func (a *App) VerifyPassword(w http.ResponseWriter, r *http.Request) {
	var req verifyPasswordRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 8<<10)).Decode(&req); err != nil {
		a.json(w, http.StatusBadRequest, map[string]string{"error": "Invalid request"})
		return
	}
	if err := filter.Validator().Struct(req); err != nil {
		a.json(w, http.StatusBadRequest, map[string]string{"error": "Invalid request"})
		return
	}
	if !a.Auth.VerifyPassword(req.Password) {
		a.json(w, http.StatusUnauthorized, map[string]bool{"valid": false})
		return
	}
	a.json(w, http.StatusOK, map[string]bool{"valid": true})
}
