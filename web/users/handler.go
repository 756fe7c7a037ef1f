package users

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"katb.in/katbin"
	"katb.in/katbin/internal/auth"
	"katb.in/katbin/web"
)

// bcrypt ignores everything past 72 bytes.
const maxPasswordLength = 72

type Handler struct {
	UserService  katbin.UserService
	LoginService auth.LoginService
	Sessions     auth.SessionService
	Renderer     web.Renderer
}

func checked(v string) bool {
	switch strings.ToLower(v) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

func (h *Handler) warn(r *http.Request, message string) {
	web.Flash(r, h.Sessions, auth.FlashWarning, message)
}

func (h *Handler) handleShowRegister(w http.ResponseWriter, r *http.Request) {
	h.Renderer.Render(w, r, http.StatusOK, &RegisterForm{})
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	form := &RegisterForm{Email: strings.TrimSpace(r.FormValue("email"))}
	password := r.FormValue("password")

	reject := func(status int, message string) {
		h.warn(r, message)
		h.Renderer.Render(w, r, status, form)
	}

	switch {
	case !strings.Contains(form.Email, "@"):
		reject(http.StatusBadRequest, "Enter a valid email address.")
		return
	case password == "":
		reject(http.StatusBadRequest, "Enter a password.")
		return
	case len(password) > maxPasswordLength:
		reject(http.StatusBadRequest, "Passwords are limited to 72 bytes.")
		return
	}
	if confirmation, ok := r.Form["password_confirmation"]; ok && (len(confirmation) == 0 || confirmation[0] != password) {
		reject(http.StatusBadRequest, "Passwords do not match.")
		return
	}

	u, err := h.UserService.Register(r.Context(), form.Email, password)
	if errors.Is(err, katbin.ErrAlreadyExists) {
		reject(http.StatusConflict, web.PublicMessage(err))
		return
	}
	if err != nil {
		h.Renderer.Error(w, r, err)
		return
	}

	h.LoginService.SetLoggedInUser(w, r, u, false)
	web.Flash(r, h.Sessions, auth.FlashInfo, "Welcome to katbin!")
	web.Redirect(w, r, h.Sessions, "/")
}

func (h *Handler) handleShowLogin(w http.ResponseWriter, r *http.Request) {
	h.Renderer.Render(w, r, http.StatusOK, &LoginForm{})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	form := &LoginForm{
		Email:      strings.TrimSpace(r.FormValue("email")),
		RememberMe: checked(r.FormValue("remember_me")),
	}
	password := r.FormValue("password")

	u, err := h.UserService.Authenticate(r.Context(), form.Email, password)
	if errors.Is(err, katbin.ErrInvalidCredentials) {
		h.warn(r, web.PublicMessage(err))
		h.Renderer.Render(w, r, http.StatusUnauthorized, form)
		return
	}
	if err != nil {
		h.Renderer.Error(w, r, err)
		return
	}

	h.LoginService.SetLoggedInUser(w, r, u, form.RememberMe)
	web.Flash(r, h.Sessions, auth.FlashInfo, "Logged in.")
	web.Redirect(w, r, h.Sessions, "/")
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	h.LoginService.SetLoggedInUser(w, r, nil, false)
	web.Flash(r, h.Sessions, auth.FlashInfo, "Logged out.")
	web.Redirect(w, r, h.Sessions, "/")
}

func (h *Handler) BindRoutes(router *mux.Router) error {
	router.Path("/users/register").
		Methods("POST").HandlerFunc(h.handleRegister)

	router.Path("/users/register").
		Methods("GET").HandlerFunc(h.handleShowRegister)

	router.Path("/users/login").
		Methods("POST").HandlerFunc(h.handleLogin)

	router.Path("/users/login").
		Methods("GET").HandlerFunc(h.handleShowLogin)

	router.Path("/users/logout").
		Methods("GET", "POST").HandlerFunc(h.handleLogout)

	return nil
}

func NewHandler(us katbin.UserService, login auth.LoginService, sessions auth.SessionService, r web.Renderer) *Handler {
	return &Handler{
		UserService:  us,
		LoginService: login,
		Sessions:     sessions,
		Renderer:     r,
	}
}
