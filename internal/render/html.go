// Package render turns view models into responses.
package render

import (
	"bytes"
	"fmt"
	"net/http"

	"katb.in/katbin/internal/auth"
	"katb.in/katbin/internal/rayman"
	"katb.in/katbin/internal/templatepack"
	"katb.in/katbin/web"
)

var _ web.Renderer = &HTML{}

// HTML renders web.Page values through a template pack. Every page receives
// the logged-in user and pending flashes as globals.
type HTML struct {
	Pack     *templatepack.Pack
	Sessions auth.SessionService
	Login    auth.LoginService
}

// ErrorPage is the view model for every error response.
type ErrorPage struct {
	Status  int
	Message string
}

func (*ErrorPage) PageName() string {
	return "error"
}

func (h *HTML) globals(r *http.Request) map[string]interface{} {
	g := make(map[string]interface{})
	if h.Login != nil {
		if u := h.Login.GetLoggedInUser(r); u != nil {
			g["User"] = u
		}
	}
	if h.Sessions != nil {
		if s := h.Sessions.SessionForRequest(r); s != nil {
			g["Flashes"] = s.Flashes(auth.SessionScopeClient)
			// Consumed flashes have to reach the cookie before the header.
			s.Save()
		}
	}
	return g
}

func (h *HTML) Render(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	page, ok := v.(web.Page)
	if !ok {
		h.Error(w, r, fmt.Errorf("render: %T is not a page", v))
		return
	}

	buf := &bytes.Buffer{}
	err := h.Pack.ExecutePage(buf, r, page.PageName(), v, h.globals(r))
	if err != nil {
		rayman.RequestLogger(r).WithError(err).WithField("page", page.PageName()).Error("failed to render page")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func (h *HTML) Error(w http.ResponseWriter, r *http.Request, err error) {
	status := web.StatusForError(err)
	if status >= 500 {
		rayman.RequestLogger(r).WithError(err).Error("request failed")
	}
	h.Render(w, r, status, &ErrorPage{
		Status:  status,
		Message: web.PublicMessage(err),
	})
}

// NotFound renders the error page for a missing route.
func (h *HTML) NotFound() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.Render(w, r, http.StatusNotFound, &ErrorPage{
			Status:  http.StatusNotFound,
			Message: "There's nothing here.",
		})
	})
}
