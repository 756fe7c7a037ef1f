package web

import (
	"net/http"

	"katb.in/katbin/internal/auth"
)

// Redirect saves any pending session changes and sends a 303 to url.
func Redirect(w http.ResponseWriter, r *http.Request, sessions auth.SessionService, url string) {
	if sessions != nil {
		if s := sessions.SessionForRequest(r); s != nil {
			s.Save()
		}
	}
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// Flash queues an advisory for the next rendered page.
func Flash(r *http.Request, sessions auth.SessionService, kind auth.FlashKind, message string) {
	if sessions == nil {
		return
	}
	if s := sessions.SessionForRequest(r); s != nil {
		s.AddFlash(auth.SessionScopeClient, auth.Flash{Kind: kind, Message: message})
	}
}
