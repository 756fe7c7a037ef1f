package auth

import (
	"net/http"

	"katb.in/katbin"
)

type LoginService interface {
	// GetLoggedInUser returns nil for anonymous requests.
	GetLoggedInUser(r *http.Request) *katbin.User

	// SetLoggedInUser records u as the requester's identity. A nil u logs
	// out. remember makes the login outlive the browser session.
	SetLoggedInUser(w http.ResponseWriter, r *http.Request, u *katbin.User, remember bool)
}
