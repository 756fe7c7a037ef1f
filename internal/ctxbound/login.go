// Package ctxbound memoizes per-request lookups in the request context.
package ctxbound

import (
	"context"
	"net/http"
	"sync"

	"katb.in/katbin"
	"katb.in/katbin/internal/auth"
)

var _ auth.LoginService = &LoginService{}

type LoginService struct {
	auth.LoginService
}

type lateUser struct {
	o sync.Once
	u *katbin.User
}

func (s *LoginService) Middleware(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r = r.WithContext(context.WithValue(r.Context(), s, &lateUser{}))
		h.ServeHTTP(w, r)
	})
}

// GetLoggedInUser resolves the identity at most once per request. Requests
// that did not pass through Middleware are resolved every time.
func (s *LoginService) GetLoggedInUser(r *http.Request) *katbin.User {
	lu, ok := r.Context().Value(s).(*lateUser)
	if !ok {
		return s.LoginService.GetLoggedInUser(r)
	}
	lu.o.Do(func() {
		lu.u = s.LoginService.GetLoggedInUser(r)
	})
	return lu.u
}

func (s *LoginService) SetLoggedInUser(w http.ResponseWriter, r *http.Request, u *katbin.User, remember bool) {
	if lu, ok := r.Context().Value(s).(*lateUser); ok {
		lu.o.Do(func() {})
		lu.u = u
	}
	s.LoginService.SetLoggedInUser(w, r, u, remember)
}
