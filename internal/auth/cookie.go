package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"katb.in/katbin"
	"katb.in/katbin/internal/rayman"
)

const emailKey = "email"

// SessionResolver turns the verified cookie value into an identity.
type SessionResolver struct {
	Users katbin.UserService
}

// Resolve never fails: an empty value, an unknown email or a backend error
// all yield an anonymous request.
func (s *SessionResolver) Resolve(ctx context.Context, cookieValue string) *katbin.User {
	if cookieValue == "" {
		return nil
	}
	u, err := s.Users.GetUserByEmail(ctx, cookieValue)
	if err != nil {
		rayman.ContextLogger(ctx).WithFields(logrus.Fields{
			"email": cookieValue,
		}).WithError(err).Debug("session does not resolve to a user")
		return nil
	}
	return u
}

var _ LoginService = &CookieLoginService{}

// CookieLoginService keeps the logged-in email in the sensitive session scope.
type CookieLoginService struct {
	Sessions    SessionService
	Resolver    *SessionResolver
	RememberFor time.Duration
}

func (c *CookieLoginService) GetLoggedInUser(r *http.Request) *katbin.User {
	session := c.Sessions.SessionForRequest(r)
	if session == nil {
		return nil
	}
	email, _ := session.Get(SessionScopeSensitive, emailKey).(string)
	return c.Resolver.Resolve(r.Context(), email)
}

func (c *CookieLoginService) SetLoggedInUser(w http.ResponseWriter, r *http.Request, u *katbin.User, remember bool) {
	session := c.Sessions.SessionForRequest(r)
	if session == nil {
		rayman.RequestLogger(r).Error("login attempted without a session")
		return
	}
	if u == nil {
		session.Delete(SessionScopeSensitive, emailKey)
		session.SetMaxAge(SessionScopeSensitive, -1)
		return
	}

	session.Set(SessionScopeSensitive, emailKey, u.Email)
	if remember {
		session.SetMaxAge(SessionScopeSensitive, int(c.RememberFor/time.Second))
	} else {
		session.SetMaxAge(SessionScopeSensitive, 0)
	}
}
