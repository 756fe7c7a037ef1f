package gorilla

import (
	"context"
	"encoding/gob"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/sessions"
	"github.com/sirupsen/logrus"
	"katb.in/katbin/internal/auth"
	"katb.in/katbin/internal/rayman"
)

func init() {
	gob.Register(auth.Flash{})
}

var scopeCookieName = map[auth.SessionScope]string{
	auth.SessionScopeServer:    "session",
	auth.SessionScopeClient:    "c_session",
	auth.SessionScopeSensitive: "authentication",
}

var _ auth.SessionService = &SessionService{}

type SessionService struct {
	stores map[auth.SessionScope]sessions.Store
}

func (b *SessionService) getSessionStore(scope auth.SessionScope) (sessions.Store, bool) {
	store, ok := b.stores[scope]
	return store, ok
}

func (b *SessionService) Handler(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session := &session{
			broker: b,
			writer: w,
		}
		r = r.WithContext(context.WithValue(r.Context(), b, session))
		session.request = r // r changed with the context attach

		handler.ServeHTTP(w, r)
	})
}

func (b *SessionService) SessionForRequest(r *http.Request) auth.Session {
	if ses, ok := r.Context().Value(b).(*session); ok {
		return ses
	}
	return nil
}

func NewSessionService(stores map[auth.SessionScope]sessions.Store) *SessionService {
	return &SessionService{
		stores: stores,
	}
}

type session struct {
	mutex sync.RWMutex

	broker *SessionService

	sessions map[auth.SessionScope]*sessions.Session

	dirty map[auth.SessionScope]bool

	writer  http.ResponseWriter
	request *http.Request
}

func (s *session) logFailure(scope auth.SessionScope, operation, key string, err error) {
	rayman.RequestLogger(s.request).WithFields(logrus.Fields{
		"scope":     scope,
		"key":       key,
		"operation": operation,
	}).Error(err)
}

func (s *session) Save() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for scope, dirty := range s.dirty {
		if !dirty {
			continue
		}

		ses, ok := s.sessions[scope]
		if !ok {
			// we can get here if a session was marked dirty without being loaded.
			continue
		}
		if err := ses.Save(s.request, s.writer); err != nil {
			s.logFailure(scope, "save", "", err)
			continue
		}
		s.dirty[scope] = false
	}
}

func (s *session) getGorillaSession(scope auth.SessionScope) (*sessions.Session, error) {
	s.mutex.RLock()
	session, ok := s.sessions[scope]
	s.mutex.RUnlock()

	if !ok {
		s.mutex.Lock()
		defer s.mutex.Unlock()

		// Double-checked locking/promote
		session, ok = s.sessions[scope]
		if !ok {
			store, ok := s.broker.getSessionStore(scope)
			if !ok {
				return nil, fmt.Errorf("sessions: unknown scope %v", scope)
			}
			var err error // Using := below will create a new `session' in scope.
			session, err = store.Get(s.request, scopeCookieName[scope])
			if err != nil {
				// A cookie that fails verification still yields a fresh
				// session; the stale cookie is replaced on the next save.
				s.logFailure(scope, "load", "", err)
				if session == nil {
					return nil, err
				}
			}

			if s.sessions == nil {
				s.sessions = make(map[auth.SessionScope]*sessions.Session)
			}

			s.sessions[scope] = session
		}
	}
	return session, nil
}

func (s *session) markDirtyLocked(scope auth.SessionScope) {
	if s.dirty == nil {
		s.dirty = make(map[auth.SessionScope]bool)
	}
	s.dirty[scope] = true
}

func (s *session) GetOk(scope auth.SessionScope, key string) (interface{}, bool) {
	store, err := s.getGorillaSession(scope)
	if err != nil {
		s.logFailure(scope, "get", key, err)
		return nil, false
	}

	s.mutex.RLock()
	defer s.mutex.RUnlock()

	val, ok := store.Values[key]
	return val, ok
}

func (s *session) Get(scope auth.SessionScope, key string) interface{} {
	val, _ := s.GetOk(scope, key)
	return val
}

func (s *session) Set(scope auth.SessionScope, key string, val interface{}) {
	store, err := s.getGorillaSession(scope)
	if err != nil {
		s.logFailure(scope, "set", key, err)
		return
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	store.Values[key] = val
	s.markDirtyLocked(scope)
}

// MarkDirty will mark a session scope as dirty, forcing it to be saved.
// This is only necessary when the session is storing object references
// that can be updated without a call to Set.
func (s *session) MarkDirty(scope auth.SessionScope) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.markDirtyLocked(scope)
}

func (s *session) Delete(scope auth.SessionScope, key string) {
	store, err := s.getGorillaSession(scope)
	if err != nil {
		s.logFailure(scope, "delete", key, err)
		return
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	_, existed := store.Values[key]
	delete(store.Values, key)

	// If it didn't exist, don't dirty the session.
	if existed {
		s.markDirtyLocked(scope)
	}
}

func (s *session) AddFlash(scope auth.SessionScope, f auth.Flash) {
	store, err := s.getGorillaSession(scope)
	if err != nil {
		s.logFailure(scope, "flash", "", err)
		return
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	store.AddFlash(f)
	s.markDirtyLocked(scope)
}

func (s *session) Flashes(scope auth.SessionScope) []auth.Flash {
	store, err := s.getGorillaSession(scope)
	if err != nil {
		s.logFailure(scope, "flashes", "", err)
		return nil
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	raw := store.Flashes()
	if len(raw) == 0 {
		return nil
	}
	s.markDirtyLocked(scope)

	flashes := make([]auth.Flash, 0, len(raw))
	for _, v := range raw {
		if f, ok := v.(auth.Flash); ok {
			flashes = append(flashes, f)
		}
	}
	return flashes
}

func (s *session) SetMaxAge(scope auth.SessionScope, seconds int) {
	store, err := s.getGorillaSession(scope)
	if err != nil {
		s.logFailure(scope, "max-age", "", err)
		return
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	var opts sessions.Options
	if store.Options != nil {
		opts = *store.Options
	}
	opts.MaxAge = seconds
	store.Options = &opts
	s.markDirtyLocked(scope)
}
