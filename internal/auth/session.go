package auth

import "net/http"

type SessionScope int

const (
	// SessionScopeServer is the session scope for all server-backed sessions.
	// katbin configures no server-backed store; the scope exists so a store can
	// be added without changing callers.
	SessionScopeServer SessionScope = iota

	// SessionScopeClient is the session scope for all long-term client-backed sessions.
	// Since client sessions are included in every request, please use them sparingly.
	// Flash advisories live here.
	SessionScopeClient

	// SessionScopeSensitive is the session scope for the authentication cookie.
	// It is signed and carries only the logged-in email.
	SessionScopeSensitive
)

func (s SessionScope) String() string {
	switch s {
	case SessionScopeServer:
		return "server"
	case SessionScopeClient:
		return "client"
	case SessionScopeSensitive:
		return "sensitive"
	}
	return "unknown"
}

type FlashKind string

const (
	FlashInfo    FlashKind = "info"
	FlashWarning FlashKind = "warning"
)

// A Flash is a one-shot advisory shown on the next rendered page.
type Flash struct {
	Kind    FlashKind
	Message string
}

type Session interface {
	GetOk(scope SessionScope, key string) (interface{}, bool)
	Get(scope SessionScope, key string) interface{}

	Set(scope SessionScope, key string, val interface{})

	Delete(scope SessionScope, key string)

	// AddFlash queues a flash in scope; Flashes drains the queue.
	AddFlash(scope SessionScope, f Flash)
	Flashes(scope SessionScope) []Flash

	// SetMaxAge overrides the cookie lifetime for scope. Zero makes the
	// cookie last for the browser session; negative deletes it.
	SetMaxAge(scope SessionScope, seconds int)

	// MarkDirty will mark a session scope as dirty, forcing it to be saved.
	// This is only necessary when the session is storing object references
	// that can be updated without a call to Set.
	MarkDirty(scope SessionScope)

	// Save writes every dirty scope. It must be called before the response
	// header is written.
	Save()
}

type SessionService interface {
	SessionForRequest(r *http.Request) Session
}
