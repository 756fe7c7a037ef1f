package web

import "github.com/gorilla/mux"

// A Routable attaches its handlers to a router. Handlers that share a router
// must not register overlapping paths.
type Routable interface {
	BindRoutes(*mux.Router) error
}
