package render

import (
	"net/http"
	"strings"

	"katb.in/katbin/web"
)

var _ web.Renderer = &Negotiator{}

// Negotiator answers with JSON when the client asks for it and with Default
// otherwise.
type Negotiator struct {
	Default web.Renderer
	JSON    web.Renderer
}

func wantsJSON(r *http.Request) bool {
	for _, accept := range r.Header.Values("Accept") {
		for _, part := range strings.Split(accept, ",") {
			mediaType := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
			if mediaType == "application/json" {
				return true
			}
		}
	}
	return false
}

func (n *Negotiator) pick(r *http.Request) web.Renderer {
	if n.JSON != nil && wantsJSON(r) {
		return n.JSON
	}
	return n.Default
}

func (n *Negotiator) Error(w http.ResponseWriter, r *http.Request, err error) {
	n.pick(r).Error(w, r, err)
}

func (n *Negotiator) Render(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	n.pick(r).Render(w, r, status, v)
}
