package auth

import "katb.in/katbin"

// MayChooseID reports whether identity may pick a custom paste identifier.
func MayChooseID(identity *katbin.User) bool {
	return identity != nil
}

// CanEdit reports whether identity owns p. Anonymous pastes are editable by
// no one.
func CanEdit(identity *katbin.User, p *katbin.Paste) bool {
	return p.OwnedBy(identity)
}

type ViewDecision int

const (
	ViewRender ViewDecision = iota
	ViewRedirect
)

func (d ViewDecision) String() string {
	if d == ViewRedirect {
		return "redirect"
	}
	return "render"
}

// DecideView chooses between rendering p and redirecting to its content.
// explicitView is true on the /v/ path, which always renders.
func DecideView(p *katbin.Paste, explicitView bool) ViewDecision {
	if p.IsURL && !explicitView {
		return ViewRedirect
	}
	return ViewRender
}
