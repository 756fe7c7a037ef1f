// Package urlclass decides whether a paste body is a URL worth redirecting to.
package urlclass

import (
	"net/url"
	"strings"
)

var allowedSchemes = map[string]bool{
	"http":   true,
	"https":  true,
	"mailto": true,
}

type Classifier struct {
	// ExcludedHost is the site's own domain. Links into it are never
	// redirects, which keeps a paste from bouncing back into the site.
	ExcludedHost string
}

func New(excludedHost string) Classifier {
	return Classifier{ExcludedHost: strings.ToLower(excludedHost)}
}

func hostOf(u *url.URL) string {
	if u.Scheme == "mailto" && u.Opaque != "" {
		addr := u.Opaque
		if i := strings.IndexAny(addr, "?#"); i != -1 {
			addr = addr[:i]
		}
		if i := strings.LastIndexByte(addr, '@'); i != -1 {
			return addr[i+1:]
		}
		return ""
	}
	return u.Hostname()
}

func (c Classifier) IsURL(content string) bool {
	u, err := url.Parse(strings.TrimSpace(content))
	if err != nil || !u.IsAbs() {
		return false
	}

	if !allowedSchemes[u.Scheme] {
		return false
	}

	host := strings.ToLower(hostOf(u))
	if host == "" || !strings.Contains(host, ".") {
		return false
	}

	if c.ExcludedHost != "" && strings.Contains(host, c.ExcludedHost) {
		return false
	}
	return true
}
