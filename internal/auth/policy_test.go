package auth

import (
	"testing"

	"katb.in/katbin"
)

func owned(id katbin.UserID) *katbin.UserID {
	return &id
}

func TestMayChooseID(t *testing.T) {
	if MayChooseID(nil) {
		t.Error("anonymous caller may choose an id")
	}
	if !MayChooseID(&katbin.User{ID: 1}) {
		t.Error("authenticated caller may not choose an id")
	}
}

func TestCanEdit(t *testing.T) {
	alice := &katbin.User{ID: 1}
	bob := &katbin.User{ID: 2}

	tests := []struct {
		name     string
		identity *katbin.User
		paste    *katbin.Paste
		want     bool
	}{
		{"owner", alice, &katbin.Paste{ID: "a", Owner: owned(1)}, true},
		{"foreign", bob, &katbin.Paste{ID: "a", Owner: owned(1)}, false},
		{"anonymous caller", nil, &katbin.Paste{ID: "a", Owner: owned(1)}, false},
		{"anonymous paste", alice, &katbin.Paste{ID: "a"}, false},
		{"both anonymous", nil, &katbin.Paste{ID: "a"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanEdit(tt.identity, tt.paste); got != tt.want {
				t.Errorf("CanEdit = %v; want %v", got, tt.want)
			}
		})
	}
}

func TestDecideView(t *testing.T) {
	link := &katbin.Paste{ID: "l", Content: "https://example.com", IsURL: true}
	text := &katbin.Paste{ID: "t", Content: "hello"}

	if d := DecideView(link, false); d != ViewRedirect {
		t.Errorf("url paste on show path: %v", d)
	}
	if d := DecideView(link, true); d != ViewRender {
		t.Errorf("url paste on view path: %v", d)
	}
	if d := DecideView(text, false); d != ViewRender {
		t.Errorf("text paste: %v", d)
	}
}
