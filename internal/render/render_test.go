package render

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"katb.in/katbin"
	"katb.in/katbin/internal/auth"
	"katb.in/katbin/internal/templatepack"
)

type greeting struct {
	Name string `json:"name"`
}

func (greeting) PageName() string { return "greeting" }

type fakeLogin struct{ user *katbin.User }

func (f fakeLogin) GetLoggedInUser(*http.Request) *katbin.User { return f.user }
func (f fakeLogin) SetLoggedInUser(http.ResponseWriter, *http.Request, *katbin.User, bool) {}

type flashSession struct {
	auth.Session
	pending []auth.Flash
	saved   bool
}

func (f *flashSession) Flashes(auth.SessionScope) []auth.Flash {
	p := f.pending
	f.pending = nil
	return p
}
func (f *flashSession) Save() { f.saved = true }

type oneSession struct{ s *flashSession }

func (o oneSession) SessionForRequest(*http.Request) auth.Session { return o.s }

func newHTML(t *testing.T, user *katbin.User, s *flashSession) *HTML {
	t.Helper()
	pack, err := templatepack.New("testdata/*.tmpl")
	if err != nil {
		t.Fatal(err)
	}
	return &HTML{Pack: pack, Sessions: oneSession{s}, Login: fakeLogin{user}}
}

func TestHTMLRender(t *testing.T) {
	s := &flashSession{pending: []auth.Flash{{Kind: auth.FlashInfo, Message: "saved"}}}
	h := newHTML(t, &katbin.User{Email: "a@example.com"}, s)

	rr := httptest.NewRecorder()
	h.Render(rr, httptest.NewRequest("GET", "/", nil), http.StatusCreated, greeting{"bob"})

	if rr.Code != http.StatusCreated {
		t.Errorf("status = %d", rr.Code)
	}
	if got, want := rr.Body.String(), "[a@example.com](info:saved)hello bob"; got != want {
		t.Errorf("body = %q; want %q", got, want)
	}
	if !s.saved {
		t.Error("session not saved after consuming flashes")
	}
}

func TestHTMLError(t *testing.T) {
	h := newHTML(t, nil, &flashSession{})
	tests := []struct {
		err    error
		status int
		body   string
	}{
		{katbin.ErrNotFound, 404, "404 That paste doesn&#39;t exist."},
		{&katbin.StorageError{Op: "x", Err: errors.New("secret")}, 500, "500 Something went wrong on our end."},
	}
	for _, tt := range tests {
		rr := httptest.NewRecorder()
		h.Error(rr, httptest.NewRequest("GET", "/", nil), tt.err)
		if rr.Code != tt.status || rr.Body.String() != tt.body {
			t.Errorf("%v: got %d %q; want %d %q", tt.err, rr.Code, rr.Body.String(), tt.status, tt.body)
		}
	}
}

func TestHTMLTemplateFailure(t *testing.T) {
	pack, err := templatepack.New("testdata/nopage/*.tmpl")
	if err != nil {
		t.Fatal(err)
	}
	h := &HTML{Pack: pack}
	rr := httptest.NewRecorder()
	h.Render(rr, httptest.NewRequest("GET", "/", nil), http.StatusOK, greeting{"bob"})
	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status = %d; want 500", rr.Code)
	}
}

func TestHTMLNotAPage(t *testing.T) {
	h := newHTML(t, nil, &flashSession{})
	rr := httptest.NewRecorder()
	h.Render(rr, httptest.NewRequest("GET", "/", nil), http.StatusOK, 42)
	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status = %d; want 500", rr.Code)
	}
}

func TestNegotiator(t *testing.T) {
	n := &Negotiator{Default: newHTML(t, nil, &flashSession{}), JSON: JSON{}}

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Accept", "text/html;q=0.9, application/json")
	rr := httptest.NewRecorder()
	n.Render(rr, req, http.StatusOK, greeting{"bob"})

	var body struct {
		Object greeting `json:"object"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("%v: %s", err, rr.Body.String())
	}
	if body.Object.Name != "bob" {
		t.Errorf("object = %+v", body.Object)
	}

	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Accept", "application/json")
	rr = httptest.NewRecorder()
	n.Error(rr, req, katbin.ErrInvalidCredentials)
	if rr.Code != http.StatusUnauthorized || rr.Body.String() != `{"error":"invalid email or password"}` {
		t.Errorf("got %d %s", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	n.Render(rr, httptest.NewRequest("GET", "/", nil), http.StatusOK, greeting{"carol"})
	if rr.Body.String() != "hello carol" {
		t.Errorf("html body = %q", rr.Body.String())
	}
}
