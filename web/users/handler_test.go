package users

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"
	"katb.in/katbin"
	"katb.in/katbin/internal/accounts"
	"katb.in/katbin/internal/auth"
	"katb.in/katbin/internal/credential"
	"katb.in/katbin/memory"
)

type recordingRenderer struct {
	status int
	obj    interface{}
	err    error
}

func (rr *recordingRenderer) Error(w http.ResponseWriter, r *http.Request, err error) {
	rr.err = err
	w.WriteHeader(599)
}

func (rr *recordingRenderer) Render(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	rr.status = status
	rr.obj = v
	w.WriteHeader(status)
}

type recordingLogin struct {
	user     *katbin.User
	remember bool
	calls    int
}

func (l *recordingLogin) GetLoggedInUser(*http.Request) *katbin.User { return l.user }
func (l *recordingLogin) SetLoggedInUser(w http.ResponseWriter, r *http.Request, u *katbin.User, remember bool) {
	l.user, l.remember = u, remember
	l.calls++
}

type flashRecorder struct {
	auth.Session
	flashes []auth.Flash
}

func (f *flashRecorder) AddFlash(scope auth.SessionScope, fl auth.Flash) { f.flashes = append(f.flashes, fl) }
func (f *flashRecorder) Save()                                          {}

type fixedSessions struct{ s *flashRecorder }

func (f fixedSessions) SessionForRequest(*http.Request) auth.Session { return f.s }

type fixture struct {
	router   *mux.Router
	users    *accounts.Service
	login    *recordingLogin
	renderer *recordingRenderer
	session  *flashRecorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		router:   mux.NewRouter(),
		users:    &accounts.Service{Users: memory.New(), Credentials: credential.Verifier{Cost: bcrypt.MinCost}},
		login:    &recordingLogin{},
		renderer: &recordingRenderer{},
		session:  &flashRecorder{},
	}
	NewHandler(f.users, f.login, fixedSessions{f.session}, f.renderer).BindRoutes(f.router)
	return f
}

func (f *fixture) post(target string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	return rr
}

func (f *fixture) lastFlash() auth.Flash {
	if len(f.session.flashes) == 0 {
		return auth.Flash{}
	}
	return f.session.flashes[len(f.session.flashes)-1]
}

func TestForms(t *testing.T) {
	f := newFixture(t)
	for target, want := range map[string]string{"/users/register": "user_register", "/users/login": "user_login"} {
		rr := httptest.NewRecorder()
		f.router.ServeHTTP(rr, httptest.NewRequest("GET", target, nil))
		page, ok := f.renderer.obj.(interface{ PageName() string })
		if rr.Code != http.StatusOK || !ok || page.PageName() != want {
			t.Errorf("%s: %d %#v", target, rr.Code, f.renderer.obj)
		}
	}
}

func TestRegister(t *testing.T) {
	f := newFixture(t)
	rr := f.post("/users/register", url.Values{"email": {"alice@example.com"}, "password": {"secret"}})
	if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != "/" {
		t.Fatalf("got %d to %q", rr.Code, rr.Header().Get("Location"))
	}
	if f.login.user == nil || f.login.user.Email != "alice@example.com" || f.login.remember {
		t.Errorf("login = %+v", f.login)
	}
	if _, err := f.users.GetUserByEmail(context.Background(), "alice@example.com"); err != nil {
		t.Errorf("user not stored: %v", err)
	}

	rr = f.post("/users/register", url.Values{"email": {"ALICE@example.com"}, "password": {"other"}})
	if rr.Code != http.StatusConflict {
		t.Errorf("duplicate status = %d", rr.Code)
	}
	if form, ok := f.renderer.obj.(*RegisterForm); !ok || form.Email != "ALICE@example.com" {
		t.Errorf("form = %#v", f.renderer.obj)
	}
	if fl := f.lastFlash(); fl.Kind != auth.FlashWarning {
		t.Errorf("flash = %+v", fl)
	}
}

func TestRegisterValidation(t *testing.T) {
	tests := map[string]url.Values{
		"no email":     {"email": {""}, "password": {"pw"}},
		"bad email":    {"email": {"alice"}, "password": {"pw"}},
		"no password":  {"email": {"a@example.com"}},
		"long":         {"email": {"a@example.com"}, "password": {strings.Repeat("p", 73)}},
		"confirmation": {"email": {"a@example.com"}, "password": {"pw"}, "password_confirmation": {"wp"}},
	}
	for name, form := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			rr := f.post("/users/register", form)
			if rr.Code != http.StatusBadRequest {
				t.Errorf("status = %d; want 400", rr.Code)
			}
			if f.login.calls != 0 {
				t.Error("logged in after a rejected registration")
			}
		})
	}
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	if _, err := f.users.Register(context.Background(), "bob@example.com", "right"); err != nil {
		t.Fatal(err)
	}

	for _, creds := range []url.Values{
		{"email": {"bob@example.com"}, "password": {"wrong"}},
		{"email": {"nobody@example.com"}, "password": {"right"}},
	} {
		rr := f.post("/users/login", creds)
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("%v: status = %d", creds, rr.Code)
		}
		if form, ok := f.renderer.obj.(*LoginForm); !ok || form.Email != creds.Get("email") {
			t.Errorf("form = %#v", f.renderer.obj)
		}
		if fl := f.lastFlash(); fl.Message != katbin.ErrInvalidCredentials.Error() {
			t.Errorf("flash = %+v", fl)
		}
	}
	if f.login.calls != 0 {
		t.Fatal("failed login changed the session")
	}

	rr := f.post("/users/login", url.Values{"email": {"bob@example.com"}, "password": {"right"}, "remember_me": {"on"}})
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d", rr.Code)
	}
	if f.login.user == nil || !f.login.remember {
		t.Errorf("login = %+v", f.login)
	}

	rr = f.post("/users/logout", url.Values{})
	if rr.Code != http.StatusSeeOther || f.login.user != nil {
		t.Errorf("logout: %d, %+v", rr.Code, f.login.user)
	}
}

type brokenUsers struct{ katbin.UserService }

func (brokenUsers) Authenticate(context.Context, string, string) (*katbin.User, error) {
	return nil, &katbin.VerificationError{Err: errors.New("bad hash")}
}

func TestLoginServerError(t *testing.T) {
	f := newFixture(t)
	router := mux.NewRouter()
	NewHandler(brokenUsers{}, f.login, nil, f.renderer).BindRoutes(router)

	req := httptest.NewRequest("POST", "/users/login", strings.NewReader("email=a%40b.c&password=x"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	router.ServeHTTP(httptest.NewRecorder(), req)

	var verr *katbin.VerificationError
	if !errors.As(f.renderer.err, &verr) {
		t.Errorf("err = %v", f.renderer.err)
	}
}
