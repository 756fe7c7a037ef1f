package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/justinas/alice"
	"github.com/sirupsen/logrus"
	"katb.in/katbin"
	"katb.in/katbin/internal/accounts"
	"katb.in/katbin/internal/auth"
	"katb.in/katbin/internal/ctxbound"
	"katb.in/katbin/internal/four"
	"katb.in/katbin/internal/gorilla"
	"katb.in/katbin/internal/pastes"
	"katb.in/katbin/internal/rayman"
	"katb.in/katbin/internal/render"
	"katb.in/katbin/internal/templatepack"
	"katb.in/katbin/internal/urlclass"
	"katb.in/katbin/memory"
	"katb.in/katbin/sqlstore"
	"katb.in/katbin/web"
	webpastes "katb.in/katbin/web/pastes"
	"katb.in/katbin/web/users"
)

type backend struct {
	pastes katbin.PasteRepository
	users  katbin.UserRepository
	closer io.Closer
}

func (b *backend) Close() error {
	if b.closer == nil {
		return nil
	}
	return b.closer.Close()
}

func openBackend(ctx context.Context, c *katbin.Configuration, logger logrus.FieldLogger) (*backend, error) {
	if c.Database.Dialect == "memory" {
		logger.Warn("using the in-memory store; nothing will survive a restart")
		store := memory.New()
		return &backend{pastes: store, users: store}, nil
	}

	p, err := sqlstore.Open(ctx, c.Database.Dialect, c.Database.Connection,
		sqlstore.WithLogger(logger.WithField("ctx", "sqlstore")))
	if err != nil {
		return nil, err
	}
	return &backend{pastes: p, users: p, closer: p}, nil
}

// sessionKey decodes a configured key. Outside dev an empty key is an error;
// in dev a random one is generated, which logs everyone out on restart.
func sessionKey(name, value, env string, logger logrus.FieldLogger) ([]byte, error) {
	if value == "" {
		if env != "dev" {
			return nil, fmt.Errorf("sessions.%s must be set in the %s environment", name, env)
		}
		logger.Warnf("sessions.%s is unset; generating a temporary key", name)
		return securecookie.GenerateRandomKey(32), nil
	}
	key, err := hex.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("sessions.%s: %w", name, err)
	}
	if len(key) != 32 && len(key) != 64 {
		return nil, fmt.Errorf("sessions.%s must decode to 32 or 64 bytes, not %d", name, len(key))
	}
	return key, nil
}

func cookieStore(key []byte, c *katbin.Configuration) *sessions.CookieStore {
	store := sessions.NewCookieStore(key)
	store.Options.Path = "/"
	store.Options.HttpOnly = true
	store.Options.Secure = c.Sessions.Secure
	store.Options.SameSite = http.SameSiteLaxMode
	return store
}

func newHandler(c *katbin.Configuration, env string, b *backend, logger *logrus.Logger) (http.Handler, error) {
	authKey, err := sessionKey("authentication_key", c.Sessions.AuthenticationKey, env, logger)
	if err != nil {
		return nil, err
	}
	clientKey, err := sessionKey("client_key", c.Sessions.ClientKey, env, logger)
	if err != nil {
		return nil, err
	}

	rememberFor := time.Duration(c.Sessions.RememberFor)
	sensitiveStore := cookieStore(authKey, c)
	// The codec has to accept cookies as old as the longest login; the cookie
	// itself lasts for the browser session unless remembered.
	sensitiveStore.MaxAge(int(rememberFor / time.Second))
	sensitiveStore.Options.MaxAge = 0
	clientStore := cookieStore(clientKey, c)
	clientStore.Options.MaxAge = 0

	sessionService := gorilla.NewSessionService(map[auth.SessionScope]sessions.Store{
		auth.SessionScopeClient:    clientStore,
		auth.SessionScopeSensitive: sensitiveStore,
	})

	userService := &accounts.Service{Users: b.users}
	pasteService := &pastes.Service{
		Repository: b.pastes,
		Classifier: urlclass.New(c.Application.Domain),
	}
	login := &ctxbound.LoginService{LoginService: &auth.CookieLoginService{
		Sessions:    sessionService,
		Resolver:    &auth.SessionResolver{Users: userService},
		RememberFor: rememberFor,
	}}

	pack, err := templatepack.New(c.Web.Templates)
	if err != nil {
		return nil, fmt.Errorf("templates: %w", err)
	}
	html := &render.HTML{Pack: pack, Sessions: sessionService, Login: login}
	renderer := &render.Negotiator{Default: html, JSON: render.JSON{}}

	router := mux.NewRouter()
	router.PathPrefix("/static/").
		Handler(http.StripPrefix("/static/", http.FileServer(http.Dir(c.Web.Static))))

	pasteHandler := webpastes.NewHandler(pasteService, login, sessionService, renderer)
	pasteHandler.MaxPasteSize = c.Application.Limits.PasteSize
	for _, routable := range []web.Routable{
		users.NewHandler(userService, login, sessionService, renderer),
		pasteHandler,
	} {
		if err := routable.BindRoutes(router); err != nil {
			return nil, err
		}
	}

	stack := alice.New(
		rayman.LoggingMiddleware(logger),
		handlers.RecoveryHandler(handlers.RecoveryLogger(logger), handlers.PrintRecoveryStack(true)),
		sessionService.Handler,
		login.Middleware,
	)
	handler := stack.Then(four.WrapHandler(router, html.NotFound()))
	handler = handlers.CombinedLoggingHandler(logger.WriterLevel(logrus.InfoLevel), handler)
	if c.Web.Proxied {
		handler = handlers.ProxyHeaders(handler)
	}
	return handler, nil
}
