package rayman

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestContextLoggerDefault(t *testing.T) {
	l := ContextLogger(context.Background())
	if l == nil {
		t.Fatal("nil logger")
	}
	l.WithField("x", 1).Error("this is discarded")
}

func TestLoggingMiddleware(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := logrus.New()
	logger.Out = buf
	logger.Formatter = &logrus.TextFormatter{DisableColors: true}

	var seen ID
	h := LoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := FromRequest(r)
		if !ok {
			t.Error("request has no ray")
		}
		seen = id
		RequestLogger(r).Info("hello")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/abc", nil))

	if seen == "" {
		t.Fatal("empty ray id")
	}
	if rr.Header().Get("X-Ray-Id") != string(seen) {
		t.Errorf("X-Ray-Id = %q; want %q", rr.Header().Get("X-Ray-Id"), seen)
	}
	out := buf.String()
	if !strings.Contains(out, string(seen)) || !strings.Contains(out, "path=/abc") {
		t.Errorf("log line lacks ray fields: %s", out)
	}
}

func TestRaysAreDistinct(t *testing.T) {
	a, _ := FromContext(ContextWithRay(context.Background()))
	b, _ := FromContext(ContextWithRay(context.Background()))
	if a == b {
		t.Errorf("two rays share id %v", a)
	}
}
