package rayman

import (
	"net/http"

	"github.com/sirupsen/logrus"
)

func RequestWithRay(r *http.Request) *http.Request {
	return r.WithContext(ContextWithRay(r.Context()))
}

func FromRequest(r *http.Request) (ID, bool) {
	return FromContext(r.Context())
}

func RequestLogger(r *http.Request) logrus.FieldLogger {
	return ContextLogger(r.Context())
}

// LoggingMiddleware assigns a ray to each request and binds a logger carrying
// the ray and path.
func LoggingMiddleware(logger logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r = RequestWithRay(r)
			ctx := r.Context()
			rid, _ := FromContext(ctx)
			rayedLogger := logger.WithFields(logrus.Fields{
				"ray":  rid,
				"path": r.URL.Path,
			})
			w.Header().Set("X-Ray-Id", string(rid))
			h.ServeHTTP(w, r.WithContext(ContextWithLogger(ctx, rayedLogger)))
		})
	}
}
