// Package four replaces the bare "404 page not found" body that net/http and
// gorilla/mux emit with a rendered page.
package four

import (
	"bytes"
	"net/http"
)

var defaultNotFoundBody = []byte("404 page not found\n")

// consumerWriter holds back a 404 header until the first write shows whether
// the body is the stock one.
type consumerWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
	tripped     bool
}

func (w *consumerWriter) WriteHeader(status int) {
	if w.wroteHeader || w.statusCode != 0 {
		return
	}
	w.statusCode = status
	if status != http.StatusNotFound {
		w.wroteHeader = true
		w.ResponseWriter.WriteHeader(status)
	}
}

func (w *consumerWriter) Write(p []byte) (int, error) {
	if w.tripped {
		return len(p), nil
	}
	if w.statusCode == http.StatusNotFound && !w.wroteHeader {
		if bytes.Equal(p, defaultNotFoundBody) {
			w.tripped = true
			return len(p), nil
		}
		w.wroteHeader = true
		w.ResponseWriter.WriteHeader(http.StatusNotFound)
	}
	return w.ResponseWriter.Write(p)
}

func (w *consumerWriter) finish() {
	if w.statusCode == http.StatusNotFound && !w.wroteHeader && !w.tripped {
		w.ResponseWriter.WriteHeader(http.StatusNotFound)
	}
}

type consumerHandler struct {
	http.Handler
	errorHandler http.Handler
}

func (h *consumerHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writer := &consumerWriter{ResponseWriter: w}
	h.Handler.ServeHTTP(writer, r)
	if writer.tripped {
		// http.NotFound already claimed the body as plain text.
		w.Header().Del("X-Content-Type-Options")
		w.Header().Del("Content-Type")
		h.errorHandler.ServeHTTP(w, r)
		return
	}
	writer.finish()
}

// WrapHandler returns a new http.Handler that invokes errorHandler when orig would
// have rendered a stock 404.
func WrapHandler(orig http.Handler, errorHandler http.Handler) http.Handler {
	return &consumerHandler{orig, errorHandler}
}
