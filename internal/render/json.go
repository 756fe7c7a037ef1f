package render

import (
	"encoding/json"
	"net/http"

	"katb.in/katbin/internal/rayman"
	"katb.in/katbin/web"
)

var _ web.Renderer = JSON{}

type JSON struct{}

func (JSON) write(w http.ResponseWriter, r *http.Request, status int, body interface{}) {
	d, err := json.Marshal(body)
	if err != nil {
		rayman.RequestLogger(r).WithError(err).Error("failed to encode response")
		status = http.StatusInternalServerError
		d = []byte(`{"error":"internal server error"}`)
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(d)
}

func (j JSON) Error(w http.ResponseWriter, r *http.Request, err error) {
	status := web.StatusForError(err)
	if status >= 500 {
		rayman.RequestLogger(r).WithError(err).Error("request failed")
	}
	j.write(w, r, status, map[string]string{
		"error": web.PublicMessage(err),
	})
}

func (j JSON) Render(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	j.write(w, r, status, map[string]interface{}{
		"object": v,
	})
}
