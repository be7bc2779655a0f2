package response

import (
	"encoding/json"
	"log"
	"net/http"

	"mysolution-web/internal/api"
	"mysolution-web/internal/locale"
)

func JSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// Raw writes an already encoded JSON body as is.
func Raw(w http.ResponseWriter, body json.RawMessage) {
	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

// Error answers with the backend's envelope shape and a message in the
// visitor's locale.
func Error(w http.ResponseWriter, r *http.Request, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(api.Envelope[any]{
		Code:    status,
		Message: locale.StatusMessage(locale.Detect(r), status),
	})
}

// Upstream keeps the backend's status for HTTP errors; transport and decode
// failures become 502.
func Upstream(w http.ResponseWriter, r *http.Request, err error) {
	status := api.StatusCode(err)
	if status == 0 {
		log.Printf("❌ upstream %s %s: %v", r.Method, r.URL.Path, err)
		status = http.StatusBadGateway
	}
	Error(w, r, status)
}
