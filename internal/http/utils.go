package http

import (
	"encoding/json"
	"net/http"
)

// WriteJSONError writes an {"error": message} body with the given status
// code. Handlers use it for every non-2xx response so error payloads
// share one shape.
func WriteJSONError(w http.ResponseWriter, message string, statusCode int) {
	writeJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// writeJSON encodes v as the JSON response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
