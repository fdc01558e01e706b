package services

import (
	"encoding/json"
	"net/http"
)

// WriteJSON writes v as the JSON response body with the given status code.
// Encoding failures are ignored; the status line has already been sent.
func WriteJSON(w http.ResponseWriter, v interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
