package handler

import (
	"encoding/json"
	"net/http"

	"app/internal/apperr"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps the error's kind to a status code. Internal details are
// masked; only typed messages reach the client.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, apperr.StatusCode(err), errorBody{Success: false, Message: apperr.Message(err)})
}
