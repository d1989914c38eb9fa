package http

import (
	"encoding/json"
	"net/http"
)

// envelope is the response shape shared by every endpoint:
// {success: bool, message?, ...payload}.
type envelope map[string]any

// FieldError reports one invalid request field, express-validator style.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, payload envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondSuccess(w http.ResponseWriter, status int, payload envelope) {
	body := envelope{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	respondJSON(w, status, body)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, envelope{"success": false, "message": message})
}

func respondValidationErrors(w http.ResponseWriter, errs []FieldError) {
	respondJSON(w, http.StatusBadRequest, envelope{"success": false, "errors": errs})
}
