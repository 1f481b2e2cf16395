package httpserver

import (
	"encoding/json"
	"net/http"
	"strings"

	"authbox/backend/internal/validation"
)

type messageResponse struct {
	Message string `json:"message"`
}

type tokenResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

type fieldErrorsResponse struct {
	Errors []validation.FieldError `json:"errors"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, messageResponse{Message: message})
}

func writeFieldErrors(w http.ResponseWriter, fields []validation.FieldError) {
	writeJSON(w, http.StatusBadRequest, fieldErrorsResponse{Errors: fields})
}

func writeMethodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeMessage(w, http.StatusMethodNotAllowed, "method not allowed")
}
