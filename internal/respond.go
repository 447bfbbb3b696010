package internal

import (
	"encoding/json"
	"log"
	"net/http"

	"project-tracker-api/internal/validate"
)

// errorResponse is the envelope for all error responses. Details is only
// populated for schema validation failures.
type errorResponse struct {
	Error   string                `json:"error"`
	Details []validate.FieldError `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeValidationError(w http.ResponseWriter, msg string, details []validate.FieldError) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg, Details: details})
}

// writeServerError logs the underlying failure with context and returns a
// generic message to the caller.
func writeServerError(w http.ResponseWriter, op string, err error) {
	log.Printf("%s: %v", op, err)
	writeError(w, http.StatusInternalServerError, "unexpected error")
}
