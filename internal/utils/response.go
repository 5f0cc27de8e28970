package utils

import (
	"encoding/json"
	"net/http"

	"github.com/devpatel-io/taskflow/internal/validation"
)

type Payload struct {
	Success bool                    `json:"success"`
	Message string                  `json:"message,omitempty"`
	Data    any                     `json:"data,omitempty"`
	Errors  []validation.FieldError `json:"errors,omitempty"`
}

// JSONResponse sends a JSON response with given status, success flag, and payload
func JSONResponse(w http.ResponseWriter, status int, payload Payload) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// ValidationFailed sends the standard 400 envelope carrying every field
// violation.
func ValidationFailed(w http.ResponseWriter, errs []validation.FieldError) {
	JSONResponse(w, http.StatusBadRequest, Payload{
		Success: false,
		Message: "Validation failed",
		Errors:  errs,
	})
}
