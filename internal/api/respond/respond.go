// Package respond writes JSON envelopes and error bodies.
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dom/dietlog/internal/api/validate"
)

type ErrorResponse struct {
	Error  string           `json:"error"`
	Issues []validate.Issue `json:"issues,omitempty"`
}

func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ErrorResponse{Error: message})
}

// Invalid answers a failed parse with 400 and the offending fields.
func Invalid(w http.ResponseWriter, issues []validate.Issue) {
	JSON(w, http.StatusBadRequest, ErrorResponse{Error: "Validation error.", Issues: issues})
}

// Created answers a write with 201 and no body.
func Created(w http.ResponseWriter) {
	w.WriteHeader(http.StatusCreated)
}
