package controllers

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"eventflow/internal/delivery/http/helpers"
)

// internalError logs err and writes a 500 without exposing it.
func internalError(logger *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal server error")
}

// validID reports whether s is a canonical UUID, the format of every row id.
func validID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil && len(s) == 36
}
