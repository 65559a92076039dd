package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"budget/internal/core"
	"budget/internal/log"
	"budget/internal/services"
)

// NotificationType mirrors the notice levels a UI shows after an action.
type NotificationType string

const (
	NotificationSuccess NotificationType = "success"
	NotificationError   NotificationType = "error"
	NotificationInfo    NotificationType = "info"
)

// Notice is the user-facing message attached to every mutation response.
type Notice struct {
	Type    NotificationType `json:"type"`
	Message string           `json:"message"`
}

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorBody{Error: message})
}

// statusFor maps service errors to HTTP status codes. Anything the client
// can fix is a 400; the rest is a server fault.
func statusFor(err error) int {
	var fe *fieldError
	switch {
	case errors.As(err, &fe),
		errors.Is(err, core.ErrEmptyEventName),
		errors.Is(err, core.ErrInvalidQuantity),
		errors.Is(err, core.ErrNegativePrice),
		errors.Is(err, core.ErrInvalidPrice),
		errors.Is(err, services.ErrUnknownExportTarget):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrNothingToExport):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs server faults and writes the error body. Internal
// error details are not echoed to the client.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed",
			log.FieldPath, r.URL.Path, log.FieldError, err)
		writeError(w, status, "internal error")
		return
	}
	writeError(w, status, err.Error())
}
