package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/ariefcatur/restaurant-delivery/internal/apperr"
	"github.com/ariefcatur/restaurant-delivery/internal/metrics"
)

type Response struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

const unauthorizedMessage = "User is not authenticated or token is revoked."

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeOK(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, Response{Status: "Success", Message: message})
}

// statusOf maps an error kind to its HTTP status and response title.
func statusOf(err error) (int, string) {
	switch {
	case errors.Is(err, apperr.ErrUnauthenticated), errors.Is(err, apperr.ErrTokenExpired):
		return http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, apperr.ErrInvalidRequest), errors.Is(err, apperr.ErrEmptyBasket):
		return http.StatusBadRequest, "Bad Request"
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound, "Not Found"
	case errors.Is(err, apperr.ErrAlreadyDelivered):
		return http.StatusConflict, "Conflict"
	default:
		return http.StatusInternalServerError, "Error"
	}
}

// writeError answers with the mapped status. Internal failures are logged in
// full and reported with a generic message; authentication failures never
// reveal their cause.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code, title := statusOf(err)
	msg := err.Error()
	switch code {
	case http.StatusInternalServerError:
		h.Logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		msg = "An unexpected error occurred."
	case http.StatusUnauthorized:
		h.Logger.Debug("request unauthenticated", zap.String("path", r.URL.Path), zap.Error(err))
		msg = unauthorizedMessage
	}
	writeJSON(w, code, Response{Status: title, Message: msg})
}

// record counts an operation outcome: success, rejected for client errors,
// error for everything else.
func record(operation string, err error) {
	status := "success"
	if err != nil {
		status = "error"
		if code, _ := statusOf(err); code < http.StatusInternalServerError {
			status = "rejected"
		}
	}
	metrics.RecordOrderOperation(operation, status)
}
