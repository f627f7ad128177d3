package http

import (
	"net/http"

	"github.com/tair/acme-store/internal/favorites/domain"
	"github.com/tair/acme-store/pkg/logger"
)

const internalErrorMessage = "internal server error"

// errorResponse is the body of every error reply
type errorResponse struct {
	Error string `json:"error"`
}

var kindStatus = map[domain.Kind]int{
	domain.KindValidation:  http.StatusBadRequest,
	domain.KindConflict:    http.StatusConflict,
	domain.KindReference:   http.StatusUnprocessableEntity,
	domain.KindUnavailable: http.StatusServiceUnavailable,
}

// statusFor maps a repository error to an HTTP status code
func statusFor(err error) int {
	if status, ok := kindStatus[domain.KindOf(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// respondError writes {"error": msg} for err. Unclassified errors are logged
// and answered with a generic message.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)

	msg := domain.MessageOf(err)
	if status == http.StatusInternalServerError || msg == "" {
		msg = internalErrorMessage
	}

	if status >= http.StatusInternalServerError {
		logger.Error(r.Context()).
			Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Msg("Request failed")
	}

	respondJSON(w, status, errorResponse{Error: msg})
}
