package httpadapter

import (
	"log/slog"
	"net/http"

	"github.com/kirillkom/plagiarism-report/internal/core/domain"
)

var errorKinds = []struct {
	kind   error
	status int
}{
	{domain.ErrInvalidInput, http.StatusBadRequest},
	{domain.ErrUnsupportedFile, http.StatusBadRequest},
	{domain.ErrExtraction, http.StatusUnprocessableEntity},
	{domain.ErrUnauthorized, http.StatusUnauthorized},
	{domain.ErrDocumentNotFound, http.StatusNotFound},
	{domain.ErrResultNotFound, http.StatusNotFound},
	{domain.ErrUserNotFound, http.StatusNotFound},
	{domain.ErrConflict, http.StatusConflict},
	{domain.ErrTemporary, http.StatusServiceUnavailable},
}

func mapErrorToHTTPStatus(err error) int {
	for _, k := range errorKinds {
		if domain.IsKind(err, k.kind) {
			return k.status
		}
	}
	return http.StatusInternalServerError
}

// errorMessage prefers the user-facing message, then the name of the error
// kind. Internal details never leave the process.
func errorMessage(err error, status int) string {
	if msg := domain.UserMessage(err, ""); msg != "" {
		return msg
	}
	for _, k := range errorKinds {
		if domain.IsKind(err, k.kind) {
			return k.kind.Error()
		}
	}
	if status >= http.StatusInternalServerError {
		return "internal server error"
	}
	return http.StatusText(status)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := mapErrorToHTTPStatus(err)
	if status >= http.StatusInternalServerError {
		slog.Error("request_failed",
			"request_id", requestIDFromContext(r.Context()),
			"path", r.URL.Path,
			"status", status,
			"error", err,
		)
	}
	writeJSON(w, status, map[string]string{"error": errorMessage(err, status)})
}
