package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/clubs/modules/clubs/services"
	"github.com/iota-uz/clubs/pkg/composables"
	"github.com/iota-uz/clubs/pkg/httpapi"
	"github.com/iota-uz/clubs/pkg/serrors"
)

const (
	codeInvalidRequest = "CLUBS_INVALID_REQUEST"
	codeInternal       = "CLUBS_INTERNAL"
)

var serviceErrorStatus = map[string]int{
	services.CodeNoFile:          http.StatusBadRequest,
	services.CodeNoClub:          http.StatusBadRequest,
	services.CodeUnsupportedType: http.StatusUnsupportedMediaType,
	services.CodeFileTooLarge:    http.StatusRequestEntityTooLarge,
	services.CodeNoNames:         http.StatusUnprocessableEntity,
	services.CodeUnreadable:      http.StatusUnprocessableEntity,
	services.CodeExtraction:      http.StatusBadGateway,
	services.CodeClubNotFound:    http.StatusNotFound,
	services.CodeStudentNotFound: http.StatusNotFound,
	services.CodeNotMember:       http.StatusNotFound,
	services.CodeAlreadyMember:   http.StatusConflict,
	services.CodeCategoryLimit:   http.StatusConflict,
}

func ensureRequestID(r *http.Request) string {
	if id, ok := composables.UseRequestID(r.Context()); ok {
		return id
	}
	if v := strings.TrimSpace(r.Header.Get("X-Request-ID")); v != "" {
		return v
	}
	return uuid.NewString()
}

// writeServiceError renders coded service errors with their mapped status and the code's own message.
// The wrapped chain stays in the server log. Anything else is logged and rendered as a generic 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, requestID string, err error) {
	if be, ok := serrors.As(err); ok {
		status, known := serviceErrorStatus[be.Code]
		if !known {
			status = http.StatusBadRequest
		}
		switch {
		case status >= http.StatusInternalServerError:
			logError(r, err)
		case err.Error() != be.Message:
			requestLogger(r, err).Warn("clubs: request rejected")
		}
		writeAPIError(w, status, requestID, be.Code, be.Message)
		return
	}
	logError(r, err)
	writeAPIError(w, http.StatusInternalServerError, requestID, codeInternal, "internal error")
}

func writeAPIError(w http.ResponseWriter, status int, requestID, code, message string) {
	meta := map[string]string{}
	if requestID != "" {
		meta["request_id"] = requestID
	}
	_ = httpapi.WriteError(w, status, code, message, meta)
}

func writeValidationError(w http.ResponseWriter, requestID, code string, fields map[string]string) {
	meta := map[string]string{}
	if requestID != "" {
		meta["request_id"] = requestID
	}
	for k, v := range fields {
		meta["field."+k] = v
	}
	_ = httpapi.WriteError(w, http.StatusBadRequest, code, "request is invalid", meta)
}

func writeJSON[T any](w http.ResponseWriter, status int, payload T) {
	if err := httpapi.WriteJSON(w, status, payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func requestLogger(r *http.Request, err error) *logrus.Entry {
	return composables.TryUseLogger(r.Context(), logrus.StandardLogger()).
		WithError(err).
		WithField("path", r.URL.Path)
}

func logError(r *http.Request, err error) {
	requestLogger(r, err).Error("clubs: request failed")
}
