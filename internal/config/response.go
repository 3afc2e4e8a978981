package config

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/saulo-duarte/classroom-lms/internal/apperror"
)

type errorBody struct {
	Error   string                `json:"error"`
	Message string                `json:"message"`
	Fields  []apperror.FieldError `json:"fields,omitempty"`
}

func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		Logger.WithError(err).Error("failed to encode response")
	}
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind apperror.Kind) int {
	switch kind {
	case apperror.KindNotFound:
		return http.StatusNotFound
	case apperror.KindForbidden:
		return http.StatusForbidden
	case apperror.KindUnauthorized:
		return http.StatusUnauthorized
	case apperror.KindConflict:
		return http.StatusConflict
	case apperror.KindValidation:
		return http.StatusBadRequest
	case apperror.KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// WriteError renders err as a JSON error body. Errors without a kind are
// logged and reported as a generic 500.
func WriteError(ctx context.Context, w http.ResponseWriter, err error) {
	var appErr *apperror.Error
	if !errors.As(err, &appErr) || appErr.Kind == apperror.KindInternal {
		WithContext(ctx).WithError(err).Error("internal error")
		JSON(w, http.StatusInternalServerError, errorBody{
			Error:   string(apperror.KindInternal),
			Message: "internal server error",
		})
		return
	}

	JSON(w, StatusFor(appErr.Kind), errorBody{
		Error:   string(appErr.Kind),
		Message: appErr.Message,
		Fields:  appErr.Fields,
	})
}
