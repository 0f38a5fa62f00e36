package usecase

import (
	"errors"
	"net/http"

	"job-board-backend/internal/domain"
	"job-board-backend/pkg/apperror"
)

// translate maps domain sentinel errors to client-facing application errors.
// The original error stays reachable through errors.Is.
func translate(err error) error {
	if err == nil {
		return nil
	}

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}

	var fieldErr *domain.FieldError
	if errors.As(err, &fieldErr) {
		e := apperror.Wrap(http.StatusBadRequest, apperror.KindValidation, fieldErr.Message, err)
		e.Fields = []string{fieldErr.Field + ": " + fieldErr.Message}
		return e
	}

	var accessErr *domain.AccessError
	if errors.As(err, &accessErr) {
		return apperror.Wrap(http.StatusForbidden, apperror.KindAccessDenied, accessErr.Reason, err)
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		return apperror.Wrap(http.StatusNotFound, apperror.KindNotFound, "Resource not found", err)
	case errors.Is(err, domain.ErrInvalidState):
		return apperror.Wrap(http.StatusBadRequest, apperror.KindInvalidState, err.Error(), err)
	case errors.Is(err, domain.ErrDuplicateApplication):
		return apperror.Wrap(http.StatusBadRequest, apperror.KindDuplicateApplication, "You have already applied for this job", err)
	case errors.Is(err, domain.ErrConflict):
		return apperror.Wrap(http.StatusConflict, apperror.KindConflict, "Resource already exists", err)
	case errors.Is(err, domain.ErrValidation):
		return apperror.Wrap(http.StatusBadRequest, apperror.KindValidation, err.Error(), err)
	case errors.Is(err, domain.ErrAccessDenied):
		return apperror.Wrap(http.StatusForbidden, apperror.KindAccessDenied, "Access denied", err)
	}
	return apperror.Internal(err)
}

// notFound translates a repository miss into a typed NotFound with a specific message
func notFound(err error, message string) error {
	if errors.Is(err, domain.ErrNotFound) {
		return apperror.Wrap(http.StatusNotFound, apperror.KindNotFound, message, err)
	}
	return translate(err)
}
