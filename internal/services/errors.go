package services

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrValidation marks records or responses that fail shape or
	// completeness checks.
	ErrValidation = errors.New("validation error")
	// ErrConfiguration marks failures caused by bad or missing settings.
	ErrConfiguration = errors.New("configuration error")
	// ErrNotFound marks lookups that produced no row or file.
	ErrNotFound = errors.New("not found")
	// ErrExternalService marks failures reported by the completion oracle
	// or another remote dependency.
	ErrExternalService = errors.New("external service error")
	// ErrConsistency marks operations that may have left a file and its
	// database row out of step. Callers must surface these rather than
	// retry them.
	ErrConsistency = errors.New("state unclear")
	// ErrTransient marks failures that are safe to retry wholesale.
	ErrTransient = errors.New("transient failure")
	// ErrBusy marks an operation refused because another run holds the
	// pipeline lock.
	ErrBusy = errors.New("pipeline busy")
)

// Wrap builds an error that includes stage context while tagging it with the
// provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// HTTPStatus maps a pipeline error to the status code the API surface
// should report.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrBusy):
		return http.StatusConflict
	case errors.Is(err, ErrConfiguration):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
