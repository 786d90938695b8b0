package services

import (
	"errors"
	"net/http"
	"testing"
)

func TestWrapTagsMarker(t *testing.T) {
	cause := errors.New("row missing")
	err := Wrap(ErrNotFound, "mover", "delete-staging-row", "movies", cause)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected marker to survive wrapping: %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to survive wrapping: %v", err)
	}
	expected := "not found: mover: delete-staging-row: movies: row missing"
	if err.Error() != expected {
		t.Fatalf("unexpected message %q, expected %q", err.Error(), expected)
	}
}

func TestWrapDefaultsToTransient(t *testing.T) {
	err := Wrap(nil, "", "", "", nil)
	if !errors.Is(err, ErrTransient) {
		t.Fatalf("expected transient fallback, got %v", err)
	}
	if err.Error() != "transient failure: service failure" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestHTTPStatusMapping(t *testing.T) {
	cases := []struct {
		err      error
		expected int
	}{
		{nil, http.StatusOK},
		{ErrValidation, http.StatusUnprocessableEntity},
		{Wrap(ErrValidation, "validation", "check", "incomplete", nil), http.StatusUnprocessableEntity},
		{ErrNotFound, http.StatusNotFound},
		{ErrBusy, http.StatusConflict},
		{ErrConfiguration, http.StatusBadRequest},
		{ErrConsistency, http.StatusInternalServerError},
		{errors.New("anything else"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := HTTPStatus(tc.err); got != tc.expected {
			t.Errorf("HTTPStatus(%v) = %d, expected %d", tc.err, got, tc.expected)
		}
	}
}
