package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestWrapKindAndMessage(t *testing.T) {
	err := Wrap(ErrNotFound, "project not found")
	if err.Error() != "project not found" {
		t.Errorf("unexpected message: %q", err.Error())
	}
	if !errors.Is(err, ErrNotFound) {
		t.Error("kind not matchable through errors.Is")
	}
	if errors.Is(err, ErrUnauthorized) {
		t.Error("matched the wrong kind")
	}

	err = Wrapf(ErrInvalidInput, "unknown status %q", "launching")
	if err.Error() != `unknown status "launching"` {
		t.Errorf("unexpected formatted message: %q", err.Error())
	}
}

func TestStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{Wrap(ErrInvalidInput, "x"), http.StatusBadRequest},
		{Wrap(ErrConflict, "x"), http.StatusBadRequest},
		{Wrap(ErrUnauthenticated, "x"), http.StatusUnauthorized},
		{Wrap(ErrUnauthorized, "x"), http.StatusForbidden},
		{Wrap(ErrNotFound, "x"), http.StatusNotFound},
		{Wrap(ErrCollaboratorUnavailable, "x"), http.StatusInternalServerError},
		{fmt.Errorf("driver broke"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := Status(tc.err); got != tc.want {
			t.Errorf("Status(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}
