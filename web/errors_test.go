package web

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"katb.in/katbin"
)

func TestStatusForError(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{katbin.ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("paste %q: %w", "x", katbin.ErrDuplicateID), http.StatusConflict},
		{katbin.ErrAlreadyExists, http.StatusConflict},
		{katbin.ErrInvalidCredentials, http.StatusUnauthorized},
		{&UserError{StatusCode: http.StatusRequestEntityTooLarge, Message: "too big"}, http.StatusRequestEntityTooLarge},
		{&katbin.StorageError{Op: "get paste", Err: errors.New("boom")}, http.StatusInternalServerError},
		{errors.New("anything"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			if got := StatusForError(tt.err); got != tt.status {
				t.Errorf("StatusForError = %d; want %d", got, tt.status)
			}
		})
	}
}

func TestPublicMessageHidesServerErrors(t *testing.T) {
	err := &katbin.StorageError{Op: "get paste", Err: errors.New("password=hunter2")}
	if msg := PublicMessage(err); msg != "Something went wrong on our end." {
		t.Errorf("PublicMessage = %q", msg)
	}
	if msg := PublicMessage(fmt.Errorf("x: %w", katbin.ErrDuplicateID)); msg != "this identifier is taken" {
		t.Errorf("PublicMessage = %q", msg)
	}
}
