package web

import (
	"errors"
	"net/http"

	"katb.in/katbin"
)

// StatusForError maps domain errors onto HTTP statuses. Anything unrecognized
// is a server error.
func StatusForError(err error) int {
	switch {
	case errors.Is(err, katbin.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, katbin.ErrDuplicateID), errors.Is(err, katbin.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, katbin.ErrInvalidCredentials):
		return http.StatusUnauthorized
	}
	var se statusError
	if errors.As(err, &se) {
		return se.Status()
	}
	return http.StatusInternalServerError
}

type statusError interface {
	error
	Status() int
}

// A UserError is a request problem whose message is safe to show.
type UserError struct {
	StatusCode int
	Message    string
}

func (e *UserError) Error() string {
	return e.Message
}

func (e *UserError) Status() int {
	return e.StatusCode
}

// PublicMessage is the text shown to the client for err. Server errors get a
// generic message; their details belong in the log.
func PublicMessage(err error) string {
	status := StatusForError(err)
	if status >= 500 {
		return "Something went wrong on our end."
	}
	switch {
	case errors.Is(err, katbin.ErrNotFound):
		return "That paste doesn't exist."
	case errors.Is(err, katbin.ErrDuplicateID):
		return katbin.ErrDuplicateID.Error()
	case errors.Is(err, katbin.ErrAlreadyExists):
		return "An account with that email already exists."
	case errors.Is(err, katbin.ErrInvalidCredentials):
		return katbin.ErrInvalidCredentials.Error()
	}
	return err.Error()
}
