package katbin

import "errors"

var (
	ErrNotFound           = errors.New("record not found")
	ErrDuplicateID        = errors.New("this identifier is taken")
	ErrAlreadyExists      = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrUniqueViolation is reported by repositories when an insert collides
	// with an existing key.
	ErrUniqueViolation = errors.New("uniqueness constraint violated")
)

// StorageError wraps an unexpected backend failure.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return "storage: " + e.Op + ": " + e.Err.Error()
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

type HashingError struct {
	Err error
}

func (e *HashingError) Error() string {
	return "password hashing failed: " + e.Err.Error()
}

func (e *HashingError) Unwrap() error {
	return e.Err
}

// VerificationError is returned when a stored password hash cannot be
// interpreted.
type VerificationError struct {
	Err error
}

func (e *VerificationError) Error() string {
	return "password verification failed: " + e.Err.Error()
}

func (e *VerificationError) Unwrap() error {
	return e.Err
}
