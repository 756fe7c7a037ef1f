// Package accounts implements katbin.UserService.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"katb.in/katbin"
	"katb.in/katbin/internal/credential"
	"katb.in/katbin/internal/rayman"
)

var _ katbin.UserService = &Service{}

type Service struct {
	Users       katbin.UserRepository
	Credentials credential.Verifier
}

func (s *Service) Register(ctx context.Context, email, password string) (*katbin.User, error) {
	email = strings.TrimSpace(email)
	logger := rayman.ContextLogger(ctx).WithField("email", email)

	_, err := s.Users.FindUserByEmail(ctx, email)
	if err == nil {
		return nil, fmt.Errorf("%s: %w", email, katbin.ErrAlreadyExists)
	}
	if !errors.Is(err, katbin.ErrNotFound) {
		return nil, &katbin.StorageError{Op: "find user", Err: err}
	}

	hash, err := s.Credentials.Hash(password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC().Truncate(time.Second)
	u := &katbin.User{
		Email:          email,
		HashedPassword: hash,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	err = s.Users.InsertUser(ctx, u)
	if errors.Is(err, katbin.ErrUniqueViolation) {
		// Lost a race with a concurrent registration.
		return nil, fmt.Errorf("%s: %w", email, katbin.ErrAlreadyExists)
	}
	if err != nil {
		logger.WithError(err).Error("failed to insert user")
		return nil, &katbin.StorageError{Op: "create user", Err: err}
	}

	logger.WithField("user", u.ID).Info("user registered")
	return u, nil
}

func (s *Service) GetUserByEmail(ctx context.Context, email string) (*katbin.User, error) {
	u, err := s.Users.FindUserByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, katbin.ErrNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, &katbin.StorageError{Op: "find user", Err: err}
	}
	return u, nil
}

func (s *Service) GetUserByID(ctx context.Context, id katbin.UserID) (*katbin.User, error) {
	u, err := s.Users.GetUserByID(ctx, id)
	if errors.Is(err, katbin.ErrNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, &katbin.StorageError{Op: "get user", Err: err}
	}
	return u, nil
}

func (s *Service) Authenticate(ctx context.Context, email, password string) (*katbin.User, error) {
	logger := rayman.ContextLogger(ctx).WithField("email", email)

	u, err := s.GetUserByEmail(ctx, email)
	if errors.Is(err, katbin.ErrNotFound) {
		logger.Debug("login for unknown email")
		return nil, katbin.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	ok, err := s.Credentials.Verify(password, u.HashedPassword)
	if err != nil {
		logger.WithError(err).Error("stored password hash is unusable")
		return nil, err
	}
	if !ok {
		logger.Debug("login with wrong password")
		return nil, katbin.ErrInvalidCredentials
	}
	return u, nil
}
