// Package pastes implements katbin.PasteService on top of a repository.
package pastes

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"katb.in/katbin"
	"katb.in/katbin/internal/auth"
	"katb.in/katbin/internal/keygen"
	"katb.in/katbin/internal/rayman"
	"katb.in/katbin/internal/urlclass"
)

const DefaultKeyLength = 10

var _ katbin.PasteService = &Service{}

type Service struct {
	Repository katbin.PasteRepository
	Classifier urlclass.Classifier

	// KeyLength defaults to DefaultKeyLength.
	KeyLength int
	// GenerateKey defaults to keygen.Generate.
	GenerateKey func(length int) string
}

func (s *Service) newKey() katbin.PasteID {
	length := s.KeyLength
	if length <= 0 {
		length = DefaultKeyLength
	}
	gen := s.GenerateKey
	if gen == nil {
		gen = keygen.Generate
	}
	return katbin.PasteID(gen(length))
}

// CreatePaste stores content under customID when owner may choose one, and
// under a generated key otherwise. A generated key that collides is reported
// like a taken custom id; there is no retry.
func (s *Service) CreatePaste(ctx context.Context, content string, customID string, owner *katbin.User) (*katbin.Paste, error) {
	id := s.newKey()
	if customID != "" && auth.MayChooseID(owner) {
		id = katbin.PasteID(customID)
	}

	p := &katbin.Paste{
		ID:      id,
		Content: content,
		IsURL:   s.Classifier.IsURL(content),
	}
	if owner != nil {
		ownerID := owner.ID
		p.Owner = &ownerID
	}

	logger := rayman.ContextLogger(ctx).WithFields(logrus.Fields{
		"paste": id,
		"url":   p.IsURL,
	})

	err := s.Repository.InsertPaste(ctx, p)
	if errors.Is(err, katbin.ErrUniqueViolation) {
		logger.Debug("paste id collision")
		return nil, fmt.Errorf("paste %q: %w", id, katbin.ErrDuplicateID)
	}
	if err != nil {
		logger.WithError(err).Error("failed to insert paste")
		return nil, &katbin.StorageError{Op: "create paste", Err: err}
	}

	logger.Info("paste created")
	return p, nil
}

func (s *Service) GetPaste(ctx context.Context, id katbin.PasteID) (*katbin.Paste, error) {
	p, err := s.Repository.GetPaste(ctx, id)
	if errors.Is(err, katbin.ErrNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, &katbin.StorageError{Op: "get paste", Err: err}
	}
	return p, nil
}

// UpdatePasteContent replaces the content of id and reclassifies it.
// Ownership is the caller's concern.
func (s *Service) UpdatePasteContent(ctx context.Context, id katbin.PasteID, content string) (*katbin.Paste, error) {
	p, err := s.GetPaste(ctx, id)
	if err != nil {
		return nil, err
	}

	p.Content = content
	p.IsURL = s.Classifier.IsURL(content)

	err = s.Repository.UpdatePaste(ctx, p)
	if errors.Is(err, katbin.ErrNotFound) {
		return nil, err
	}
	if err != nil {
		rayman.ContextLogger(ctx).WithField("paste", id).WithError(err).Error("failed to update paste")
		return nil, &katbin.StorageError{Op: "update paste", Err: err}
	}
	return p, nil
}

func (s *Service) GetPastesOwnedBy(ctx context.Context, owner katbin.UserID) ([]*katbin.Paste, error) {
	pastes, err := s.Repository.FindPastesByOwner(ctx, owner)
	if err != nil {
		return nil, &katbin.StorageError{Op: "list pastes", Err: err}
	}
	return pastes, nil
}
