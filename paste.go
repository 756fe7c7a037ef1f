package katbin

import "context"

type PasteID string

func (id PasteID) String() string {
	return string(id)
}

// Paste is a stored body of text or a URL. IsURL is always derived from
// Content; callers never set it directly.
type Paste struct {
	ID      PasteID `json:"id"`
	Content string  `json:"content"`
	IsURL   bool    `json:"is_url"`

	// Owner is nil for anonymous pastes.
	Owner *UserID `json:"owner,omitempty"`
}

// OwnedBy reports whether u is the paste's owner. Anonymous pastes are owned
// by nobody.
func (p *Paste) OwnedBy(u *User) bool {
	if p == nil || u == nil || p.Owner == nil {
		return false
	}
	return *p.Owner == u.ID
}

type PasteService interface {
	// CreatePaste stores a new paste. customID is honored only when owner is
	// non-nil; otherwise a key is generated.
	CreatePaste(ctx context.Context, content string, customID string, owner *User) (*Paste, error)
	GetPaste(ctx context.Context, id PasteID) (*Paste, error)
	UpdatePasteContent(ctx context.Context, id PasteID, content string) (*Paste, error)
	GetPastesOwnedBy(ctx context.Context, owner UserID) ([]*Paste, error)
}

// PasteRepository is the persistence backend for pastes.
// InsertPaste must report ErrUniqueViolation when the id is taken; the check
// must be atomic with the insert.
type PasteRepository interface {
	InsertPaste(ctx context.Context, p *Paste) error
	GetPaste(ctx context.Context, id PasteID) (*Paste, error)
	UpdatePaste(ctx context.Context, p *Paste) error
	FindPastesByOwner(ctx context.Context, owner UserID) ([]*Paste, error)
}
