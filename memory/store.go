// Package memory is an in-process katbin backend for development and tests.
package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"katb.in/katbin"
)

var errNoSuchOwner = errors.New("paste owner does not exist")

var (
	_ katbin.PasteRepository = &Store{}
	_ katbin.UserRepository  = &Store{}
)

// Store keeps pastes and users in maps guarded by one lock. Records are
// copied on the way in and out so callers never share memory with the store.
type Store struct {
	mu sync.RWMutex

	pastes map[katbin.PasteID]katbin.Paste

	users   map[katbin.UserID]katbin.User
	byEmail map[string]katbin.UserID
	nextID  katbin.UserID
}

func New() *Store {
	return &Store{
		pastes:  make(map[katbin.PasteID]katbin.Paste),
		users:   make(map[katbin.UserID]katbin.User),
		byEmail: make(map[string]katbin.UserID),
	}
}

func copyPaste(p katbin.Paste) *katbin.Paste {
	if p.Owner != nil {
		owner := *p.Owner
		p.Owner = &owner
	}
	return &p
}

func (s *Store) InsertPaste(ctx context.Context, p *katbin.Paste) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.pastes[p.ID]; ok {
		return katbin.ErrUniqueViolation
	}
	if p.Owner != nil {
		if _, ok := s.users[*p.Owner]; !ok {
			return errNoSuchOwner
		}
	}
	s.pastes[p.ID] = *copyPaste(*p)
	return nil
}

func (s *Store) GetPaste(ctx context.Context, id katbin.PasteID) (*katbin.Paste, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.pastes[id]
	if !ok {
		return nil, katbin.ErrNotFound
	}
	return copyPaste(p), nil
}

// UpdatePaste replaces the stored content and classification of p.ID. The
// owner is immutable and ignored.
func (s *Store) UpdatePaste(ctx context.Context, p *katbin.Paste) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.pastes[p.ID]
	if !ok {
		return katbin.ErrNotFound
	}
	existing.Content = p.Content
	existing.IsURL = p.IsURL
	s.pastes[p.ID] = existing
	return nil
}

func (s *Store) FindPastesByOwner(ctx context.Context, owner katbin.UserID) ([]*katbin.Paste, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var found []*katbin.Paste
	for _, p := range s.pastes {
		if p.Owner != nil && *p.Owner == owner {
			found = append(found, copyPaste(p))
		}
	}
	sort.Slice(found, func(i, j int) bool { return found[i].ID < found[j].ID })
	return found, nil
}

func (s *Store) InsertUser(ctx context.Context, u *katbin.User) error {
	key := strings.ToLower(u.Email)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byEmail[key]; ok {
		return katbin.ErrUniqueViolation
	}
	s.nextID++
	u.ID = s.nextID
	s.users[u.ID] = *u
	s.byEmail[key] = u.ID
	return nil
}

func (s *Store) GetUserByID(ctx context.Context, id katbin.UserID) (*katbin.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, katbin.ErrNotFound
	}
	return &u, nil
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*katbin.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, katbin.ErrNotFound
	}
	u := s.users[id]
	return &u, nil
}
