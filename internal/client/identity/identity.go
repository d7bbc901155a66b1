package identity

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/parkerwhite/eqchat/internal/client/settings"
	"github.com/parkerwhite/eqchat/internal/model/chat"
)

// Storage is the slice of the settings store the provider needs.
type Storage interface {
	Load() (settings.Settings, error)
	Save(settings.Settings) error
}

// Provider mints and persists the anonymous user id. There is no external
// authority: "sign-in" is purely local id minting.
type Provider struct {
	storage Storage

	mu      sync.RWMutex
	current *chat.User
}

// NewProvider recovers any previously persisted identity from storage.
func NewProvider(storage Storage) (*Provider, error) {
	p := &Provider{storage: storage}

	stored, err := storage.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load stored identity: %w", err)
	}
	if stored.UserID != "" {
		p.current = &chat.User{ID: stored.UserID}
	}
	return p, nil
}

// CurrentUser returns the active identity, if any.
func (p *Provider) CurrentUser() (chat.User, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.current == nil {
		return chat.User{}, false
	}
	return *p.current, true
}

// SignInAnonymously mints a fresh random id and persists it.
func (p *Provider) SignInAnonymously() (chat.User, error) {
	user := chat.User{ID: uuid.NewString()}

	if err := p.persistUserID(user.ID); err != nil {
		return chat.User{}, err
	}

	p.mu.Lock()
	p.current = &user
	p.mu.Unlock()
	return user, nil
}

// SignOut clears the persisted id and the in-memory identity.
func (p *Provider) SignOut() error {
	if err := p.persistUserID(""); err != nil {
		return err
	}

	p.mu.Lock()
	p.current = nil
	p.mu.Unlock()
	return nil
}

func (p *Provider) persistUserID(id string) error {
	stored, err := p.storage.Load()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	stored.UserID = id
	if err := p.storage.Save(stored); err != nil {
		return fmt.Errorf("failed to persist identity: %w", err)
	}
	return nil
}
