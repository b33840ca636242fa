package credential

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/99designs/keyring"

	"github.com/sqlainsaad5/eventify-bell/internal/model"
)

const serviceName = "eventify-bell"

// Keyring item keys, named after the web client's localStorage keys.
const (
	tokenKey = "token"
	roleKey  = "role"
)

// openKeyring returns a configured keyring instance.
func openKeyring() (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  filepath.Join(model.ConfigDir(), "credentials"),
		FilePasswordFunc:         keyring.FixedStringPrompt("eventify-bell-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// KeyringSession reads the bearer token and role from the system keyring.
// Nothing is cached: every call goes back to the keyring so a logout or a
// rotated token takes effect on the next request.
type KeyringSession struct {
	open func() (keyring.Keyring, error)
}

// NewKeyringSession returns a session backed by the system keyring.
func NewKeyringSession() *KeyringSession {
	return &KeyringSession{open: openKeyring}
}

// newKeyringSessionWith is used by tests to substitute the keyring.
func newKeyringSessionWith(ring keyring.Keyring) *KeyringSession {
	return &KeyringSession{open: func() (keyring.Keyring, error) { return ring, nil }}
}

// Token returns the sanitized bearer token.
func (s *KeyringSession) Token() (string, error) {
	raw, err := s.get(tokenKey)
	if err != nil {
		return "", err
	}
	token := SanitizeToken(raw)
	if token == "" {
		return "", ErrNoCredential
	}
	return token, nil
}

// Role returns the viewer role. A missing role is the empty role.
func (s *KeyringSession) Role() (model.Role, error) {
	raw, err := s.get(roleKey)
	if errors.Is(err, ErrNoCredential) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return model.ParseRole(raw), nil
}

// Save stores a token and role.
func (s *KeyringSession) Save(token string, role model.Role) error {
	ring, err := s.open()
	if err != nil {
		return err
	}

	if err := ring.Set(keyring.Item{Key: tokenKey, Data: []byte(SanitizeToken(token))}); err != nil {
		return fmt.Errorf("setting credential %q: %w", tokenKey, err)
	}
	if err := ring.Set(keyring.Item{Key: roleKey, Data: []byte(role)}); err != nil {
		return fmt.Errorf("setting credential %q: %w", roleKey, err)
	}
	return nil
}

// Clear removes the token and role. Missing items are ignored.
func (s *KeyringSession) Clear() error {
	ring, err := s.open()
	if err != nil {
		return err
	}

	for _, key := range []string{tokenKey, roleKey} {
		err := ring.Remove(key)
		if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
			return fmt.Errorf("deleting credential %q: %w", key, err)
		}
	}
	return nil
}

// get retrieves a credential value by key, mapping a missing item to
// ErrNoCredential.
func (s *KeyringSession) get(key string) (string, error) {
	ring, err := s.open()
	if err != nil {
		return "", err
	}

	item, err := ring.Get(key)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", ErrNoCredential
	}
	if err != nil {
		return "", fmt.Errorf("getting credential %q: %w", key, err)
	}

	return string(item.Data), nil
}
