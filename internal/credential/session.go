package credential

import (
	"errors"
	"strings"
	gosync "sync"

	"github.com/sqlainsaad5/eventify-bell/internal/model"
)

// ErrNoCredential means no usable bearer token is available. Callers treat
// it as "signed out", not as a failure.
var ErrNoCredential = errors.New("no credential available")

// Session supplies the bearer token and viewer role. Implementations must be
// safe for concurrent use and must not cache the token across calls.
type Session interface {
	Token() (string, error)
	Role() (model.Role, error)
}

// SanitizeToken strips surrounding whitespace and every quote character, to
// undo values that were stored double-serialized.
func SanitizeToken(raw string) string {
	return strings.TrimSpace(strings.NewReplacer(`"`, "", `'`, "").Replace(raw))
}

// StaticSession is an in-memory Session. It is used when the token comes from
// the environment and by tests.
type StaticSession struct {
	mu    gosync.RWMutex
	token string
	role  model.Role
}

// NewStaticSession returns a session holding token and role.
func NewStaticSession(token string, role model.Role) *StaticSession {
	return &StaticSession{token: token, role: role}
}

// Token returns the sanitized token or ErrNoCredential.
func (s *StaticSession) Token() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	token := SanitizeToken(s.token)
	if token == "" {
		return "", ErrNoCredential
	}
	return token, nil
}

// Role returns the stored role.
func (s *StaticSession) Role() (model.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.role, nil
}

// Set replaces the token and role.
func (s *StaticSession) Set(token string, role model.Role) {
	s.mu.Lock()
	s.token = token
	s.role = role
	s.mu.Unlock()
}
