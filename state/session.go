package state

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"coursehub/database"
)

const sessionKey = "user"

type Role string

const (
	RoleStudent       Role = "student"
	RoleInstructor    Role = "instructor"
	RoleAdministrator Role = "administrator"
	RoleAnalyst       Role = "data_analyst"
)

// Valid reports whether r is one of the four recognized roles.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleInstructor, RoleAdministrator, RoleAnalyst:
		return true
	}
	return false
}

// Session is the authenticated identity held for one browser.
type Session struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
	Token  string `json:"token,omitempty"`
}

// Sealer encrypts the bearer token while it sits in the store.
type Sealer interface {
	Seal(plaintext string) (string, error)
	Open(sealed string) (string, error)
}

// SessionStore mirrors the persisted session in memory.
type SessionStore struct {
	mu      sync.RWMutex
	kv      database.Bucket
	sealer  Sealer
	current *Session
}

func NewSessionStore(kv database.Bucket) *SessionStore {
	return &SessionStore{kv: kv}
}

// WithSealer makes the store persist tokens sealed by c. A token that
// fails to open on Load is treated as no session.
func (s *SessionStore) WithSealer(c Sealer) *SessionStore {
	s.sealer = c
	return s
}

// Load reads the persisted session. A missing entry, unreadable JSON or an
// unknown role all leave the store empty.
func (s *SessionStore) Load(ctx context.Context) (*Session, error) {
	data, err := s.kv.Get(ctx, sessionKey)
	if err != nil && !errors.Is(err, database.ErrNotFound) {
		return nil, err
	}

	var sess *Session
	if err == nil {
		var decoded Session
		if json.Unmarshal(data, &decoded) == nil && decoded.Role.Valid() && s.openToken(&decoded) {
			sess = &decoded
		}
	}

	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()
	return copySession(sess), nil
}

// Save persists sess before returning, then updates the in-memory copy.
func (s *SessionStore) Save(ctx context.Context, sess Session) error {
	stored := sess
	if s.sealer != nil && stored.Token != "" {
		sealed, err := s.sealer.Seal(stored.Token)
		if err != nil {
			return err
		}
		stored.Token = sealed
	}
	if err := database.SaveJSON(ctx, s.kv, sessionKey, stored); err != nil {
		return err
	}
	s.mu.Lock()
	s.current = &sess
	s.mu.Unlock()
	return nil
}

func (s *SessionStore) Clear(ctx context.Context) error {
	if err := s.kv.Delete(ctx, sessionKey); err != nil {
		return err
	}
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
	return nil
}

// Current returns a copy of the in-memory session, or nil.
func (s *SessionStore) Current() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySession(s.current)
}

func (s *SessionStore) openToken(sess *Session) bool {
	if s.sealer == nil || sess.Token == "" {
		return true
	}
	plain, err := s.sealer.Open(sess.Token)
	if err != nil {
		return false
	}
	sess.Token = plain
	return true
}

func copySession(s *Session) *Session {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}
