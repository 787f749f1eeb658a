package state

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"coursehub/database"
)

const themeKey = "theme"

type Theme string

const (
	ThemeBright Theme = "bright"
	ThemeDark   Theme = "dark"
)

func (t Theme) Valid() bool {
	return t == ThemeBright || t == ThemeDark
}

func (t Theme) Opposite() Theme {
	if t == ThemeDark {
		return ThemeBright
	}
	return ThemeDark
}

// ThemeStore holds the display preference, independent of the session.
type ThemeStore struct {
	mu      sync.RWMutex
	kv      database.Bucket
	current Theme
}

func NewThemeStore(kv database.Bucket) *ThemeStore {
	return &ThemeStore{kv: kv, current: ThemeBright}
}

// Load reads the stored theme. Nothing is written until the first
// Toggle or Set, so an unknown value reads as bright.
func (s *ThemeStore) Load(ctx context.Context) (Theme, error) {
	data, err := s.kv.Get(ctx, themeKey)
	if err != nil && !errors.Is(err, database.ErrNotFound) {
		return ThemeBright, err
	}

	t := Theme(data)
	if !t.Valid() {
		t = ThemeBright
	}

	s.mu.Lock()
	s.current = t
	s.mu.Unlock()
	return t, nil
}

// Toggle flips the theme and persists it before returning the new value.
func (s *ThemeStore) Toggle(ctx context.Context) (Theme, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.current.Opposite()
	if err := s.kv.Put(ctx, themeKey, []byte(next)); err != nil {
		return s.current, err
	}
	s.current = next
	return next, nil
}

func (s *ThemeStore) Set(ctx context.Context, t Theme) error {
	if !t.Valid() {
		return fmt.Errorf("unknown theme %q", t)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.Put(ctx, themeKey, []byte(t)); err != nil {
		return err
	}
	s.current = t
	return nil
}

func (s *ThemeStore) Current() Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}
