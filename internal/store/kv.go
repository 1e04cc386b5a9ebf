package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
)

// Well-known keys.
const (
	KeyToken       = "auth.token"
	KeyUserName    = "auth.user_name"
	KeyUserEmail   = "auth.user_email"
	KeyLastChannel = "community.last_channel"
	KeySplitRatio  = "layout.split_ratio"
	KeyEditorRatio = "layout.editor_ratio"
	KeyLastProject = "foundry.last_project"
	KeySidebarOpen = "ui.sidebar_open"
)

// Get returns the value for key and whether it exists.
func (s *LocalStore) Get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, true, nil
}

// GetString returns the value for key, or def when missing or unreadable.
func (s *LocalStore) GetString(key, def string) string {
	v, ok, err := s.Get(key)
	if err != nil || !ok {
		return def
	}
	return v
}

// GetFloat returns a float value, or def when missing or malformed.
func (s *LocalStore) GetFloat(key string, def float64) float64 {
	v, ok, err := s.Get(key)
	if err != nil || !ok {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

// Set stores value under key.
func (s *LocalStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`, key, value)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// SetFloat stores a float value.
func (s *LocalStore) SetFloat(key string, v float64) error {
	return s.Set(key, strconv.FormatFloat(v, 'f', -1, 64))
}

// Delete removes key. Deleting a missing key is not an error.
func (s *LocalStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// SaveSession stores the token and the user's display strings.
func (s *LocalStore) SaveSession(token, name, email string) error {
	for k, v := range map[string]string{KeyToken: token, KeyUserName: name, KeyUserEmail: email} {
		if err := s.Set(k, v); err != nil {
			return err
		}
	}
	return nil
}

// ClearSession forgets the token and user display strings.
func (s *LocalStore) ClearSession() error {
	for _, k := range []string{KeyToken, KeyUserName, KeyUserEmail} {
		if err := s.Delete(k); err != nil {
			return err
		}
	}
	return nil
}
