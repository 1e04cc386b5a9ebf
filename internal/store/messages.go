package store

import (
	"fmt"
	"strings"

	"careerdeck/internal/feed"
	"careerdeck/internal/logging"
	"careerdeck/internal/types"
)

// MaxCachedMessages bounds the cache per channel.
const MaxCachedMessages = 200

// CacheMessages replaces the cached messages of a channel with the last
// MaxCachedMessages of msgs. Locally synthesized messages are never cached.
func (s *LocalStore) CacheMessages(channel string, msgs []types.Message) error {
	if len(msgs) > MaxCachedMessages {
		msgs = msgs[len(msgs)-MaxCachedMessages:]
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM message_cache WHERE channel = ?`, channel); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO message_cache
		(id, channel, author, avatar, role, body, type, language, size, sent_time, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, m := range msgs {
		if strings.HasPrefix(m.ID, feed.LocalPrefix) {
			continue
		}
		if _, err := stmt.Exec(m.ID, channel, m.Author, m.Avatar, m.Role, m.Body, m.Type, m.Language, m.Size, m.Time, i); err != nil {
			return fmt.Errorf("failed to cache message %s: %w", m.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit cache: %w", err)
	}
	logging.StoreDebug("cached %d messages for #%s", len(msgs), channel)
	return nil
}

// CachedMessages returns the cached messages of a channel in order.
func (s *LocalStore) CachedMessages(channel string) ([]types.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT id, author, COALESCE(avatar, ''), COALESCE(role, ''), body, COALESCE(type, ''),
		COALESCE(language, ''), COALESCE(size, ''), sent_time
		FROM message_cache WHERE channel = ? ORDER BY position`, channel)
	if err != nil {
		return nil, fmt.Errorf("failed to query cache: %w", err)
	}
	defer rows.Close()

	var out []types.Message
	for rows.Next() {
		m := types.Message{Channel: channel}
		if err := rows.Scan(&m.ID, &m.Author, &m.Avatar, &m.Role, &m.Body, &m.Type, &m.Language, &m.Size, &m.Time); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
