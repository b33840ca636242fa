package store

import (
	gosync "sync"

	"github.com/sqlainsaad5/eventify-bell/internal/model"
)

// NotificationStore is the in-memory, ordered set of notifications shown in
// the bell. The server is the source of truth for membership and order;
// local mutations only ever flip entries to read.
//
// All methods are safe for concurrent use.
type NotificationStore struct {
	mu      gosync.RWMutex
	entries []model.Notification
	index   map[model.ID]int
}

// NewNotificationStore returns an empty store.
func NewNotificationStore() *NotificationStore {
	return &NotificationStore{index: make(map[model.ID]int)}
}

// Replace swaps the whole content for list, preserving its order. When an id
// appears more than once only the first occurrence is kept.
func (s *NotificationStore) Replace(list []model.Notification) {
	entries := make([]model.Notification, 0, len(list))
	index := make(map[model.ID]int, len(list))
	for _, n := range list {
		if _, dup := index[n.ID]; dup {
			continue
		}
		index[n.ID] = len(entries)
		entries = append(entries, n)
	}

	s.mu.Lock()
	s.entries = entries
	s.index = index
	s.mu.Unlock()
}

// MarkRead flips the entry with id to read. It reports whether anything
// changed; unknown and already-read ids are no-ops.
func (s *NotificationStore) MarkRead(id model.ID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok || s.entries[i].IsRead {
		return false
	}
	s.entries[i].IsRead = true
	return true
}

// MarkAllRead flips every entry to read and returns how many were unread.
func (s *NotificationStore) MarkAllRead() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	flipped := 0
	for i := range s.entries {
		if !s.entries[i].IsRead {
			s.entries[i].IsRead = true
			flipped++
		}
	}
	return flipped
}

// UnreadCount recounts the unread entries.
func (s *NotificationStore) UnreadCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, n := range s.entries {
		if !n.IsRead {
			count++
		}
	}
	return count
}

// List returns a copy of the entries in store order.
func (s *NotificationStore) List() []model.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Notification, len(s.entries))
	copy(out, s.entries)
	return out
}

// Get returns the entry with id.
func (s *NotificationStore) Get(id model.ID) (model.Notification, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return model.Notification{}, false
	}
	return s.entries[i], true
}

// Len returns the number of entries.
func (s *NotificationStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
