package service

import (
	"sync"
	"time"

	"github.com/Ari-Han-t/CAPS/internal/domain"

	"github.com/google/uuid"
)

// HistoryStore is the append-only, session-scoped log of conversation turns.
// Subscribers are called after every append, outside the lock, with a copy
// of the new item.
type HistoryStore struct {
	mu      sync.RWMutex
	items   []domain.HistoryItem
	subs    map[int]func(domain.HistoryItem)
	nextSub int
	now     func() time.Time
}

// NewHistoryStore creates an empty store.
func NewHistoryStore() *HistoryStore {
	return &HistoryStore{
		subs: make(map[int]func(domain.HistoryItem)),
		now:  time.Now,
	}
}

// Append records a new turn and returns it with ID, sequence and time assigned.
func (s *HistoryStore) Append(kind domain.TurnKind, text string, resp *domain.CommandResponse) domain.HistoryItem {
	s.mu.Lock()
	item := domain.HistoryItem{
		ID:        uuid.NewString(),
		Seq:       len(s.items) + 1,
		Kind:      kind,
		Text:      text,
		Response:  resp,
		CreatedAt: s.now(),
	}
	s.items = append(s.items, item)

	subs := make([]func(domain.HistoryItem), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(item)
	}
	return item
}

// Items returns a copy of the log in insertion order.
func (s *HistoryStore) Items() []domain.HistoryItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.HistoryItem, len(s.items))
	copy(out, s.items)
	return out
}

// Subscribe registers fn for future appends. The returned func removes it.
func (s *HistoryStore) Subscribe(fn func(domain.HistoryItem)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}
