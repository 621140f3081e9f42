package meta

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const stateTTL = 10 * time.Minute

type stateEntry struct {
	leadID  string
	expires time.Time
}

// stateStore issues single-use OAuth state tokens bound to a lead. Entries
// expire after stateTTL; stale entries are swept on issue.
type stateStore struct {
	mu     sync.Mutex
	states map[string]stateEntry
	now    func() time.Time
}

func newStateStore(now func() time.Time) *stateStore {
	if now == nil {
		now = time.Now
	}
	return &stateStore{
		states: make(map[string]stateEntry),
		now:    now,
	}
}

func (s *stateStore) Issue(leadID string) string {
	state := uuid.NewString()
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, entry := range s.states {
		if now.After(entry.expires) {
			delete(s.states, key)
		}
	}
	s.states[state] = stateEntry{leadID: leadID, expires: now.Add(stateTTL)}
	return state
}

// Consume returns the lead bound to a state and invalidates it.
func (s *stateStore) Consume(state string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.states[state]
	if !ok {
		return "", false
	}
	delete(s.states, state)
	if s.now().After(entry.expires) {
		return "", false
	}
	return entry.leadID, true
}
