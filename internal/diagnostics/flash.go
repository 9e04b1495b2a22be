package diagnostics

import "sync"

// maxPendingPerUser caps how many unseen runs are kept for one user.
const maxPendingPerUser = 20

// FlashStore holds diagnostic buffers until the owning user's next admin page render.
type FlashStore struct {
	mu      sync.Mutex
	pending map[string][]*Buffer
}

// NewFlashStore creates an empty store.
func NewFlashStore() *FlashStore {
	return &FlashStore{pending: make(map[string][]*Buffer)}
}

// Add queues b for user. Oldest entries are dropped past the per-user cap.
func (s *FlashStore) Add(user string, b *Buffer) {
	if b == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	q := append(s.pending[user], b)
	if len(q) > maxPendingPerUser {
		q = q[len(q)-maxPendingPerUser:]
	}
	s.pending[user] = q
}

// Take returns every queued line for user and clears them.
func (s *FlashStore) Take(user string) []string {
	s.mu.Lock()
	q := s.pending[user]
	delete(s.pending, user)
	s.mu.Unlock()

	var lines []string
	for _, b := range q {
		lines = append(lines, b.Lines()...)
	}
	return lines
}
