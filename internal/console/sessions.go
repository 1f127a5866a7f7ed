package console

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"genfity-order-admin/internal/notify"
	"genfity-order-admin/internal/refresh"
)

type session struct {
	page     *Page
	lastSeen time.Time
}

// Sessions keeps one Page per operator. All pages share the backend, the
// notifier and the refresh counter, so a settlement by one operator reloads
// every open list.
type Sessions struct {
	backend Backend
	counter *refresh.Counter
	shared  notify.Notifier
	loc     *time.Location
	now     func() time.Time

	mu    sync.Mutex
	pages map[string]*session
}

func NewSessions(backend Backend, counter *refresh.Counter, shared notify.Notifier, loc *time.Location) *Sessions {
	if counter == nil {
		counter = refresh.NewCounter()
	}
	return &Sessions{
		backend: backend,
		counter: counter,
		shared:  shared,
		loc:     loc,
		now:     time.Now,
		pages:   make(map[string]*session),
	}
}

// Get returns the page for id, creating a session with a fresh id when id is
// empty, malformed or unknown.
func (s *Sessions) Get(id string) (*Page, string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := uuid.Parse(id); err == nil {
		if sess, ok := s.pages[id]; ok {
			sess.lastSeen = s.now()
			return sess.page, id
		}
	}
	id = uuid.NewString()
	page := NewPage(s.backend, s.counter, s.shared, s.loc)
	s.pages[id] = &session{page: page, lastSeen: s.now()}
	return page, id
}

// Prune drops sessions idle for longer than maxIdle and reports how many went.
func (s *Sessions) Prune(maxIdle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := s.now().Add(-maxIdle)
	removed := 0
	for id, sess := range s.pages {
		if sess.lastSeen.Before(cutoff) {
			delete(s.pages, id)
			removed++
		}
	}
	return removed
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pages)
}

func (s *Sessions) Counter() *refresh.Counter {
	return s.counter
}
