package session

import (
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const cookieName = "sid"

// Manager hands out one Session per sid cookie and evicts idle sessions.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	opts     Options
	ttl      time.Duration
	onCreate func(s *Session, r *http.Request)
}

func NewManager(opts Options, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &Manager{
		sessions: make(map[string]*Session),
		opts:     opts,
		ttl:      ttl,
	}
}

// OnCreate observes newly created sessions (session tracking).
func (m *Manager) OnCreate(fn func(s *Session, r *http.Request)) {
	m.onCreate = fn
}

func setSessionCookie(w http.ResponseWriter, r *http.Request, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    id,
		Domain:   strings.TrimPrefix(r.Host, "."),
		SameSite: http.SameSiteNoneMode,
		HttpOnly: true,
		MaxAge:   7200,
		Path:     "/",
	})
}

// Attach returns the request's session, creating it (and setting the
// cookie) when the sid is absent or unknown.
func (m *Manager) Attach(w http.ResponseWriter, r *http.Request) *Session {
	var id string
	if c, err := r.Cookie(cookieName); err == nil {
		id = c.Value
	}

	m.mu.Lock()
	if id != "" {
		if s, ok := m.sessions[id]; ok {
			s.lastSeen = time.Now()
			m.mu.Unlock()
			return s
		}
	}
	id = uuid.New().String()
	s := New(id, m.opts)
	m.sessions[id] = s
	m.mu.Unlock()

	setSessionCookie(w, r, id)
	if m.onCreate != nil {
		m.onCreate(s, r)
	}
	return s
}

func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep drops sessions idle longer than the TTL.
func (m *Manager) Sweep() int {
	cutoff := time.Now().Add(-m.ttl)
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, s := range m.sessions {
		if s.lastSeen.Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// StartSweeper runs Sweep on the given interval until stop is closed.
func (m *Manager) StartSweeper(interval time.Duration, stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n := m.Sweep(); n > 0 {
					log.Printf("swept %d idle sessions", n)
				}
			case <-stop:
				return
			}
		}
	}()
}
