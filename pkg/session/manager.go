package session

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"sync"
	"time"
)

// DefaultCookieName is the session cookie issued by the Manager.
const DefaultCookieName = "strata_session"

// Manager resolves a per-browser Store from the session cookie, creating
// sessions on demand and expiring idle ones in the background.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*managedSession
	closed   bool
	done     chan struct{}

	cookieName      string
	ttl             time.Duration
	secure          bool
	cleanupInterval time.Duration
}

type managedSession struct {
	values    *Values
	expiresAt time.Time
}

// ManagerOption configures Manager behavior.
type ManagerOption func(*Manager)

// WithCookieName sets the session cookie name. Default: DefaultCookieName.
func WithCookieName(name string) ManagerOption {
	return func(m *Manager) { m.cookieName = name }
}

// WithTTL sets how long an idle session lives. Default: 30 minutes.
func WithTTL(d time.Duration) ManagerOption {
	return func(m *Manager) { m.ttl = d }
}

// WithSecureCookie marks the session cookie Secure. Default: false, for
// local development; production deployments should enable it.
func WithSecureCookie(secure bool) ManagerOption {
	return func(m *Manager) { m.secure = secure }
}

// WithCleanupInterval sets how often expired sessions are removed.
// Default: 1 minute.
func WithCleanupInterval(d time.Duration) ManagerOption {
	return func(m *Manager) { m.cleanupInterval = d }
}

// NewManager creates a session manager and starts its cleanup loop.
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		sessions:        make(map[string]*managedSession),
		done:            make(chan struct{}),
		cookieName:      DefaultCookieName,
		ttl:             30 * time.Minute,
		cleanupInterval: time.Minute,
	}
	for _, opt := range opts {
		opt(m)
	}
	go m.cleanupLoop()
	return m
}

// Resolve returns the Store for the request's session, creating a new
// session (and setting the cookie) when none exists or it has expired.
func (m *Manager) Resolve(w http.ResponseWriter, r *http.Request) Store {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c, err := r.Cookie(m.cookieName); err == nil {
		if s, ok := m.sessions[c.Value]; ok && time.Now().Before(s.expiresAt) {
			s.expiresAt = time.Now().Add(m.ttl)
			return s.values
		}
	}

	id := newSessionID()
	s := &managedSession{values: NewValues(), expiresAt: time.Now().Add(m.ttl)}
	m.sessions[id] = s

	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return s.values
}

// Lookup returns the Store for a known session ID without creating one.
func (m *Manager) Lookup(id string) (Store, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok || time.Now().After(s.expiresAt) {
		return nil, false
	}
	return s.values, true
}

// Count returns the number of live sessions. For monitoring/testing.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Close stops the cleanup loop and drops all sessions.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	close(m.done)
	m.sessions = nil
	return nil
}

func (m *Manager) cleanupLoop() {
	ticker := time.NewTicker(m.cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			m.cleanup()
		case <-m.done:
			return
		}
	}
}

func (m *Manager) cleanup() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	now := time.Now()
	for id, s := range m.sessions {
		if now.After(s.expiresAt) {
			delete(m.sessions, id)
		}
	}
}

func newSessionID() string {
	b := make([]byte, 16)
	rand.Read(b)
	return hex.EncodeToString(b)
}
