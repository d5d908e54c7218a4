// internal/domain/session/manager.go
package session

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/bookstore-backend/internal/domain/cart"
	"github.com/your-org/bookstore-backend/internal/infrastructure/kvstore"
	"github.com/your-org/bookstore-backend/internal/port"
)

// Manager keeps the live sessions of the process
type Manager struct {
	kv       port.KeyValueStore
	feedback port.Feedback
	creds    *Credentials
	log      logrus.FieldLogger
	now      func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager creates a new session manager
func NewManager(kv port.KeyValueStore, feedback port.Feedback, creds *Credentials, log logrus.FieldLogger) *Manager {
	return &Manager{
		kv:       kv,
		feedback: feedback,
		creds:    creds,
		log:      log,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Get returns the live session for id, creating and loading it on first use
func (m *Manager) Get(ctx context.Context, id string) *Session {
	return m.get(ctx, id, false)
}

// Acquire is Get for the length of a request: the session is not swept
// until release is called. release may be called more than once.
func (m *Manager) Acquire(ctx context.Context, id string) (sess *Session, release func()) {
	sess = m.get(ctx, id, true)

	var once sync.Once
	return sess, func() {
		once.Do(func() {
			m.mu.Lock()
			sess.inUse--
			m.mu.Unlock()
			sess.touch(m.now())
		})
	}
}

func (m *Manager) get(ctx context.Context, id string, acquire bool) *Session {
	now := m.now()

	m.mu.Lock()
	sess, ok := m.sessions[id]
	if !ok {
		sess = m.newSession(id)
		m.sessions[id] = sess
	}
	if acquire {
		sess.inUse++
	}
	m.mu.Unlock()

	sess.touch(now)
	sess.load(ctx)
	return sess
}

// Len returns the number of live sessions
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep drops sessions idle for longer than idle. Sessions held by a
// request are kept. Their persisted state is kept and reloaded on the next
// request.
func (m *Manager) Sweep(idle time.Duration) int {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	evicted := 0
	for id, sess := range m.sessions {
		if sess.inUse == 0 && sess.idleSince(now) > idle {
			delete(m.sessions, id)
			evicted++
		}
	}
	return evicted
}

// Run sweeps idle sessions every interval until ctx is done. Stores that
// expire keys themselves are purged on the same tick.
func (m *Manager) Run(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if evicted := m.Sweep(idle); evicted > 0 {
				m.log.WithField("evicted", evicted).Debug("Swept idle sessions")
			}

			if purger, ok := m.kv.(kvstore.Store); ok {
				removed, err := purger.PurgeExpired(ctx)
				if err != nil {
					m.log.WithError(err).Warn("Failed to purge expired keys")
				} else if removed > 0 {
					m.log.WithField("removed", removed).Debug("Purged expired keys")
				}
			}
		}
	}
}

func (m *Manager) newSession(id string) *Session {
	scoped := kvstore.NewScoped(m.kv, kvstore.SessionPrefix(id))
	log := m.log.WithField("session_id", id)

	return &Session{
		id:       id,
		kv:       scoped,
		cart:     cart.NewStore(scoped, m.feedback, log),
		creds:    m.creds,
		feedback: m.feedback,
		log:      log,
	}
}
