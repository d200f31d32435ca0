package lease

import (
	"log"
	"time"
)

const stopTimeout = 2 * time.Second

// Manager owns the current lease and its renewal policy. At most one
// lease exists at a time; a dead one is replaced, never repaired.
// Methods are called from the event loop only.
type Manager struct {
	cfg     Config
	current *Lease
}

// NewManager returns a manager that spawns tenants with cfg.
func NewManager(cfg Config) *Manager {
	return &Manager{cfg: cfg}
}

// Init spawns the initial lease. A spawn failure is logged and left for
// the first Summon to retry rather than aborting startup.
func (m *Manager) Init() {
	fresh, err := New(m.cfg)
	if err != nil {
		log.Printf("[LeaseManager] Startup spawn failed: %v", err)
		return
	}
	m.current = fresh
	log.Printf("[LeaseManager] Lease %s active (pid %d)", fresh.ID, fresh.Session.PID())
}

// Summon handles the toggle hotkey. With a live lease it flips
// visibility; with a dead (or missing) one it renews first and shows
// the fresh tenant, so a single press brings the shell back. When
// renewal fails the dead lease stays in place for the next attempt, and
// Summon returns nil.
func (m *Manager) Summon() *Lease {
	if m.current == nil || m.current.Expired() {
		fresh, err := New(m.cfg)
		if err != nil {
			log.Printf("[LeaseManager] Renewal failed: %v", err)
			return nil
		}
		if m.current != nil {
			m.current.Close()
			log.Printf("[LeaseManager] Lease %s renewed as %s (pid %d)",
				m.current.ID, fresh.ID, fresh.Session.PID())
		} else {
			log.Printf("[LeaseManager] Lease %s active (pid %d)", fresh.ID, fresh.Session.PID())
		}
		m.current = fresh
	}
	m.current.Toggle()
	return m.current
}

// Current returns the managed lease, nil before the first successful
// spawn.
func (m *Manager) Current() *Lease {
	return m.current
}

// Alive reports whether a live tenant exists.
func (m *Manager) Alive() bool {
	return m.current != nil && !m.current.Expired()
}

// Visible reports whether the overlay should be drawn this frame.
func (m *Manager) Visible() bool {
	return m.current != nil && m.current.Visible()
}

// Close stops the tenant, giving a live one a grace period to exit.
func (m *Manager) Close() {
	if m.current == nil {
		return
	}
	if m.current.Expired() {
		m.current.Close()
		return
	}
	if err := m.current.Session.Stop(stopTimeout); err != nil {
		log.Printf("[LeaseManager] Stop failed: %v", err)
	}
}
