// Package session expires the active profile after a period of inactivity.
package session

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/existflow/lifelist/internal/logger"
)

// DefaultTimeout applies when no timeout is configured
const DefaultTimeout = 30 * time.Minute

// Activity is a kind of user interaction that keeps a session alive
type Activity string

const (
	ActivityKey     Activity = "key"
	ActivityClick   Activity = "click"
	ActivityScroll  Activity = "scroll"
	ActivityTouch   Activity = "touch"
	ActivityRequest Activity = "request"
)

var activities = map[Activity]bool{
	ActivityKey:     true,
	ActivityClick:   true,
	ActivityScroll:  true,
	ActivityTouch:   true,
	ActivityRequest: true,
}

// ParseActivity rejects unknown activity kinds
func ParseActivity(s string) (Activity, error) {
	a := Activity(strings.ToLower(strings.TrimSpace(s)))
	if !activities[a] {
		return "", fmt.Errorf("unknown activity %q", s)
	}
	return a, nil
}

// Monitor fires OnExpire once no activity has been seen for Timeout.
// Touch re-arms the timer. Guest sessions never expire.
type Monitor struct {
	timeout  time.Duration
	onExpire func()
	isGuest  func() bool
	log      *logger.Logger

	mu      sync.Mutex
	timer   *time.Timer
	last    time.Time
	running bool
	expired bool
}

// Config for NewMonitor
type Config struct {
	Timeout time.Duration
	// OnExpire runs on the timer goroutine when the session lapses
	OnExpire func()
	// IsGuest exempts the current session from expiry when it returns true
	IsGuest func() bool
	Logger  *logger.Logger
}

// NewMonitor creates a stopped monitor
func NewMonitor(cfg Config) *Monitor {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.OnExpire == nil {
		cfg.OnExpire = func() {}
	}
	if cfg.IsGuest == nil {
		cfg.IsGuest = func() bool { return false }
	}
	return &Monitor{
		timeout:  cfg.Timeout,
		onExpire: cfg.OnExpire,
		isGuest:  cfg.IsGuest,
		log:      cfg.Logger,
	}
}

// Timeout returns the configured inactivity window
func (m *Monitor) Timeout() time.Duration { return m.timeout }

// Start arms the timer. Calling Start on a running monitor restarts the window.
func (m *Monitor) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.running = true
	m.expired = false
	m.arm()
}

// Touch records activity of the given kind. Unknown kinds are ignored.
func (m *Monitor) Touch(kind Activity) {
	if !activities[kind] {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running {
		return
	}
	m.expired = false
	m.arm()
}

// Stop disarms the timer
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.running = false
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}

// Expired reports whether the last window lapsed without activity
func (m *Monitor) Expired() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.expired
}

// LastActivity returns when the monitor was last armed
func (m *Monitor) LastActivity() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

// arm must be called with mu held
func (m *Monitor) arm() {
	m.last = time.Now()
	if m.timer != nil {
		m.timer.Stop()
	}
	m.timer = time.AfterFunc(m.timeout, m.fire)
}

func (m *Monitor) fire() {
	m.mu.Lock()
	if !m.running || time.Since(m.last) < m.timeout {
		m.mu.Unlock()
		return
	}
	if m.isGuest() {
		// guests stay signed in; keep watching in case a real profile is selected
		m.arm()
		m.mu.Unlock()
		return
	}
	m.expired = true
	m.running = false
	m.timer = nil
	m.mu.Unlock()

	m.log.Info("Session expired", logger.F("timeout", m.timeout.String()))
	m.onExpire()
}

// Alive reports whether a session last active at lastActive is still within
// timeout at now. Used by one-shot CLI invocations that cannot run a timer.
func Alive(lastActive, now time.Time, timeout time.Duration) bool {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return !lastActive.IsZero() && now.Sub(lastActive) < timeout
}
