package engagement

import (
	"log/slog"
	"sync"
	"time"
)

// DefaultNotificationDuration is how long the login notification stays visible.
const DefaultNotificationDuration = 3000 * time.Millisecond

// Gate blocks mutating actions for unauthenticated viewers and raises a
// transient "You must log in to ..." notification when it does.
//
// The notification is a single slot: a new one replaces the visible one and
// restarts its timer.
type Gate struct {
	auth     Authenticator
	duration time.Duration
	logger   *slog.Logger

	mu       sync.Mutex
	message  string
	timer    *time.Timer
	gen      uint64
	onChange func(message string)
}

// NewGate creates a gate backed by auth. A non-positive duration uses
// DefaultNotificationDuration.
func NewGate(auth Authenticator, duration time.Duration, logger *slog.Logger) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	if duration <= 0 {
		duration = DefaultNotificationDuration
	}
	return &Gate{
		auth:     auth,
		duration: duration,
		logger:   logger,
	}
}

// OnNotification registers fn to receive the message when it is shown and ""
// when it clears. fn runs outside the gate lock.
func (g *Gate) OnNotification(fn func(message string)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onChange = fn
}

// IsAuthenticated reports whether the current viewer has a valid session.
func (g *Gate) IsAuthenticated() bool {
	return g.auth != nil && g.auth.IsAuthenticated()
}

// Guard reports whether action may proceed. When it may not, the login
// notification for action is shown.
func (g *Gate) Guard(action string) bool {
	if g.IsAuthenticated() {
		return true
	}

	message := "You must log in to " + action

	g.mu.Lock()
	if g.timer != nil {
		g.timer.Stop()
	}
	g.gen++
	gen := g.gen
	g.message = message
	g.timer = time.AfterFunc(g.duration, func() { g.expire(gen) })
	fn := g.onChange
	g.mu.Unlock()

	g.logger.Debug("blocked unauthenticated action", "action", action)
	if fn != nil {
		fn(message)
	}
	return false
}

// Notification returns the visible notification, or "" if none.
func (g *Gate) Notification() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.message
}

// Dismiss clears the notification immediately.
func (g *Gate) Dismiss() {
	g.mu.Lock()
	g.gen++
	g.clearLocked()
	fn := g.onChange
	g.mu.Unlock()

	if fn != nil {
		fn("")
	}
}

// expire clears the notification unless a newer one replaced it.
func (g *Gate) expire(gen uint64) {
	g.mu.Lock()
	if gen != g.gen {
		g.mu.Unlock()
		return
	}
	g.clearLocked()
	fn := g.onChange
	g.mu.Unlock()

	if fn != nil {
		fn("")
	}
}

func (g *Gate) clearLocked() {
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
	g.message = ""
}
