package engagement

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGate_AllowsAuthenticatedViewer(t *testing.T) {
	g := NewGate(newFakeAuth(1, true), 0, discardLogger())

	assert.True(t, g.Guard("like a post"))
	assert.Empty(t, g.Notification())
}

func TestGate_BlocksAndExpires(t *testing.T) {
	g := NewGate(newFakeAuth(1, false), 20*time.Millisecond, discardLogger())

	assert.False(t, g.Guard("like a post"))
	assert.Equal(t, "You must log in to like a post", g.Notification())

	assert.Eventually(t, func() bool {
		return g.Notification() == ""
	}, time.Second, 5*time.Millisecond)
}

func TestGate_NilAuthenticatorIsAnonymous(t *testing.T) {
	g := NewGate(nil, time.Second, discardLogger())

	assert.False(t, g.IsAuthenticated())
	assert.False(t, g.Guard("dislike a comment"))
	assert.Equal(t, "You must log in to dislike a comment", g.Notification())
}

func TestGate_NewNotificationRestartsTimer(t *testing.T) {
	g := NewGate(newFakeAuth(1, false), 300*time.Millisecond, discardLogger())

	g.Guard("like a post")
	time.Sleep(200 * time.Millisecond)
	g.Guard("dislike a comment")
	time.Sleep(200 * time.Millisecond)

	// the first timer would have fired by now
	assert.Equal(t, "You must log in to dislike a comment", g.Notification())

	assert.Eventually(t, func() bool {
		return g.Notification() == ""
	}, 2*time.Second, 10*time.Millisecond)
}

func TestGate_CallbackAndDismiss(t *testing.T) {
	g := NewGate(newFakeAuth(1, false), time.Hour, discardLogger())

	var (
		mu   sync.Mutex
		seen []string
	)
	g.OnNotification(func(message string) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, message)
	})

	g.Guard("like a post")
	g.Dismiss()

	assert.Empty(t, g.Notification())
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"You must log in to like a post", ""}, seen)
}
