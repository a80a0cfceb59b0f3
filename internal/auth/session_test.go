package auth

import (
	"testing"
	"time"

	"Agora/internal/core/engagement"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_Lifecycle(t *testing.T) {
	s := NewSession()
	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, s.Token())

	token, err := IssueToken(testSecret, 5, "carol", time.Hour)
	require.NoError(t, err)
	require.NoError(t, s.SetToken(token))

	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, token, s.Token())
	viewer, ok := s.CurrentViewer()
	require.True(t, ok)
	assert.Equal(t, engagement.Viewer{ID: 5, Username: "carol"}, viewer)

	s.Clear()
	assert.False(t, s.IsAuthenticated())
	_, ok = s.CurrentViewer()
	assert.False(t, ok)
}

func TestSession_ExpiredTokenIsLoggedOut(t *testing.T) {
	s := NewSession()
	token, err := IssueToken(testSecret, 5, "carol", time.Minute)
	require.NoError(t, err)
	require.NoError(t, s.SetToken(token))

	s.now = func() time.Time { return time.Now().Add(2 * time.Minute) }

	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, s.Token())
	_, ok := s.CurrentViewer()
	assert.False(t, ok)
}

func TestSession_RejectsMalformedToken(t *testing.T) {
	s := NewSession()

	err := s.SetToken("nope")

	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.False(t, s.IsAuthenticated())
}
