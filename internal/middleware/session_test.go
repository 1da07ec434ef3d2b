package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requestWithCookie(c *http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if c != nil {
		req.AddCookie(c)
	}
	return req
}

func TestSessionRoundTrip(t *testing.T) {
	m := NewSessionManager("test-secret", time.Minute)

	cookie, err := m.IssueCookie(42)
	require.NoError(t, err)
	assert.Equal(t, CookieName, cookie.Name)
	assert.True(t, cookie.HttpOnly)

	id, err := m.UserID(requestWithCookie(cookie))
	require.NoError(t, err)
	assert.EqualValues(t, 42, id)
}

func TestSessionMissingCookie(t *testing.T) {
	m := NewSessionManager("test-secret", time.Minute)

	_, err := m.UserID(requestWithCookie(nil))
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestSessionRejectsTampering(t *testing.T) {
	m := NewSessionManager("test-secret", time.Minute)
	other := NewSessionManager("other-secret", time.Minute)

	cookie, err := other.IssueCookie(42)
	require.NoError(t, err)

	_, err = m.UserID(requestWithCookie(cookie))
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestSessionExpires(t *testing.T) {
	m := NewSessionManager("test-secret", 10*time.Millisecond)

	cookie, err := m.IssueCookie(42)
	require.NoError(t, err)

	time.Sleep(1100 * time.Millisecond) // exp has one-second resolution

	_, err = m.UserID(requestWithCookie(cookie))
	assert.ErrorIs(t, err, ErrNoSession)
}
