package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("cookie-secret")

func TestCookieRoundTrip(t *testing.T) {
	w := httptest.NewRecorder()
	SetCookie(w, "sid-123", secret, time.Now().Add(time.Hour), CookieOptions{
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range w.Result().Cookies() {
		req.AddCookie(c)
	}

	id, ok := ReadCookie(req, secret)
	require.True(t, ok)
	assert.Equal(t, "sid-123", id)
}

func TestReadCookie_TamperedID(t *testing.T) {
	w := httptest.NewRecorder()
	SetCookie(w, "sid-123", secret, time.Now().Add(time.Hour), CookieOptions{})

	cookie := w.Result().Cookies()[0]
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{
		Name:  cookie.Name,
		Value: "sid-456." + cookie.Value[len("sid-123."):],
	})

	_, ok := ReadCookie(req, secret)
	assert.False(t, ok)
}

func TestReadCookie_WrongSecret(t *testing.T) {
	w := httptest.NewRecorder()
	SetCookie(w, "sid-123", secret, time.Now().Add(time.Hour), CookieOptions{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range w.Result().Cookies() {
		req.AddCookie(c)
	}

	_, ok := ReadCookie(req, []byte("other-secret"))
	assert.False(t, ok)
}

func TestReadCookie_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := ReadCookie(req, secret)
	assert.False(t, ok)
}

func TestClearCookie(t *testing.T) {
	w := httptest.NewRecorder()
	ClearCookie(w, CookieOptions{Secure: true})

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestGenerateID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id, err := GenerateID()
		require.NoError(t, err)
		require.NotEmpty(t, id)
		require.False(t, seen[id], "duplicate session id")
		seen[id] = true
	}
}

func TestMemoryStoreLifecycle(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	s := Session{
		SessionID: "sid-1",
		UserID:    "u1",
		ExpiresAt: time.Now().Add(time.Minute),
	}
	require.NoError(t, store.Create(ctx, s))

	got, err := store.Get(ctx, "sid-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "u1", got.UserID)

	require.NoError(t, store.Delete(ctx, "sid-1"))

	got, err = store.Get(ctx, "sid-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryStore_ExpiredSessionNotReturned(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, Session{
		SessionID: "sid-old",
		UserID:    "u1",
		ExpiresAt: time.Now().Add(-time.Minute),
	}))

	got, err := store.Get(ctx, "sid-old")
	require.NoError(t, err)
	assert.Nil(t, got)
}
