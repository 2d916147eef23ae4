package admin

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestVerifyPasswordPlain(t *testing.T) {
	a, err := NewAuthenticator(AuthOptions{Password: "s3cret"})
	require.NoError(t, err)
	assert.True(t, a.VerifyPassword("s3cret"))
	assert.False(t, a.VerifyPassword("s3cret "))
	assert.False(t, a.VerifyPassword(""))
	assert.Equal(t, DefaultCookieName, a.CookieName())
}

func TestVerifyPasswordHash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)
	a, err := NewAuthenticator(AuthOptions{Password: "ignored", PasswordHash: string(hash)})
	require.NoError(t, err)
	assert.True(t, a.VerifyPassword("hunter2"))
	assert.False(t, a.VerifyPassword("ignored"))
}

func TestNewAuthenticatorRejectsBadHash(t *testing.T) {
	_, err := NewAuthenticator(AuthOptions{PasswordHash: "not-bcrypt"})
	assert.Error(t, err)
	_, err = NewAuthenticator(AuthOptions{})
	assert.Error(t, err)
}

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("pw")
	require.NoError(t, err)
	a, err := NewAuthenticator(AuthOptions{PasswordHash: hash})
	require.NoError(t, err)
	assert.True(t, a.VerifyPassword("pw"))
	_, err = HashPassword("")
	assert.Error(t, err)
}

func TestHasSessionPresenceOnly(t *testing.T) {
	a, err := NewAuthenticator(AuthOptions{Password: "pw"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	assert.False(t, a.HasSession(req))

	req.AddCookie(&http.Cookie{Name: DefaultCookieName, Value: "anything"})
	assert.True(t, a.HasSession(req))
}

func TestHasSessionStrict(t *testing.T) {
	a, err := NewAuthenticator(AuthOptions{Password: "pw", Strict: true, HashKey: []byte("0123456789abcdef0123456789abcdef")})
	require.NoError(t, err)

	forged := httptest.NewRequest(http.MethodGet, "/", nil)
	forged.AddCookie(&http.Cookie{Name: DefaultCookieName, Value: "anything"})
	assert.False(t, a.HasSession(forged))

	c, err := a.SessionCookie(time.Now())
	require.NoError(t, err)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, 24*3600, c.MaxAge)

	ok := httptest.NewRequest(http.MethodGet, "/", nil)
	ok.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	assert.True(t, a.HasSession(ok))
}

func TestClearCookieExpires(t *testing.T) {
	a, err := NewAuthenticator(AuthOptions{Password: "pw", CookieName: "sess"})
	require.NoError(t, err)
	c := a.ClearCookie()
	assert.Equal(t, "sess", c.Name)
	assert.Equal(t, -1, c.MaxAge)
}
