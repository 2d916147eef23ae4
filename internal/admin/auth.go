package admin

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"golang.org/x/crypto/bcrypt"
)

// DefaultCookieName is the session cookie checked by the gate.
const DefaultCookieName = "admin_session"

// AuthOptions configures password checks and the session cookie.
type AuthOptions struct {
	Password     string
	PasswordHash string
	CookieName   string
	// HashKey signs cookie values. A random key is generated when empty, so
	// sessions do not survive a restart.
	HashKey []byte
	MaxAge  time.Duration
	// Strict requires the cookie value to decode; otherwise presence is enough.
	Strict bool
	Secure bool
}

// Authenticator verifies the admin password and issues session cookies.
type Authenticator struct {
	password   []byte
	hash       []byte
	cookieName string
	codec      *securecookie.SecureCookie
	maxAge     time.Duration
	strict     bool
	secure     bool
}

type sessionToken struct {
	ID       string
	IssuedAt int64
}

func NewAuthenticator(opts AuthOptions) (*Authenticator, error) {
	if opts.Password == "" && opts.PasswordHash == "" {
		return nil, errors.New("admin: a password or password hash is required")
	}
	var hash []byte
	if opts.PasswordHash != "" {
		hash = []byte(opts.PasswordHash)
		if _, err := bcrypt.Cost(hash); err != nil {
			return nil, fmt.Errorf("admin: invalid password hash: %w", err)
		}
	}
	name := opts.CookieName
	if name == "" {
		name = DefaultCookieName
	}
	key := opts.HashKey
	if len(key) == 0 {
		key = securecookie.GenerateRandomKey(32)
		if key == nil {
			return nil, errors.New("admin: generate session key")
		}
	}
	maxAge := opts.MaxAge
	if maxAge <= 0 {
		maxAge = 24 * time.Hour
	}
	codec := securecookie.New(key, nil)
	codec.MaxAge(int(maxAge.Seconds()))
	return &Authenticator{
		password:   []byte(opts.Password),
		hash:       hash,
		cookieName: name,
		codec:      codec,
		maxAge:     maxAge,
		strict:     opts.Strict,
		secure:     opts.Secure,
	}, nil
}

func (a *Authenticator) CookieName() string { return a.cookieName }

// VerifyPassword checks the candidate against the bcrypt hash when one is
// configured, else against the plain password in constant time.
func (a *Authenticator) VerifyPassword(candidate string) bool {
	if candidate == "" {
		return false
	}
	if a.hash != nil {
		return bcrypt.CompareHashAndPassword(a.hash, []byte(candidate)) == nil
	}
	return subtle.ConstantTimeCompare(a.password, []byte(candidate)) == 1
}

// SessionCookie issues a new signed session cookie.
func (a *Authenticator) SessionCookie(now time.Time) (*http.Cookie, error) {
	value, err := a.codec.Encode(a.cookieName, sessionToken{ID: uuid.NewString(), IssuedAt: now.Unix()})
	if err != nil {
		return nil, fmt.Errorf("admin: encode session: %w", err)
	}
	return &http.Cookie{
		Name:     a.cookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(a.maxAge.Seconds()),
		Expires:  now.Add(a.maxAge),
		HttpOnly: true,
		Secure:   a.secure,
		SameSite: http.SameSiteLaxMode,
	}, nil
}

// ClearCookie deletes the session cookie on the client.
func (a *Authenticator) ClearCookie() *http.Cookie {
	return &http.Cookie{
		Name:     a.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   a.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// HasSession reports whether r carries the session cookie. In strict mode the
// value must also decode and be within its max age.
func (a *Authenticator) HasSession(r *http.Request) bool {
	c, err := r.Cookie(a.cookieName)
	if err != nil {
		return false
	}
	if !a.strict {
		return true
	}
	var tok sessionToken
	return a.codec.Decode(a.cookieName, c.Value, &tok) == nil
}

// HashPassword returns a bcrypt hash suitable for ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("admin: empty password")
	}
	out, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("admin: hash password: %w", err)
	}
	return string(out), nil
}
