package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const CookieName = "sms_session"

var ErrNoSession = errors.New("no session")

// SessionManager issues and parses the HttpOnly session cookie. The cookie
// value is an HMAC-signed token holding only the user id and expiry.
type SessionManager struct {
	secret   []byte
	lifetime time.Duration
}

func NewSessionManager(secret string, lifetime time.Duration) *SessionManager {
	if lifetime <= 0 {
		lifetime = 5 * time.Minute
	}
	return &SessionManager{secret: []byte(secret), lifetime: lifetime}
}

func (m *SessionManager) IssueCookie(userID uint64) (*http.Cookie, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.lifetime)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return nil, err
	}
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  now.Add(m.lifetime),
	}, nil
}

func (m *SessionManager) ClearCookie() *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	}
}

// UserID extracts the authenticated user id from the request's session
// cookie. Expired, tampered, or absent cookies all yield ErrNoSession.
func (m *SessionManager) UserID(r *http.Request) (uint64, error) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return 0, ErrNoSession
	}
	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(c.Value, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, ErrNoSession
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, ErrNoSession
	}
	return id, nil
}
