package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ===== Session cookie primitives =====
//
// The session cookie is a capability cache: it remembers which code this
// client last used so later requests can omit the token. The store remains
// the only authority on quota; nothing here affects accounting.

const sessionCookieName = "session_code"

type SessionConfig struct {
	HMACSecret   []byte
	CookieDomain string
	SecureCookie bool
	TTL          time.Duration
}

type SessionManager struct{ cfg SessionConfig }

func NewSessionManager(secret string, secure bool, domain string, ttl time.Duration) *SessionManager {
	return &SessionManager{cfg: SessionConfig{
		HMACSecret:   []byte(secret),
		CookieDomain: domain,
		SecureCookie: secure,
		TTL:          ttl,
	}}
}

type codeClaims struct {
	Code string `json:"code"`
	jwt.RegisteredClaims
}

// Bind mints a signed cookie carrying the code token.
func (m *SessionManager) Bind(w http.ResponseWriter, codeToken string) error {
	now := time.Now()
	claims := codeClaims{
		Code: codeToken,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.cfg.TTL)),
			Subject:   "unlock-code",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.cfg.HMACSecret)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    signed,
		Path:     "/",
		Domain:   m.cfg.CookieDomain,
		MaxAge:   int(m.cfg.TTL.Seconds()),
		HttpOnly: true,
		Secure:   m.cfg.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Clear expires the cookie. Quota is untouched.
func (m *SessionManager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		Domain:   m.cfg.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.cfg.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

// FromRequest extracts the bound code token from the session cookie.
func (m *SessionManager) FromRequest(r *http.Request) (string, error) {
	c, err := r.Cookie(sessionCookieName)
	if err != nil {
		return "", errors.New("missing session")
	}
	claims := &codeClaims{}
	tkn, err := jwt.ParseWithClaims(c.Value, claims, func(t *jwt.Token) (any, error) {
		return m.cfg.HMACSecret, nil
	})
	if err != nil || !tkn.Valid || claims.Code == "" {
		return "", errors.New("invalid session")
	}
	return claims.Code, nil
}
