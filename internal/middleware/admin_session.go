package middleware

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	// AdminCookieName holds the signed admin session token
	AdminCookieName = "mc_admin"

	adminSubject      = "admin"
	defaultSessionTTL = 12 * time.Hour
)

var (
	ErrInvalidSecret  = errors.New("invalid admin secret")
	ErrInvalidSession = errors.New("invalid admin session")
)

type AdminClaims struct {
	jwt.RegisteredClaims
}

// AdminSession issues and verifies the admin cookie. There is a single shared
// admin secret and no user accounts.
type AdminSession struct {
	adminSecret []byte
	signingKey  []byte
	ttl         time.Duration
	secure      bool
	now         func() time.Time
}

func NewAdminSession(adminSecret, jwtSecret string, secure bool) *AdminSession {
	return &AdminSession{
		adminSecret: []byte(adminSecret),
		signingKey:  []byte(jwtSecret),
		ttl:         defaultSessionTTL,
		secure:      secure,
		now:         time.Now,
	}
}

// Enabled reports whether both the admin secret and the signing key are set.
func (s *AdminSession) Enabled() bool {
	return len(s.adminSecret) > 0 && len(s.signingKey) > 0
}

// CheckSecret compares in constant time. It never matches while the session is
// disabled.
func (s *AdminSession) CheckSecret(secret string) bool {
	if !s.Enabled() {
		return false
	}
	return subtle.ConstantTimeCompare(s.adminSecret, []byte(secret)) == 1
}

// Login verifies the secret and returns a signed session token.
func (s *AdminSession) Login(secret string) (string, error) {
	if !s.CheckSecret(secret) {
		return "", ErrInvalidSecret
	}
	now := s.now()
	claims := AdminClaims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   adminSubject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
}

func (s *AdminSession) Verify(token string) error {
	if token == "" || !s.Enabled() {
		return ErrInvalidSession
	}
	parsed, err := jwt.ParseWithClaims(token, &AdminClaims{}, func(t *jwt.Token) (interface{}, error) {
		return s.signingKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithSubject(adminSubject),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return ErrInvalidSession
	}
	return nil
}

// SetCookie stores the token in the http-only session cookie.
func (s *AdminSession) SetCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AdminCookieName, token, int(s.ttl.Seconds()), "/", "", s.secure, true)
}

func (s *AdminSession) ClearCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AdminCookieName, "", -1, "/", "", s.secure, true)
}

// RequireAdmin rejects requests without a valid session cookie.
func (s *AdminSession) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(AdminCookieName)
		if err != nil || s.Verify(token) != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Admin session required"})
			return
		}
		c.Set("admin", true)
		c.Next()
	}
}
