package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindcanvas/mindcanvas-service/internal/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func protectedRouter(session *AdminSession) *gin.Engine {
	router := gin.New()
	router.GET("/admin/ping", session.RequireAdmin(), func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	return router
}

func TestAdminSession_CheckSecret(t *testing.T) {
	session := NewAdminSession("open-sesame", "signing-key", false)
	assert.True(t, session.CheckSecret("open-sesame"))
	assert.False(t, session.CheckSecret("open-sesame "))
	assert.False(t, session.CheckSecret(""))

	unset := NewAdminSession("", "signing-key", false)
	assert.False(t, unset.CheckSecret(""))
}

func TestAdminSession_DisabledWithoutSigningKey(t *testing.T) {
	session := NewAdminSession("open-sesame", "", false)
	assert.False(t, session.Enabled())

	_, err := session.Login("open-sesame")
	assert.ErrorIs(t, err, ErrInvalidSecret)

	// no signing key means no token is accepted
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, AdminClaims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "admin",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}).SignedString([]byte("supersecretkey"))
	require.NoError(t, err)
	assert.ErrorIs(t, session.Verify(forged), ErrInvalidSession)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.AddCookie(&http.Cookie{Name: AdminCookieName, Value: forged})
	protectedRouter(session).ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminSession_LoginAndVerify(t *testing.T) {
	session := NewAdminSession("open-sesame", "signing-key", false)

	_, err := session.Login("wrong")
	assert.ErrorIs(t, err, ErrInvalidSecret)

	token, err := session.Login("open-sesame")
	require.NoError(t, err)
	assert.NoError(t, session.Verify(token))

	other := NewAdminSession("open-sesame", "another-key", false)
	assert.ErrorIs(t, other.Verify(token), ErrInvalidSession)
}

func TestAdminSession_ExpiredToken(t *testing.T) {
	session := NewAdminSession("open-sesame", "signing-key", false)
	token, err := session.Login("open-sesame")
	require.NoError(t, err)

	session.now = func() time.Time { return time.Now().Add(defaultSessionTTL + time.Minute) }
	assert.ErrorIs(t, session.Verify(token), ErrInvalidSession)
}

func TestAdminSession_RejectsOtherAlgorithms(t *testing.T) {
	session := NewAdminSession("open-sesame", "signing-key", false)
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, AdminClaims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   adminSubject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	assert.ErrorIs(t, session.Verify(token), ErrInvalidSession)
}

func TestRequireAdmin(t *testing.T) {
	session := NewAdminSession("open-sesame", "signing-key", false)
	router := protectedRouter(session)

	t.Run("no cookie", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/ping", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("tampered cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
		req.AddCookie(&http.Cookie{Name: AdminCookieName, Value: "not-a-token"})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid cookie", func(t *testing.T) {
		token, err := session.Login("open-sesame")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
		req.AddCookie(&http.Cookie{Name: AdminCookieName, Value: token})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "pong", w.Body.String())
	})
}

func TestAdminSession_SetCookieIsHTTPOnly(t *testing.T) {
	session := NewAdminSession("open-sesame", "signing-key", true)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	session.SetCookie(c, "token-value")

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, AdminCookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)
}

func TestRequestID(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/", func(c *gin.Context) {
		id, _ := c.Request.Context().Value(services.RequestIDKey).(string)
		c.String(http.StatusOK, id)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "req-42", w.Body.String())
	assert.Equal(t, "req-42", w.Header().Get(RequestIDHeader))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, w.Body.String())
	assert.Equal(t, w.Body.String(), w.Header().Get(RequestIDHeader))
}
