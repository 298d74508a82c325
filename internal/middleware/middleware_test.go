package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"AnsanMomCare/internal/auth"
	"AnsanMomCare/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	r.GET("/ok", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"username": c.GetString("username"), "user_id": c.GetString("user_id")})
	})
	return r
}

func do(r http.Handler, header, value string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	if header != "" {
		req.Header.Set(header, value)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	auth.Init(config.JWTConfig{Secret: "middleware-test"})
	r := newRouter(AuthMiddleware())

	w := do(r, "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Authorization header required"}`, w.Body.String())

	w = do(r, "Authorization", "Token abc")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid authorization header format")

	w = do(r, "Authorization", "Bearer not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Invalid token"}`, w.Body.String())

	token, err := auth.GenerateToken("ansan_mom", "abc123")
	require.NoError(t, err)
	w = do(r, "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"username":"ansan_mom","user_id":"abc123"}`, w.Body.String())
}

func TestAuthMiddleware_Expired(t *testing.T) {
	auth.Init(config.JWTConfig{Secret: "middleware-test"})
	claims := &auth.Claims{
		Username: "ansan_mom",
		UserID:   "abc123",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("middleware-test"))
	require.NoError(t, err)

	w := do(newRouter(AuthMiddleware()), "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Token has expired"}`, w.Body.String())
}

func TestInviteCodeMiddleware(t *testing.T) {
	open := newRouter(InviteCodeMiddleware(""))
	assert.Equal(t, http.StatusOK, do(open, "", "").Code)

	guarded := newRouter(InviteCodeMiddleware("momcare"))
	assert.Equal(t, http.StatusForbidden, do(guarded, "", "").Code)
	assert.Equal(t, http.StatusForbidden, do(guarded, "X-Invite-Code", "wrong").Code)
	assert.Equal(t, http.StatusOK, do(guarded, "X-Invite-Code", "momcare").Code)
}

func TestRateLimit(t *testing.T) {
	r := newRouter(RateLimit("strict-test", config.RateLimitConfig{RPS: 0.001, Burst: 2}))

	assert.Equal(t, http.StatusOK, do(r, "", "").Code)
	assert.Equal(t, http.StatusOK, do(r, "", "").Code)
	w := do(r, "", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"error":"Too many requests"}`, w.Body.String())
}

func TestRateLimit_InstancesKeepSeparateBuckets(t *testing.T) {
	loose := newRouter(RateLimit("loose", config.RateLimitConfig{RPS: 100, Burst: 100}))
	strict := newRouter(RateLimit("strict", config.RateLimitConfig{RPS: 0.001, Burst: 1}))

	assert.Equal(t, http.StatusOK, do(loose, "", "").Code)
	assert.Equal(t, http.StatusOK, do(strict, "", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, do(strict, "", "").Code)
	assert.Equal(t, http.StatusOK, do(loose, "", "").Code)
}
