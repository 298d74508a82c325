package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"AnsanMomCare/internal/auth"
	"AnsanMomCare/internal/cache"
	"AnsanMomCare/internal/community"
	"AnsanMomCare/internal/config"
	"AnsanMomCare/internal/facility"
	"AnsanMomCare/internal/handler"
	"AnsanMomCare/internal/llm"
	"AnsanMomCare/internal/models"
	"AnsanMomCare/internal/opendata"
	"AnsanMomCare/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRouter(t *testing.T, cfg *config.Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := storage.InitDB(filepath.Join(t.TempDir(), "router.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := cache.NewMemory(time.Minute)
	h := handler.New(
		db,
		community.NewService(db, nil),
		opendata.NewClient(cfg.OpenData, time.Second, store, nil),
		facility.NewDirectory(nil, nil, nil),
		llm.NewClient("", "", time.Second, nil),
		handler.Options{DefaultSigun: cfg.OpenData.DefaultSigun},
		nil,
	)
	return newRouter(cfg, h, db, zap.NewNop())
}

func testConfig() *config.Config {
	return &config.Config{
		App:       config.AppConfig{InviteCode: "momcare"},
		OpenData:  config.OpenDataConfig{DefaultSigun: "안산시"},
		RateLimit: config.RateLimitConfig{RPS: 100, Burst: 100},
	}
}

func serve(r http.Handler, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRouter_PublicEndpoints(t *testing.T) {
	r := newTestRouter(t, testConfig())

	w := serve(r, http.MethodGet, "/healthz", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = serve(r, http.MethodGet, "/metrics", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "momcare_http_requests_total")

	w = serve(r, http.MethodGet, "/swagger/doc.json", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/api/gg-postnatal-care")

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/api/community/questions", nil, nil).Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/api/facilities", nil, nil).Code)
	assert.Equal(t, http.StatusMethodNotAllowed, serve(r, http.MethodDelete, "/api/gg-postnatal-care", nil, nil).Code)
}

func TestRouter_AuthFlow(t *testing.T) {
	auth.Init(config.JWTConfig{Secret: "router-test"})
	r := newTestRouter(t, testConfig())

	signup := models.SignupInput{Username: "ansan_mom", Password: "pw", Address: "경기도 안산시 상록구", Age: 30}
	assert.Equal(t, http.StatusForbidden, serve(r, http.MethodPost, "/signup", signup, nil).Code)

	w := serve(r, http.MethodPost, "/signup", signup, map[string]string{"X-Invite-Code": "momcare"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp handler.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/api/chat/sessions", nil, nil).Code)

	bearer := map[string]string{"Authorization": "Bearer " + resp.Token}
	w = serve(r, http.MethodPost, "/api/chat/sessions", handler.ChatSessionRequest{}, bearer)
	require.Equal(t, http.StatusCreated, w.Code)

	w = serve(r, http.MethodGet, "/api/chat/sessions", nil, bearer)
	require.Equal(t, http.StatusOK, w.Code)
	var list handler.ChatSessionsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Sessions, 1)
	assert.Equal(t, storage.DefaultChatTitle, list.Sessions[0].Title)

	w = serve(r, http.MethodPost, "/api/community/questions", community.NewQuestion{Title: "t", Content: "c"}, bearer)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestRouter_RateLimitsLogin(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit = config.RateLimitConfig{RPS: 0.001, Burst: 1}
	r := newTestRouter(t, cfg)

	// 같은 테스트 바이너리의 다른 라우터와 버킷이 겹치지 않도록 전용 IP를 쓴다
	client := map[string]string{"X-Forwarded-For": "203.0.113.7"}
	body := handler.LoginRequest{Username: "nobody", Password: "x"}

	// 프록시 호출은 로그인 버킷을 쓰지 않는다
	assert.NotEqual(t, http.StatusTooManyRequests, serve(r, http.MethodOptions, "/api/gg-postnatal-care", nil, client).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodPost, "/login", body, client).Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(r, http.MethodPost, "/login", body, client).Code)
}
