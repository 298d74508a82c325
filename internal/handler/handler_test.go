package handler

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"AnsanMomCare/internal/cache"
	"AnsanMomCare/internal/community"
	"AnsanMomCare/internal/config"
	"AnsanMomCare/internal/facility"
	"AnsanMomCare/internal/llm"
	"AnsanMomCare/internal/models"
	"AnsanMomCare/internal/opendata"
	"AnsanMomCare/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ggBody = `{"PostnatalCare":[
  {"head":[{"list_total_count":2}]},
  {"row":[
    {"SIGUN_NM":"안산시","BIZPLC_NM":"행복산후조리원","LICENSG_DE":"20150301","BSN_STATE_NM":"영업",
     "LOCPLC_FACLT_TELNO":"031-123-4567","PWNM_PSN_CAPA_CNT":"12","REFINE_ROADNM_ADDR":"경기도 안산시 상록구 한대역로 1",
     "REFINE_WGS84_LAT":"37.3","REFINE_WGS84_LOGT":"126.8"},
    {"SIGUN_NM":"안산시","BIZPLC_NM":"초지산후조리원","BSN_STATE_NM":"영업","REFINE_LOTNO_ADDR":"경기도 안산시 단원구 초지동 1"}
  ]}
]}`

type testEnv struct {
	h        *Handler
	db       *storage.DB
	router   *gin.Engine
	userID   string
	ggQuery  atomic.Value
	ggCalls  int32
	chatBody func(w http.ResponseWriter, r *http.Request)
}

func newTestEnv(t *testing.T, ggKey string) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	env := &testEnv{}

	db, err := storage.InitDB(filepath.Join(t.TempDir(), "handler.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	env.db = db

	gg := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&env.ggCalls, 1)
		env.ggQuery.Store(r.URL.Query())
		fmt.Fprint(w, ggBody)
	}))
	t.Cleanup(gg.Close)

	chatServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if env.chatBody == nil {
			fmt.Fprintln(w, `{"type":"end"}`)
			return
		}
		env.chatBody(w, r)
	}))
	t.Cleanup(chatServer.Close)

	postnatal := opendata.NewClient(config.OpenDataConfig{
		APIKey:       ggKey,
		BaseURL:      gg.URL + "/PostnatalCare",
		DefaultSigun: "안산시",
	}, time.Second, cache.NewMemory(time.Minute), nil)

	facilities := facility.NewDirectory([]map[string]any{
		{"기관명": "상록 산부인과의원", "주소": "경기도 안산시 상록구 항가울로 10", "전화번호": "031-400-0001", "종별": "산부인과 의원"},
		{"기관명": "한대병원", "주소": "경기도 안산시 상록구 한대역로 2", "전화번호": "031-400-0003", "기관종명": "종합병원"},
		{"기관명": "수원 여성의원", "주소": "경기도 수원시 팔달구 1", "전화번호": "031-200-0000", "종별": "여성의원"},
	}, nil, nil)

	env.h = New(db, community.NewService(db, nil), postnatal, facilities,
		llm.NewClient(chatServer.URL, "", time.Second, nil),
		Options{DefaultSigun: "안산시", ActionWait: 50 * time.Millisecond}, nil)

	session, err := db.SignupLocal(models.SignupInput{
		Username: "ansan_mom",
		Password: "pw1234",
		Address:  "경기도 안산시 상록구 한대역로 120",
		Name:     "김하나",
		Age:      31,
	})
	require.NoError(t, err)
	env.userID = *session.UserID

	r := gin.New()
	asUser := func(c *gin.Context) {
		c.Set("user_id", env.userID)
		c.Set("username", "ansan_mom")
	}
	r.POST("/signup", env.h.Signup)
	r.POST("/login", env.h.Login)
	r.GET("/api/profile", asUser, env.h.Profile)
	r.GET("/api/session", asUser, env.h.Session)
	r.POST("/api/logout", asUser, env.h.Logout)
	r.GET("/api/chat/sessions", asUser, env.h.ListChatSessions)
	r.POST("/api/chat/sessions", asUser, env.h.CreateChatSession)
	r.PATCH("/api/chat/sessions/:id", asUser, env.h.RenameChatSession)
	r.DELETE("/api/chat/sessions/:id", asUser, env.h.DeleteChatSession)
	r.GET("/api/chat/sessions/:id/messages", asUser, env.h.GetChatMessages)
	r.POST("/api/chat/sessions/:id/messages", asUser, env.h.PostChatMessage)
	r.Any("/api/gg-postnatal-care", env.h.PostnatalCare)
	r.GET("/api/facilities", env.h.Facilities)
	r.GET("/api/facilities/categories", env.h.FacilityCategories)
	r.GET("/api/community/questions", env.h.ListQuestions)
	r.GET("/api/community/questions/:id", env.h.GetQuestion)
	r.POST("/api/community/questions", asUser, env.h.CreateQuestion)
	r.POST("/api/community/questions/:id/comments", asUser, env.h.AddComment)
	r.POST("/api/community/questions/:id/like", asUser, env.h.LikeQuestion)
	r.GET("/ws/chat", env.h.HandleChatConnection)
	env.router = r
	return env
}

func (env *testEnv) do(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func ndjsonEvents(t *testing.T, body string) []llm.ChatEvent {
	t.Helper()
	var events []llm.ChatEvent
	sc := bufio.NewScanner(strings.NewReader(body))
	sc.Buffer(make([]byte, 1<<20), 1<<20)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var ev llm.ChatEvent
		require.NoError(t, json.Unmarshal([]byte(line), &ev), line)
		events = append(events, ev)
	}
	return events
}

func eventTypes(events []llm.ChatEvent) []string {
	out := make([]string, len(events))
	for i, ev := range events {
		out[i] = ev.Type
	}
	return out
}

func findEvent(events []llm.ChatEvent, typ string) (llm.ChatEvent, bool) {
	for _, ev := range events {
		if ev.Type == typ {
			return ev, true
		}
	}
	return llm.ChatEvent{}, false
}

func TestSignupLoginProfile(t *testing.T) {
	env := newTestEnv(t, "gg-key")

	w := env.do(http.MethodPost, "/signup", models.SignupInput{
		Username: "suwon_mom", Password: "pw", Address: "경기도 수원시 팔달구 1", Name: "이둘", Age: 29,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[AuthResponse](t, w)
	assert.NotEmpty(t, resp.Token)
	require.NotNil(t, resp.Session.Username)
	assert.Equal(t, "suwon_mom", *resp.Session.Username)

	w = env.do(http.MethodPost, "/signup", models.SignupInput{
		Username: "suwon_mom", Password: "pw", Address: "경기도 수원시", Age: 29,
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(http.MethodPost, "/signup", models.SignupInput{Username: "x", Password: "pw", Age: 29})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"주소를 입력해주세요."}`, w.Body.String())

	w = env.do(http.MethodPost, "/signup", models.SignupInput{Username: "  ", Password: "pw", Address: "a", Age: 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodPost, "/login", LoginRequest{Username: "suwon_mom", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(http.MethodPost, "/login", LoginRequest{Username: "ansan_mom", Password: "pw1234"})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodGet, "/api/profile", nil)
	require.Equal(t, http.StatusOK, w.Code)
	profile := decode[ProfileResponse](t, w)
	assert.Equal(t, env.userID, profile.UserID)
	assert.Equal(t, "안산시", profile.Sigun)

	w = env.do(http.MethodGet, "/api/session", nil)
	state := decode[models.AuthState](t, w)
	assert.True(t, state.LoggedIn())

	require.Equal(t, http.StatusOK, env.do(http.MethodPost, "/api/logout", nil).Code)
	state = decode[models.AuthState](t, env.do(http.MethodGet, "/api/session", nil))
	assert.False(t, state.LoggedIn())
}

func TestChatSessionCRUD(t *testing.T) {
	env := newTestEnv(t, "gg-key")

	w := env.do(http.MethodPost, "/api/chat/sessions", ChatSessionRequest{Title: "조리원 상담"})
	require.Equal(t, http.StatusCreated, w.Code)
	cs := decode[models.ChatSession](t, w)
	assert.Equal(t, "조리원 상담", cs.Title)

	list := decode[ChatSessionsResponse](t, env.do(http.MethodGet, "/api/chat/sessions", nil))
	require.Len(t, list.Sessions, 1)

	w = env.do(http.MethodPatch, "/api/chat/sessions/"+cs.ID, ChatSessionRequest{Title: "병원 찾기"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "병원 찾기", decode[models.ChatSession](t, w).Title)

	msgs := decode[ChatMessagesResponse](t, env.do(http.MethodGet, "/api/chat/sessions/"+cs.ID+"/messages", nil))
	assert.Empty(t, msgs.Messages)

	require.Equal(t, http.StatusOK, env.do(http.MethodDelete, "/api/chat/sessions/"+cs.ID, nil).Code)
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodDelete, "/api/chat/sessions/"+cs.ID, nil).Code)
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, "/api/chat/sessions/missing/messages", nil).Code)
}

func TestPostChatMessage_StreamsAndPersistsCards(t *testing.T) {
	env := newTestEnv(t, "gg-key")
	var gotHistory []llm.ChatInMessage
	env.chatBody = func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []llm.ChatInMessage `json:"messages"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		gotHistory = req.Messages
		fmt.Fprintln(w, `{"type":"start"}`)
		fmt.Fprintln(w, `{"type":"token","content":"가까운 "}`)
		fmt.Fprintln(w, `{"type":"token","content":"병원이에요."}`)
		fmt.Fprintln(w, `{"type":"suggestions","suggestions":["소아과도 알려줘"]}`)
		fmt.Fprintln(w, `{"type":"action","name":"medical.recommend","params":{"q":"병원"}}`)
		fmt.Fprintln(w, `{"type":"end"}`)
	}

	cs, err := env.db.CreateChatSession(env.userID, "")
	require.NoError(t, err)

	w := env.do(http.MethodPost, "/api/chat/sessions/"+cs.ID+"/messages", ChatMessageRequest{Text: "병원 알려줘"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/x-ndjson")

	events := ndjsonEvents(t, w.Body.String())
	types := eventTypes(events)
	require.NotEmpty(t, types)
	assert.Equal(t, "start", types[0])
	assert.Equal(t, llm.EventDone, types[len(types)-1])
	assert.Contains(t, types, llm.EventCard)
	for _, ev := range events {
		assert.Equal(t, cs.ID, ev.SessionID)
	}
	assert.Equal(t, []llm.ChatInMessage{{Role: "user", Content: "병원 알려줘"}}, gotHistory)

	card, _ := findEvent(events, llm.EventCard)
	assert.Equal(t, models.KindMedical, card.Kind)
	var payload MedicalCard
	require.NoError(t, json.Unmarshal(card.Payload, &payload))
	assert.Equal(t, "안산시", payload.Sigun)
	require.Len(t, payload.Items, 1)
	assert.Equal(t, "한대병원", payload.Items[0].Name)

	done, _ := findEvent(events, llm.EventDone)
	assert.Equal(t, []string{"소아과도 알려줘"}, done.Suggestions)

	stored := env.db.LoadMessages(env.userID, cs.ID)
	require.Len(t, stored, 3)
	assert.Equal(t, models.SenderUser, stored[0].Sender)
	assert.Equal(t, "가까운 병원이에요.", stored[1].Text)
	assert.Equal(t, models.KindMedical, stored[2].Kind)
}

func TestPostChatMessage_PostnatalFallbackWithoutAction(t *testing.T) {
	env := newTestEnv(t, "gg-key")
	env.chatBody = func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `{"type":"message","content":"조리원을 찾아볼게요."}`)
		fmt.Fprintln(w, `{"type":"end"}`)
	}
	cs, err := env.db.CreateChatSession(env.userID, "")
	require.NoError(t, err)

	w := env.do(http.MethodPost, "/api/chat/sessions/"+cs.ID+"/messages", ChatMessageRequest{Text: "근처 산후조리원 추천해줘"})
	require.Equal(t, http.StatusOK, w.Code)

	events := ndjsonEvents(t, w.Body.String())
	card, ok := findEvent(events, llm.EventCard)
	require.True(t, ok, "fallback card expected: %v", eventTypes(events))
	assert.Equal(t, models.KindPostnatal, card.Kind)

	var payload PostnatalCard
	require.NoError(t, json.Unmarshal(card.Payload, &payload))
	assert.Equal(t, "안산시", payload.Sigun)
	assert.Len(t, payload.Items, 2)

	q := env.ggQuery.Load().(url.Values)
	assert.Equal(t, []string{"안산시"}, q["SIGUN_NM"])
	assert.Equal(t, []string{"5"}, q["pSize"])

	stored := env.db.LoadMessages(env.userID, cs.ID)
	require.Len(t, stored, 3)
	assert.Equal(t, "조리원을 찾아볼게요.", stored[1].Text)
	assert.Equal(t, models.KindPostnatal, stored[2].Kind)
}

func TestPostChatMessage_BackendError(t *testing.T) {
	env := newTestEnv(t, "gg-key")
	env.chatBody = func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusBadGateway)
	}
	cs, err := env.db.CreateChatSession(env.userID, "")
	require.NoError(t, err)

	w := env.do(http.MethodPost, "/api/chat/sessions/"+cs.ID+"/messages", ChatMessageRequest{Text: "안녕"})
	require.Equal(t, http.StatusOK, w.Code)

	events := ndjsonEvents(t, w.Body.String())
	errEv, ok := findEvent(events, llm.EventError)
	require.True(t, ok)
	assert.Contains(t, errEv.Error, "502")
	assert.Equal(t, llm.EventDone, events[len(events)-1].Type)
	assert.Len(t, env.db.LoadMessages(env.userID, cs.ID), 1)
}

func TestPostChatMessage_StreamDropKeepsOnlyUserMessage(t *testing.T) {
	env := newTestEnv(t, "gg-key")
	env.chatBody = func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `{"type":"token","content":"반쪽짜리 답"}`)
		w.(http.Flusher).Flush()
		conn, _, err := w.(http.Hijacker).Hijack()
		if err == nil {
			conn.Close()
		}
	}
	cs, err := env.db.CreateChatSession(env.userID, "")
	require.NoError(t, err)

	w := env.do(http.MethodPost, "/api/chat/sessions/"+cs.ID+"/messages", ChatMessageRequest{Text: "안녕"})
	require.Equal(t, http.StatusOK, w.Code)

	events := ndjsonEvents(t, w.Body.String())
	_, ok := findEvent(events, llm.EventError)
	require.True(t, ok, "error event expected: %v", eventTypes(events))
	done, ok := findEvent(events, llm.EventDone)
	require.True(t, ok)
	assert.Empty(t, done.Messages)

	stored := env.db.LoadMessages(env.userID, cs.ID)
	require.Len(t, stored, 1)
	assert.Equal(t, models.SenderUser, stored[0].Sender)
}

func TestPostChatMessage_Validation(t *testing.T) {
	env := newTestEnv(t, "gg-key")
	cs, err := env.db.CreateChatSession(env.userID, "")
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest,
		env.do(http.MethodPost, "/api/chat/sessions/"+cs.ID+"/messages", ChatMessageRequest{Text: "  "}).Code)
	assert.Equal(t, http.StatusNotFound,
		env.do(http.MethodPost, "/api/chat/sessions/nope/messages", ChatMessageRequest{Text: "hi"}).Code)
}

func TestPostnatalCare(t *testing.T) {
	env := newTestEnv(t, "gg-key")

	w := env.do(http.MethodOptions, "/api/gg-postnatal-care", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET,OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))

	w = env.do(http.MethodPost, "/api/gg-postnatal-care", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.JSONEq(t, `{"error":"Method not allowed"}`, w.Body.String())

	w = env.do(http.MethodGet, "/api/gg-postnatal-care", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[models.PostnatalCareResponse](t, w)
	assert.Equal(t, 2, resp.Total)
	assert.Len(t, resp.Items, 2)

	q := env.ggQuery.Load().(url.Values)
	assert.Equal(t, []string{"안산시"}, q["SIGUN_NM"])
	assert.Equal(t, []string{"1"}, q["pIndex"])
	assert.Equal(t, []string{"20"}, q["pSize"])

	w = env.do(http.MethodGet, "/api/gg-postnatal-care?q=초지", nil)
	resp = decode[models.PostnatalCareResponse](t, w)
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, int32(1), atomic.LoadInt32(&env.ggCalls), "second lookup is served from cache")
}

func TestPostnatalCare_MissingKey(t *testing.T) {
	env := newTestEnv(t, "")

	w := env.do(http.MethodGet, "/api/gg-postnatal-care?sigun=수원시", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"GG_API_KEY is not configured"}`, w.Body.String())
}

func TestFacilities(t *testing.T) {
	env := newTestEnv(t, "gg-key")

	resp := decode[FacilitiesResponse](t, env.do(http.MethodGet, "/api/facilities?sigun=안산시", nil))
	assert.Equal(t, 2, resp.Total)

	// sigun이 없으면 기본 시군(안산시)으로 거른다
	resp = decode[FacilitiesResponse](t, env.do(http.MethodGet, "/api/facilities", nil))
	assert.Equal(t, 2, resp.Total)
	resp = decode[FacilitiesResponse](t, env.do(http.MethodGet, "/api/facilities?q=수원", nil))
	assert.Equal(t, 0, resp.Total)

	resp = decode[FacilitiesResponse](t, env.do(http.MethodGet, "/api/facilities?sigun=all&q=수원&size=1", nil))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "수원 여성의원", resp.Items[0].Name)
	resp = decode[FacilitiesResponse](t, env.do(http.MethodGet, "/api/facilities?sigun=all", nil))
	assert.Equal(t, 3, resp.Total)

	cats := decode[CategoriesResponse](t, env.do(http.MethodGet, "/api/facilities/categories", nil))
	assert.Equal(t, []string{"산부인과 의원", "여성의원", "종합병원"}, cats.Categories)
}

func TestCommunityEndpoints(t *testing.T) {
	env := newTestEnv(t, "gg-key")

	list := decode[QuestionsResponse](t, env.do(http.MethodGet, "/api/community/questions", nil))
	seeded := len(list.Questions)
	require.NotZero(t, seeded)
	assert.Equal(t, community.Categories, list.Categories)

	w := env.do(http.MethodPost, "/api/community/questions", community.NewQuestion{
		Title: "조리원 예약", Content: "언제 하나요?", Category: "출산", Tags: "조리원, 예약 조리원", IsAnonymous: true,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	q := decode[models.Question](t, w)
	assert.Equal(t, "익명맘", q.Author)
	assert.Equal(t, []string{"조리원", "예약"}, q.Tags)

	w = env.do(http.MethodPost, "/api/community/questions", community.NewQuestion{Title: " ", Content: "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodPost, "/api/community/questions/"+q.ID+"/comments", community.NewComment{Content: "20주쯤이요"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 1, decode[models.Question](t, w).Answers)

	w = env.do(http.MethodPost, "/api/community/questions/"+q.ID+"/comments", community.NewComment{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodPost, "/api/community/questions/"+q.ID+"/like", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, q.Likes+1, decode[models.Question](t, w).Likes)

	w = env.do(http.MethodGet, "/api/community/questions/"+q.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	list = decode[QuestionsResponse](t, env.do(http.MethodGet, "/api/community/questions", nil))
	assert.Len(t, list.Questions, seeded+1)

	assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, "/api/community/questions/none", nil).Code)
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodPost, "/api/community/questions/none/like", nil).Code)
}
