/**
* Name: 			client.go
* Description: 		외부 챗봇 서버 스트리밍 클라이언트
* Workflow: 		대화 이력 POST, NDJSON 이벤트 스트림 수신
 */
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"AnsanMomCare/internal/metrics"

	"go.uber.org/zap"
)

var ErrMissingBaseURL = errors.New("chat server base URL (CHAT_SERVER_URL) is not configured")

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        *zap.Logger
}

type chatRequest struct {
	Messages []ChatInMessage `json:"messages"`
}

// 스트리밍 응답이므로 전체 Timeout 대신 헤더 대기 시간만 제한
func NewClient(baseURL, apiKey string, headerTimeout time.Duration, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.ResponseHeaderTimeout = headerTimeout
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Transport: transport},
		log:        log.Named("llm"),
	}
}

func (c *Client) Configured() bool {
	return c != nil && c.baseURL != ""
}

// StreamChat은 대화 이력을 보내고 이벤트 스트림을 연다. ctx 취소 시 요청도 중단된다.
func (c *Client) StreamChat(ctx context.Context, messages []ChatInMessage) (*ChatStream, error) {
	if !c.Configured() {
		return nil, ErrMissingBaseURL
	}
	reqBody, err := json.Marshal(chatRequest{Messages: messages})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat", bytes.NewReader(reqBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/x-ndjson")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues("chat", "error").Inc()
		return nil, fmt.Errorf("StreamChat(): request failed: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		metrics.UpstreamRequests.WithLabelValues("chat", "status_"+fmt.Sprint(resp.StatusCode)).Inc()
		return nil, fmt.Errorf("Chat API error: %d %s %s", resp.StatusCode, http.StatusText(resp.StatusCode), strings.TrimSpace(string(text)))
	}

	metrics.UpstreamRequests.WithLabelValues("chat", "ok").Inc()
	c.log.Debug("StreamChat(): stream opened", zap.Int("history", len(messages)))
	return &ChatStream{body: resp.Body, reader: NewNDJSONReader(resp.Body)}, nil
}

type ChatStream struct {
	body   io.ReadCloser
	reader *NDJSONReader
}

// Next는 다음 이벤트를 반환한다. type 필드가 없는 객체는 건너뛴다.
func (s *ChatStream) Next() (ChatEvent, error) {
	for {
		raw, err := s.reader.Next()
		if err != nil {
			return ChatEvent{}, err
		}
		if ev, ok := decodeEvent(raw); ok {
			return ev, nil
		}
	}
}

func (s *ChatStream) Close() error {
	return s.body.Close()
}
