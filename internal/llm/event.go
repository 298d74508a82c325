package llm

import "encoding/json"

// 챗봇 서버가 보내는 이벤트 종류
const (
	EventDecision    = "decision"
	EventStart       = "start"
	EventToken       = "token"
	EventMessage     = "message"
	EventSuggestions = "suggestions"
	EventAction      = "action"
	EventEnd         = "end"
)

// 클라이언트로만 내려가는 이벤트
const (
	EventCard    = "card"
	EventError   = "error"
	EventDone    = "done"
	EventSession = "session"
)

type ChatInMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatEvent struct {
	Type        string          `json:"type"`
	SessionID   string          `json:"sessionId,omitempty"`
	Decision    string          `json:"decision,omitempty"`
	Content     string          `json:"content,omitempty"`
	Suggestions []string        `json:"suggestions,omitempty"`
	Name        string          `json:"name,omitempty"`
	Params      map[string]any  `json:"params,omitempty"`
	Kind        string          `json:"kind,omitempty"`
	Payload     json.RawMessage `json:"payload,omitempty"`
	Error       string          `json:"error,omitempty"`
	Messages    any             `json:"messages,omitempty"`
	Session     any             `json:"session,omitempty"`
}

// decodeEvent는 문자열 type 필드가 있는 객체만 이벤트로 인정한다
func decodeEvent(raw json.RawMessage) (ChatEvent, bool) {
	var probe struct {
		Type *json.RawMessage `json:"type"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil || probe.Type == nil {
		return ChatEvent{}, false
	}
	var typ string
	if err := json.Unmarshal(*probe.Type, &typ); err != nil {
		return ChatEvent{}, false
	}
	var ev ChatEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		// 알 수 없는 필드 형태여도 type만은 전달
		return ChatEvent{Type: typ}, true
	}
	return ev, true
}
