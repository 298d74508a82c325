package models

import (
	"encoding/json"
	"time"
)

const (
	SenderUser = "user"
	SenderBot  = "bot"
)

// 봇 메시지 렌더링 종류
const (
	KindText      = "text"
	KindPostnatal = "postnatal"
	KindMedical   = "medical"
)

type ChatSession struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ChatMessage struct {
	ID        string          `json:"id"`
	Sender    string          `json:"sender"`
	Text      string          `json:"text"`
	Timestamp time.Time       `json:"timestamp"`
	Kind      string          `json:"kind,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}
