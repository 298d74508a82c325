package storage

import (
	"sort"
	"strings"
	"time"

	"AnsanMomCare/internal/models"

	"github.com/google/uuid"
)

const (
	DefaultChatTitle = "새 대화"
	maxTitleRunes    = 30
)

// TitleFromText는 첫 사용자 메시지로 세션 제목을 만든다
func TitleFromText(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return DefaultChatTitle
	}
	runes := []rune(text)
	if len(runes) > maxTitleRunes {
		return string(runes[:maxTitleRunes]) + "…"
	}
	return text
}

func (s *DB) readChatSessions(userID string) []models.ChatSession {
	sessions := []models.ChatSession{}
	if !s.ReadJSON(chatSessionsKey(userID), &sessions) || sessions == nil {
		return []models.ChatSession{}
	}
	return sessions
}

// ListChatSessions는 최근 수정순으로 정렬된 세션 목록
func (s *DB) ListChatSessions(userID string) []models.ChatSession {
	sessions := s.readChatSessions(userID)
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].UpdatedAt.After(sessions[j].UpdatedAt)
	})
	return sessions
}

func (s *DB) GetChatSession(userID, sessionID string) (models.ChatSession, error) {
	for _, cs := range s.readChatSessions(userID) {
		if cs.ID == sessionID {
			return cs, nil
		}
	}
	return models.ChatSession{}, ErrNotFound
}

func (s *DB) CreateChatSession(userID, title string) (models.ChatSession, error) {
	now := time.Now().UTC()
	cs := models.ChatSession{
		ID:        uuid.New().String(),
		Title:     strings.TrimSpace(title),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if cs.Title == "" {
		cs.Title = DefaultChatTitle
	}
	err := s.Locked(func() error {
		sessions := s.readChatSessions(userID)
		return s.WriteJSON(chatSessionsKey(userID), append([]models.ChatSession{cs}, sessions...))
	})
	return cs, err
}

func (s *DB) RenameChatSession(userID, sessionID, title string) (models.ChatSession, error) {
	var renamed models.ChatSession
	err := s.Locked(func() error {
		sessions := s.readChatSessions(userID)
		for i := range sessions {
			if sessions[i].ID != sessionID {
				continue
			}
			sessions[i].Title = TitleFromText(title)
			sessions[i].UpdatedAt = time.Now().UTC()
			renamed = sessions[i]
			return s.WriteJSON(chatSessionsKey(userID), sessions)
		}
		return ErrNotFound
	})
	return renamed, err
}

func (s *DB) DeleteChatSession(userID, sessionID string) error {
	return s.Locked(func() error {
		sessions := s.readChatSessions(userID)
		kept := sessions[:0]
		found := false
		for _, cs := range sessions {
			if cs.ID == sessionID {
				found = true
				continue
			}
			kept = append(kept, cs)
		}
		if !found {
			return ErrNotFound
		}
		if err := s.WriteJSON(chatSessionsKey(userID), kept); err != nil {
			return err
		}
		return s.RemoveItem(chatMessagesKey(userID, sessionID))
	})
}

func (s *DB) LoadMessages(userID, sessionID string) []models.ChatMessage {
	msgs := []models.ChatMessage{}
	if !s.ReadJSON(chatMessagesKey(userID, sessionID), &msgs) || msgs == nil {
		return []models.ChatMessage{}
	}
	return msgs
}

// AppendMessages는 메시지를 추가하고 세션의 updatedAt을 갱신한다.
// 제목이 기본값이면 첫 사용자 메시지로 바꾼다.
func (s *DB) AppendMessages(userID, sessionID string, msgs ...models.ChatMessage) error {
	if len(msgs) == 0 {
		return nil
	}
	return s.Locked(func() error {
		sessions := s.readChatSessions(userID)
		idx := -1
		for i := range sessions {
			if sessions[i].ID == sessionID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return ErrNotFound
		}

		for i := range msgs {
			if msgs[i].ID == "" {
				msgs[i].ID = uuid.New().String()
			}
			if msgs[i].Timestamp.IsZero() {
				msgs[i].Timestamp = time.Now().UTC()
			}
		}
		existing := s.LoadMessages(userID, sessionID)
		if err := s.WriteJSON(chatMessagesKey(userID, sessionID), append(existing, msgs...)); err != nil {
			return err
		}

		if sessions[idx].Title == DefaultChatTitle {
			for _, m := range msgs {
				if m.Sender == models.SenderUser {
					sessions[idx].Title = TitleFromText(m.Text)
					break
				}
			}
		}
		sessions[idx].UpdatedAt = time.Now().UTC()
		return s.WriteJSON(chatSessionsKey(userID), sessions)
	})
}
