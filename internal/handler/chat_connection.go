/**
* Name: 			chat_connection.go
* Description: 		WebSocket 챗봇 세션 관리
* Workflow: 		읽기 펌프(클라이언트 -> 서버), 쓰기 펌프(서버 -> 클라이언트), 턴 관리
*					새 메시지가 오면 진행 중인 턴을 취소하고 끝날 때까지 기다린 뒤 새 턴을 시작
 */
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"AnsanMomCare/internal/llm"
	"AnsanMomCare/internal/storage"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = (wsPongWait * 9) / 10
	wsMaxMessage = 64 * 1024
)

// 클라이언트 -> 서버 메시지
type clientFrame struct {
	Type      string `json:"type"`
	SessionID string `json:"sessionId"`
	Text      string `json:"text"`
}

var errChatSessionNotFound = errors.New("chat session not found")

const (
	frameMessage = "message"
	frameCancel  = "cancel"
)

// 진행 중인 턴
type activeTurn struct {
	cancel context.CancelFunc
	done   chan struct{}
}

func (t *activeTurn) stop() {
	if t == nil {
		return
	}
	t.cancel()
	<-t.done
}

func (h *Handler) manageChatSession(parentCtx context.Context, conn *websocket.Conn, userID string) {
	defer conn.Close()
	log := h.log.With(zap.String("user_id", userID))
	log.Info("manageChatSession(): started")

	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(2)

	clientChan := make(chan clientFrame, 16)
	serverChan := make(chan llm.ChatEvent, 128)

	// Client -> Server, 읽기 전담
	go func() {
		defer wg.Done()
		defer cancel()
		chatReadPump(ctx, conn, clientChan, log)
	}()

	// Server -> Client, 쓰기 전담
	go func() {
		defer wg.Done()
		defer cancel()
		chatWritePump(ctx, conn, serverChan, log)
	}()

	emitter := func(sessionID string) func(llm.ChatEvent) error {
		return func(ev llm.ChatEvent) error {
			if ev.SessionID == "" {
				ev.SessionID = sessionID
			}
			select {
			case serverChan <- ev:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	var current *activeTurn

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop

		case frame, ok := <-clientChan:
			if !ok {
				break Loop
			}
			switch frame.Type {
			case frameCancel:
				current.stop()
				current = nil

			case frameMessage:
				current.stop()
				current = nil

				sessionID, err := h.resolveChatSession(userID, frame, emitter(frame.SessionID))
				if err != nil {
					_ = emitter(frame.SessionID)(llm.ChatEvent{Type: llm.EventError, Error: err.Error()})
					continue
				}

				turnCtx, turnCancel := context.WithCancel(ctx)
				turn := &activeTurn{cancel: turnCancel, done: make(chan struct{})}
				current = turn
				go func(text string) {
					defer close(turn.done)
					defer turnCancel()
					if err := h.processChatTurn(turnCtx, userID, sessionID, text, emitter(sessionID)); err != nil {
						if errors.Is(err, errEmptyMessage) {
							_ = emitter(sessionID)(llm.ChatEvent{Type: llm.EventError, Error: err.Error()})
							return
						}
						log.Debug("manageChatSession(): turn ended", zap.String("session_id", sessionID), zap.Error(err))
					}
				}(frame.Text)

			default:
				log.Warn("manageChatSession(): unsupported frame type", zap.String("type", frame.Type))
				_ = emitter(frame.SessionID)(llm.ChatEvent{Type: llm.EventError, Error: "unsupported message type"})
			}
		}
	}

	current.stop()
	cancel()
	// 읽기 펌프를 ReadMessage에서 깨운다
	_ = conn.Close()
	wg.Wait()
	log.Info("manageChatSession(): ended")
}

// resolveChatSession은 sessionId가 비어 있으면 새 세션을 만들어 알린다
func (h *Handler) resolveChatSession(userID string, frame clientFrame, emit func(llm.ChatEvent) error) (string, error) {
	if frame.SessionID != "" {
		if _, err := h.db.GetChatSession(userID, frame.SessionID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return "", errChatSessionNotFound
			}
			return "", err
		}
		return frame.SessionID, nil
	}

	cs, err := h.db.CreateChatSession(userID, storage.TitleFromText(frame.Text))
	if err != nil {
		return "", err
	}
	_ = emit(llm.ChatEvent{Type: llm.EventSession, SessionID: cs.ID, Session: cs})
	return cs.ID, nil
}

func chatReadPump(ctx context.Context, conn *websocket.Conn, clientChan chan<- clientFrame, log *zap.Logger) {
	defer close(clientChan)
	conn.SetReadLimit(wsMaxMessage)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	for {
		messageType, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("chatReadPump(): unexpected close", zap.Error(err))
			}
			return
		}
		if messageType != websocket.TextMessage {
			log.Warn("chatReadPump(): unsupported message type", zap.Int("message_type", messageType))
			continue
		}

		var frame clientFrame
		if err := json.Unmarshal(message, &frame); err != nil {
			log.Warn("chatReadPump(): invalid frame", zap.Error(err))
			continue
		}
		select {
		case clientChan <- frame:
		case <-ctx.Done():
			return
		}
	}
}

func chatWritePump(ctx context.Context, conn *websocket.Conn, serverChan <-chan llm.ChatEvent, log *zap.Logger) {
	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return

		case ev := <-serverChan:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(ev); err != nil {
				log.Warn("chatWritePump(): failed to send event", zap.String("type", ev.Type), zap.Error(err))
				return
			}

		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
