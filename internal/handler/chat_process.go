/**
* Name: 			chat_process.go
* Description: 		챗봇 한 턴 처리 (사용자 메시지 -> 챗봇 서버 스트림 -> 카드 조회 -> 저장)
* Workflow: 		사용자 메시지 저장, 이벤트 중계, action 카드 조회, 카드 완료 후 응답 확정, done 전송
 */
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"AnsanMomCare/internal/action"
	"AnsanMomCare/internal/facility"
	"AnsanMomCare/internal/intent"
	"AnsanMomCare/internal/llm"
	"AnsanMomCare/internal/metrics"
	"AnsanMomCare/internal/models"
	"AnsanMomCare/internal/opendata"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var errEmptyMessage = errors.New("message text is required")

// 카드 payload
type PostnatalCard struct {
	Sigun string                     `json:"sigun"`
	Query string                     `json:"q,omitempty"`
	Total int                        `json:"total"`
	Items []models.PostnatalCareItem `json:"items"`
}

type MedicalCard struct {
	Sigun string                   `json:"sigun"`
	Query string                   `json:"q,omitempty"`
	Items []models.MedicalFacility `json:"items"`
}

// chatTurn은 한 번의 사용자 메시지 처리 상태
type chatTurn struct {
	h         *Handler
	userID    string
	sessionID string
	address   string
	sigun     string
	log       *zap.Logger

	emitMu sync.Mutex
	emit   func(llm.ChatEvent) error

	mu               sync.Mutex
	cards            []models.ChatMessage
	postnatalStarted bool
}

// send는 카드 고루틴과 스트림 루프가 함께 쓰므로 직렬화한다
func (t *chatTurn) send(ev llm.ChatEvent) {
	t.emitMu.Lock()
	defer t.emitMu.Unlock()
	if err := t.emit(ev); err != nil {
		t.log.Debug("send(): client write failed", zap.String("type", ev.Type), zap.Error(err))
	}
}

// processChatTurn은 ctx가 취소되면(새 메시지, 연결 종료) 진행 중인 스트림과 카드 조회를 멈춘다
func (h *Handler) processChatTurn(ctx context.Context, userID, sessionID, text string, emit func(llm.ChatEvent) error) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return errEmptyMessage
	}
	if err := h.db.AppendMessages(userID, sessionID, models.ChatMessage{
		Sender: models.SenderUser,
		Text:   text,
		Kind:   models.KindText,
	}); err != nil {
		return err
	}

	address := ""
	if user, err := h.db.GetUserByID(userID); err == nil {
		address = user.Address
	}
	t := &chatTurn{
		h:         h,
		userID:    userID,
		sessionID: sessionID,
		address:   address,
		sigun:     h.sigunFor(address),
		log:       h.log.With(zap.String("user_id", userID), zap.String("session_id", sessionID)),
		emit:      emit,
	}
	history := toChatHistory(h.db.LoadMessages(userID, sessionID))

	g, gctx := errgroup.WithContext(ctx)

	// 조리원 의도가 보이면 ActionWait 안에 action이 오지 않을 때 직접 카드를 띄운다
	var fallbackC <-chan time.Time
	var fallbackTimer *time.Timer
	if intent.DetectPostnatalCareIntent(text) {
		fallbackTimer = time.NewTimer(h.opts.ActionWait)
		defer fallbackTimer.Stop()
		fallbackC = fallbackTimer.C
	}

	events := make(chan llm.ChatEvent)
	streamErr := make(chan error, 1)

	stream, err := h.chat.StreamChat(ctx, history)
	if err != nil {
		streamErr <- err
	} else {
		go pumpChatStream(ctx, stream, events, streamErr)
	}

	var reply strings.Builder
	var suggestions []string
	outcome := "ok"

StreamLoop:
	for {
		select {
		case <-ctx.Done():
			break StreamLoop

		case <-fallbackC:
			fallbackC = nil
			t.log.Info("processChatTurn(): no action from chat server, starting postnatal lookup")
			t.startCard(g, gctx, action.PostnatalRecommend, nil)

		case ev := <-events:
			switch ev.Type {
			case llm.EventToken:
				reply.WriteString(ev.Content)
			case llm.EventMessage:
				reply.Reset()
				reply.WriteString(ev.Content)
			case llm.EventSuggestions:
				suggestions = ev.Suggestions
			}
			t.send(ev)
			if ev.Type == llm.EventAction {
				t.startCard(g, gctx, ev.Name, ev.Params)
			}

		case err := <-streamErr:
			if !errors.Is(err, io.EOF) && ctx.Err() == nil {
				outcome = "error"
				t.log.Warn("processChatTurn(): chat stream failed", zap.Error(err))
				t.send(llm.ChatEvent{Type: llm.EventError, Error: err.Error()})
			}
			break StreamLoop
		}
	}

	// 스트림이 먼저 끝났으면 더 기다릴 action이 없으므로 바로 조회한다
	if fallbackC != nil && ctx.Err() == nil {
		fallbackTimer.Stop()
		t.startCard(g, gctx, action.PostnatalRecommend, nil)
	}
	_ = g.Wait()

	if ctx.Err() != nil {
		metrics.ChatTurns.WithLabelValues("canceled").Inc()
		t.log.Info("processChatTurn(): turn canceled")
		return ctx.Err()
	}

	finalized := make([]models.ChatMessage, 0, 1+len(t.cards))
	// 실패한 스트림의 중간 답변은 저장하지 않는다
	if botText := strings.TrimSpace(reply.String()); botText != "" && outcome != "error" {
		finalized = append(finalized, models.ChatMessage{
			ID:        uuid.New().String(),
			Sender:    models.SenderBot,
			Text:      botText,
			Timestamp: time.Now().UTC(),
			Kind:      models.KindText,
		})
	}
	finalized = append(finalized, t.cards...)

	if err := h.db.AppendMessages(userID, sessionID, finalized...); err != nil {
		metrics.ChatTurns.WithLabelValues("error").Inc()
		t.send(llm.ChatEvent{Type: llm.EventError, Error: "Failed to save messages"})
		return fmt.Errorf("processChatTurn(): failed to persist reply: %w", err)
	}

	metrics.ChatTurns.WithLabelValues(outcome).Inc()
	t.send(llm.ChatEvent{Type: llm.EventDone, Messages: finalized, Suggestions: suggestions})
	return nil
}

func pumpChatStream(ctx context.Context, stream *llm.ChatStream, events chan<- llm.ChatEvent, streamErr chan<- error) {
	defer stream.Close()
	for {
		ev, err := stream.Next()
		if err != nil {
			streamErr <- err
			return
		}
		select {
		case events <- ev:
		case <-ctx.Done():
			streamErr <- ctx.Err()
			return
		}
	}
}

// toChatHistory는 저장된 텍스트 메시지를 챗봇 서버 입력 형식으로 바꾼다. 카드는 제외.
func toChatHistory(msgs []models.ChatMessage) []llm.ChatInMessage {
	out := make([]llm.ChatInMessage, 0, len(msgs))
	for _, m := range msgs {
		if m.Kind != "" && m.Kind != models.KindText {
			continue
		}
		role := "user"
		if m.Sender == models.SenderBot {
			role = "assistant"
		}
		out = append(out, llm.ChatInMessage{Role: role, Content: m.Text})
	}
	return out
}

// startCard는 action 종류에 맞는 조회를 errgroup에 올린다. 조리원 카드는 턴마다 한 번만.
func (t *chatTurn) startCard(g *errgroup.Group, ctx context.Context, name string, params map[string]any) {
	act, ok := action.GetAction(name)
	if !ok {
		t.log.Warn("startCard(): unknown action", zap.String("action", name))
		return
	}
	if act.Name == action.PostnatalRecommend {
		t.mu.Lock()
		started := t.postnatalStarted
		t.postnatalStarted = true
		t.mu.Unlock()
		if started {
			return
		}
	}
	p := action.ParseParams(params, t.sigun)

	g.Go(func() error {
		text, payload, err := t.lookup(ctx, act, p)
		if err != nil {
			metrics.CardTasks.WithLabelValues(act.Name, "error").Inc()
			t.log.Warn("startCard(): lookup failed", zap.String("action", act.Name), zap.Error(err))
			t.send(llm.ChatEvent{Type: llm.EventError, Kind: act.Kind, Error: err.Error()})
			return nil
		}
		data, err := json.Marshal(payload)
		if err != nil {
			return nil
		}

		msg := models.ChatMessage{
			ID:        uuid.New().String(),
			Sender:    models.SenderBot,
			Text:      text,
			Timestamp: time.Now().UTC(),
			Kind:      act.Kind,
			Payload:   data,
		}
		t.mu.Lock()
		t.cards = append(t.cards, msg)
		t.mu.Unlock()

		metrics.CardTasks.WithLabelValues(act.Name, "ok").Inc()
		t.send(llm.ChatEvent{Type: llm.EventCard, Name: act.Name, Kind: act.Kind, Content: text, Payload: data})
		return nil
	})
}

func (t *chatTurn) lookup(ctx context.Context, act action.Action, p action.Params) (string, any, error) {
	switch act.Name {
	case action.PostnatalRecommend:
		resp, err := t.h.postnatal.Fetch(ctx, opendata.Query{Sigun: p.Sigun, Keyword: p.Query, Size: p.Size})
		if err != nil {
			return "", nil, err
		}
		text := fmt.Sprintf("%s 산후조리원 %d곳을 찾았어요.", p.Sigun, len(resp.Items))
		if len(resp.Items) == 0 {
			text = fmt.Sprintf("%s에서 조건에 맞는 산후조리원을 찾지 못했어요.", p.Sigun)
		}
		return text, PostnatalCard{Sigun: p.Sigun, Query: p.Query, Total: resp.Total, Items: resp.Items}, nil

	case action.MedicalRecommend:
		items := t.h.facilities.Search(facility.SearchQuery{Sigun: p.Sigun, Keyword: p.Query, Size: p.Size})
		items = t.h.facilities.SortByDistance(ctx, t.address, items)
		text := fmt.Sprintf("%s 의료기관 %d곳을 찾았어요.", p.Sigun, len(items))
		if len(items) == 0 {
			text = fmt.Sprintf("%s에서 조건에 맞는 의료기관을 찾지 못했어요.", p.Sigun)
		}
		return text, MedicalCard{Sigun: p.Sigun, Query: p.Query, Items: items}, nil
	}
	return "", nil, fmt.Errorf("no lookup for action %s", act.Name)
}
