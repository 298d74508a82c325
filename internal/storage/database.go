/**
* Name: 			database.go
* Description: 		SQLite 기반 key/value 문서 저장소
* Workflow: 		키 하나에 JSON 문서 하나, 마지막 쓰기가 이김
 */
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrUsernameExists     = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("해당되는 아이디가 없습니다.")
)

// 문서 키 (브라우저 localStorage 키와 동일한 네임스페이스)
const (
	KeyUsers              = "users"
	KeyCommunityQuestions = "communityQuestions"
	KeyCommunityOverrides = "communityOverrides"
)

func sessionKey(userID string) string { return "session:" + userID }

func chatSessionsKey(userID string) string { return "chat:sessions:" + userID }

func chatMessagesKey(userID, sessionID string) string {
	return "chat:messages:" + userID + ":" + sessionID
}

type DB struct {
	db  *sql.DB
	log *zap.Logger

	// 읽기-수정-쓰기 구간 직렬화
	mu sync.Mutex
}

func InitDB(path string, log *zap.Logger) (*DB, error) {
	if log == nil {
		log = zap.NewNop()
	}
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path))
	if err != nil {
		return nil, fmt.Errorf("InitDB(): failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("InitDB(): failed to connect to database: %w", err)
	}

	createKVTable := `
	CREATE TABLE IF NOT EXISTS kv (
			"key" TEXT PRIMARY KEY,
			"value" TEXT NOT NULL,
			"updated_at" DATETIME NOT NULL
	);`
	if _, err := db.Exec(createKVTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("InitDB(): failed to create kv table: %w", err)
	}

	log.Info("InitDB(): Init and create table successfully", zap.String("path", path))
	return &DB{db: db, log: log}, nil
}

func (s *DB) Close() error {
	return s.db.Close()
}

func (s *DB) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// GetItem은 키가 없으면 ok=false
func (s *DB) GetItem(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *DB) SetItem(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO kv(key, value, updated_at) VALUES(?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC())
	return err
}

func (s *DB) RemoveItem(key string) error {
	_, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, key)
	return err
}

// ReadJSON은 키가 없거나 JSON이 깨졌으면 false를 반환하고 dst를 건드리지 않는다
func (s *DB) ReadJSON(key string, dst any) bool {
	raw, ok, err := s.GetItem(key)
	if err != nil {
		s.log.Error("ReadJSON(): failed to read item", zap.String("key", key), zap.Error(err))
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		s.log.Warn("ReadJSON(): malformed stored JSON, using default", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (s *DB) WriteJSON(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("WriteJSON(): failed to encode %s: %w", key, err)
	}
	return s.SetItem(key, string(data))
}

// Locked는 fn 실행 동안 다른 읽기-수정-쓰기 작업을 막는다
func (s *DB) Locked(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn()
}
