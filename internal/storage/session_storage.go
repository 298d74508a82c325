package storage

import "AnsanMomCare/internal/models"

func (s *DB) SaveSession(session models.AuthState) error {
	if !session.LoggedIn() {
		return nil
	}
	return s.WriteJSON(sessionKey(*session.UserID), session)
}

// LoadSession은 세션이 없거나 깨졌으면 모든 필드가 null인 상태를 반환
func (s *DB) LoadSession(userID string) models.AuthState {
	var session models.AuthState
	if !s.ReadJSON(sessionKey(userID), &session) {
		return models.AuthState{}
	}
	return session
}

func (s *DB) ClearSession(userID string) error {
	return s.RemoveItem(sessionKey(userID))
}
