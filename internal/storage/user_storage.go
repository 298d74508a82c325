package storage

import (
	"fmt"
	"time"

	"AnsanMomCare/internal/auth"
	"AnsanMomCare/internal/models"

	"golang.org/x/crypto/bcrypt"
)

func (s *DB) ReadUsers() []models.StoredUser {
	users := []models.StoredUser{}
	if !s.ReadJSON(KeyUsers, &users) || users == nil {
		return []models.StoredUser{}
	}
	return users
}

// SignupLocal은 사용자를 추가하고 로그인 세션을 저장한다
func (s *DB) SignupLocal(in models.SignupInput) (models.AuthState, error) {
	internalID := auth.MakeInternalID(in)

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.AuthState{}, fmt.Errorf("SignupLocal(): failed to hash password: %w", err)
	}

	var user models.StoredUser
	err = s.Locked(func() error {
		users := s.ReadUsers()
		for _, u := range users {
			if u.Username == in.Username {
				return ErrUsernameExists
			}
		}

		user = models.StoredUser{
			SignupInput: in,
			InternalID:  internalID,
			CreatedAt:   time.Now().UTC(),
		}
		user.Password = string(hashed)

		return s.WriteJSON(KeyUsers, append(users, user))
	})
	if err != nil {
		return models.AuthState{}, err
	}

	session := models.NewAuthState(user)
	if err := s.SaveSession(session); err != nil {
		return models.AuthState{}, err
	}
	return session, nil
}

func (s *DB) LoginLocal(username, password string) (models.AuthState, error) {
	for _, u := range s.ReadUsers() {
		if u.Username != username {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
			break
		}
		session := models.NewAuthState(u)
		if err := s.SaveSession(session); err != nil {
			return models.AuthState{}, err
		}
		return session, nil
	}
	return models.AuthState{}, ErrInvalidCredentials
}

func (s *DB) GetUserByID(userID string) (models.StoredUser, error) {
	for _, u := range s.ReadUsers() {
		if u.InternalID == userID {
			return u, nil
		}
	}
	return models.StoredUser{}, ErrNotFound
}
