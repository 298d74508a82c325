package models

import "time"

// 회원가입 입력 (프로필 포함)
type SignupInput struct {
	Username      string `json:"username" example:"ansan_mom"`
	Password      string `json:"password" example:"password123"`
	Address       string `json:"address" example:"경기도 안산시 상록구 한대역로 120"`
	Name          string `json:"name" example:"김하나"`
	Age           int    `json:"age" example:"31"`
	IsPregnant    bool   `json:"isPregnant"`
	Weeks         *int   `json:"weeks"`
	ChildrenCount *int   `json:"childrenCount"`
	IncomeDecile  *int   `json:"incomeDecile"`
}

// 저장되는 회원 레코드, Password는 bcrypt 해시
type StoredUser struct {
	SignupInput
	InternalID string    `json:"internalId"`
	CreatedAt  time.Time `json:"createdAt"`
}

// 로그인 세션에 노출되는 공개 프로필
type AuthState struct {
	UserID   *string `json:"userId"`
	Username *string `json:"username"`
	Name     *string `json:"name"`
	Address  *string `json:"address"`
}

func NewAuthState(u StoredUser) AuthState {
	return AuthState{
		UserID:   &u.InternalID,
		Username: &u.Username,
		Name:     &u.Name,
		Address:  &u.Address,
	}
}

func (s AuthState) LoggedIn() bool {
	return s.UserID != nil && *s.UserID != ""
}
