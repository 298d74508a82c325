/**
* Name: 			user_handler.go
* Description: 		회원가입, 로그인, 로그아웃, 세션/프로필 조회
* Workflow: 		storage 사용자 문서 갱신 후 JWT 발급
 */
package handler

import (
	"errors"
	"net/http"
	"strings"

	"AnsanMomCare/internal/auth"
	"AnsanMomCare/internal/logger"
	"AnsanMomCare/internal/models"
	"AnsanMomCare/internal/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// /login 요청 바디
type LoginRequest struct {
	Username string `json:"username" example:"ansan_mom"`
	Password string `json:"password" example:"password123"`
}

type AuthResponse struct {
	Token   string           `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	Session models.AuthState `json:"session"`
}

// 비밀번호를 제외한 회원 정보
type ProfileResponse struct {
	UserID        string `json:"userId" example:"1a2b3c4d5e6f7a8b"`
	Username      string `json:"username" example:"ansan_mom"`
	Name          string `json:"name" example:"김하나"`
	Address       string `json:"address" example:"경기도 안산시 상록구 한대역로 120"`
	Sigun         string `json:"sigun" example:"안산시"`
	Age           int    `json:"age" example:"31"`
	IsPregnant    bool   `json:"isPregnant"`
	Weeks         *int   `json:"weeks"`
	ChildrenCount *int   `json:"childrenCount"`
	IncomeDecile  *int   `json:"incomeDecile"`
}

// Signup godoc
// @Summary      회원가입 (Signup)
// @Description  프로필과 함께 사용자 계정을 만들고 바로 로그인 세션과 토큰을 발급합니다.
// @Tags         User
// @Accept       json
// @Produce      json
// @Param        X-Invite-Code header string false "SIGNUP_INVITE_CODE 설정 시 필요"
// @Param        request body models.SignupInput true "회원가입 요청 정보"
// @Success      200 {object} handler.AuthResponse
// @Failure      400 {object} handler.ErrorResponse
// @Failure      409 {object} handler.ErrorResponse "이미 있는 아이디"
// @Failure      500 {object} handler.ErrorResponse
// @Router       /signup [post]
func (h *Handler) Signup(c *gin.Context) {
	var in models.SignupInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	// " "으로 입력되는 케이스 방지
	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" || strings.TrimSpace(in.Password) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and Password cannot be empty"})
		return
	}
	if strings.TrimSpace(in.Address) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "주소를 입력해주세요."})
		return
	}
	if in.Age <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Age must be a positive number"})
		return
	}

	session, err := h.db.SignupLocal(in)
	if err != nil {
		if errors.Is(err, storage.ErrUsernameExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "Username already exists"})
			return
		}
		logger.FromGin(c).Error("Signup(): failed to create user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user (database error)"})
		return
	}

	h.respondWithToken(c, session)
}

// Login godoc
// @Summary      로그인 (Login)
// @Description  아이디와 비밀번호로 로그인하고 JWT 토큰과 세션을 발급받습니다.
// @Tags         User
// @Accept       json
// @Produce      json
// @Param        request body handler.LoginRequest true "로그인 요청 정보"
// @Success      200 {object} handler.AuthResponse
// @Failure      400 {object} handler.ErrorResponse "잘못된 요청"
// @Failure      401 {object} handler.ErrorResponse "해당되는 아이디가 없습니다."
// @Failure      500 {object} handler.ErrorResponse "서버 내부 오류"
// @Router       /login [post]
func (h *Handler) Login(c *gin.Context) {
	var credentials LoginRequest
	if err := c.ShouldBindJSON(&credentials); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	session, err := h.db.LoginLocal(strings.TrimSpace(credentials.Username), credentials.Password)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		logger.FromGin(c).Error("Login(): failed to save session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	h.respondWithToken(c, session)
}

func (h *Handler) respondWithToken(c *gin.Context, session models.AuthState) {
	tokenString, err := auth.GenerateToken(*session.Username, *session.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}
	c.JSON(http.StatusOK, AuthResponse{Token: tokenString, Session: session})
}

// Logout godoc
// @Summary      로그아웃 (Logout)
// @Description  서버에 저장된 로그인 세션을 지웁니다. (JWT 필요)
// @Tags         User
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} handler.SuccessResponse
// @Failure      401 {object} handler.ErrorResponse "인증 토큰 누락 또는 만료"
// @Router       /api/logout [post]
func (h *Handler) Logout(c *gin.Context) {
	if err := h.db.ClearSession(c.GetString("user_id")); err != nil {
		logger.FromGin(c).Error("Logout(): failed to clear session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear session"})
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Logged out"})
}

// Session godoc
// @Summary      로그인 세션 조회
// @Description  저장된 세션을 반환합니다. 세션이 없으면 모든 필드가 null입니다.
// @Tags         User
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} models.AuthState
// @Failure      401 {object} handler.ErrorResponse
// @Router       /api/session [get]
func (h *Handler) Session(c *gin.Context) {
	c.JSON(http.StatusOK, h.db.LoadSession(c.GetString("user_id")))
}

// Profile godoc
// @Summary      프로필 조회 (Profile)
// @Description  인증된 사용자의 가입 정보를 조회합니다. (JWT 필요)
// @Tags         User
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} handler.ProfileResponse
// @Failure      401 {object} handler.ErrorResponse "인증 토큰 누락 또는 만료"
// @Failure      404 {object} handler.ErrorResponse "탈퇴했거나 없는 사용자"
// @Router       /api/profile [get]
func (h *Handler) Profile(c *gin.Context) {
	user, err := h.db.GetUserByID(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, ProfileResponse{
		UserID:        user.InternalID,
		Username:      user.Username,
		Name:          user.Name,
		Address:       user.Address,
		Sigun:         h.sigunFor(user.Address),
		Age:           user.Age,
		IsPregnant:    user.IsPregnant,
		Weeks:         user.Weeks,
		ChildrenCount: user.ChildrenCount,
		IncomeDecile:  user.IncomeDecile,
	})
}
