/* JWT 토큰 생성 및 검증을 위한 유틸리티 함수들 */

package auth

import (
	"errors"
	"time"

	"AnsanMomCare/internal/config"

	"github.com/golang-jwt/jwt/v4"
)

var (
	jwtKey        = []byte("default_secret_key")
	jwtExpiration = 24 * time.Hour
	jwtIssuer     = "AnsanMomCare-api"
)

// Init은 서버 시작 시 설정값으로 서명 키와 만료 시간을 교체한다
func Init(cfg config.JWTConfig) {
	if cfg.Secret != "" {
		jwtKey = []byte(cfg.Secret)
	}
	if cfg.Expiration > 0 {
		jwtExpiration = cfg.Expiration
	}
	if cfg.Issuer != "" {
		jwtIssuer = cfg.Issuer
	}
}

// Claims 구조체 정의, JWT 페이로드에 사용자명과 내부 ID 포함
type Claims struct {
	Username string `json:"username"`
	UserID   string `json:"user_id"`
	jwt.RegisteredClaims
}

// JWT 토큰 생성
func GenerateToken(username, userID string) (string, error) {
	now := time.Now()
	claims := &Claims{
		Username: username,
		UserID:   userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(jwtExpiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    jwtIssuer,
			Subject:   "user_auth_token",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtKey)
}

// JWT 토큰 검증
func ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return jwtKey, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// IsExpired는 검증 에러가 만료 때문인지 확인
func IsExpired(err error) bool {
	var vErr *jwt.ValidationError
	if errors.As(err, &vErr) {
		return vErr.Errors&jwt.ValidationErrorExpired != 0
	}
	return false
}
