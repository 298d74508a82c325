package middleware

import (
	"net/http"
	"time"

	"AnsanMomCare/internal/config"

	"github.com/gin-gonic/gin"
	limit "github.com/yangxikun/gin-limit-by-key"
	"golang.org/x/time/rate"
)

// 클라이언트별 limiter를 보관하는 시간
const limiterExpiry = time.Hour

// RateLimit은 클라이언트 IP마다 토큰 버킷을 둔다.
// limiter 저장소는 라이브러리 전역이라 name으로 인스턴스별 버킷을 구분한다.
func RateLimit(name string, cfg config.RateLimitConfig) gin.HandlerFunc {
	return limit.NewRateLimiter(
		func(c *gin.Context) string {
			return name + ":" + c.ClientIP()
		},
		func(c *gin.Context) (*rate.Limiter, time.Duration) {
			return rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst), limiterExpiry
		},
		func(c *gin.Context) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
		},
	)
}
