package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// InviteCodeMiddleware는 가입 코드가 설정된 경우에만 X-Invite-Code 헤더를 검사한다
func InviteCodeMiddleware(inviteCode string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if inviteCode == "" {
			c.Next()
			return
		}
		if c.GetHeader("X-Invite-Code") != inviteCode {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Invalid invite code"})
			return
		}
		c.Next()
	}
}
