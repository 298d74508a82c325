package handler

import (
	"net/http"

	"AnsanMomCare/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Upgrade HTTP connection to WebSocket
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleChatConnection godoc
// @Summary      챗봇 WebSocket 연결
// @Description  NDJSON 스트림과 같은 이벤트를 WebSocket 텍스트 프레임(JSON)으로 주고받습니다.
// @Description  <br>
// @Description  **참고: 이것은 표준 HTTP API가 아닙니다.**
// @Description  클라이언트는 `ws://` 또는 `wss://` 스킴을 사용하여 이 엔드포인트에 연결해야 합니다.
// @Description  인증은 HTTP Header가 아닌 **쿼리 파라미터('token')**를 통해 수행됩니다.
// @Description  보내는 메시지: `{"type":"message","sessionId":"...","text":"..."}`, `{"type":"cancel"}`
// @Description  sessionId가 비어 있으면 새 세션을 만들고 `session` 이벤트를 먼저 보냅니다.
// @Tags         WebSocket (Chat)
// @Param        token    query     string  true  "로그인 시 발급받은 JWT 토큰"
// @Success      101      {string}  string  "101 Switching Protocols (WebSocket으로 프로토콜 전환 성공)"
// @Failure      401      {object}  handler.ErrorResponse "토큰 누락 또는 유효하지 않은 토큰"
// @Router       /ws/chat [get]
func (h *Handler) HandleChatConnection(c *gin.Context) {
	// 사용자 토큰 검증
	claims, err := auth.ValidateToken(c.Query("token"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}
	if _, err := h.db.GetUserByID(claims.UserID); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("HandleChatConnection(): failed to upgrade to WebSocket",
			zap.String("username", claims.Username), zap.Error(err))
		return
	}
	h.log.Info("HandleChatConnection(): connection established", zap.String("username", claims.Username))

	h.manageChatSession(c.Request.Context(), conn, claims.UserID)
}
