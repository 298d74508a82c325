package handler

import (
	"net/http"
	"strconv"

	"AnsanMomCare/internal/logger"
	"AnsanMomCare/internal/models"
	"AnsanMomCare/internal/opendata"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PostnatalCare godoc
// @Summary      경기도 산후조리원 조회 (OpenAPI 프록시)
// @Description  경기데이터드림 PostnatalCare API를 서버 키로 대신 호출하고 정규화된 목록을 반환합니다.
// @Description  OPTIONS 요청은 CORS preflight로 204를 반환합니다.
// @Tags         OpenData
// @Produce      json
// @Param        sigun query string false "시군명 (기본값: DEFAULT_SIGUN)"
// @Param        q     query string false "이름/주소 키워드"
// @Param        page  query int    false "페이지 (기본값 1)"
// @Param        size  query int    false "페이지 크기 (기본값 20)"
// @Success      200 {object} models.PostnatalCareResponse
// @Failure      405 {object} handler.ErrorResponse
// @Failure      500 {object} handler.ErrorResponse
// @Router       /api/gg-postnatal-care [get]
func (h *Handler) PostnatalCare(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", "*")

	switch c.Request.Method {
	case http.MethodOptions:
		c.Header("Access-Control-Allow-Methods", "GET,OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		c.AbortWithStatus(http.StatusNoContent)
		return
	case http.MethodGet:
	default:
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
		return
	}

	sigun := c.DefaultQuery("sigun", h.opts.DefaultSigun)
	if sigun == "" {
		sigun = h.opts.DefaultSigun
	}
	q := opendata.Query{
		Sigun:   sigun,
		Keyword: c.Query("q"),
		Page:    queryInt(c, "page", opendata.DefaultPage),
		Size:    queryInt(c, "size", opendata.DefaultSize),
	}

	resp, err := h.postnatal.Fetch(c.Request.Context(), q)
	if err != nil {
		logger.FromGin(c).Warn("PostnatalCare(): fetch failed", zap.String("sigun", q.Sigun), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if resp.Items == nil {
		resp.Items = []models.PostnatalCareItem{}
	}
	c.JSON(http.StatusOK, resp)
}

// queryInt는 양의 정수 쿼리 값을 읽고, 없거나 잘못되면 def를 쓴다
func queryInt(c *gin.Context, key string, def int) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil || n <= 0 {
		return def
	}
	return n
}
