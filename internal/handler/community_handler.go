package handler

import (
	"errors"
	"net/http"

	"AnsanMomCare/internal/community"
	"AnsanMomCare/internal/logger"
	"AnsanMomCare/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type QuestionsResponse struct {
	Questions  []models.Question `json:"questions"`
	Categories []string          `json:"categories"`
}

// ListQuestions godoc
// @Summary      커뮤니티 질문 목록
// @Description  기본 질문과 사용자가 작성한 질문을 합쳐 필터/검색/정렬합니다.
// @Tags         Community
// @Produce      json
// @Param        category query string false "카테고리 (all = 전체)"
// @Param        search   query string false "제목/내용 검색어"
// @Param        sort     query string false "latest | popular | unanswered | points"
// @Success      200 {object} handler.QuestionsResponse
// @Router       /api/community/questions [get]
func (h *Handler) ListQuestions(c *gin.Context) {
	questions := h.community.List(community.ListQuery{
		Category: c.DefaultQuery("category", community.CategoryAll),
		Search:   c.Query("search"),
		Sort:     c.DefaultQuery("sort", community.SortLatest),
	})
	c.JSON(http.StatusOK, QuestionsResponse{Questions: questions, Categories: community.Categories})
}

// GetQuestion godoc
// @Summary      커뮤니티 질문 상세
// @Tags         Community
// @Produce      json
// @Param        id path string true "질문 ID"
// @Success      200 {object} models.Question
// @Failure      404 {object} handler.ErrorResponse
// @Router       /api/community/questions/{id} [get]
func (h *Handler) GetQuestion(c *gin.Context) {
	q, err := h.community.Get(c.Param("id"))
	if err != nil {
		h.communityError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

// CreateQuestion godoc
// @Summary      커뮤니티 질문 작성
// @Description  태그는 공백이나 쉼표로 구분합니다. 익명이거나 작성자가 비어 있으면 '익명맘'으로 저장됩니다.
// @Tags         Community
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body community.NewQuestion true "질문 내용"
// @Success      201 {object} models.Question
// @Failure      400 {object} handler.ErrorResponse
// @Failure      401 {object} handler.ErrorResponse
// @Router       /api/community/questions [post]
func (h *Handler) CreateQuestion(c *gin.Context) {
	var in community.NewQuestion
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": community.ErrEmptyQuestion.Error()})
		return
	}
	q, err := h.community.Create(in)
	if err != nil {
		h.communityError(c, err)
		return
	}
	c.JSON(http.StatusCreated, q)
}

// AddComment godoc
// @Summary      질문에 댓글 달기
// @Tags         Community
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path string               true "질문 ID"
// @Param        request body community.NewComment true "댓글 내용"
// @Success      201 {object} models.Question
// @Failure      400 {object} handler.ErrorResponse
// @Failure      404 {object} handler.ErrorResponse
// @Router       /api/community/questions/{id}/comments [post]
func (h *Handler) AddComment(c *gin.Context) {
	var in community.NewComment
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": community.ErrEmptyComment.Error()})
		return
	}
	q, err := h.community.AddComment(c.Param("id"), in)
	if err != nil {
		h.communityError(c, err)
		return
	}
	c.JSON(http.StatusCreated, q)
}

// LikeQuestion godoc
// @Summary      질문 좋아요
// @Tags         Community
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "질문 ID"
// @Success      200 {object} models.Question
// @Failure      404 {object} handler.ErrorResponse
// @Router       /api/community/questions/{id}/like [post]
func (h *Handler) LikeQuestion(c *gin.Context) {
	q, err := h.community.Like(c.Param("id"))
	if err != nil {
		h.communityError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

func (h *Handler) communityError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, community.ErrQuestionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, community.ErrEmptyQuestion), errors.Is(err, community.ErrEmptyComment):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.FromGin(c).Error("community storage error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
	}
}
