package handler

import (
	"net/http"
	"strings"

	"AnsanMomCare/internal/facility"
	"AnsanMomCare/internal/models"

	"github.com/gin-gonic/gin"
)

const allSigun = "all"

type FacilitiesResponse struct {
	Total int                      `json:"total"`
	Items []models.MedicalFacility `json:"items"`
}

type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

// Facilities godoc
// @Summary      의료기관 검색
// @Description  상록구 게시판에서 수집한 병원/약국/보건소 목록을 검색합니다.
// @Description  near에 주소를 주면 거리(distanceKm)를 계산해 가까운 순으로 정렬합니다.
// @Tags         Facility
// @Produce      json
// @Param        sigun query string false "주소에 포함될 시군명 (기본값 DEFAULT_SIGUN, all이면 전체)"
// @Param        q     query string false "이름/주소 키워드"
// @Param        size  query int    false "최대 개수 (기본값 50)"
// @Param        near  query string false "거리 기준 주소"
// @Success      200 {object} handler.FacilitiesResponse
// @Router       /api/facilities [get]
func (h *Handler) Facilities(c *gin.Context) {
	items := h.facilities.Search(facility.SearchQuery{
		Sigun:   h.facilitySigun(c),
		Keyword: c.Query("q"),
		Size:    queryInt(c, "size", facility.DefaultSize),
	})
	if near := strings.TrimSpace(c.Query("near")); near != "" {
		items = h.facilities.SortByDistance(c.Request.Context(), near, items)
	}
	c.JSON(http.StatusOK, FacilitiesResponse{Total: len(items), Items: items})
}

// sigun이 없으면 기본 시군으로 거르고, all이면 거르지 않는다
func (h *Handler) facilitySigun(c *gin.Context) string {
	sigun, ok := c.GetQuery("sigun")
	sigun = strings.TrimSpace(sigun)
	switch {
	case !ok || sigun == "":
		return h.opts.DefaultSigun
	case strings.EqualFold(sigun, allSigun):
		return ""
	}
	return sigun
}

// FacilityCategories godoc
// @Summary      의료기관 종별 목록
// @Tags         Facility
// @Produce      json
// @Success      200 {object} handler.CategoriesResponse
// @Router       /api/facilities/categories [get]
func (h *Handler) FacilityCategories(c *gin.Context) {
	c.JSON(http.StatusOK, CategoriesResponse{Categories: h.facilities.Categories()})
}
