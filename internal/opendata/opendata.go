/**
* Name: 			opendata.go
* Description: 		경기데이터드림 PostnatalCare(산후조리원) OpenAPI 클라이언트
* Workflow: 		시군/페이지 단위 조회, 응답 정규화, 키워드 필터
 */
package opendata

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"AnsanMomCare/internal/cache"
	"AnsanMomCare/internal/config"
	"AnsanMomCare/internal/metrics"
	"AnsanMomCare/internal/models"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

var ErrMissingAPIKey = errors.New("GG_API_KEY is not configured")

const (
	DefaultPage = 1
	DefaultSize = 20
)

type Query struct {
	Sigun   string
	Keyword string
	Page    int
	Size    int
}

type Client struct {
	apiKey       string
	baseURL      string
	defaultSigun string
	httpClient   *http.Client
	cache        cache.Store
	log          *zap.Logger
}

// 캐시되는 정규화 결과 (키워드 필터 전)
type page struct {
	HeadTotal int                        `json:"headTotal"`
	Items     []models.PostnatalCareItem `json:"items"`
}

func NewClient(cfg config.OpenDataConfig, timeout time.Duration, store cache.Store, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		apiKey:       cfg.APIKey,
		baseURL:      cfg.BaseURL,
		defaultSigun: cfg.DefaultSigun,
		httpClient:   &http.Client{Timeout: timeout},
		cache:        store,
		log:          log.Named("opendata"),
	}
}

// Fetch는 시군의 산후조리원 목록을 조회한다
func (c *Client) Fetch(ctx context.Context, q Query) (models.PostnatalCareResponse, error) {
	if c.apiKey == "" {
		return models.PostnatalCareResponse{}, ErrMissingAPIKey
	}
	if strings.TrimSpace(q.Sigun) == "" {
		q.Sigun = c.defaultSigun
	}
	if q.Page <= 0 {
		q.Page = DefaultPage
	}
	if q.Size <= 0 {
		q.Size = DefaultSize
	}

	p, err := c.fetchPage(ctx, q)
	if err != nil {
		return models.PostnatalCareResponse{}, err
	}

	keyword := strings.ToLower(strings.TrimSpace(q.Keyword))
	if keyword == "" {
		return models.PostnatalCareResponse{Total: p.HeadTotal, Items: p.Items}, nil
	}
	filtered := FilterByKeyword(p.Items, keyword)
	return models.PostnatalCareResponse{Total: len(filtered), Items: filtered}, nil
}

func (c *Client) fetchPage(ctx context.Context, q Query) (page, error) {
	cacheKey := fmt.Sprintf("postnatal:%s:%d:%d", q.Sigun, q.Page, q.Size)
	if c.cache != nil {
		var cached page
		if ok, err := c.cache.Get(ctx, cacheKey, &cached); err == nil && ok {
			return cached, nil
		}
	}

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return page{}, fmt.Errorf("fetchPage(): invalid base url: %w", err)
	}
	params := u.Query()
	params.Set("KEY", c.apiKey)
	params.Set("Type", "json")
	params.Set("SIGUN_NM", q.Sigun)
	params.Set("pIndex", strconv.Itoa(q.Page))
	params.Set("pSize", strconv.Itoa(q.Size))
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return page{}, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues("opendata", "error").Inc()
		return page{}, fmt.Errorf("Upstream error: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues("opendata", "error").Inc()
		return page{}, fmt.Errorf("Upstream error: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.UpstreamRequests.WithLabelValues("opendata", "status_"+strconv.Itoa(resp.StatusCode)).Inc()
		return page{}, fmt.Errorf("Upstream error: %d %s %s", resp.StatusCode, http.StatusText(resp.StatusCode), strings.TrimSpace(string(body)))
	}
	if !gjson.ValidBytes(body) {
		metrics.UpstreamRequests.WithLabelValues("opendata", "error").Inc()
		return page{}, errors.New("Upstream error: response is not valid JSON")
	}
	metrics.UpstreamRequests.WithLabelValues("opendata", "ok").Inc()

	items, headTotal := Normalize(body)
	p := page{HeadTotal: headTotal, Items: items}
	c.log.Debug("fetchPage(): fetched", zap.String("sigun", q.Sigun), zap.Int("page", q.Page), zap.Int("rows", len(items)))

	if c.cache != nil {
		if err := c.cache.Set(ctx, cacheKey, p, 0); err != nil {
			c.log.Debug("fetchPage(): cache set failed", zap.Error(err))
		}
	}
	return p, nil
}

// Normalize는 {PostnatalCare:[{head:[...]},{row:[...]}]} 응답을 항목 목록과 전체 건수로 바꾼다.
// head에 list_total_count가 없으면 row 개수를 전체 건수로 쓴다.
func Normalize(body []byte) ([]models.PostnatalCareItem, int) {
	var head, rows gjson.Result
	for _, part := range gjson.GetBytes(body, "PostnatalCare").Array() {
		if !head.Exists() && part.Get("head").Exists() {
			head = part.Get("head")
		}
		if !rows.Exists() && part.Get("row").Exists() {
			rows = part.Get("row")
		}
	}

	rowList := rows.Array()
	items := make([]models.PostnatalCareItem, 0, len(rowList))
	for idx, r := range rowList {
		items = append(items, normalizeRow(r, idx))
	}

	total := len(rowList)
	for _, h := range head.Array() {
		if v := h.Get("list_total_count"); v.Exists() {
			if n, ok := toNumber(v); ok {
				total = int(n)
			}
			break
		}
	}
	return items, total
}

func normalizeRow(r gjson.Result, idx int) models.PostnatalCareItem {
	name := str(r, "BIZPLC_NM")
	address := str(r, "REFINE_ROADNM_ADDR")
	if address == "" {
		address = str(r, "REFINE_LOTNO_ADDR")
	}
	phone := str(r, "LOCPLC_FACLT_TELNO")
	if phone == "" {
		phone = "-"
	}
	sigunName := str(r, "SIGUN_NM")
	licenseDate := str(r, "LICENSG_DE")

	capacity := num(r, "PWNM_PSN_CAPA_CNT")
	if capacity == nil {
		capacity = num(r, "INFANT_PSN_CAPA")
	}

	item := models.PostnatalCareItem{
		ID:            buildID(sigunName, name, licenseDate, idx),
		Name:          name,
		Address:       address,
		Phone:         phone,
		Status:        str(r, "BSN_STATE_NM"),
		SigunName:     sigunName,
		Capacity:      capacity,
		NurseCount:    num(r, "NURSE_CNT"),
		NurseAidCount: num(r, "NURSAID_CNT"),
		Type:          "hospital",
	}
	if lat, lng := num(r, "REFINE_WGS84_LAT"), num(r, "REFINE_WGS84_LOGT"); lat != nil && lng != nil {
		item.Coordinates = &models.Coordinates{Lat: *lat, Lng: *lng}
	}
	if licenseDate != "" {
		item.LicenseDate = &licenseDate
	}
	return item
}

func buildID(sigun, name, licenseDate string, idx int) string {
	if sigun == "" {
		sigun = "SIG"
	}
	if name == "" {
		name = strconv.Itoa(idx)
	}
	if licenseDate == "" {
		licenseDate = "NA"
	}
	return sigun + "-" + name + "-" + licenseDate
}

// FilterByKeyword는 이름 또는 주소에 키워드가 포함된 항목만 남긴다 (대소문자 무시)
func FilterByKeyword(items []models.PostnatalCareItem, keyword string) []models.PostnatalCareItem {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	out := make([]models.PostnatalCareItem, 0, len(items))
	for _, it := range items {
		if strings.Contains(strings.ToLower(it.Name), keyword) || strings.Contains(strings.ToLower(it.Address), keyword) {
			out = append(out, it)
		}
	}
	return out
}

func str(r gjson.Result, key string) string {
	v := r.Get(key)
	if !v.Exists() || v.Type == gjson.Null {
		return ""
	}
	return strings.TrimSpace(v.String())
}

func num(r gjson.Result, key string) *float64 {
	n, ok := toNumber(r.Get(key))
	if !ok {
		return nil
	}
	return &n
}

// 숫자 또는 콤마가 섞인 숫자 문자열만 인정
func toNumber(v gjson.Result) (float64, bool) {
	switch v.Type {
	case gjson.Number:
		return v.Float(), true
	case gjson.String:
		s := strings.TrimSpace(strings.ReplaceAll(v.Str, ",", ""))
		if s == "" {
			return 0, false
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
