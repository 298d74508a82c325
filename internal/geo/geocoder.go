/**
* Name: 			geocoder.go
* Description: 		네이버 클라우드 Geocoding REST API로 주소를 좌표로 변환
* Workflow: 		캐시 조회, API 호출, 첫 번째 결과의 x/y 사용, 실패 시 nil
 */
package geo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"AnsanMomCare/internal/cache"
	"AnsanMomCare/internal/config"
	"AnsanMomCare/internal/metrics"
	"AnsanMomCare/internal/models"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const geocodeTimeout = 5 * time.Second

type Geocoder struct {
	endpoint     string
	clientID     string
	clientSecret string
	httpClient   *http.Client
	cache        cache.Store
	log          *zap.Logger
}

func NewGeocoder(cfg config.NaverConfig, store cache.Store, log *zap.Logger) *Geocoder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Geocoder{
		endpoint:     cfg.GeocodeURL,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		httpClient:   &http.Client{Timeout: geocodeTimeout},
		cache:        store,
		log:          log.Named("geocoder"),
	}
}

func (g *Geocoder) Configured() bool {
	return g != nil && g.clientID != "" && g.endpoint != ""
}

// Geocode는 주소의 좌표를 돌려준다. 키 미설정, 빈 주소, 실패 시 nil.
func (g *Geocoder) Geocode(ctx context.Context, address string) *models.Coordinates {
	address = strings.TrimSpace(address)
	if !g.Configured() || address == "" {
		return nil
	}

	cacheKey := "geocode:" + address
	if g.cache != nil {
		var cached *models.Coordinates
		if ok, err := g.cache.Get(ctx, cacheKey, &cached); err == nil && ok {
			return cached
		}
	}

	coords, err := g.lookup(ctx, address)
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues("geocode", "error").Inc()
		g.log.Warn("Geocode(): lookup failed", zap.String("address", address), zap.Error(err))
		return nil
	}
	metrics.UpstreamRequests.WithLabelValues("geocode", "ok").Inc()

	// 결과 없음도 캐시해 같은 주소 재조회를 막는다
	if g.cache != nil {
		if err := g.cache.Set(ctx, cacheKey, coords, 0); err != nil {
			g.log.Debug("Geocode(): cache set failed", zap.Error(err))
		}
	}
	return coords
}

func (g *Geocoder) lookup(ctx context.Context, address string) (*models.Coordinates, error) {
	u, err := url.Parse(g.endpoint)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("query", address)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-NCP-APIGW-API-KEY-ID", g.clientID)
	req.Header.Set("X-NCP-APIGW-API-KEY", g.clientSecret)
	req.Header.Set("Accept", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocode status %d", resp.StatusCode)
	}

	first := gjson.GetBytes(body, "addresses.0")
	if !first.Exists() {
		return nil, nil
	}
	x, y := first.Get("x"), first.Get("y")
	if !x.Exists() || !y.Exists() {
		return nil, nil
	}
	lng, lat := x.Float(), y.Float()
	if !ValidCoordinates(lat, lng) || (lat == 0 && lng == 0) {
		return nil, nil
	}
	return &models.Coordinates{Lat: lat, Lng: lng}, nil
}
