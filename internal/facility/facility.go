/**
* Name: 			facility.go
* Description: 		상록구청 게시판에서 수집한 의료기관 목록 조회
* Workflow: 		JSON 로드, 원본 레코드 정규화, 시군/키워드 필터, 거리순 정렬
 */
package facility

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"

	"AnsanMomCare/internal/geo"
	"AnsanMomCare/internal/models"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultSize = 50

	// 동시 지오코딩 요청 수
	geocodeConcurrency = 4
)

// 원본 JSON 키
const (
	keyName     = "기관명"
	keyAddress  = "주소"
	keyPhone    = "전화번호"
	keyCategory = "기관종명"
	keyKind     = "종별"
)

type Geocoder interface {
	Geocode(ctx context.Context, address string) *models.Coordinates
}

type SearchQuery struct {
	Sigun   string
	Keyword string
	Size    int
}

type Directory struct {
	mu       sync.RWMutex
	items    []models.MedicalFacility
	geocoder Geocoder
	log      *zap.Logger
}

func NewDirectory(raws []map[string]any, geocoder Geocoder, log *zap.Logger) *Directory {
	if log == nil {
		log = zap.NewNop()
	}
	d := &Directory{geocoder: geocoder, log: log.Named("facility")}
	d.Replace(raws)
	return d
}

// Load는 크롤러가 만든 JSON 배열 파일을 읽는다. 파일이 없으면 빈 목록으로 시작한다.
func Load(path string, geocoder Geocoder, log *zap.Logger) (*Directory, error) {
	if log == nil {
		log = zap.NewNop()
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Warn("Load(): facility data not found, starting empty", zap.String("path", path))
		return NewDirectory(nil, geocoder, log), nil
	}
	if err != nil {
		return nil, fmt.Errorf("Load(): read %s: %w", path, err)
	}

	var raws []map[string]any
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("Load(): parse %s: %w", path, err)
	}
	d := NewDirectory(raws, geocoder, log)
	log.Info("Load(): facilities loaded", zap.String("path", path), zap.Int("count", d.Len()))
	return d, nil
}

// Replace는 목록 전체를 교체한다 (재크롤링 후 다시 읽을 때)
func (d *Directory) Replace(raws []map[string]any) {
	items := make([]models.MedicalFacility, 0, len(raws))
	for idx, raw := range raws {
		if f, ok := MapRaw(raw, idx); ok {
			items = append(items, f)
		}
	}
	d.mu.Lock()
	d.items = items
	d.mu.Unlock()
}

func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.items)
}

// MapRaw는 기관명과 주소가 모두 있는 레코드만 변환한다
func MapRaw(raw map[string]any, idx int) (models.MedicalFacility, bool) {
	name := field(raw, keyName)
	address := field(raw, keyAddress)
	phone := field(raw, keyPhone)
	if name == "" || address == "" {
		return models.MedicalFacility{}, false
	}

	// 기관종명 키가 있으면 값이 비어 있어도 종별로 넘어가지 않는다
	var category string
	if v, ok := raw[keyCategory]; ok && v != nil {
		category = field(raw, keyCategory)
	} else {
		category = field(raw, keyKind)
	}

	id := name + "-" + phone
	if phone == "" {
		id = name + "-" + strconv.Itoa(idx)
	}
	return models.MedicalFacility{
		ID:       id,
		Name:     name,
		Address:  address,
		Phone:    phone,
		Category: category,
	}, true
}

func field(raw map[string]any, key string) string {
	v, ok := raw[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

// Search는 주소에 시군이 포함되고 이름/주소에 키워드가 포함된 기관을 최대 Size개 반환한다
func (d *Directory) Search(q SearchQuery) []models.MedicalFacility {
	if q.Size <= 0 {
		q.Size = DefaultSize
	}
	keyword := strings.ToLower(strings.TrimSpace(q.Keyword))

	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]models.MedicalFacility, 0)
	for _, f := range d.items {
		if q.Sigun != "" && !strings.Contains(f.Address, q.Sigun) {
			continue
		}
		if keyword != "" &&
			!strings.Contains(strings.ToLower(f.Name), keyword) &&
			!strings.Contains(strings.ToLower(f.Address), keyword) {
			continue
		}
		out = append(out, f)
		if len(out) == q.Size {
			break
		}
	}
	return out
}

// Categories는 기관 종별을 중복 없이 정렬해 반환한다
func (d *Directory) Categories() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, f := range d.items {
		if f.Category == "" {
			continue
		}
		if _, ok := seen[f.Category]; ok {
			continue
		}
		seen[f.Category] = struct{}{}
		out = append(out, f.Category)
	}
	sort.Strings(out)
	return out
}

// SortByDistance는 기준 주소에서 각 기관까지 거리를 채우고 가까운 순으로 정렬한다.
// 좌표를 못 구한 기관은 뒤로 보낸다. 기준 주소를 지오코딩하지 못하면 원래 순서를 유지한다.
func (d *Directory) SortByDistance(ctx context.Context, origin string, list []models.MedicalFacility) []models.MedicalFacility {
	if d.geocoder == nil || strings.TrimSpace(origin) == "" || len(list) == 0 {
		return list
	}
	from := d.geocoder.Geocode(ctx, origin)
	if from == nil {
		d.log.Debug("SortByDistance(): origin not geocoded", zap.String("origin", origin))
		return list
	}

	out := make([]models.MedicalFacility, len(list))
	copy(out, list)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(geocodeConcurrency)
	for i := range out {
		i := i
		g.Go(func() error {
			to := d.geocoder.Geocode(gctx, out[i].Address)
			if to == nil {
				return nil
			}
			dist := geo.DistanceKm(*from, *to)
			out[i].Coordinates = to
			out[i].DistanceKm = &dist
			return nil
		})
	}
	_ = g.Wait()

	sort.SliceStable(out, func(a, b int) bool {
		da, db := out[a].DistanceKm, out[b].DistanceKm
		switch {
		case da == nil:
			return false
		case db == nil:
			return true
		default:
			return *da < *db
		}
	})
	return out
}
