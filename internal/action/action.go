package action

import (
	"strconv"
	"strings"

	"AnsanMomCare/internal/models"
)

const (
	PostnatalRecommend = "postnatal.recommend"
	MedicalRecommend   = "medical.recommend"

	defaultCardSize = 5
	maxCardSize     = 20
)

// Action은 챗봇이 요청할 수 있는 카드 조회
type Action struct {
	Name string
	Kind string
}

var actions = map[string]Action{
	PostnatalRecommend: {
		Name: PostnatalRecommend,
		Kind: models.KindPostnatal,
	},
	MedicalRecommend: {
		Name: MedicalRecommend,
		Kind: models.KindMedical,
	},
}

func GetAction(name string) (Action, bool) {
	a, exists := actions[name]
	return a, exists
}

// Params는 action 이벤트의 params를 정리한 값
type Params struct {
	Sigun string
	Query string
	Size  int
}

// ParseParams는 sigun, q(또는 query), size를 꺼낸다. 시군이 없으면 fallbackSigun.
func ParseParams(raw map[string]any, fallbackSigun string) Params {
	p := Params{
		Sigun: stringParam(raw, "sigun"),
		Query: stringParam(raw, "q"),
		Size:  defaultCardSize,
	}
	if p.Query == "" {
		p.Query = stringParam(raw, "query")
	}
	if p.Sigun == "" {
		p.Sigun = fallbackSigun
	}
	switch v := raw["size"].(type) {
	case float64:
		p.Size = int(v)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			p.Size = n
		}
	}
	if p.Size <= 0 {
		p.Size = defaultCardSize
	}
	if p.Size > maxCardSize {
		p.Size = maxCardSize
	}
	return p
}

func stringParam(raw map[string]any, key string) string {
	if raw == nil {
		return ""
	}
	s, _ := raw[key].(string)
	return strings.TrimSpace(s)
}
