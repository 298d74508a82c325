package community

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"AnsanMomCare/internal/models"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

const (
	AnonymousAuthor = "익명맘"
	DefaultCategory = "임신"

	dateLayout      = "2006-01-02"
	timestampLayout = "2006-01-02T15:04:05.000Z07:00"
)

// parseStored는 저장된 질문 배열을 정규화한다. 배열이 아니면 빈 목록.
func parseStored(raw string, now time.Time) ([]models.Question, bool) {
	if !gjson.Valid(raw) {
		return nil, false
	}
	root := gjson.Parse(raw)
	if !root.IsArray() {
		return nil, false
	}
	out := make([]models.Question, 0)
	for _, r := range root.Array() {
		if q, ok := normalizeQuestion(r, now); ok {
			out = append(out, q)
		}
	}
	return out, true
}

// normalizeQuestion은 id(또는 _id)가 없는 레코드를 버리고 나머지 필드는 기본값으로 채운다
func normalizeQuestion(r gjson.Result, now time.Time) (models.Question, bool) {
	if !r.IsObject() {
		return models.Question{}, false
	}
	idValue := r.Get("id")
	if !idValue.Exists() || idValue.Type == gjson.Null {
		idValue = r.Get("_id")
	}
	if !truthy(idValue) {
		return models.Question{}, false
	}
	id := idValue.String()

	comments := make([]models.Comment, 0)
	for _, c := range r.Get("comments").Array() {
		if comment, ok := normalizeComment(id, c, now); ok {
			comments = append(comments, comment)
		}
	}

	tags := make([]string, 0)
	for _, t := range r.Get("tags").Array() {
		if t.Type != gjson.String {
			continue
		}
		if tag := strings.TrimSpace(t.Str); tag != "" {
			tags = append(tags, tag)
		}
	}

	status := models.StatusOpen
	switch stringOr(r.Get("status"), "") {
	case models.StatusClosed:
		status = models.StatusClosed
	case models.StatusAnswered:
		status = models.StatusAnswered
	}

	return models.Question{
		ID:                id,
		Title:             stringOr(r.Get("title"), ""),
		Content:           stringOr(r.Get("content"), ""),
		Author:            stringOr(r.Get("author"), AnonymousAuthor),
		Category:          stringOr(r.Get("category"), DefaultCategory),
		Tags:              tags,
		Likes:             intOr(r.Get("likes")),
		Answers:           len(comments),
		CreatedAt:         stringOr(r.Get("createdAt"), now.Format(dateLayout)),
		Status:            status,
		HasAcceptedAnswer: truthy(r.Get("hasAcceptedAnswer")),
		Points:            intOr(r.Get("points")),
		Comments:          comments,
	}, true
}

func normalizeComment(questionID string, r gjson.Result, now time.Time) (models.Comment, bool) {
	if !r.IsObject() {
		return models.Comment{}, false
	}
	content := strings.TrimSpace(stringOr(r.Get("content"), ""))
	if content == "" {
		return models.Comment{}, false
	}
	author := strings.TrimSpace(stringOr(r.Get("author"), ""))
	if author == "" {
		author = AnonymousAuthor
	}
	id := stringOr(r.Get("id"), "")
	if r.Get("id").Type != gjson.String {
		id = questionID + "-" + strconv.FormatInt(now.UnixMilli(), 10) + "-" + uuid.NewString()[:6]
	}
	return models.Comment{
		ID:          id,
		QuestionID:  questionID,
		Author:      author,
		Content:     content,
		CreatedAt:   stringOr(r.Get("createdAt"), now.UTC().Format(timestampLayout)),
		IsAnonymous: truthy(r.Get("isAnonymous")),
	}, true
}

func stringOr(r gjson.Result, fallback string) string {
	if r.Type != gjson.String {
		return fallback
	}
	return r.Str
}

func intOr(r gjson.Result) int {
	if r.Type != gjson.Number || math.IsNaN(r.Num) || math.IsInf(r.Num, 0) {
		return 0
	}
	return int(r.Num)
}

// JS 진리값 규칙: false, null, 0, "" 는 거짓
func truthy(r gjson.Result) bool {
	switch r.Type {
	case gjson.True, gjson.JSON:
		return true
	case gjson.Number:
		return r.Num != 0 && !math.IsNaN(r.Num)
	case gjson.String:
		return r.Str != ""
	default:
		return false
	}
}

// SplitTags는 공백/쉼표로 나누고 순서를 유지하며 중복을 제거한다
func SplitTags(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	seen := make(map[string]struct{}, len(fields))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}

func parseCreatedAt(s string) time.Time {
	for _, layout := range []string{dateLayout, "2006-01-02T15:04:05", time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
