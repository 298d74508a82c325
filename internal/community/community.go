/**
* Name: 			community.go
* Description: 		맘 커뮤니티 질문/답변 게시판
* Workflow: 		저장된 질문 + 기본 질문 병합, 필터/정렬, 작성/댓글/좋아요 저장
 */
package community

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"AnsanMomCare/internal/models"
	"AnsanMomCare/internal/storage"

	"go.uber.org/zap"
)

var (
	ErrQuestionNotFound = errors.New("question not found")
	ErrEmptyQuestion    = errors.New("title and content are required")
	ErrEmptyComment     = errors.New("comment content is required")
)

const (
	CategoryAll = "all"

	SortLatest     = "latest"
	SortPopular    = "popular"
	SortUnanswered = "unanswered"
	SortPoints     = "points"
)

var Categories = []string{"임신", "출산", "육아", "수유", "건강"}

type ListQuery struct {
	Category string
	Search   string
	Sort     string
}

type NewQuestion struct {
	Title       string `json:"title" binding:"required" example:"산후조리원 예약 시기가 궁금해요"`
	Content     string `json:"content" binding:"required" example:"언제쯤 예약하면 좋을까요?"`
	Category    string `json:"category" example:"출산"`
	Tags        string `json:"tags" example:"산후조리원, 예약"`
	Author      string `json:"author" example:"예비맘"`
	IsAnonymous bool   `json:"isAnonymous"`
}

type NewComment struct {
	Author      string `json:"author" example:"두아이엄마"`
	Content     string `json:"content" binding:"required" example:"20주 전후에 많이 알아봐요"`
	IsAnonymous bool   `json:"isAnonymous"`
}

type Service struct {
	db  *storage.DB
	log *zap.Logger
	now func() time.Time
}

func NewService(db *storage.DB, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{db: db, log: log.Named("community"), now: time.Now}
}

// customs는 사용자가 작성한 질문. 기본 질문과 id가 겹치는 레코드는 버린다.
func (s *Service) customs() []models.Question {
	stored := s.readStored(storage.KeyCommunityQuestions)
	out := make([]models.Question, 0, len(stored))
	for _, q := range stored {
		if !isDefaultID(q.ID) {
			out = append(out, q)
		}
	}
	return out
}

// overrides는 댓글/좋아요가 반영된 기본 질문 사본
func (s *Service) overrides() map[string]models.Question {
	out := make(map[string]models.Question)
	for _, q := range s.readStored(storage.KeyCommunityOverrides) {
		if isDefaultID(q.ID) {
			out[q.ID] = q
		}
	}
	return out
}

func (s *Service) readStored(key string) []models.Question {
	raw, ok, err := s.db.GetItem(key)
	if err != nil {
		s.log.Error("readStored(): failed to read", zap.String("key", key), zap.Error(err))
		return nil
	}
	if !ok {
		return nil
	}
	questions, valid := parseStored(raw, s.now())
	if !valid {
		s.log.Warn("readStored(): stored questions are not a JSON array, ignoring", zap.String("key", key))
	}
	return questions
}

func (s *Service) all() []models.Question {
	overrides := s.overrides()
	out := s.customs()
	for _, q := range defaultQuestions() {
		if o, ok := overrides[q.ID]; ok {
			q = o
		}
		out = append(out, q)
	}
	return out
}

// List는 카테고리/검색어로 거르고 정렬한다. 알 수 없는 정렬 기준은 저장 순서 유지.
func (s *Service) List(q ListQuery) []models.Question {
	search := strings.ToLower(strings.TrimSpace(q.Search))
	category := strings.TrimSpace(q.Category)

	out := make([]models.Question, 0)
	for _, question := range s.all() {
		if category != "" && category != CategoryAll && question.Category != category {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(question.Title), search) &&
			!strings.Contains(strings.ToLower(question.Content), search) {
			continue
		}
		out = append(out, question)
	}

	sortKey := q.Sort
	if sortKey == "" {
		sortKey = SortLatest
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch sortKey {
		case SortLatest:
			return parseCreatedAt(a.CreatedAt).After(parseCreatedAt(b.CreatedAt))
		case SortPopular:
			return a.Likes > b.Likes
		case SortUnanswered:
			return len(a.Comments) < len(b.Comments)
		case SortPoints:
			return a.Points > b.Points
		default:
			return false
		}
	})
	return out
}

func (s *Service) Get(id string) (models.Question, error) {
	for _, q := range s.all() {
		if q.ID == id {
			return q, nil
		}
	}
	return models.Question{}, ErrQuestionNotFound
}

func authorName(author string, anonymous bool) string {
	if anonymous {
		return AnonymousAuthor
	}
	if a := strings.TrimSpace(author); a != "" {
		return a
	}
	return AnonymousAuthor
}

// Create는 새 질문을 목록 맨 앞에 저장한다
func (s *Service) Create(in NewQuestion) (models.Question, error) {
	title := strings.TrimSpace(in.Title)
	content := strings.TrimSpace(in.Content)
	if title == "" || content == "" {
		return models.Question{}, ErrEmptyQuestion
	}
	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = DefaultCategory
	}

	var created models.Question
	err := s.db.Locked(func() error {
		customs := s.customs()
		now := s.now()

		// 같은 밀리초에 작성된 글과 id가 겹치지 않도록
		ms := now.UnixMilli()
		for s.idTaken(customs, strconv.FormatInt(ms, 10)) {
			ms++
		}

		created = models.Question{
			ID:        strconv.FormatInt(ms, 10),
			Title:     title,
			Content:   content,
			Author:    authorName(in.Author, in.IsAnonymous),
			Category:  category,
			Tags:      SplitTags(in.Tags),
			CreatedAt: now.Format(dateLayout),
			Status:    models.StatusOpen,
			Comments:  []models.Comment{},
		}
		return s.saveCustoms(append([]models.Question{created}, customs...))
	})
	if err != nil {
		return models.Question{}, err
	}
	s.log.Info("Create(): question created", zap.String("id", created.ID), zap.String("category", category))
	return created, nil
}

func (s *Service) idTaken(customs []models.Question, id string) bool {
	if isDefaultID(id) {
		return true
	}
	for _, q := range customs {
		if q.ID == id {
			return true
		}
	}
	return false
}

// AddComment는 질문에 댓글을 추가하고 answers를 댓글 수로 맞춘다
func (s *Service) AddComment(questionID string, in NewComment) (models.Question, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return models.Question{}, ErrEmptyComment
	}
	return s.update(questionID, func(q *models.Question) {
		now := s.now()
		id := questionID + "-" + strconv.FormatInt(now.UnixMilli(), 10)
		for _, c := range q.Comments {
			if c.ID == id {
				id += "-" + strconv.Itoa(len(q.Comments))
				break
			}
		}
		q.Comments = append(q.Comments, models.Comment{
			ID:          id,
			QuestionID:  questionID,
			Author:      authorName(in.Author, in.IsAnonymous),
			Content:     content,
			CreatedAt:   now.UTC().Format(timestampLayout),
			IsAnonymous: in.IsAnonymous,
		})
		q.Answers = len(q.Comments)
	})
}

func (s *Service) Like(questionID string) (models.Question, error) {
	return s.update(questionID, func(q *models.Question) {
		q.Likes++
	})
}

// update는 사용자 질문이면 communityQuestions에, 기본 질문이면 override 사본으로 저장한다
func (s *Service) update(questionID string, mutate func(q *models.Question)) (models.Question, error) {
	var updated models.Question
	err := s.db.Locked(func() error {
		customs := s.customs()
		for i := range customs {
			if customs[i].ID == questionID {
				mutate(&customs[i])
				updated = customs[i]
				return s.saveCustoms(customs)
			}
		}

		if !isDefaultID(questionID) {
			return ErrQuestionNotFound
		}
		overrides := s.overrides()
		q, ok := overrides[questionID]
		if !ok {
			for _, d := range defaultQuestions() {
				if d.ID == questionID {
					q = d
				}
			}
		}
		mutate(&q)
		overrides[questionID] = q
		updated = q

		list := make([]models.Question, 0, len(overrides))
		for _, d := range defaultQuestions() {
			if o, ok := overrides[d.ID]; ok {
				list = append(list, o)
			}
		}
		if err := s.db.WriteJSON(storage.KeyCommunityOverrides, list); err != nil {
			return fmt.Errorf("update(): failed to save overrides: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.Question{}, err
	}
	return updated, nil
}

// 사용자 질문이 없으면 키 자체를 지운다
func (s *Service) saveCustoms(customs []models.Question) error {
	if len(customs) == 0 {
		return s.db.RemoveItem(storage.KeyCommunityQuestions)
	}
	if err := s.db.WriteJSON(storage.KeyCommunityQuestions, customs); err != nil {
		return fmt.Errorf("saveCustoms(): %w", err)
	}
	return nil
}
