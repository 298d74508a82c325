package handler

import (
	"time"

	"AnsanMomCare/internal/community"
	"AnsanMomCare/internal/facility"
	"AnsanMomCare/internal/intent"
	"AnsanMomCare/internal/llm"
	"AnsanMomCare/internal/opendata"
	"AnsanMomCare/internal/storage"

	"go.uber.org/zap"
)

type Options struct {
	DefaultSigun string
	ActionWait   time.Duration
}

// Handler는 라우트 핸들러가 공유하는 의존성 묶음
type Handler struct {
	db         *storage.DB
	community  *community.Service
	postnatal  *opendata.Client
	facilities *facility.Directory
	chat       *llm.Client
	opts       Options
	log        *zap.Logger
}

func New(
	db *storage.DB,
	communitySvc *community.Service,
	postnatal *opendata.Client,
	facilities *facility.Directory,
	chat *llm.Client,
	opts Options,
	log *zap.Logger,
) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.DefaultSigun == "" {
		opts.DefaultSigun = "안산시"
	}
	if opts.ActionWait <= 0 {
		opts.ActionWait = 4 * time.Second
	}
	return &Handler{
		db:         db,
		community:  communitySvc,
		postnatal:  postnatal,
		facilities: facilities,
		chat:       chat,
		opts:       opts,
		log:        log.Named("handler"),
	}
}

type SuccessResponse struct {
	Message string `json:"message" example:"Logged out"`
}

type ErrorResponse struct {
	Error string `json:"error" example:"에러 원인 및 설명"`
}

// sigunFor는 주소에서 시군을 뽑고, 실패하면 기본 시군을 쓴다
func (h *Handler) sigunFor(address string) string {
	if sigun := intent.ExtractSigunFromAddress(address); sigun != "" {
		return sigun
	}
	return h.opts.DefaultSigun
}
