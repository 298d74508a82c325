package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "AnsanMomCare/docs"
	"AnsanMomCare/internal/auth"
	"AnsanMomCare/internal/cache"
	"AnsanMomCare/internal/community"
	"AnsanMomCare/internal/config"
	"AnsanMomCare/internal/facility"
	"AnsanMomCare/internal/geo"
	"AnsanMomCare/internal/handler"
	"AnsanMomCare/internal/llm"
	"AnsanMomCare/internal/logger"
	"AnsanMomCare/internal/opendata"
	"AnsanMomCare/internal/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// @title           AnsanMomCare API
// @version         1.0
// @description     안산 맘케어 백엔드: 회원, 챗봇 스트림, 커뮤니티, 산후조리원/의료기관 조회
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		// 로거 설정 전이라 표준 에러로 출력
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log)
	defer log.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	auth.Init(cfg.JWT)

	db, err := storage.InitDB(cfg.Database.Path, log.Named("storage"))
	if err != nil {
		log.Fatal("main(): failed to init database", zap.Error(err))
	}
	defer db.Close()

	store, err := cache.New(cfg.Cache, log.Named("cache"))
	if err != nil {
		log.Fatal("main(): failed to init cache", zap.Error(err))
	}
	defer store.Close()

	geocoder := geo.NewGeocoder(cfg.Naver, store, log)
	if !geocoder.Configured() {
		log.Warn("main(): NAVER_CLIENT_ID/SECRET not set, distance sorting disabled")
	}

	facilities, err := facility.Load(cfg.Facility.DataPath, geocoder, log)
	if err != nil {
		log.Fatal("main(): failed to load facilities", zap.Error(err))
	}

	chat := llm.NewClient(cfg.Chat.BaseURL, cfg.Chat.APIKey, cfg.App.UpstreamTimeout, log)
	if !chat.Configured() {
		log.Warn("main(): CHAT_SERVER_URL not set, chat turns will fail")
	}
	if cfg.OpenData.APIKey == "" {
		log.Warn("main(): GG_API_KEY not set, postnatal care lookups will fail")
	}

	h := handler.New(
		db,
		community.NewService(db, log),
		opendata.NewClient(cfg.OpenData, cfg.App.UpstreamTimeout, store, log),
		facilities,
		chat,
		handler.Options{DefaultSigun: cfg.OpenData.DefaultSigun, ActionWait: cfg.Chat.ActionWait},
		log,
	)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           newRouter(cfg, h, db, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("main(): server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.App.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("main(): failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("main(): shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("main(): server forced to shutdown", zap.Error(err))
	}
	log.Info("main(): server exited")
}
