package main

import (
	"context"
	"net/http"
	"time"

	"AnsanMomCare/internal/config"
	"AnsanMomCare/internal/handler"
	"AnsanMomCare/internal/logger"
	"AnsanMomCare/internal/metrics"
	"AnsanMomCare/internal/middleware"
	"AnsanMomCare/internal/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

func newRouter(cfg *config.Config, h *handler.Handler, db *storage.DB, log *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(logger.Recovery(log), logger.GinMiddleware(log), metrics.GinMiddleware())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization", "X-Invite-Code")
	router.Use(cors.New(corsConfig))

	authLimited := middleware.RateLimit("auth", cfg.RateLimit)
	proxyLimited := middleware.RateLimit("postnatal", cfg.RateLimit)

	router.POST("/signup", authLimited, middleware.InviteCodeMiddleware(cfg.App.InviteCode), h.Signup)
	router.POST("/login", authLimited, h.Login)

	// 프록시는 GET/OPTIONS 외 메서드에 405를 직접 응답한다
	router.Any("/api/gg-postnatal-care", proxyLimited, h.PostnatalCare)

	router.GET("/api/facilities", h.Facilities)
	router.GET("/api/facilities/categories", h.FacilityCategories)
	router.GET("/api/community/questions", h.ListQuestions)
	router.GET("/api/community/questions/:id", h.GetQuestion)

	protected := router.Group("/api", middleware.AuthMiddleware())
	{
		protected.POST("/logout", h.Logout)
		protected.GET("/session", h.Session)
		protected.GET("/profile", h.Profile)

		protected.GET("/chat/sessions", h.ListChatSessions)
		protected.POST("/chat/sessions", h.CreateChatSession)
		protected.PATCH("/chat/sessions/:id", h.RenameChatSession)
		protected.DELETE("/chat/sessions/:id", h.DeleteChatSession)
		protected.GET("/chat/sessions/:id/messages", h.GetChatMessages)
		protected.POST("/chat/sessions/:id/messages", h.PostChatMessage)

		protected.POST("/community/questions", h.CreateQuestion)
		protected.POST("/community/questions/:id/comments", h.AddComment)
		protected.POST("/community/questions/:id/like", h.LikeQuestion)
	}

	router.GET("/ws/chat", h.HandleChatConnection)

	router.GET("/healthz", healthHandler(db))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	return router
}

func healthHandler(db *storage.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			logger.FromGin(c).Warn("healthHandler(): database ping failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
