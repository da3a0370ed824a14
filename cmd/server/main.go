package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/grdlib/feedback-api/api/swagger"
	"github.com/grdlib/feedback-api/internal/handler"
	"github.com/grdlib/feedback-api/internal/middleware"
	"github.com/grdlib/feedback-api/internal/models"
	"github.com/grdlib/feedback-api/internal/repository"
	"github.com/grdlib/feedback-api/internal/service"
	"github.com/grdlib/feedback-api/pkg/cache"
	"github.com/grdlib/feedback-api/pkg/config"
	"github.com/grdlib/feedback-api/pkg/database"
	"github.com/grdlib/feedback-api/pkg/logger"
	corsmiddleware "github.com/grdlib/feedback-api/pkg/middleware/cors"
	reqidmiddleware "github.com/grdlib/feedback-api/pkg/middleware/requestid"
)

// @title GRD Library Feedback API
// @version 1.0.0
// @description Feedback collection and issue tracking for the library floor
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
	} else {
		defer redisClient.Close()
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Questions.CacheTTL, logr, true)
	}

	issueRepo := repository.NewIssueRepository(db)
	feedbackRepo := repository.NewFeedbackRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	userRepo := repository.NewUserRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)

	notifier := service.NewNotificationService(cfg.Mail, logr)
	classifier := service.NewClassifier(nil)

	authSvc := service.NewAuthService(userRepo, nil, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "grd-feedback-api",
	})
	userSvc := service.NewUserService(userRepo, authSvc, nil, logr, cfg.Feedback)
	issueSvc := service.NewIssueService(issueRepo, userRepo, notifier, logr)
	feedbackSvc := service.NewFeedbackService(feedbackRepo, userRepo, issueRepo, classifier, notifier, metricsSvc, nil, logr, cfg.Feedback)
	questionSvc := service.NewQuestionService(questionRepo, userRepo, cacheSvc, cfg.Questions.CacheTTL, nil, logr)
	analyticsSvc := service.NewAnalyticsService(analyticsRepo, cfg.Analytics.MinWindowDays, logr)
	reportSvc := service.NewReportService(feedbackRepo, issueRepo, nil, nil, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	userHandler := handler.NewUserHandler(userSvc)
	issueHandler := handler.NewIssueHandler(issueSvc)
	feedbackHandler := handler.NewFeedbackHandler(feedbackSvc)
	questionHandler := handler.NewQuestionHandler(questionSvc)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsSvc, cfg.Analytics.DefaultWindowDays)
	reportHandler := handler.NewReportHandler(reportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.POST("/users/login", userHandler.Login)
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/refresh", authHandler.Refresh)
		api.GET("/questions", questionHandler.List)

		authed := api.Group("")
		authed.Use(middleware.JWT(authSvc))
		{
			authed.POST("/feedback", feedbackHandler.Submit)
			authed.POST("/auth/logout", authHandler.Logout)
			authed.GET("/auth/me", authHandler.Me)
			authed.POST("/auth/change-password", middleware.RequireRoles(models.RoleAdmin), authHandler.ChangePassword)
		}

		admin := api.Group("/admin")
		admin.Use(middleware.JWT(authSvc), middleware.RequireRoles(models.RoleAdmin))
		{
			admin.GET("/issues", issueHandler.List)
			admin.GET("/issues/filter", issueHandler.Filter)
			admin.PUT("/issues/:id/status", issueHandler.ChangeStatus)
			admin.GET("/issues/counts", issueHandler.Counts)
			admin.GET("/issues/categories", issueHandler.Categories)

			admin.GET("/analytics/daily", analyticsHandler.DailyCounts)
			admin.GET("/analytics/rate", analyticsHandler.Rate)
			admin.GET("/analytics/system", metricsHandler.Snapshot)

			admin.POST("/questions", questionHandler.Create)
			admin.DELETE("/questions/:id", questionHandler.Delete)

			admin.GET("/feedback", feedbackHandler.List)
			admin.GET("/feedback/search", feedbackHandler.Search)

			admin.GET("/reports/feedback", reportHandler.Feedback)
			admin.GET("/reports/issues", reportHandler.Issues)

			admin.POST("/accounts", userHandler.CreateAdmin)
			admin.DELETE("/accounts/:email", userHandler.DeleteAdmin)
			admin.GET("/accounts/last-logins", userHandler.AdminLastLogins)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logr.Sugar().Infow("server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
