package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/career-roadmap-api/api/swagger"
	"github.com/noah-isme/career-roadmap-api/internal/bootstrap"
	"github.com/noah-isme/career-roadmap-api/internal/handler"
	"github.com/noah-isme/career-roadmap-api/internal/middleware"
	"github.com/noah-isme/career-roadmap-api/internal/repository"
	"github.com/noah-isme/career-roadmap-api/internal/service"
	"github.com/noah-isme/career-roadmap-api/pkg/config"
	"github.com/noah-isme/career-roadmap-api/pkg/gemini"
	"github.com/noah-isme/career-roadmap-api/pkg/jobs"
	"github.com/noah-isme/career-roadmap-api/pkg/kvstore"
	"github.com/noah-isme/career-roadmap-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/career-roadmap-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/career-roadmap-api/pkg/middleware/requestid"
	"github.com/noah-isme/career-roadmap-api/pkg/storage"
)

// @title Career Roadmap API
// @version 1.0.0
// @description Student career roadmap, portfolio records and AI project feedback.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics := service.NewMetricsService()
	store := bootstrap.OpenStore(ctx, cfg, logr, kvstore.WithBus(kvstore.NewBus(64)), kvstore.WithObserver(metrics))
	defer store.Close() //nolint:errcheck
	go func() {
		if err := store.Relay(ctx); err != nil {
			logr.Warn("document relay stopped", zap.Error(err))
		}
	}()

	roster := repository.NewRosterRepository(store, logr)
	photos := repository.NewPhotoRepository(store, logr)
	projects := repository.NewProjectRepository(store, logr)
	feedback := repository.NewFeedbackRepository(store, logr)
	dashboardRepo := repository.NewDashboardRepository(store, logr)
	admins, err := repository.NewAdminCredentialRepository(cfg.Admin.Credentials)
	if err != nil {
		logr.Fatal("invalid admin credentials", zap.Error(err))
	}

	sessions := service.NewSessionService(roster, repository.NewSessionRepository(store), admins, nil, logr, service.SessionConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	rosterSvc := service.NewRosterService(roster, photos, service.NewRosterCSV(cfg.CSV.ConfirmedMode), nil, logr)
	records := service.NewRecordsService(service.RecordsServiceParams{
		Students:   roster,
		Projects:   projects,
		Counseling: repository.NewCounselingRepository(store, logr),
		Grades:     repository.NewGradeRepository(store, logr),
		Feedback:   feedback,
		Activities: dashboardRepo,
	}, nil, logr)

	generator := gemini.NewClient(gemini.Config{
		APIKey:          cfg.Gemini.APIKey,
		BaseURL:         cfg.Gemini.BaseURL,
		APIVersion:      cfg.Gemini.APIVersion,
		Temperature:     cfg.Gemini.Temperature,
		MaxOutputTokens: cfg.Gemini.MaxOutputTokens,
		Timeout:         cfg.Gemini.Timeout,
	}, nil)
	feedbackSvc := service.NewFeedbackService(generator, service.FeedbackConfig{
		APIKey:        cfg.Gemini.APIKey,
		PrimaryModel:  cfg.Gemini.PrimaryModel,
		FallbackModel: cfg.Gemini.FallbackModel,
	}, roster, projects, feedback, metrics, logr)
	queue := jobs.NewQueue("feedback", feedbackSvc.HandleJob, jobs.QueueConfig{
		Workers: cfg.Feedback.Workers,
		NoRetry: true,
		Logger:  logr,
	})
	queue.Start(ctx)
	defer queue.Stop()
	feedbackSvc.UseQueue(queue)

	pdf := bootstrap.OpenPDFExporter(cfg, logr)
	exports := service.NewExportService(roster, records, pdf, storage.NewSignedURLSigner(cfg.Share.SignedURLSecret, cfg.Share.SignedURLTTL), service.ExportConfig{APIPrefix: cfg.APIPrefix}, logr)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	checks := handler.NewMetricsHandler(metrics, store)
	r.GET("/health", checks.Health)
	r.GET("/ready", checks.Ready)
	r.GET("/metrics", checks.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.Routes{
		Auth:       handler.NewAuthHandler(sessions, rosterSvc),
		Students:   handler.NewStudentHandler(rosterSvc),
		Photos:     handler.NewPhotoHandler(service.NewPhotoService(photos, roster, logr)),
		Records:    handler.NewRecordsHandler(records),
		Feedback:   handler.NewFeedbackHandler(feedbackSvc, cfg.APIPrefix),
		Dashboard:  handler.NewDashboardHandler(service.NewDashboardService(roster, dashboardRepo, records, nil, logr)),
		Portfolio:  handler.NewPortfolioHandler(exports),
		Documents:  handler.NewDocumentHandler(store.Bus(), sessions, cfg.CORS.AllowedOrigins, logr),
		Authorizer: sessions,
	}.Register(r.Group(cfg.APIPrefix))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "store", cfg.Store.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
