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
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/lecture-attendance-api/api/swagger"
	"github.com/noah-isme/lecture-attendance-api/internal/handler"
	internalmiddleware "github.com/noah-isme/lecture-attendance-api/internal/middleware"
	"github.com/noah-isme/lecture-attendance-api/internal/repository"
	"github.com/noah-isme/lecture-attendance-api/internal/service"
	"github.com/noah-isme/lecture-attendance-api/internal/view"
	"github.com/noah-isme/lecture-attendance-api/pkg/cache"
	"github.com/noah-isme/lecture-attendance-api/pkg/config"
	"github.com/noah-isme/lecture-attendance-api/pkg/database"
	"github.com/noah-isme/lecture-attendance-api/pkg/i18n"
	"github.com/noah-isme/lecture-attendance-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/lecture-attendance-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/lecture-attendance-api/pkg/middleware/requestid"
)

// @title Lecture Attendance API
// @version 0.1.0
// @description Lecture attendance rosters and server-held attendance dialogs
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		// The roster still works straight from Postgres.
		logr.Warn("redis unavailable, roster cache disabled", zap.Error(err))
		redisClient = nil
	}
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	translator, err := i18n.NewTranslator(cfg.Display.DefaultLocale, logr)
	if err != nil {
		logr.Fatal("failed to load translations", zap.Error(err))
	}

	validate := validator.New()
	metrics := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Roster.CacheTTL, logr, cfg.Roster.CacheEnabled && redisClient != nil)

	attendanceRepo := repository.NewAttendanceRepository(db, validate)
	lectureRepo := repository.NewLectureRepository(db)
	presenter := view.NewPresenter(translator, cfg.Display.Location())

	rosterSvc := service.NewRosterService(attendanceRepo, lectureRepo, cacheSvc, metrics, validate, cfg.Roster.CacheTTL, logr)
	exportSvc := service.NewExportService(rosterSvc, presenter)
	dialogSvc := service.NewDialogService(service.DialogServiceConfig{
		Fetcher:    service.RosterFetcherFunc(rosterSvc.Reload),
		Lectures:   rosterSvc,
		Presenter:  presenter,
		Metrics:    metrics,
		Validate:   validate,
		Logger:     logr.Named("dialogs"),
		SessionTTL: cfg.Dialogs.SessionTTL,
	})

	rosterHandler := handler.NewRosterHandler(rosterSvc, exportSvc, presenter)
	dialogHandler := handler.NewDialogHandler(dialogSvc, 0)
	metricsHandler := handler.NewMetricsHandler(metrics, lectureRepo)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metrics))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	lectures := api.Group("/lectures/:lectureId")
	lectures.GET("/attendance", internalmiddleware.WithResponseMeta(), rosterHandler.List)
	lectures.GET("/attendance/export", rosterHandler.Export)

	dialogs := api.Group("/attendance-dialogs")
	dialogs.POST("", dialogHandler.Open)
	dialogs.GET("/:id", dialogHandler.Get)
	dialogs.GET("/:id/html", dialogHandler.HTML)
	dialogs.PUT("/:id", dialogHandler.Update)
	dialogs.POST("/:id/refresh", dialogHandler.Refresh)
	dialogs.POST("/:id/close", dialogHandler.Close)
	dialogs.DELETE("/:id", dialogHandler.Delete)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go dialogSvc.Run(ctx, cfg.Dialogs.SweepInterval)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "api_prefix", cfg.APIPrefix)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
	dialogSvc.Shutdown()
}
