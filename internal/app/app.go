package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/moodtrack/core/internal/config"
	"github.com/moodtrack/core/internal/database"
	"github.com/moodtrack/core/internal/middleware"
	"github.com/moodtrack/core/internal/modules/ai"
	"github.com/moodtrack/core/internal/modules/analysis"
	"github.com/moodtrack/core/internal/modules/entry"
	"github.com/moodtrack/core/internal/modules/summary"
	pkgcron "github.com/moodtrack/core/internal/pkg/cron"
	pkgredis "github.com/moodtrack/core/internal/pkg/redis"
	"github.com/moodtrack/core/internal/pkg/taskqueue"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App holds all application dependencies.
type App struct {
	cfg    *config.AppConfig
	router *gin.Engine
	db     *gorm.DB
	logger *zap.Logger
	cancel context.CancelFunc
	sched  *pkgcron.Scheduler
	tasks  *taskqueue.Service

	analysisService *analysis.Service
	summaryService  *summary.Service
}

// New initializes the application: config, database, Redis, services,
// routes, cron.
func New(logger *zap.Logger, cfg *config.AppConfig) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	middleware.SetJWTSecret(cfg.JWTSecret)

	db, err := database.Connect(cfg, true)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	rc, err := pkgredis.Connect(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}

	if cfg.IsDev() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))
	router.Use(cors.New(corsConfig(cfg)))

	loc := cfg.Location()
	generator := ai.NewClient(cfg.AI, logger)
	entryStore := analysis.NewGormEntryStore(db)
	analysisStore := analysis.NewGormAnalysisStore(db)
	analysisService := analysis.NewService(entryStore, analysisStore, generator, loc, cfg.Analysis.RetentionCap, logger)

	var summaryService *summary.Service
	objectStore, err := summary.NewS3Store(cfg.S3)
	if err != nil {
		logger.Warn("summary storage disabled", zap.Error(err))
	} else {
		summaryService = summary.NewService(entryStore, analysisStore, generator, objectStore, loc, logger)
	}

	tasks := taskqueue.NewService(rc)
	sched := pkgcron.New(loc)

	app := &App{
		cfg:             cfg,
		router:          router,
		db:              db,
		logger:          logger,
		sched:           sched,
		tasks:           tasks,
		analysisService: analysisService,
		summaryService:  summaryService,
	}

	if err := app.registerCronJobs(); err != nil {
		return nil, fmt.Errorf("cron: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	app.cancel = cancel
	go sched.Start(ctx)

	app.registerRoutes(entry.NewService(db, loc))

	return app, nil
}

func corsConfig(cfg *config.AppConfig) cors.Config {
	c := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}
	if len(cfg.AllowedOrigins) > 0 && !cfg.IsDev() {
		c.AllowOrigins = cfg.AllowedOrigins
	} else {
		c.AllowOriginFunc = func(string) bool { return true }
	}
	return c
}

// Addr returns the listen address.
func (a *App) Addr() string { return fmt.Sprintf(":%d", a.cfg.Port) }

// Router returns the HTTP handler.
func (a *App) Router() http.Handler { return a.router }

// Shutdown stops background goroutines.
func (a *App) Shutdown() { a.cancel() }
