package app

import (
	"context"
	"exam_prep_backend/internal/config"
	"exam_prep_backend/internal/controller"
	"exam_prep_backend/internal/repository"
	"exam_prep_backend/internal/service"
	"exam_prep_backend/pkg/database"
	"exam_prep_backend/pkg/logger"
	"exam_prep_backend/pkg/monitoring"
	"exam_prep_backend/pkg/security"
	"exam_prep_backend/pkg/tracing"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client
}

type repositories struct {
	user          *repository.UserRepository
	exam          *repository.ExamRepository
	studyMaterial *repository.StudyMaterialRepository
	testCard      *repository.TestCardRepository
	unlock        *repository.UnlockRepository
	submission    *repository.SubmissionRepository
	revision      *repository.RevisionRepository
	subscription  *repository.SubscriptionRepository
}

type services struct {
	auth         *service.AuthService
	storage      *service.StorageService
	content      *service.ContentService
	unlock       *service.UnlockService
	submission   *service.SubmissionService
	revision     *service.RevisionService
	quizBuilder  *service.QuizBuilderService
	subscription *service.SubscriptionService
	analytics    *service.AnalyticsService
}

type controllers struct {
	auth         *controller.AuthController
	content      *controller.ContentController
	test         *controller.TestController
	revision     *controller.RevisionController
	adminTest    *controller.AdminTestController
	subscription *controller.SubscriptionController
	analytics    *controller.AnalyticsController
	health       *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:          repository.NewUserRepository(db),
		exam:          repository.NewExamRepository(db),
		studyMaterial: repository.NewStudyMaterialRepository(db),
		testCard:      repository.NewTestCardRepository(db),
		unlock:        repository.NewUnlockRepository(db),
		submission:    repository.NewSubmissionRepository(db),
		revision:      repository.NewRevisionRepository(db),
		subscription:  repository.NewSubscriptionRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.content = service.NewContentService(repos.exam, repos.studyMaterial, rdb)
	s.unlock = service.NewUnlockService(db, repos.testCard, repos.unlock, repos.submission, repos.user)
	s.submission = service.NewSubmissionService(db, repos.testCard, repos.submission, repos.unlock, repos.user, repos.revision, s.unlock)
	s.revision = service.NewRevisionService(repos.revision)
	s.quizBuilder = service.NewQuizBuilderService(db, repos.testCard, repos.revision)
	s.subscription = service.NewSubscriptionService(repos.subscription)
	s.analytics = service.NewAnalyticsService(repos.submission, repos.revision, repos.user, repos.exam)

	return s
}

func (a *App) initControllers(s *services, repos *repositories, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:         controller.NewAuthController(s.auth),
		content:      controller.NewContentController(s.content, s.storage),
		test:         controller.NewTestController(s.unlock, s.submission),
		revision:     controller.NewRevisionController(s.revision, s.quizBuilder),
		adminTest:    controller.NewAdminTestController(repos.testCard, s.quizBuilder),
		subscription: controller.NewSubscriptionController(s.subscription),
		analytics:    controller.NewAnalyticsController(s.analytics),
		health:       controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 600
	}
	windowMinutes := cfg.RateLimit.WindowMinutes
	if windowMinutes <= 0 {
		windowMinutes = 1
	}
	router.Use(security.RateLimiter(maxRequests, time.Duration(windowMinutes)*time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	gin.SetMode(cfg.Server.Mode)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		// 缓存降级：Redis不可用时直接回源数据库
		logger.Log.Warn("Redis unavailable, content cache disabled", zap.Error(err))
		rdb = nil
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, db, rdb)
	controllers := app.initControllers(services, repos, db, rdb)

	monitoring.Init()

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("exam-prep-platform", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
