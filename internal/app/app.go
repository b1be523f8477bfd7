package app

import (
	"ailearn_backend/internal/config"
	"ailearn_backend/internal/controller"
	"ailearn_backend/internal/repository"
	"ailearn_backend/internal/service"
	"ailearn_backend/pkg/cache"
	"ailearn_backend/pkg/database"
	"ailearn_backend/pkg/logger"
	"ailearn_backend/pkg/monitoring"
	"ailearn_backend/pkg/security"
	"ailearn_backend/pkg/tracing"
	"context"
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
	Config   *config.Config
	Router   *gin.Engine
	DB       *gorm.DB
	Redis    *redis.Client
	services *services
}

type repositories struct {
	user        *repository.UserRepository
	module      *repository.ModuleRepository
	question    *repository.QuestionRepository
	attempt     *repository.AttemptRepository
	progress    *repository.ProgressRepository
	achievement *repository.AchievementRepository
	checkin     *repository.CheckinRepository
	tool        *repository.ToolRepository
}

type services struct {
	auth        *service.AuthService
	storage     *service.StorageService
	learning    *service.LearningService
	quiz        *service.QuizService
	progress    *service.ProgressService
	achievement *service.AchievementService
	tool        *service.ToolService
}

type controllers struct {
	auth        *controller.AuthController
	learning    *controller.LearningController
	quiz        *controller.QuizController
	progress    *controller.ProgressController
	achievement *controller.AchievementController
	tool        *controller.ToolController
	admin       *controller.AdminController
	health      *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:        repository.NewUserRepository(db),
		module:      repository.NewModuleRepository(db),
		question:    repository.NewQuestionRepository(db),
		attempt:     repository.NewAttemptRepository(db),
		progress:    repository.NewProgressRepository(db),
		achievement: repository.NewAchievementRepository(db),
		checkin:     repository.NewCheckinRepository(db),
		tool:        repository.NewToolRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	c := cache.New(rdb)

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.learning = service.NewLearningService(repos.module, repos.progress)
	s.progress = service.NewProgressService(repos.progress, c,
		time.Duration(cfg.Cache.ProgressTTLSeconds)*time.Second)
	s.achievement = service.NewAchievementService(repos.achievement, repos.checkin, repos.module)
	s.quiz = service.NewQuizService(repos.module, repos.question, repos.attempt, repos.progress, s.achievement, s.progress)
	s.tool = service.NewToolService(repos.tool, c,
		time.Duration(cfg.Cache.ToolListTTLSeconds)*time.Second)

	return s
}

func (a *App) initControllers(s *services, repos *repositories, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:        controller.NewAuthController(s.auth, s.progress),
		learning:    controller.NewLearningController(s.learning),
		quiz:        controller.NewQuizController(s.quiz),
		progress:    controller.NewProgressController(s.progress),
		achievement: controller.NewAchievementController(s.achievement),
		tool:        controller.NewToolController(s.tool),
		admin:       controller.NewAdminController(repos.module, repos.question, s.tool, s.storage),
		health:      controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 600
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	// Redis 不可用时退化为进程内缓存，不阻塞启动
	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Warn("Redis unavailable, falling back to in-process cache", zap.Error(err))
		rdb = nil
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	app.services = services
	controllers := app.initControllers(services, repos, db, rdb)

	monitoring.Init()

	gin.SetMode(cfg.Server.Mode)
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("ailearn-platform", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

// ApplyConfig 配置文件热更新时套用可在线调整的项，其余字段需重启生效
func (a *App) ApplyConfig(cfg *config.Config) {
	if a.services == nil {
		return
	}
	if cfg.Cache.ToolListTTLSeconds > 0 {
		a.services.tool.CacheTTL = time.Duration(cfg.Cache.ToolListTTLSeconds) * time.Second
	}
	if cfg.Cache.ProgressTTLSeconds > 0 {
		a.services.progress.CacheTTL = time.Duration(cfg.Cache.ProgressTTLSeconds) * time.Second
	}
	logger.Log.Info("Config reloaded",
		zap.Int("toolListTTLSeconds", cfg.Cache.ToolListTTLSeconds),
		zap.Int("progressTTLSeconds", cfg.Cache.ProgressTTLSeconds))
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

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
