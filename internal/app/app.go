package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"gradebook_backend/internal/config"
	"gradebook_backend/internal/controller"
	"gradebook_backend/internal/repository"
	"gradebook_backend/internal/service"
	"gradebook_backend/internal/util"
	"gradebook_backend/pkg/configwatcher"
	"gradebook_backend/pkg/database"
	"gradebook_backend/pkg/logger"
	"gradebook_backend/pkg/monitoring"
	"gradebook_backend/pkg/security"
	"gradebook_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	ConfigDir       string
	Router          *gin.Engine
	Store           repository.DocumentStore
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	tracerProvider  *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
}

type repositories struct {
	quiz       *repository.QuizRepository
	enrollment *repository.EnrollmentRepository
	user       *repository.UserRepository
	attempt    *repository.AttemptRepository
}

type services struct {
	storage     *service.StorageService
	aggregation *service.GradeAggregationService
	export      *service.GradeExportService
}

type controllers struct {
	grade  *controller.GradeController
	health *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// OpenStore 按 store.driver 打开文档存储
func OpenStore(cfg *config.Config) (repository.DocumentStore, *gorm.DB, *redis.Client, error) {
	switch cfg.Store.Driver {
	case util.StoreRedis, "":
		rdb, err := database.InitRedis(&cfg.Redis)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("init redis: %w", err)
		}
		return repository.NewRedisDocumentStore(rdb, cfg.Store.KeyPrefix), nil, rdb, nil
	case util.StoreMySQL:
		db, err := database.InitDB(&cfg.Database, cfg.Server.Mode == "debug")
		if err != nil {
			return nil, nil, nil, fmt.Errorf("init database: %w", err)
		}
		return repository.NewSQLDocumentStore(db), db, nil, nil
	case util.StoreMemory:
		return repository.NewMemoryDocumentStore(), nil, nil, nil
	default:
		return nil, nil, nil, fmt.Errorf("%w: %s", util.ErrUnknownStoreDriver, cfg.Store.Driver)
	}
}

func initRepositories(store repository.DocumentStore) *repositories {
	return &repositories{
		quiz:       repository.NewQuizRepository(store),
		enrollment: repository.NewEnrollmentRepository(store),
		user:       repository.NewUserRepository(store),
		attempt:    repository.NewAttemptRepository(store),
	}
}

func initServices(repos *repositories, cfg *config.Config) *services {
	s := &services{}

	s.storage = service.NewStorageService(&cfg.Storage)
	s.aggregation = service.NewGradeAggregationService(
		repos.quiz,
		repos.enrollment,
		repos.user,
		service.NewResultReader(repos.attempt),
		service.NewGradingOptions(cfg.Grading),
	)
	s.export = service.NewGradeExportService(s.aggregation, s.storage)

	return s
}

// NewServices 脚本复用与 HTTP 服务相同的装配
func NewServices(store repository.DocumentStore, cfg *config.Config) (*service.GradeAggregationService, *service.GradeExportService) {
	s := initServices(initRepositories(store), cfg)
	return s.aggregation, s.export
}

func (a *App) initControllers(s *services) *controllers {
	return &controllers{
		grade:  controller.NewGradeController(s.aggregation, s.export),
		health: controller.NewHealthController(a.Store, a.Config.Store.Driver),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config, configDir string) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	store, db, rdb, err := OpenStore(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize document store", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}

	app := &App{
		Config:    cfg,
		ConfigDir: configDir,
		Store:     store,
		DB:        db,
		Redis:     rdb,
	}

	repos := initRepositories(store)
	services := initServices(repos, cfg)
	app.services = services
	controllers := app.initControllers(services)

	app.RegisterConfigCallback(func(newCfg *config.Config) {
		services.aggregation.UpdateOptions(service.NewGradingOptions(newCfg.Grading))
	})

	// 监控初始化
	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(tracing.ServiceName, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracerProvider = tp
	}

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == util.StorageLocal {
		router.Static("/exports", cfg.Storage.LocalPath)
	}

	return app
}

func (a *App) reloadConfig(newCfg *config.Config) {
	for _, callback := range a.configCallbacks {
		callback(newCfg)
	}
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	watchCtx, stopWatch := context.WithCancel(context.Background())
	defer stopWatch()
	go func() {
		configFile := filepath.Join(a.ConfigDir, "config.yaml")
		if err := configwatcher.WatchConfig(watchCtx, configFile, a.reloadConfig); err != nil {
			logger.Log.Warn("Config watcher disabled", zap.Error(err))
		}
	}()

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port), zap.String("store", a.Config.Store.Driver))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	if a.tracerProvider != nil {
		if err := a.tracerProvider.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}

	logger.Log.Info("Server exiting")
}
