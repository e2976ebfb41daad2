// Package app wires configuration, storage, migrations, middleware, routes
// and background jobs into a runnable server.
package app

import (
	contextPkg "context"
	"fmt"
	"os"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/yeisme/mediavault/pkg/api"
	"github.com/yeisme/mediavault/pkg/cache"
	"github.com/yeisme/mediavault/pkg/configs"
	"github.com/yeisme/mediavault/pkg/context"
	"github.com/yeisme/mediavault/pkg/internal/catalog"
	"github.com/yeisme/mediavault/pkg/internal/jobs"
	"github.com/yeisme/mediavault/pkg/internal/model"
	"github.com/yeisme/mediavault/pkg/internal/storage"
	"github.com/yeisme/mediavault/pkg/log"
	"github.com/yeisme/mediavault/pkg/metrics"
	"github.com/yeisme/mediavault/pkg/middleware"
	"github.com/yeisme/mediavault/pkg/scheduler"
)

type App struct {
	Engine *gin.Engine

	config  *configs.AppConfig
	manager *storage.Manager
	sched   *scheduler.Scheduler
}

func NewApp(configPath string) *App {
	ctx := contextPkg.Background()

	if err := configs.InitConfig(configPath); err != nil {
		fmt.Printf("Error initializing config: %v\n", err)
		os.Exit(1)
	}

	log.Init()

	config := configs.GetConfig()

	if err := metrics.InitMetrics(config.Metrics); err != nil {
		fmt.Printf("Error initializing metrics: %v\n", err)
		os.Exit(1)
	}

	manager, err := storage.Init(ctx)
	if err != nil {
		fmt.Printf("Error initializing storage: %v\n", err)
		os.Exit(1)
	}

	ctx = context.WithStorageManager(ctx, manager)

	if err := migrate(ctx, manager); err != nil {
		fmt.Printf("Error running migrations: %v\n", err)
		os.Exit(1)
	}

	l := log.Logger()
	gin.DefaultWriter = log.NewGinWriter(l, zerolog.InfoLevel)
	gin.DefaultErrorWriter = log.NewGinWriter(l, zerolog.ErrorLevel)

	sched, err := scheduler.NewScheduler()
	if err != nil {
		fmt.Printf("Error creating scheduler: %v\n", err)
		os.Exit(1)
	}

	if err := jobs.Register(ctx, sched, &config.Jobs); err != nil {
		fmt.Printf("Error registering jobs: %v\n", err)
		os.Exit(1)
	}

	sched.Start()

	engine := gin.New()
	engine.Use(
		gin.Recovery(),
		gzip.Gzip(gzip.DefaultCompression),
		middleware.CORSMiddleware(config.Server),
		middleware.TraceMiddleware(),
		middleware.GinLoggerMiddleware(),
		middleware.PrometheusMiddleware(),
		middleware.RateLimitMiddleware(config.RateLimit),
		middleware.CircuitBreakerMiddleware(config.Breaker),
		middleware.StorageMiddleware(manager),
		middleware.SchedulerMiddleware(sched),
		middleware.AccessMiddleware(),
	)

	if kvc := manager.GetKVClient(); kvc != nil {
		engine.Use(middleware.CacheMiddleware(middleware.DefaultCacheConfig(cache.NewCache(kvc))))
	}

	api.RegisterGroup(engine)

	if config.Metrics.Enabled {
		_ = metrics.StartMetricsServer(config.Metrics, engine)
	}

	return &App{
		Engine:  engine,
		config:  config,
		manager: manager,
		sched:   sched,
	}
}

func (a *App) Run() error {
	return a.Engine.Run(fmt.Sprintf("%s:%d", a.config.Server.Host, a.config.Server.Port))
}

// Close stops the scheduler and releases every storage client.
func (a *App) Close() error {
	if a.sched != nil {
		if err := a.sched.Stop(); err != nil {
			log.Logger().Warn().Err(err).Msg("scheduler stop failed")
		}
	}

	if a.manager != nil {
		return a.manager.Close()
	}

	return nil
}

// migrate creates the catalog tables in the primary and overflow databases
// and the account tables in the data database.
func migrate(ctx contextPkg.Context, manager *storage.Manager) error {
	dbc := manager.GetDBClient()
	if dbc == nil {
		return fmt.Errorf("catalog database not configured")
	}

	var overflow *gorm.DB
	if oc := manager.GetOverflowDBClient(); oc != nil {
		overflow = oc.DB
	}

	if err := catalog.NewStore(dbc.DB, overflow).Migrate(ctx); err != nil {
		return fmt.Errorf("catalog migration: %w", err)
	}

	datac := manager.GetDataDBClient()
	if datac == nil {
		return fmt.Errorf("data database not configured")
	}

	if err := datac.DB.AutoMigrate(
		&model.User{},
		&model.Group{},
		&model.Filter{},
		&model.Note{},
		&model.Connection{},
		&model.JoinRequest{},
	); err != nil {
		return fmt.Errorf("data migration: %w", err)
	}

	return nil
}
