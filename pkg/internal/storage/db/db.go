// Package db handles relational storage for the catalog.
//
// The service opens up to three databases: the primary catalog store, the
// optional overflow catalog store that receives writes when the primary
// reports it is full, and the data store holding users and groups.
package db

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	gormPrometheus "gorm.io/plugin/prometheus"

	"github.com/yeisme/mediavault/pkg/configs"
	mlog "github.com/yeisme/mediavault/pkg/log"
)

// DialectorFactory builds a gorm dialector from a DSN.
type DialectorFactory func(dsn string) gorm.Dialector

var dialectorFactories = map[configs.DBType]DialectorFactory{}

// RegisterDialectorFactory registers a dialector factory for a database type.
func RegisterDialectorFactory(dbType configs.DBType, factory DialectorFactory) {
	dialectorFactories[dbType] = factory
}

// GetRegisteredDBTypes returns the registered database types.
func GetRegisteredDBTypes() []configs.DBType {
	types := make([]configs.DBType, 0, len(dialectorFactories))
	for dbType := range dialectorFactories {
		types = append(types, dbType)
	}

	return types
}

// canonicalDBType folds protocol aliases onto the registered factory keys.
func canonicalDBType(t configs.DBType) configs.DBType {
	switch t {
	case configs.Postgres, configs.Pg:
		return configs.PostgreSQL
	case configs.MariaDB:
		return configs.MySQL
	default:
		return t
	}
}

// Client wraps a GORM DB handle for one of the catalog's databases.
type Client struct {
	*gorm.DB

	// Name distinguishes the catalog's databases in logs and metrics
	// ("catalog", "overflow", "data").
	Name string
}

// New opens a database described by cfg. name labels the connection in logs
// and metrics since the service runs several databases side by side.
func New(ctx context.Context, cfg *configs.DBConfig, name string) (*Client, error) {
	dsn := cfg.GetDSN()
	if dsn == "" {
		return nil, fmt.Errorf("failed to generate DSN for database type: %s", cfg.Type)
	}

	factory, exists := dialectorFactories[canonicalDBType(cfg.Type)]
	if !exists {
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
	}

	dialector := factory(dsn)

	gormLogger := logger.New(
		mlog.Logger(),
		logger.Config{
			SlowThreshold:             0,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:               gormLogger,
		PrepareStmt:          true,
		TranslateError:       true,
		FullSaveAssociations: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database %s: %w", name, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database %s: %w", name, err)
	}

	client := &Client{DB: db, Name: name}
	if configs.GetConfig().Metrics.Enabled {
		if err := client.RegisterGORMMetrics(name); err != nil {
			return nil, fmt.Errorf("failed to register GORM metrics: %w", err)
		}
	}

	mlog.Logger().Info().
		Str("name", name).
		Str("type", cfg.GetDBType()).
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("database", cfg.Database).
		Msg("database connected")

	return client, nil
}

// GetDB returns the GORM DB handle.
func (c *Client) GetDB() *gorm.DB {
	return c.DB
}

const defaultGORMMetricsRefreshInterval = 15 // seconds

// RegisterGORMMetrics attaches the GORM prometheus plugin to this connection.
func (c *Client) RegisterGORMMetrics(dbName string) error {
	promConfig := gormPrometheus.Config{
		DBName:          dbName,
		RefreshInterval: defaultGORMMetricsRefreshInterval,
		StartServer:     false,
	}

	if err := c.Use(gormPrometheus.New(promConfig)); err != nil {
		return fmt.Errorf("failed to register GORM prometheus plugin: %w", err)
	}

	return nil
}
