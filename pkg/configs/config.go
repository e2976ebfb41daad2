// Package configs manages application configuration: catalog databases,
// key-value stores, message queue, object storage and server settings.
// Multiple formats are supported (YAML, JSON, TOML, dotenv) with hot reload.
//
// Example:
//
//	err := configs.InitConfig("./")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	config := configs.GetConfig()
//	fmt.Println(config.Server.Port)
//
// Example accessing catalog DB config:
//
//	config := configs.GetConfig()
//	dsn := config.DB.GetDSN()
//	fmt.Println("DSN:", dsn)
package configs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// AppVersion is stamped into client handshakes and event headers.
const AppVersion = "1.0.0"

type (
	// AppConfig is the root application configuration.
	AppConfig struct {
		DB         DBConfig             `mapstructure:"db"`          // primary catalog database
		OverflowDB OverflowDBConfig     `mapstructure:"overflow_db"` // optional mirror used when the primary is full
		DataDB     DBConfig             `mapstructure:"data_db"`     // users/groups/settings database
		KV         KVConfig             `mapstructure:"kv"`
		MQ         MQConfig             `mapstructure:"mq"`
		S3         S3Config             `mapstructure:"s3"`
		Server     ServerConfig         `mapstructure:"server"`
		Log        LogConfig            `mapstructure:"log"`
		Catalog    CatalogConfig        `mapstructure:"catalog"`
		Metrics    MetricsConfig        `mapstructure:"metrics"`
		RateLimit  RateLimitConfig      `mapstructure:"rate_limit"`
		Breaker    CircuitBreakerConfig `mapstructure:"circuit_breaker"`
		Events     EventsConfig         `mapstructure:"events"`
		Jobs       JobsConfig           `mapstructure:"jobs"`
	}
)

var (
	globalConfig AppConfig
	appViper     *viper.Viper
)

// InitConfig loads application configuration from a file or directory and
// enables hot reload when configured.
func InitConfig(path string) error {
	appViper = viper.New()
	setAllDefaults(appViper)

	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		appViper.SetConfigFile(path)
	} else {
		appViper.SetConfigName("config")
		appViper.AddConfigPath(path)
		appViper.AddConfigPath(path + "/configs")

		exts := []string{"yaml", "yml", "json", "toml", "env", "dotenv"}

		for _, ext := range exts {
			cfg := filepath.Join(path, "config."+ext)
			if _, err := os.Stat(cfg); err == nil {
				appViper.SetConfigFile(cfg)

				break
			}
		}
	}

	appViper.AutomaticEnv()
	appViper.SetEnvPrefix("MEDIAVAULT")

	if err := appViper.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	if err := appViper.Unmarshal(&globalConfig); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	reloadConfigs(appViper, globalConfig.Server.ReloadConfig)

	return nil
}

// setAllDefaults applies defaults for every configuration section.
func setAllDefaults(v *viper.Viper) {
	var (
		serverConfig   ServerConfig
		dbConfig       DBConfig
		overflowConfig OverflowDBConfig
		dataDBConfig   DBConfig
		kvConfig       KVConfig
		mqConfig       MQConfig
		s3Config       S3Config
		logConfig      LogConfig
		catalogConfig  CatalogConfig
		metricsConfig  MetricsConfig
		rlConfig       RateLimitConfig
		cbConfig       CircuitBreakerConfig
		eventsConfig   EventsConfig
		jobsConfig     JobsConfig
	)

	serverConfig.setDefaults(v)
	dbConfig.setDefaults(v, "db")
	overflowConfig.setDefaults(v)
	dataDBConfig.setDefaults(v, "data_db")
	kvConfig.setDefaults(v)
	mqConfig.setDefaults(v)
	s3Config.setDefaults(v)
	logConfig.setDefaults(v)
	catalogConfig.setDefaults(v)
	metricsConfig.setDefaults(v)
	rlConfig.setDefaults(v)
	cbConfig.setDefaults(v)
	eventsConfig.setDefaults(v)
	jobsConfig.setDefaults(v)
}

func reloadConfigs(v *viper.Viper, isHotReload bool) {
	if !isHotReload {
		return
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		fmt.Println("Config file changed:", e.Name)
		fmt.Println("Reloading configuration...")

		if err := v.Unmarshal(&globalConfig); err != nil {
			fmt.Printf("Error reloading config: %v\n", err)
		}
	})
	v.WatchConfig()
}

// GetConfig returns the global configuration instance.
func GetConfig() *AppConfig {
	return &globalConfig
}

func GetViper() *viper.Viper {
	return appViper
}
