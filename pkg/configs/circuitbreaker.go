package configs

import "github.com/spf13/viper"

const (
	DefaultCBEnabled           = false
	DefaultCBFailureRate       = 0.5
	DefaultCBMinRequests       = 20
	DefaultCBIntervalSeconds   = 60
	DefaultCBTimeoutSeconds    = 30
	DefaultCBMaxRequestsInHalf = 5
)

// CircuitBreakerConfig HTTP circuit breaker configuration.
type CircuitBreakerConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	FailureRate       float64 `mapstructure:"failure_rate"`         // failure ratio threshold [0,1]
	MinRequests       uint32  `mapstructure:"min_requests"`         // minimum requests before tripping
	IntervalSeconds   int     `mapstructure:"interval_seconds"`     // statistics window
	TimeoutSeconds    int     `mapstructure:"timeout_seconds"`      // open state duration before half-open
	MaxRequestsInHalf uint32  `mapstructure:"max_requests_in_half"` // concurrent requests allowed half-open
}

func (c *CircuitBreakerConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("circuit_breaker.enabled", DefaultCBEnabled)
	v.SetDefault("circuit_breaker.failure_rate", DefaultCBFailureRate)
	v.SetDefault("circuit_breaker.min_requests", DefaultCBMinRequests)
	v.SetDefault("circuit_breaker.interval_seconds", DefaultCBIntervalSeconds)
	v.SetDefault("circuit_breaker.timeout_seconds", DefaultCBTimeoutSeconds)
	v.SetDefault("circuit_breaker.max_requests_in_half", DefaultCBMaxRequestsInHalf)
}
