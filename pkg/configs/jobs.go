package configs

import "github.com/spf13/viper"

const (
	DefaultJobsEnabled      = true
	DefaultReconcileCron    = "0 * * * *" // hourly
	DefaultPremiumSweepCron = "0 3 * * *" // daily at 03:00
	DefaultSnapshotCron     = "30 3 * * *"
)

// JobsConfig controls the background maintenance jobs.
type JobsConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// ReconcileCron schedules the stale move-source sweep.
	ReconcileCron string `mapstructure:"reconcile_cron"`
	// PremiumSweepCron schedules the premium expiry downgrade pass.
	PremiumSweepCron string `mapstructure:"premium_sweep_cron"`
	// SnapshotCron schedules the catalog export to object storage. Empty
	// disables the job, for deployments without S3.
	SnapshotCron string `mapstructure:"snapshot_cron"`
}

func (c *JobsConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("jobs.enabled", DefaultJobsEnabled)
	v.SetDefault("jobs.reconcile_cron", DefaultReconcileCron)
	v.SetDefault("jobs.premium_sweep_cron", DefaultPremiumSweepCron)
	v.SetDefault("jobs.snapshot_cron", DefaultSnapshotCron)
}
