// Package jobs registers the background maintenance jobs with the
// scheduler: stale move-source reconciliation, premium expiry sweeps, and
// catalog snapshots.
package jobs

import (
	"context"

	"github.com/yeisme/mediavault/pkg/configs"
	ctxPkg "github.com/yeisme/mediavault/pkg/context"
	"github.com/yeisme/mediavault/pkg/internal/service"
	"github.com/yeisme/mediavault/pkg/log"
	"github.com/yeisme/mediavault/pkg/scheduler"
)

const (
	JobCatalogReconcile = "catalog.reconcile"
	JobPremiumSweep     = "users.premium.sweep"
	JobCatalogSnapshot  = "catalog.snapshot"
)

// Register adds every enabled maintenance job to the scheduler. The context
// must carry the storage manager; job runs pull their clients from it.
func Register(ctx context.Context, sched *scheduler.Scheduler, cfg *configs.JobsConfig) error {
	if !cfg.Enabled {
		log.Logger().Info().Msg("background jobs disabled")
		return nil
	}

	if err := sched.AddCron(JobCatalogReconcile, cfg.ReconcileCron, runReconcile, ctx); err != nil {
		return err
	}

	if err := sched.AddCron(JobPremiumSweep, cfg.PremiumSweepCron, runPremiumSweep, ctx); err != nil {
		return err
	}

	if cfg.SnapshotCron != "" && ctxPkg.GetS3Client(ctx) != nil {
		if err := sched.AddCron(JobCatalogSnapshot, cfg.SnapshotCron, runSnapshot, ctx); err != nil {
			return err
		}
	}

	return nil
}

func runReconcile(ctx context.Context) {
	l := log.Logger()

	removed, err := service.NewCatalogService(ctx).Reconcile(ctx)
	if err != nil {
		l.Error().Err(err).Msg("reconcile job failed")
		return
	}

	l.Info().Int("removed", removed).Msg("reconcile job done")
}

func runPremiumSweep(ctx context.Context) {
	l := log.Logger()

	downgraded, err := service.NewUserService(ctx).PremiumSweep(ctx)
	if err != nil {
		l.Error().Err(err).Msg("premium sweep job failed")
		return
	}

	l.Info().Int64("downgraded", downgraded).Msg("premium sweep job done")
}

func runSnapshot(ctx context.Context) {
	l := log.Logger()

	keys, err := service.NewSnapshotService(ctx).Export(ctx)
	if err != nil {
		l.Error().Err(err).Msg("snapshot job failed")
		return
	}

	l.Info().Strs("object_keys", keys).Msg("snapshot job done")
}
