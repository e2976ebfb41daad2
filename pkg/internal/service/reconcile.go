package service

import (
	"context"
	"errors"
	"fmt"

	ctxPkg "github.com/yeisme/mediavault/pkg/context"
	"github.com/yeisme/mediavault/pkg/internal/catalog"
	mlog "github.com/yeisme/mediavault/pkg/log"
	"github.com/yeisme/mediavault/pkg/queue"
)

// Reconcile sweeps the residue of interrupted moves. A move writes the target
// copy before deleting the source; a crash between the two leaves the record
// in both partitions. The target copy's move markers identify which duplicate
// is stale, so the sweep deletes the source copy and nothing else. Returns
// how many stale copies were removed.
func (cs *CatalogService) Reconcile(ctx context.Context) (int, error) {
	var removed int

	for _, dst := range catalog.Partitions() {
		for _, src := range catalog.Partitions() {
			if src == dst {
				continue
			}

			keys, err := cs.store.MovedFromKeys(ctx, dst, src)
			if err != nil {
				return removed, fmt.Errorf("reconcile %s<-%s: %w", dst, src, err)
			}

			for _, key := range keys {
				stale, err := cs.store.Exists(ctx, src, key)
				if err != nil {
					return removed, fmt.Errorf("reconcile check %s in %s: %w", key, src, err)
				}

				if !stale {
					continue
				}

				err = cs.store.DeleteByKey(ctx, src, key)
				if err != nil && !errors.Is(err, catalog.ErrNotFound) {
					return removed, fmt.Errorf("reconcile delete %s from %s: %w", key, src, err)
				}

				removed++

				l := ctxPkg.WithTraceContext(ctx, *mlog.Logger())
				l.Info().
					Str("key", key).
					Str("partition", src.String()).
					Msg("reconcile: removed stale move source")
			}
		}
	}

	if removed > 0 && cs.eventsEnabled() {
		cs.publish(ctx, func() error {
			return queue.PublishReconciled(cs.mqClient.Publisher(),
				queue.ReconciledPayload{StaleRemoved: removed}, cs.eventOpts(ctx)...)
		})
	}

	return removed, nil
}
