package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	ctxPkg "github.com/yeisme/mediavault/pkg/context"
	"github.com/yeisme/mediavault/pkg/internal/catalog"
	"github.com/yeisme/mediavault/pkg/internal/model"
	"github.com/yeisme/mediavault/pkg/internal/types"
	mlog "github.com/yeisme/mediavault/pkg/log"
	"github.com/yeisme/mediavault/pkg/metrics"
	"github.com/yeisme/mediavault/pkg/queue"
)

// ErrSamePartition rejects reorganize requests whose source and target name
// the same partition.
var ErrSamePartition = errors.New("source and target partitions are identical")

// Move relocates one record between partitions, keeping its key. The target
// copy is written before the source is deleted, so an interruption leaves a
// duplicate rather than losing the record; the target copy carries move
// markers the reconcile job uses to clear the stale source later.
func (cs *CatalogService) Move(ctx context.Context, req *types.MoveRequest) (*types.FileResult, error) {
	from := catalog.ParsePartition(req.From)
	to := catalog.ParsePartition(req.To)

	if from == to {
		return nil, ErrSamePartition
	}

	rec, err := cs.store.FindByKey(ctx, from, req.Key)
	if err != nil {
		cs.countReorganize("move", err)
		return nil, err
	}

	now := time.Now().UTC()

	target := *rec
	target.MovedFrom = from.String()
	target.MovedAt = &now

	if err := cs.store.Put(ctx, to, &target); err != nil {
		cs.countReorganize("move", err)
		return nil, err
	}

	if err := cs.store.DeleteByKey(ctx, from, req.Key); err != nil && !errors.Is(err, catalog.ErrNotFound) {
		// The target copy is committed. The stale source survives until the
		// reconcile job sweeps it.
		l := ctxPkg.WithTraceContext(ctx, *mlog.Logger())
		l.Warn().
			Err(err).
			Str("key", req.Key).
			Str("from", from.String()).
			Msg("move: source delete failed, leaving stale copy for reconcile")
	}

	cs.countReorganize("move", nil)
	cs.publishMoved(ctx, &target, from, to)

	res := fileResult(&target, to)

	return &res, nil
}

// Copy duplicates one record into another partition without touching the
// source. The copy carries no move markers and is stamped with CopiedAt.
func (cs *CatalogService) Copy(ctx context.Context, req *types.MoveRequest) (*types.FileResult, error) {
	from := catalog.ParsePartition(req.From)
	to := catalog.ParsePartition(req.To)

	if from == to {
		return nil, ErrSamePartition
	}

	rec, err := cs.store.FindByKey(ctx, from, req.Key)
	if err != nil {
		cs.countReorganize("copy", err)
		return nil, err
	}

	now := time.Now().UTC()

	target := *rec
	target.MovedFrom = ""
	target.MovedAt = nil
	target.CopiedAt = &now

	if err := cs.store.Put(ctx, to, &target); err != nil {
		cs.countReorganize("copy", err)
		return nil, err
	}

	cs.countReorganize("copy", nil)

	if cs.eventsEnabled() && cs.cfg.Events.Catalog.Copied {
		cs.publish(ctx, func() error {
			return queue.PublishCopied(cs.mqClient.Publisher(), queue.CopiedPayload{
				Record: recordRef(&target, to),
				From:   from.String(),
				To:     to.String(),
			}, cs.eventOpts(ctx)...)
		})
	}

	res := fileResult(&target, to)

	return &res, nil
}

// BulkMove relocates a batch of records between partitions. Without an
// explicit key list the batch is the set of records matching the request
// query, snapshotted once before the first move. Keys missing from the
// source or already present in the target are skipped and reported, never
// fatal; only a storage failure aborts the batch.
func (cs *CatalogService) BulkMove(ctx context.Context, req *types.BulkMoveRequest) (*types.BulkMoveResponse, error) {
	from := catalog.ParsePartition(req.From)
	to := catalog.ParsePartition(req.To)

	if from == to {
		return nil, ErrSamePartition
	}

	keys := req.Keys
	if len(keys) == 0 {
		// bulk-move predicates match file names only
		q := catalog.NewQuery(catalog.Normalize(req.Query), false)

		recs, err := cs.store.ScanMatching(ctx, from, q, "")
		if err != nil {
			cs.countReorganize("bulk_move", err)
			return nil, fmt.Errorf("bulk move scan: %w", err)
		}

		keys = make([]string, len(recs))
		for i := range recs {
			keys[i] = recs[i].Key
		}
	}

	resp := &types.BulkMoveResponse{Total: len(keys)}

	for _, key := range keys {
		moved, err := cs.moveOne(ctx, from, to, key)
		if err != nil {
			cs.countReorganize("bulk_move", err)
			return nil, fmt.Errorf("bulk move %s: %w", key, err)
		}

		if moved {
			resp.Moved++
		} else {
			resp.Skipped++
			resp.SkippedKeys = append(resp.SkippedKeys, key)
		}
	}

	cs.countReorganize("bulk_move", nil)

	if cs.eventsEnabled() && cs.cfg.Events.Catalog.BulkMoved {
		cs.publish(ctx, func() error {
			return queue.PublishBulkMoved(cs.mqClient.Publisher(), queue.BulkMovedPayload{
				From:        from.String(),
				To:          to.String(),
				Total:       resp.Total,
				Moved:       resp.Moved,
				Skipped:     resp.Skipped,
				SkippedKeys: resp.SkippedKeys,
			}, cs.eventOpts(ctx)...)
		})
	}

	return resp, nil
}

// moveOne performs one write-before-delete relocation. A missing source or a
// target collision return (false, nil) so batch callers can skip and go on.
func (cs *CatalogService) moveOne(ctx context.Context, from, to catalog.Partition, key string) (bool, error) {
	rec, err := cs.store.FindByKey(ctx, from, key)
	if errors.Is(err, catalog.ErrNotFound) {
		return false, nil
	}

	if err != nil {
		return false, err
	}

	now := time.Now().UTC()

	target := *rec
	target.MovedFrom = from.String()
	target.MovedAt = &now

	err = cs.store.Put(ctx, to, &target)
	if errors.Is(err, catalog.ErrTargetExists) {
		return false, nil
	}

	if err != nil {
		return false, err
	}

	if err := cs.store.DeleteByKey(ctx, from, key); err != nil && !errors.Is(err, catalog.ErrNotFound) {
		l := ctxPkg.WithTraceContext(ctx, *mlog.Logger())
		l.Warn().
			Err(err).
			Str("key", key).
			Str("from", from.String()).
			Msg("bulk move: source delete failed, leaving stale copy for reconcile")
	}

	return true, nil
}

func (cs *CatalogService) publishMoved(ctx context.Context, rec *model.FileRecord, from, to catalog.Partition) {
	if !cs.eventsEnabled() || !cs.cfg.Events.Catalog.Moved {
		return
	}

	cs.publish(ctx, func() error {
		return queue.PublishMoved(cs.mqClient.Publisher(), queue.MovedPayload{
			Record: recordRef(rec, to),
			From:   from.String(),
			To:     to.String(),
		}, cs.eventOpts(ctx)...)
	})
}

func (cs *CatalogService) countReorganize(kind string, err error) {
	result := "ok"

	switch {
	case errors.Is(err, catalog.ErrTargetExists):
		result = "conflict"
	case errors.Is(err, catalog.ErrNotFound):
		result = "not_found"
	case err != nil:
		result = "failed"
	}

	metrics.ReorganizeOps.WithLabelValues(kind, result).Inc()
}
