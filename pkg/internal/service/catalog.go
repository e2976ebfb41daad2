// Package service implements the catalog's business operations on top of the
// storage layer: ingest, search, reorganization, user and group management,
// stats and snapshots. Services pull their clients from the request context,
// which the storage middleware populates.
package service

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yeisme/mediavault/pkg/configs"
	ctxPkg "github.com/yeisme/mediavault/pkg/context"
	"github.com/yeisme/mediavault/pkg/fileid"
	"github.com/yeisme/mediavault/pkg/internal/catalog"
	"github.com/yeisme/mediavault/pkg/internal/model"
	"github.com/yeisme/mediavault/pkg/internal/storage/mq"
	"github.com/yeisme/mediavault/pkg/internal/types"
	mlog "github.com/yeisme/mediavault/pkg/log"
	"github.com/yeisme/mediavault/pkg/metrics"
	"github.com/yeisme/mediavault/pkg/queue"
)

// CatalogService handles record ingest, lookup, search and deletion.
type CatalogService struct {
	store    *catalog.Store
	mqClient *mq.Client
	cfg      *configs.AppConfig
}

func NewCatalogService(c context.Context) *CatalogService {
	dbClient := ctxPkg.GetDBClient(c)
	if dbClient == nil {
		mlog.Logger().Fatal().Msg("catalog database client not initialized")
	}

	var overflow *gorm.DB
	if oc := ctxPkg.GetOverflowDBClient(c); oc != nil {
		overflow = oc.DB
	}

	return &CatalogService{
		store:    catalog.NewStore(dbClient.DB, overflow),
		mqClient: ctxPkg.GetMQClient(c),
		cfg:      configs.GetConfig(),
	}
}

// Ingest registers a media handle with the catalog. The record key is derived
// from the handle, so re-sent copies of the same media collapse onto one
// record and report a duplicate instead of a second insert.
func (cs *CatalogService) Ingest(ctx context.Context, req *types.IngestRequest) (*types.IngestResponse, error) {
	h, err := fileid.Decode(req.Handle)
	if err != nil {
		return nil, fmt.Errorf("decode media handle: %w", err)
	}

	p := catalog.ParsePartition(req.Partition)

	rec := &model.FileRecord{
		Key:       h.Key(),
		RefHandle: req.Handle,
		FileName:  catalog.Normalize(req.FileName),
		FileSize:  req.FileSize,
		Caption:   catalog.Normalize(req.Caption),
		MediaType: h.MediaType(),
		Language:  req.Language,
		AddedAt:   time.Now().UTC(),
	}

	outcome, err := cs.store.Insert(ctx, p, rec)
	metrics.IngestOutcomes.WithLabelValues(p.String(), outcome.String()).Inc()

	if outcome == catalog.Failed {
		return nil, fmt.Errorf("insert into %s: %w", p, err)
	}

	cs.publishIngestEvent(ctx, p, rec, outcome)

	return &types.IngestResponse{
		Key:       rec.Key,
		Partition: p.String(),
		Outcome:   outcome.String(),
	}, nil
}

// GetByKey returns a single record, searching partitions in stable order.
func (cs *CatalogService) GetByKey(ctx context.Context, key string) (*types.FileResult, error) {
	rec, p, err := cs.store.FindByKeyAny(ctx, key)
	if err != nil {
		return nil, err
	}

	res := fileResult(rec, p)

	return &res, nil
}

// DeleteMatching removes every record matching a query from one partition,
// or from all partitions when the request names none. Delete predicates
// match file names only, regardless of the caption toggle.
func (cs *CatalogService) DeleteMatching(ctx context.Context, req *types.DeleteRequest) (*types.DeleteResponse, error) {
	q := catalog.NewQuery(catalog.Normalize(req.Query), false)

	var deleted int64

	for _, p := range cs.partitionsFor(req.Partition) {
		n, err := cs.store.DeleteMatching(ctx, p, q)

		deleted += n

		if err != nil {
			return nil, fmt.Errorf("delete from %s: %w", p, err)
		}
	}

	if cs.eventsEnabled() && cs.cfg.Events.Catalog.Deleted && deleted > 0 {
		cs.publish(ctx, func() error {
			return queue.PublishDeleted(cs.mqClient.Publisher(), queue.DeletedPayload{
				Partition: req.Partition,
				Query:     req.Query,
				Deleted:   deleted,
			}, cs.eventOpts(ctx)...)
		})
	}

	return &types.DeleteResponse{Deleted: deleted}, nil
}

// partitionsFor resolves a request's partition field: a named partition
// scopes the operation to it, empty means every partition in stable order.
func (cs *CatalogService) partitionsFor(name string) []catalog.Partition {
	if name == "" {
		return catalog.Partitions()
	}

	return []catalog.Partition{catalog.ParsePartition(name)}
}

func (cs *CatalogService) eventsEnabled() bool {
	return cs.mqClient != nil && cs.cfg.Events.Enabled
}

// eventOpts stamps the trace id and producer onto outgoing event headers.
func (cs *CatalogService) eventOpts(ctx context.Context) []func(*queue.EventHeader) {
	opts := []func(*queue.EventHeader){queue.WithProducer("mediavault")}
	if traceID := ctxPkg.GetTraceID(ctx); traceID != "" {
		opts = append(opts, queue.WithTraceID(traceID))
	}

	return opts
}

// publish runs an event publish and logs failures. Event delivery is best
// effort: a broker outage never fails the catalog operation itself.
func (cs *CatalogService) publish(ctx context.Context, fn func() error) {
	if err := fn(); err != nil {
		l := ctxPkg.WithTraceContext(ctx, *mlog.Logger())
		l.Warn().Err(err).Msg("publish catalog event failed")
	}
}

func (cs *CatalogService) publishIngestEvent(ctx context.Context, p catalog.Partition, rec *model.FileRecord, outcome catalog.InsertOutcome) {
	if !cs.eventsEnabled() {
		return
	}

	ref := recordRef(rec, p)

	switch outcome {
	case catalog.Inserted:
		if !cs.cfg.Events.Catalog.Ingested {
			return
		}

		overflow, err := cs.store.InOverflow(ctx, p, rec.Key)
		if err != nil {
			overflow = false
		}

		if overflow {
			metrics.OverflowActive.Set(1)
		}

		cs.publish(ctx, func() error {
			return queue.PublishIngested(cs.mqClient.Publisher(), queue.IngestedPayload{
				Record:   ref,
				Overflow: overflow,
			}, cs.eventOpts(ctx)...)
		})
	case catalog.Duplicate:
		if !cs.cfg.Events.Catalog.Ingested {
			return
		}

		cs.publish(ctx, func() error {
			return queue.PublishDuplicate(cs.mqClient.Publisher(), queue.DuplicatePayload{Record: ref}, cs.eventOpts(ctx)...)
		})
	case catalog.StoreFull:
		if !cs.cfg.Events.Catalog.StoreFull {
			return
		}

		cs.publish(ctx, func() error {
			return queue.PublishStoreFull(cs.mqClient.Publisher(), queue.StoreFullPayload{Record: ref}, cs.eventOpts(ctx)...)
		})
	}
}

func recordRef(rec *model.FileRecord, p catalog.Partition) queue.RecordRef {
	return queue.RecordRef{
		Key:       rec.Key,
		Partition: p.String(),
		FileName:  rec.FileName,
		FileSize:  rec.FileSize,
		MediaType: rec.MediaType,
		Language:  rec.Language,
	}
}

func fileResult(rec *model.FileRecord, p catalog.Partition) types.FileResult {
	return types.FileResult{
		Key:       rec.Key,
		RefHandle: rec.RefHandle,
		FileName:  rec.FileName,
		FileSize:  rec.FileSize,
		Caption:   rec.Caption,
		MediaType: rec.MediaType,
		Language:  rec.Language,
		Partition: p.String(),
		AddedAt:   rec.AddedAt,
		MovedFrom: rec.MovedFrom,
		MovedAt:   rec.MovedAt,
		CopiedAt:  rec.CopiedAt,
	}
}
