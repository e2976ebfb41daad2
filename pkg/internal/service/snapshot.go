package service

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/bytedance/sonic"
	minio "github.com/minio/minio-go/v7"
	"gorm.io/gorm"

	"github.com/yeisme/mediavault/pkg/configs"
	ctxPkg "github.com/yeisme/mediavault/pkg/context"
	"github.com/yeisme/mediavault/pkg/internal/catalog"
	"github.com/yeisme/mediavault/pkg/internal/model"
	"github.com/yeisme/mediavault/pkg/internal/storage/mq"
	s3c "github.com/yeisme/mediavault/pkg/internal/storage/s3"
	mlog "github.com/yeisme/mediavault/pkg/log"
	"github.com/yeisme/mediavault/pkg/queue"
)

// snapshotContentType marks snapshot objects as newline-delimited JSON.
const snapshotContentType = "application/x-ndjson"

// maxSnapshotLine bounds one JSONL line on restore. Records carry handles and
// captions, both well under this.
const maxSnapshotLine = 1 << 20

// SnapshotService exports catalog partitions to object storage as JSONL and
// restores them, one object per partition per day.
type SnapshotService struct {
	store    *catalog.Store
	s3Client *s3c.Client
	mqClient *mq.Client
	cfg      *configs.AppConfig
}

func NewSnapshotService(c context.Context) *SnapshotService {
	dbClient := ctxPkg.GetDBClient(c)
	s3Client := ctxPkg.GetS3Client(c)

	if dbClient == nil || s3Client == nil {
		mlog.Logger().Fatal().Msg("snapshot dependencies not initialized")
	}

	var overflow *gorm.DB
	if oc := ctxPkg.GetOverflowDBClient(c); oc != nil {
		overflow = oc.DB
	}

	return &SnapshotService{
		store:    catalog.NewStore(dbClient.DB, overflow),
		s3Client: s3Client,
		mqClient: ctxPkg.GetMQClient(c),
		cfg:      configs.GetConfig(),
	}
}

// Export writes every partition to object storage as one JSONL object under
// <prefix>/<date>/<partition>.jsonl and returns the written object keys.
// Re-running on the same day overwrites that day's objects.
func (ss *SnapshotService) Export(ctx context.Context) ([]string, error) {
	bucket := ss.cfg.S3.BucketName
	date := time.Now().UTC().Format("2006-01-02")

	var objectKeys []string

	for _, p := range catalog.Partitions() {
		recs, err := ss.store.ScanMatching(ctx, p, catalog.NewQuery("", false), "")
		if err != nil {
			return objectKeys, fmt.Errorf("scan %s for snapshot: %w", p, err)
		}

		var buf bytes.Buffer

		for i := range recs {
			line, err := sonic.Marshal(&recs[i])
			if err != nil {
				return objectKeys, fmt.Errorf("marshal record %s: %w", recs[i].Key, err)
			}

			buf.Write(line)
			buf.WriteByte('\n')
		}

		objectKey := path.Join(ss.cfg.Catalog.SnapshotPrefix, date, p.String()+".jsonl")

		_, err = ss.s3Client.PutObject(ctx, bucket, objectKey,
			bytes.NewReader(buf.Bytes()), int64(buf.Len()),
			minio.PutObjectOptions{ContentType: snapshotContentType})
		if err != nil {
			return objectKeys, fmt.Errorf("put snapshot %s: %w", objectKey, err)
		}

		objectKeys = append(objectKeys, objectKey)

		mlog.Logger().Info().
			Str("object", objectKey).
			Int("records", len(recs)).
			Msg("snapshot exported")

		ss.publishSnapshot(ctx, bucket, objectKey, int64(len(recs)))
	}

	return objectKeys, nil
}

// Restore reads a snapshot object back into a partition. Records whose keys
// already exist are skipped, so restoring over a live partition only fills
// gaps. Returns how many records were inserted.
func (ss *SnapshotService) Restore(ctx context.Context, objectKey string, p catalog.Partition) (int64, error) {
	bucket := ss.cfg.S3.BucketName

	obj, err := ss.s3Client.GetObject(ctx, bucket, objectKey, minio.GetObjectOptions{})
	if err != nil {
		return 0, fmt.Errorf("get snapshot %s: %w", objectKey, err)
	}
	defer obj.Close()

	scanner := bufio.NewScanner(obj)
	scanner.Buffer(make([]byte, 64*1024), maxSnapshotLine)

	var inserted int64

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}

		var rec model.FileRecord
		if err := sonic.Unmarshal(line, &rec); err != nil {
			return inserted, fmt.Errorf("unmarshal snapshot line: %w", err)
		}

		outcome, err := ss.store.Insert(ctx, p, &rec)

		switch outcome {
		case catalog.Inserted:
			inserted++
		case catalog.Duplicate:
		case catalog.StoreFull:
			return inserted, fmt.Errorf("restore into %s: store full", p)
		default:
			return inserted, fmt.Errorf("restore %s: %w", rec.Key, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return inserted, fmt.Errorf("read snapshot %s: %w", objectKey, err)
	}

	return inserted, nil
}

func (ss *SnapshotService) publishSnapshot(ctx context.Context, bucket, objectKey string, records int64) {
	if ss.mqClient == nil || !ss.cfg.Events.Enabled {
		return
	}

	err := queue.PublishSnapshot(ss.mqClient.Publisher(), queue.SnapshotPayload{
		Bucket:    bucket,
		ObjectKey: objectKey,
		Records:   records,
	}, queue.WithProducer("mediavault"))
	if err != nil {
		l := ctxPkg.WithTraceContext(ctx, *mlog.Logger())
		l.Warn().Err(err).Msg("publish snapshot event failed")
	}
}
