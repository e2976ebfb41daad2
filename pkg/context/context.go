// Package context extends context.Context with application facilities so the
// storage clients and request-scoped logging can travel through handlers,
// services, and jobs.
package context

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/yeisme/mediavault/pkg/internal/storage"
	dbc "github.com/yeisme/mediavault/pkg/internal/storage/db"
	kvc "github.com/yeisme/mediavault/pkg/internal/storage/kv"
	mqc "github.com/yeisme/mediavault/pkg/internal/storage/mq"
	s3c "github.com/yeisme/mediavault/pkg/internal/storage/s3"
)

type ContextKey string

const (
	StorageManagerKey ContextKey = "storageManager"
	TraceIDKey        ContextKey = "traceID"
)

// WithStorageManager stores the Manager in the context.
func WithStorageManager(ctx context.Context, mgr *storage.Manager) context.Context {
	return context.WithValue(ctx, StorageManagerKey, mgr)
}

// GetManager retrieves the Manager from the context.
func GetManager(ctx context.Context) *storage.Manager {
	if mgr, ok := ctx.Value(StorageManagerKey).(*storage.Manager); ok {
		return mgr
	}

	return nil
}

// GetS3Client retrieves the S3 client from the context.
func GetS3Client(ctx context.Context) *s3c.Client {
	if mgr := GetManager(ctx); mgr != nil {
		return mgr.GetS3Client()
	}

	return nil
}

// GetDBClient retrieves the primary catalog DB client from the context.
func GetDBClient(ctx context.Context) *dbc.Client {
	if mgr := GetManager(ctx); mgr != nil {
		return mgr.GetDBClient()
	}

	return nil
}

// GetOverflowDBClient retrieves the overflow catalog DB client from the
// context; nil when no overflow store is configured.
func GetOverflowDBClient(ctx context.Context) *dbc.Client {
	if mgr := GetManager(ctx); mgr != nil {
		return mgr.GetOverflowDBClient()
	}

	return nil
}

// GetDataDBClient retrieves the users/groups DB client from the context.
func GetDataDBClient(ctx context.Context) *dbc.Client {
	if mgr := GetManager(ctx); mgr != nil {
		return mgr.GetDataDBClient()
	}

	return nil
}

// GetMQClient retrieves the MQ client from the context.
func GetMQClient(ctx context.Context) *mqc.Client {
	if mgr := GetManager(ctx); mgr != nil {
		return mgr.GetMQClient()
	}

	return nil
}

// GetKVClient retrieves the KV client from the context.
func GetKVClient(ctx context.Context) *kvc.Client {
	if mgr := GetManager(ctx); mgr != nil {
		return mgr.GetKVClient()
	}

	return nil
}

// WithTraceID stores a request trace id in the context.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDKey, traceID)
}

// GetTraceID retrieves the request trace id, or "" when absent.
func GetTraceID(ctx context.Context) string {
	if id, ok := ctx.Value(TraceIDKey).(string); ok {
		return id
	}

	return ""
}

// WithTraceContext returns a logger annotated with the context's trace id.
func WithTraceContext(ctx context.Context, logger zerolog.Logger) zerolog.Logger {
	if id := GetTraceID(ctx); id != "" {
		return logger.With().Str("trace_id", id).Logger()
	}

	return logger
}
