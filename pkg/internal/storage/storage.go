// Package storage wires the catalog's storage backends together: the
// relational databases, the KV store, the message queue, and object storage.
//
// Example:
//
//	ctx := context.Background()
//	mgr, err := storage.Init(ctx)
//	if err != nil {
//	    // handle error
//	}
//
//	dbClient := mgr.GetDBClient()
//	kvClient := mgr.GetKVClient()
package storage

import (
	"context"
	"sync"

	"github.com/yeisme/mediavault/pkg/configs"
	dbc "github.com/yeisme/mediavault/pkg/internal/storage/db"
	kvc "github.com/yeisme/mediavault/pkg/internal/storage/kv"
	mqc "github.com/yeisme/mediavault/pkg/internal/storage/mq"
	s3c "github.com/yeisme/mediavault/pkg/internal/storage/s3"
	mlog "github.com/yeisme/mediavault/pkg/log"
)

// Manager aggregates every storage resource the service uses.
type Manager struct {
	// DB holds the primary catalog store.
	DB *dbc.Client
	// OverflowDB holds the secondary catalog store that receives writes when
	// the primary reports it is full. Nil when not configured.
	OverflowDB *dbc.Client
	// DataDB holds users, groups, and the rest of the non-catalog state.
	DataDB *dbc.Client

	KV *kvc.Client
	MQ *mqc.Client
	S3 *s3c.Client
}

var (
	mgr     *Manager
	mgrOnce sync.Once
)

// Init initializes storage from the global configuration. Repeated calls
// return the already initialized instance.
func Init(ctx context.Context) (*Manager, error) {
	var err error

	mgrOnce.Do(func() {
		cfg := configs.GetConfig()
		m := &Manager{}

		if dbi, e := dbc.New(ctx, &cfg.DB, "catalog"); e != nil {
			err = e
			return
		} else {
			m.DB = dbi
		}

		if cfg.OverflowDB.Enabled {
			if dbi, e := dbc.New(ctx, &cfg.OverflowDB.DBConfig, "overflow"); e != nil {
				err = e
				return
			} else {
				m.OverflowDB = dbi
			}
		}

		if dbi, e := dbc.New(ctx, &cfg.DataDB, "data"); e != nil {
			err = e
			return
		} else {
			m.DataDB = dbi
		}

		if kvi, e := kvc.NewKVClient(ctx); e != nil {
			err = e
			return
		} else {
			m.KV = kvi
		}

		if cfg.Events.Enabled {
			if mqi, e := mqc.New(ctx); e != nil {
				err = e
				return
			} else {
				m.MQ = mqi
			}
		}

		if s3i, e := s3c.New(ctx); e != nil {
			err = e
			return
		} else {
			m.S3 = s3i
		}

		mgr = m

		mlog.Logger().Info().Msg("storage manager initialized")
	})

	return mgr, err
}

// GetDBClient returns the primary catalog DB client.
func (m *Manager) GetDBClient() *dbc.Client {
	return m.DB
}

// GetOverflowDBClient returns the overflow catalog DB client, or nil when no
// overflow store is configured.
func (m *Manager) GetOverflowDBClient() *dbc.Client {
	return m.OverflowDB
}

// GetDataDBClient returns the users/groups DB client.
func (m *Manager) GetDataDBClient() *dbc.Client {
	return m.DataDB
}

// GetKVClient returns the KV client.
func (m *Manager) GetKVClient() *kvc.Client {
	return m.KV
}

// GetMQClient returns the MQ client, or nil when events are disabled.
func (m *Manager) GetMQClient() *mqc.Client {
	return m.MQ
}

// GetS3Client returns the S3 client.
func (m *Manager) GetS3Client() *s3c.Client {
	return m.S3
}

// Close releases every storage resource.
func (m *Manager) Close() error {
	var err error

	for _, c := range []*dbc.Client{m.DB, m.OverflowDB, m.DataDB} {
		if c == nil {
			continue
		}

		if sqlDB, e := c.DB.DB(); e == nil {
			if e := sqlDB.Close(); e != nil {
				err = e
			}
		}
	}

	if m.KV != nil {
		if e := m.KV.Close(); e != nil {
			err = e
		}
	}

	if m.MQ != nil {
		if e := m.MQ.Close(); e != nil {
			err = e
		}
	}

	if m.S3 != nil {
		if e := m.S3.Close(); e != nil {
			err = e
		}
	}

	return err
}
