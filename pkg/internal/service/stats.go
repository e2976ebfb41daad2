package service

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	ctxPkg "github.com/yeisme/mediavault/pkg/context"
	"github.com/yeisme/mediavault/pkg/internal/catalog"
	"github.com/yeisme/mediavault/pkg/internal/model"
	"github.com/yeisme/mediavault/pkg/internal/types"
	mlog "github.com/yeisme/mediavault/pkg/log"
)

// StatsService aggregates record, user and group counts for operators.
type StatsService struct {
	store  *catalog.Store
	dataDB *gorm.DB
}

func NewStatsService(c context.Context) *StatsService {
	dbClient := ctxPkg.GetDBClient(c)
	dataClient := ctxPkg.GetDataDBClient(c)

	if dbClient == nil || dataClient == nil {
		mlog.Logger().Fatal().Msg("database clients not initialized")
	}

	var overflow *gorm.DB
	if oc := ctxPkg.GetOverflowDBClient(c); oc != nil {
		overflow = oc.DB
	}

	return &StatsService{
		store:  catalog.NewStore(dbClient.DB, overflow),
		dataDB: dataClient.DB,
	}
}

// Stats counts records per partition plus user and group totals.
func (ss *StatsService) Stats(ctx context.Context) (*types.StatsResponse, error) {
	resp := &types.StatsResponse{
		PartitionCounts: make(map[string]int64),
	}

	for _, p := range catalog.Partitions() {
		n, err := ss.store.Count(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("count %s: %w", p, err)
		}

		resp.PartitionCounts[p.String()] = n
		resp.TotalRecords += n
	}

	if err := ss.dataDB.WithContext(ctx).Model(&model.User{}).Count(&resp.TotalUsers).Error; err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	err := ss.dataDB.WithContext(ctx).Model(&model.User{}).
		Where("role = ?", model.RolePremium).
		Count(&resp.PremiumUsers).Error
	if err != nil {
		return nil, fmt.Errorf("count premium users: %w", err)
	}

	err = ss.dataDB.WithContext(ctx).Model(&model.User{}).
		Where("banned = ?", true).
		Count(&resp.BannedUsers).Error
	if err != nil {
		return nil, fmt.Errorf("count banned users: %w", err)
	}

	if err := ss.dataDB.WithContext(ctx).Model(&model.Group{}).Count(&resp.TotalGroups).Error; err != nil {
		return nil, fmt.Errorf("count groups: %w", err)
	}

	return resp, nil
}
