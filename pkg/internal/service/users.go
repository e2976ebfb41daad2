package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yeisme/mediavault/pkg/configs"
	ctxPkg "github.com/yeisme/mediavault/pkg/context"
	"github.com/yeisme/mediavault/pkg/internal/model"
	"github.com/yeisme/mediavault/pkg/internal/storage/mq"
	mlog "github.com/yeisme/mediavault/pkg/log"
	"github.com/yeisme/mediavault/pkg/queue"
)

// ErrUserNotFound is returned for operations on an unknown user id.
var ErrUserNotFound = errors.New("user not found")

// UserService manages accounts, roles and bans in the data database.
type UserService struct {
	db       *gorm.DB
	mqClient *mq.Client
	cfg      *configs.AppConfig
}

func NewUserService(c context.Context) *UserService {
	dataClient := ctxPkg.GetDataDBClient(c)
	if dataClient == nil {
		mlog.Logger().Fatal().Msg("data database client not initialized")
	}

	return &UserService{
		db:       dataClient.DB,
		mqClient: ctxPkg.GetMQClient(c),
		cfg:      configs.GetConfig(),
	}
}

// EnsureUser returns the account for an id, creating a public one on first
// contact. The stored name follows the platform profile.
func (us *UserService) EnsureUser(ctx context.Context, id int64, name string) (*model.User, error) {
	var user model.User

	err := us.db.WithContext(ctx).
		Where(model.User{ID: id}).
		Attrs(model.User{Name: name, Role: model.RolePublic}).
		FirstOrCreate(&user).Error
	if err != nil {
		return nil, fmt.Errorf("ensure user %d: %w", id, err)
	}

	if name != "" && user.Name != name {
		user.Name = name
		if err := us.db.WithContext(ctx).Model(&user).Update("name", name).Error; err != nil {
			return nil, fmt.Errorf("update user %d name: %w", id, err)
		}
	}

	return &user, nil
}

func (us *UserService) GetUser(ctx context.Context, id int64) (*model.User, error) {
	var user model.User

	err := us.db.WithContext(ctx).Take(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}

	return &user, nil
}

// Ban blocks an account from search and records why.
func (us *UserService) Ban(ctx context.Context, id int64, reason string) error {
	res := us.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Updates(map[string]any{"banned": true, "ban_reason": reason})
	if res.Error != nil {
		return fmt.Errorf("ban user %d: %w", id, res.Error)
	}

	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}

	us.publishBanEvent(ctx, id, true, reason)

	return nil
}

// Unban lifts a ban and clears the recorded reason.
func (us *UserService) Unban(ctx context.Context, id int64) error {
	res := us.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Updates(map[string]any{"banned": false, "ban_reason": ""})
	if res.Error != nil {
		return fmt.Errorf("unban user %d: %w", id, res.Error)
	}

	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}

	us.publishBanEvent(ctx, id, false, "")

	return nil
}

// SetRole assigns a role. premiumUntil bounds the premium role and is cleared
// for every other role.
func (us *UserService) SetRole(ctx context.Context, id int64, role string, premiumUntil *time.Time) error {
	switch role {
	case model.RolePublic, model.RolePremium, model.RoleAdmin:
	default:
		return fmt.Errorf("unknown role: %s", role)
	}

	if role != model.RolePremium {
		premiumUntil = nil
	}

	res := us.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Updates(map[string]any{"role": role, "premium_until": premiumUntil})
	if res.Error != nil {
		return fmt.Errorf("set role for user %d: %w", id, res.Error)
	}

	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

// HasSearchAccess reports whether an account may search. Unknown accounts are
// public and allowed; banned accounts are not. A premium account whose expiry
// has passed is downgraded to public here, as a side effect of the check, and
// stays allowed.
func (us *UserService) HasSearchAccess(ctx context.Context, id int64) (bool, error) {
	user, err := us.GetUser(ctx, id)
	if errors.Is(err, ErrUserNotFound) {
		return true, nil
	}

	if err != nil {
		return false, err
	}

	if user.Banned {
		return false, nil
	}

	if user.Role == model.RolePremium && user.PremiumUntil != nil && user.PremiumUntil.Before(time.Now()) {
		if err := us.downgrade(ctx, user.ID); err != nil {
			return false, err
		}
	}

	return true, nil
}

// PremiumSweep downgrades every premium account whose expiry has passed and
// returns how many it touched. The daily sweep catches accounts that never
// trigger the on-access downgrade.
func (us *UserService) PremiumSweep(ctx context.Context) (int64, error) {
	var expired []model.User

	err := us.db.WithContext(ctx).
		Where("role = ? AND premium_until IS NOT NULL AND premium_until < ?", model.RolePremium, time.Now()).
		Find(&expired).Error
	if err != nil {
		return 0, fmt.Errorf("list expired premium users: %w", err)
	}

	var swept int64

	for i := range expired {
		if err := us.downgrade(ctx, expired[i].ID); err != nil {
			return swept, err
		}

		swept++
	}

	return swept, nil
}

// Counts returns total, premium and banned account counts for stats.
func (us *UserService) Counts(ctx context.Context) (total, premium, banned int64, err error) {
	tx := us.db.WithContext(ctx).Model(&model.User{})

	if err = tx.Count(&total).Error; err != nil {
		return 0, 0, 0, fmt.Errorf("count users: %w", err)
	}

	err = us.db.WithContext(ctx).Model(&model.User{}).
		Where("role = ?", model.RolePremium).
		Count(&premium).Error
	if err != nil {
		return 0, 0, 0, fmt.Errorf("count premium users: %w", err)
	}

	err = us.db.WithContext(ctx).Model(&model.User{}).
		Where("banned = ?", true).
		Count(&banned).Error
	if err != nil {
		return 0, 0, 0, fmt.Errorf("count banned users: %w", err)
	}

	return total, premium, banned, nil
}

func (us *UserService) downgrade(ctx context.Context, id int64) error {
	res := us.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Updates(map[string]any{"role": model.RolePublic, "premium_until": nil})
	if res.Error != nil {
		return fmt.Errorf("downgrade user %d: %w", id, res.Error)
	}

	if us.mqClient != nil && us.cfg.Events.Enabled {
		err := queue.PublishUserDowngraded(us.mqClient.Publisher(), queue.UserDowngradedPayload{UserID: id},
			queue.WithProducer("mediavault"))
		if err != nil {
			mlog.Logger().Warn().Err(err).Int64("user_id", id).Msg("publish downgrade event failed")
		}
	}

	return nil
}

func (us *UserService) publishBanEvent(ctx context.Context, id int64, banned bool, reason string) {
	if us.mqClient == nil || !us.cfg.Events.Enabled {
		return
	}

	err := queue.PublishUserBanned(us.mqClient.Publisher(), queue.UserBannedPayload{
		UserID: id,
		Banned: banned,
		Reason: reason,
	}, queue.WithProducer("mediavault"))
	if err != nil {
		l := ctxPkg.WithTraceContext(ctx, *mlog.Logger())
		l.Warn().Err(err).Int64("user_id", id).Msg("publish ban event failed")
	}
}
