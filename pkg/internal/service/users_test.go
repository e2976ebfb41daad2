package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yeisme/mediavault/pkg/internal/model"
)

func newTestUserService(t *testing.T) *UserService {
	t.Helper()

	db := openTestDB(t)
	if err := db.AutoMigrate(&model.User{}); err != nil {
		t.Fatalf("migrate users: %v", err)
	}

	return &UserService{db: db, cfg: testConfig()}
}

func TestEnsureUserCreatesPublic(t *testing.T) {
	us := newTestUserService(t)
	ctx := context.Background()

	user, err := us.EnsureUser(ctx, 42, "alice")
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}

	if user.Role != model.RolePublic || user.Banned {
		t.Fatalf("new user = %+v", user)
	}

	// Second contact with a renamed profile follows the rename.
	user, err = us.EnsureUser(ctx, 42, "alice-renamed")
	if err != nil {
		t.Fatalf("ensure again: %v", err)
	}

	if user.Name != "alice-renamed" {
		t.Fatalf("name = %s", user.Name)
	}
}

func TestBanBlocksSearchAccess(t *testing.T) {
	us := newTestUserService(t)
	ctx := context.Background()

	if _, err := us.EnsureUser(ctx, 1, "bob"); err != nil {
		t.Fatalf("ensure: %v", err)
	}

	if err := us.Ban(ctx, 1, "spam"); err != nil {
		t.Fatalf("ban: %v", err)
	}

	allowed, err := us.HasSearchAccess(ctx, 1)
	if err != nil {
		t.Fatalf("access: %v", err)
	}

	if allowed {
		t.Fatal("banned user allowed to search")
	}

	if err := us.Unban(ctx, 1); err != nil {
		t.Fatalf("unban: %v", err)
	}

	allowed, err = us.HasSearchAccess(ctx, 1)
	if err != nil {
		t.Fatalf("access after unban: %v", err)
	}

	if !allowed {
		t.Fatal("unbanned user still blocked")
	}
}

func TestBanUnknownUser(t *testing.T) {
	us := newTestUserService(t)

	if err := us.Ban(context.Background(), 999, "x"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("err = %v, want ErrUserNotFound", err)
	}
}

func TestUnknownUserHasAccess(t *testing.T) {
	us := newTestUserService(t)

	allowed, err := us.HasSearchAccess(context.Background(), 12345)
	if err != nil {
		t.Fatalf("access: %v", err)
	}

	if !allowed {
		t.Fatal("unknown user blocked; unknown accounts are public")
	}
}

func TestPremiumExpiryDowngradesOnAccess(t *testing.T) {
	us := newTestUserService(t)
	ctx := context.Background()

	if _, err := us.EnsureUser(ctx, 7, "carol"); err != nil {
		t.Fatalf("ensure: %v", err)
	}

	expired := time.Now().Add(-time.Hour)
	if err := us.SetRole(ctx, 7, model.RolePremium, &expired); err != nil {
		t.Fatalf("set role: %v", err)
	}

	allowed, err := us.HasSearchAccess(ctx, 7)
	if err != nil {
		t.Fatalf("access: %v", err)
	}

	if !allowed {
		t.Fatal("expired premium user blocked; should downgrade and stay allowed")
	}

	user, err := us.GetUser(ctx, 7)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if user.Role != model.RolePublic || user.PremiumUntil != nil {
		t.Fatalf("after downgrade: role=%s until=%v", user.Role, user.PremiumUntil)
	}
}

func TestPremiumSweep(t *testing.T) {
	us := newTestUserService(t)
	ctx := context.Background()

	past := time.Now().Add(-24 * time.Hour)
	future := time.Now().Add(24 * time.Hour)

	for i, until := range []*time.Time{&past, &past, &future} {
		id := int64(i + 1)
		if _, err := us.EnsureUser(ctx, id, "u"); err != nil {
			t.Fatalf("ensure %d: %v", id, err)
		}

		if err := us.SetRole(ctx, id, model.RolePremium, until); err != nil {
			t.Fatalf("set role %d: %v", id, err)
		}
	}

	swept, err := us.PremiumSweep(ctx)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}

	if swept != 2 {
		t.Fatalf("swept = %d, want 2", swept)
	}

	user, err := us.GetUser(ctx, 3)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if user.Role != model.RolePremium {
		t.Fatalf("current premium user downgraded: %s", user.Role)
	}
}

func TestSetRoleRejectsUnknown(t *testing.T) {
	us := newTestUserService(t)

	if err := us.SetRole(context.Background(), 1, "vip", nil); err == nil {
		t.Fatal("unknown role accepted")
	}
}

func TestUserCounts(t *testing.T) {
	us := newTestUserService(t)
	ctx := context.Background()

	until := time.Now().Add(time.Hour)

	for id := int64(1); id <= 4; id++ {
		if _, err := us.EnsureUser(ctx, id, "u"); err != nil {
			t.Fatalf("ensure: %v", err)
		}
	}

	if err := us.SetRole(ctx, 1, model.RolePremium, &until); err != nil {
		t.Fatalf("set role: %v", err)
	}

	if err := us.Ban(ctx, 2, "spam"); err != nil {
		t.Fatalf("ban: %v", err)
	}

	total, premium, banned, err := us.Counts(ctx)
	if err != nil {
		t.Fatalf("counts: %v", err)
	}

	if total != 4 || premium != 1 || banned != 1 {
		t.Fatalf("counts = %d/%d/%d", total, premium, banned)
	}
}
