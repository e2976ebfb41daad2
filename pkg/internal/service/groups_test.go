package service

import (
	"context"
	"errors"
	"testing"

	"github.com/yeisme/mediavault/pkg/cache"
	"github.com/yeisme/mediavault/pkg/internal/model"
	"github.com/yeisme/mediavault/pkg/internal/storage/kv"
)

func newTestGroupService(t *testing.T) *GroupService {
	t.Helper()

	db := openTestDB(t)

	err := db.AutoMigrate(&model.Group{}, &model.Filter{}, &model.Note{}, &model.Connection{}, &model.JoinRequest{})
	if err != nil {
		t.Fatalf("migrate groups: %v", err)
	}

	store, err := kv.NewMemoryKV(context.Background(), nil)
	if err != nil {
		t.Fatalf("memory kv: %v", err)
	}

	t.Cleanup(func() { _ = store.Close() })

	return &GroupService{db: db, cache: cache.NewCache(store)}
}

func TestGroupSettingsDefaultsForUnknownGroup(t *testing.T) {
	gs := newTestGroupService(t)

	s, err := gs.Settings(context.Background(), 500)
	if err != nil {
		t.Fatalf("settings: %v", err)
	}

	if !s.AutoFilter || s.MaxButtons != 10 {
		t.Fatalf("defaults = %+v", s)
	}
}

func TestGroupSettingsUpdateInvalidatesCache(t *testing.T) {
	gs := newTestGroupService(t)
	ctx := context.Background()

	if _, err := gs.EnsureGroup(ctx, 9, "movies"); err != nil {
		t.Fatalf("ensure: %v", err)
	}

	// Prime the cache.
	s, err := gs.Settings(ctx, 9)
	if err != nil {
		t.Fatalf("settings: %v", err)
	}

	s.AutoFilter = false
	s.Language = "fr"

	if err := gs.UpdateSettings(ctx, 9, s); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := gs.Settings(ctx, 9)
	if err != nil {
		t.Fatalf("settings after update: %v", err)
	}

	if got.AutoFilter || got.Language != "fr" {
		t.Fatalf("stale settings served: %+v", got)
	}
}

func TestGroupEnableDisable(t *testing.T) {
	gs := newTestGroupService(t)
	ctx := context.Background()

	if _, err := gs.EnsureGroup(ctx, 3, "g"); err != nil {
		t.Fatalf("ensure: %v", err)
	}

	if err := gs.Disable(ctx, 3, "abuse"); err != nil {
		t.Fatalf("disable: %v", err)
	}

	group, err := gs.GetGroup(ctx, 3)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if group.Enabled || group.DisableReason != "abuse" {
		t.Fatalf("group = %+v", group)
	}

	if err := gs.Enable(ctx, 3); err != nil {
		t.Fatalf("enable: %v", err)
	}

	group, err = gs.GetGroup(ctx, 3)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if !group.Enabled || group.DisableReason != "" {
		t.Fatalf("group after enable = %+v", group)
	}

	if err := gs.Disable(ctx, 404, "x"); !errors.Is(err, ErrGroupNotFound) {
		t.Fatalf("err = %v, want ErrGroupNotFound", err)
	}
}

func TestFilterLifecycle(t *testing.T) {
	gs := newTestGroupService(t)
	ctx := context.Background()

	if err := gs.SetFilter(ctx, 1, "hello", "hi there", ""); err != nil {
		t.Fatalf("set: %v", err)
	}

	// Same keyword replaces the reply.
	if err := gs.SetFilter(ctx, 1, "hello", "greetings", ""); err != nil {
		t.Fatalf("replace: %v", err)
	}

	if err := gs.SetFilter(ctx, 1, "bye", "see you", ""); err != nil {
		t.Fatalf("set second: %v", err)
	}

	filters, err := gs.ListFilters(ctx, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if len(filters) != 2 || filters[0].Keyword != "bye" || filters[1].Reply != "greetings" {
		t.Fatalf("filters = %+v", filters)
	}

	removed, err := gs.DeleteFilter(ctx, 1, "hello")
	if err != nil || !removed {
		t.Fatalf("delete: removed=%v err=%v", removed, err)
	}

	removed, err = gs.DeleteFilter(ctx, 1, "hello")
	if err != nil || removed {
		t.Fatalf("repeat delete: removed=%v err=%v", removed, err)
	}

	n, err := gs.DeleteAllFilters(ctx, 1)
	if err != nil || n != 1 {
		t.Fatalf("delete all: n=%d err=%v", n, err)
	}
}

func TestNoteLifecycle(t *testing.T) {
	gs := newTestGroupService(t)
	ctx := context.Background()

	if err := gs.SaveNote(ctx, 2, "rules", "be nice"); err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := gs.SaveNote(ctx, 2, "rules", "be very nice"); err != nil {
		t.Fatalf("replace: %v", err)
	}

	note, err := gs.GetNote(ctx, 2, "rules")
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if note.Content != "be very nice" {
		t.Fatalf("content = %s", note.Content)
	}

	if _, err := gs.GetNote(ctx, 2, "missing"); !errors.Is(err, ErrNoteNotFound) {
		t.Fatalf("err = %v, want ErrNoteNotFound", err)
	}

	notes, err := gs.ListNotes(ctx, 2)
	if err != nil || len(notes) != 1 {
		t.Fatalf("list: %v, n=%d", err, len(notes))
	}

	removed, err := gs.DeleteNote(ctx, 2, "rules")
	if err != nil || !removed {
		t.Fatalf("delete: removed=%v err=%v", removed, err)
	}
}

func TestConnectionSingleActive(t *testing.T) {
	gs := newTestGroupService(t)
	ctx := context.Background()

	if err := gs.Connect(ctx, 10, 100); err != nil {
		t.Fatalf("connect: %v", err)
	}

	if err := gs.Connect(ctx, 10, 200); err != nil {
		t.Fatalf("reconnect: %v", err)
	}

	conn, err := gs.ActiveConnection(ctx, 10)
	if err != nil {
		t.Fatalf("active: %v", err)
	}

	if conn.GroupID != 200 {
		t.Fatalf("active group = %d, want 200", conn.GroupID)
	}

	if err := gs.Disconnect(ctx, 10); err != nil {
		t.Fatalf("disconnect: %v", err)
	}

	if _, err := gs.ActiveConnection(ctx, 10); !errors.Is(err, ErrNoActiveConnection) {
		t.Fatalf("err = %v, want ErrNoActiveConnection", err)
	}
}

func TestJoinRequestLifecycle(t *testing.T) {
	gs := newTestGroupService(t)
	ctx := context.Background()

	if err := gs.RecordJoinRequest(ctx, 5, 50); err != nil {
		t.Fatalf("record: %v", err)
	}

	if err := gs.RecordJoinRequest(ctx, 5, 51); err != nil {
		t.Fatalf("record second: %v", err)
	}

	pending, err := gs.PendingJoinRequests(ctx, 5)
	if err != nil || len(pending) != 2 {
		t.Fatalf("pending: %v, n=%d", err, len(pending))
	}

	if err := gs.ResolveJoinRequest(ctx, 5, 50, true); err != nil {
		t.Fatalf("approve: %v", err)
	}

	pending, err = gs.PendingJoinRequests(ctx, 5)
	if err != nil || len(pending) != 1 || pending[0].UserID != 51 {
		t.Fatalf("pending after approve = %+v err=%v", pending, err)
	}

	if err := gs.ResolveJoinRequest(ctx, 5, 50, false); !errors.Is(err, ErrJoinRequestNotFound) {
		t.Fatalf("re-resolve err = %v, want ErrJoinRequestNotFound", err)
	}
}
