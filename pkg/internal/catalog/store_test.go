package catalog_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yeisme/mediavault/pkg/internal/catalog"
	"github.com/yeisme/mediavault/pkg/internal/model"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	return db
}

func newTestStore(t *testing.T, withOverflow bool) *catalog.Store {
	t.Helper()

	primary := openTestDB(t)

	var overflow *gorm.DB
	if withOverflow {
		overflow = openTestDB(t)
	}

	store := catalog.NewStore(primary, overflow)
	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return store
}

func fileRecord(key, name string, added time.Time) *model.FileRecord {
	return &model.FileRecord{
		Key:       key,
		RefHandle: "handle-" + key,
		FileName:  name,
		FileSize:  1000,
		MediaType: "document",
		AddedAt:   added,
	}
}

func TestInsertOutcomes(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, false)

	outcome, err := store.Insert(ctx, catalog.PartitionPrimary, fileRecord("k1", "first file", time.Now()))
	if err != nil || outcome != catalog.Inserted {
		t.Fatalf("first insert = (%s, %v), want (inserted, nil)", outcome, err)
	}

	outcome, err = store.Insert(ctx, catalog.PartitionPrimary, fileRecord("k1", "same file again", time.Now()))
	if err != nil || outcome != catalog.Duplicate {
		t.Fatalf("repeat insert = (%s, %v), want (duplicate, nil)", outcome, err)
	}

	// The same key in a different partition is a different record.
	outcome, err = store.Insert(ctx, catalog.PartitionCloud, fileRecord("k1", "first file", time.Now()))
	if err != nil || outcome != catalog.Inserted {
		t.Fatalf("insert into other partition = (%s, %v), want (inserted, nil)", outcome, err)
	}
}

func TestFindByKey(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, false)

	if _, err := store.FindByKey(ctx, catalog.PartitionPrimary, "missing"); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("FindByKey on empty store = %v, want ErrNotFound", err)
	}

	want := fileRecord("k2", "findable file", time.Now().UTC().Truncate(time.Second))
	if _, err := store.Insert(ctx, catalog.PartitionArchive, want); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := store.FindByKey(ctx, catalog.PartitionArchive, "k2")
	if err != nil {
		t.Fatalf("FindByKey: %v", err)
	}

	if got.FileName != want.FileName || got.RefHandle != want.RefHandle {
		t.Fatalf("FindByKey = %+v, want %+v", got, want)
	}

	// The record must not leak into partitions it was not written to.
	if _, err := store.FindByKey(ctx, catalog.PartitionPrimary, "k2"); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("FindByKey in wrong partition = %v, want ErrNotFound", err)
	}
}

func TestFindByKeyAny(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, false)

	if _, err := store.Insert(ctx, catalog.PartitionCloud, fileRecord("k3", "cloud file", time.Now())); err != nil {
		t.Fatalf("insert: %v", err)
	}

	rec, p, err := store.FindByKeyAny(ctx, "k3")
	if err != nil {
		t.Fatalf("FindByKeyAny: %v", err)
	}

	if p != catalog.PartitionCloud {
		t.Fatalf("FindByKeyAny partition = %q, want cloud", p)
	}

	if rec.FileName != "cloud file" {
		t.Fatalf("FindByKeyAny record = %+v", rec)
	}

	if _, _, err := store.FindByKeyAny(ctx, "absent"); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("FindByKeyAny on absent key = %v, want ErrNotFound", err)
	}
}

func TestScanMatchingInsertionOrder(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, false)

	base := time.Now().UTC()
	names := []string{"alpha movie", "beta movie", "gamma movie"}

	// Insert out of lexical order; scan order must follow added_at.
	for i, idx := range []int{2, 0, 1} {
		r := fileRecord(fmt.Sprintf("ord-%d", idx), names[idx], base.Add(time.Duration(idx)*time.Second))
		if _, err := store.Insert(ctx, catalog.PartitionPrimary, r); err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
	}

	got, err := store.ScanMatching(ctx, catalog.PartitionPrimary, catalog.NewQuery("movie", false), "")
	if err != nil {
		t.Fatalf("ScanMatching: %v", err)
	}

	if len(got) != 3 {
		t.Fatalf("matched %d records, want 3", len(got))
	}

	for i, name := range names {
		if got[i].FileName != name {
			t.Errorf("result[%d] = %q, want %q", i, got[i].FileName, name)
		}
	}
}

func TestScanMatchingLanguageFilter(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, false)

	now := time.Now().UTC()

	// The filter reads the stored name, not the Language column: an
	// untagged record whose name carries the token still matches.
	tagged := fileRecord("lang-1", "common title Hindi 720p", now)
	plain := fileRecord("lang-2", "common title", now.Add(time.Second))

	for _, r := range []*model.FileRecord{tagged, plain} {
		if _, err := store.Insert(ctx, catalog.PartitionPrimary, r); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	got, err := store.ScanMatching(ctx, catalog.PartitionPrimary, catalog.NewQuery("common", false), "hindi")
	if err != nil {
		t.Fatalf("ScanMatching: %v", err)
	}

	if len(got) != 1 || got[0].Key != "lang-1" {
		t.Fatalf("language filter returned %+v, want only lang-1", got)
	}
}

func TestDeleteMatching(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, false)

	now := time.Now().UTC()
	records := map[string]string{
		"d1": "delete me now",
		"d2": "delete me too",
		"d3": "keep this one",
	}

	i := 0
	for key, name := range records {
		if _, err := store.Insert(ctx, catalog.PartitionPrimary, fileRecord(key, name, now.Add(time.Duration(i)*time.Second))); err != nil {
			t.Fatalf("insert: %v", err)
		}
		i++
	}

	deleted, err := store.DeleteMatching(ctx, catalog.PartitionPrimary, catalog.NewQuery("delete me", false))
	if err != nil {
		t.Fatalf("DeleteMatching: %v", err)
	}

	if deleted != 2 {
		t.Fatalf("deleted %d records, want 2", deleted)
	}

	count, err := store.Count(ctx, catalog.PartitionPrimary)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}

	if count != 1 {
		t.Fatalf("remaining count = %d, want 1", count)
	}
}

func TestDeleteByKey(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, false)

	if err := store.DeleteByKey(ctx, catalog.PartitionPrimary, "nothing"); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("DeleteByKey on absent key = %v, want ErrNotFound", err)
	}

	if _, err := store.Insert(ctx, catalog.PartitionPrimary, fileRecord("del-1", "short lived", time.Now())); err != nil {
		t.Fatalf("insert: %v", err)
	}

	if err := store.DeleteByKey(ctx, catalog.PartitionPrimary, "del-1"); err != nil {
		t.Fatalf("DeleteByKey: %v", err)
	}

	if exists, _ := store.Exists(ctx, catalog.PartitionPrimary, "del-1"); exists {
		t.Fatal("record survived DeleteByKey")
	}
}

func TestPutRejectsDuplicate(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, false)

	if err := store.Put(ctx, catalog.PartitionCloud, fileRecord("p1", "target file", time.Now())); err != nil {
		t.Fatalf("Put: %v", err)
	}

	err := store.Put(ctx, catalog.PartitionCloud, fileRecord("p1", "target file", time.Now()))
	if !errors.Is(err, catalog.ErrTargetExists) {
		t.Fatalf("repeat Put = %v, want ErrTargetExists", err)
	}
}

func TestOverflowLookupAndDuplicate(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, true)

	if _, err := store.Insert(ctx, catalog.PartitionPrimary, fileRecord("ov-1", "primary resident", time.Now())); err != nil {
		t.Fatalf("insert: %v", err)
	}

	rec, err := store.FindByKey(ctx, catalog.PartitionPrimary, "ov-1")
	if err != nil {
		t.Fatalf("FindByKey with overflow configured: %v", err)
	}

	if rec.FileName != "primary resident" {
		t.Fatalf("FindByKey = %+v", rec)
	}

	outcome, err := store.Insert(ctx, catalog.PartitionPrimary, fileRecord("ov-1", "again", time.Now()))
	if err != nil || outcome != catalog.Duplicate {
		t.Fatalf("repeat insert with overflow = (%s, %v), want (duplicate, nil)", outcome, err)
	}
}

func TestInsertDoesNotPreReadOverflow(t *testing.T) {
	ctx := context.Background()

	primary := openTestDB(t)
	overflow := openTestDB(t)

	// Seed the overflow database directly.
	seed := catalog.NewStore(overflow, nil)
	if err := seed.Migrate(ctx); err != nil {
		t.Fatalf("migrate overflow: %v", err)
	}

	if _, err := seed.Insert(ctx, catalog.PartitionPrimary, fileRecord("pr-1", "overflow resident", time.Now())); err != nil {
		t.Fatalf("seed overflow: %v", err)
	}

	store := catalog.NewStore(primary, overflow)
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	// The primary write is judged by its own uniqueness constraint only.
	outcome, err := store.Insert(ctx, catalog.PartitionPrimary, fileRecord("pr-1", "primary write", time.Now()))
	if err != nil || outcome != catalog.Inserted {
		t.Fatalf("insert = (%s, %v), want (inserted, nil)", outcome, err)
	}
}

func TestMovedFromKeys(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, false)

	now := time.Now().UTC()

	moved := fileRecord("mv-1", "moved record", now)
	moved.MovedFrom = catalog.PartitionPrimary.String()
	moved.MovedAt = &now

	if _, err := store.Insert(ctx, catalog.PartitionArchive, moved); err != nil {
		t.Fatalf("insert moved record: %v", err)
	}

	if _, err := store.Insert(ctx, catalog.PartitionArchive, fileRecord("mv-2", "ordinary record", now)); err != nil {
		t.Fatalf("insert ordinary record: %v", err)
	}

	keys, err := store.MovedFromKeys(ctx, catalog.PartitionArchive, catalog.PartitionPrimary)
	if err != nil {
		t.Fatalf("MovedFromKeys: %v", err)
	}

	if len(keys) != 1 || keys[0] != "mv-1" {
		t.Fatalf("MovedFromKeys = %v, want [mv-1]", keys)
	}
}
