package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yeisme/mediavault/pkg/internal/catalog"
	"github.com/yeisme/mediavault/pkg/internal/types"
)

func TestMoveKeepsKeyAndMarksTarget(t *testing.T) {
	cs := newTestCatalogService(t)
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	seedRecord(t, cs, catalog.PartitionPrimary, "mv-1", "movable", base)

	res, err := cs.Move(ctx, &types.MoveRequest{Key: "mv-1", From: "primary", To: "archive"})
	if err != nil {
		t.Fatalf("move: %v", err)
	}

	if res.Key != "mv-1" || res.Partition != "archive" {
		t.Fatalf("moved to %s as %s", res.Partition, res.Key)
	}

	if res.MovedFrom != "primary" || res.MovedAt == nil {
		t.Fatalf("move markers missing: from=%q at=%v", res.MovedFrom, res.MovedAt)
	}

	if !res.AddedAt.Equal(base) {
		t.Fatalf("AddedAt changed on move: %v", res.AddedAt)
	}

	if _, err := cs.store.FindByKey(ctx, catalog.PartitionPrimary, "mv-1"); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("source still present: %v", err)
	}
}

func TestMoveMissingSource(t *testing.T) {
	cs := newTestCatalogService(t)

	_, err := cs.Move(context.Background(), &types.MoveRequest{Key: "nope", From: "primary", To: "cloud"})
	if !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestMoveSamePartition(t *testing.T) {
	cs := newTestCatalogService(t)

	_, err := cs.Move(context.Background(), &types.MoveRequest{Key: "k", From: "cloud", To: "cloud"})
	if !errors.Is(err, ErrSamePartition) {
		t.Fatalf("err = %v, want ErrSamePartition", err)
	}
}

func TestMoveTargetCollision(t *testing.T) {
	cs := newTestCatalogService(t)
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	seedRecord(t, cs, catalog.PartitionPrimary, "dup", "source copy", base)
	seedRecord(t, cs, catalog.PartitionCloud, "dup", "target copy", base)

	_, err := cs.Move(context.Background(), &types.MoveRequest{Key: "dup", From: "primary", To: "cloud"})
	if !errors.Is(err, catalog.ErrTargetExists) {
		t.Fatalf("err = %v, want ErrTargetExists", err)
	}

	// A rejected move leaves the source untouched.
	if _, err := cs.store.FindByKey(context.Background(), catalog.PartitionPrimary, "dup"); err != nil {
		t.Fatalf("source lost on rejected move: %v", err)
	}
}

func TestCopyLeavesSourceAndCarriesNoMarkers(t *testing.T) {
	cs := newTestCatalogService(t)
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	seedRecord(t, cs, catalog.PartitionPrimary, "cp-1", "copyable", base)

	res, err := cs.Copy(ctx, &types.MoveRequest{Key: "cp-1", From: "primary", To: "cloud"})
	if err != nil {
		t.Fatalf("copy: %v", err)
	}

	if res.MovedFrom != "" || res.MovedAt != nil {
		t.Fatalf("copy carries move markers: from=%q at=%v", res.MovedFrom, res.MovedAt)
	}

	if res.CopiedAt == nil {
		t.Fatal("copy target missing CopiedAt stamp")
	}

	if src, err := cs.store.FindByKey(ctx, catalog.PartitionPrimary, "cp-1"); err != nil || src.CopiedAt != nil {
		t.Fatalf("source after copy: rec=%+v err=%v", src, err)
	}

	if _, err := cs.store.FindByKey(ctx, catalog.PartitionPrimary, "cp-1"); err != nil {
		t.Fatalf("source gone after copy: %v", err)
	}

	// Copying again hits the existing target.
	if _, err := cs.Copy(ctx, &types.MoveRequest{Key: "cp-1", From: "primary", To: "cloud"}); !errors.Is(err, catalog.ErrTargetExists) {
		t.Fatalf("second copy err = %v, want ErrTargetExists", err)
	}
}

func TestBulkMoveSkipsMissingAndColliding(t *testing.T) {
	cs := newTestCatalogService(t)
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	seedRecord(t, cs, catalog.PartitionPrimary, "b1", "bulk one", base)
	seedRecord(t, cs, catalog.PartitionPrimary, "b2", "bulk two", base)
	seedRecord(t, cs, catalog.PartitionPrimary, "b3", "bulk three", base)
	seedRecord(t, cs, catalog.PartitionArchive, "b2", "already archived", base)

	resp, err := cs.BulkMove(ctx, &types.BulkMoveRequest{
		Keys: []string{"b1", "b2", "b3", "ghost"},
		From: "primary",
		To:   "archive",
	})
	if err != nil {
		t.Fatalf("bulk move: %v", err)
	}

	if resp.Total != 4 || resp.Moved != 2 || resp.Skipped != 2 {
		t.Fatalf("resp = %+v", resp)
	}

	if len(resp.SkippedKeys) != 2 || resp.SkippedKeys[0] != "b2" || resp.SkippedKeys[1] != "ghost" {
		t.Fatalf("skipped keys = %v", resp.SkippedKeys)
	}

	// The colliding source copy survives for a later retry or reconcile
	// decision; the moved ones are gone.
	if _, err := cs.store.FindByKey(ctx, catalog.PartitionPrimary, "b2"); err != nil {
		t.Fatalf("colliding source removed: %v", err)
	}

	for _, key := range []string{"b1", "b3"} {
		if _, err := cs.store.FindByKey(ctx, catalog.PartitionArchive, key); err != nil {
			t.Fatalf("%s not in archive: %v", key, err)
		}

		if _, err := cs.store.FindByKey(ctx, catalog.PartitionPrimary, key); !errors.Is(err, catalog.ErrNotFound) {
			t.Fatalf("%s still in primary: %v", key, err)
		}
	}
}

func TestBulkMoveByQuerySnapshotsMatches(t *testing.T) {
	cs := newTestCatalogService(t)
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	seedRecord(t, cs, catalog.PartitionPrimary, "q1", "sigma part one", base)
	seedRecord(t, cs, catalog.PartitionPrimary, "q2", "sigma part two", base.Add(time.Minute))
	seedRecord(t, cs, catalog.PartitionPrimary, "q3", "sigma part three", base.Add(2*time.Minute))
	seedRecord(t, cs, catalog.PartitionPrimary, "q4", "unrelated", base.Add(3*time.Minute))
	seedRecord(t, cs, catalog.PartitionCloud, "q2", "sigma part two", base)

	resp, err := cs.BulkMove(ctx, &types.BulkMoveRequest{
		Query: "sigma",
		From:  "primary",
		To:    "cloud",
	})
	if err != nil {
		t.Fatalf("bulk move: %v", err)
	}

	if resp.Total != 3 || resp.Moved != 2 || resp.Skipped != 1 {
		t.Fatalf("resp = %+v", resp)
	}

	if len(resp.SkippedKeys) != 1 || resp.SkippedKeys[0] != "q2" {
		t.Fatalf("skipped keys = %v", resp.SkippedKeys)
	}

	// Records outside the predicate stay put.
	if _, err := cs.store.FindByKey(ctx, catalog.PartitionPrimary, "q4"); err != nil {
		t.Fatalf("non-matching record moved: %v", err)
	}

	for _, key := range []string{"q1", "q3"} {
		if _, err := cs.store.FindByKey(ctx, catalog.PartitionCloud, key); err != nil {
			t.Fatalf("%s not in cloud: %v", key, err)
		}
	}
}

func TestReconcileRemovesStaleMoveSources(t *testing.T) {
	cs := newTestCatalogService(t)
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	// Simulate a move interrupted after the target write: the record exists
	// in both partitions, the target copy carrying the markers.
	seedRecord(t, cs, catalog.PartitionPrimary, "stale", "interrupted", base)

	movedAt := base.Add(time.Hour)
	target, err := cs.store.FindByKey(ctx, catalog.PartitionPrimary, "stale")
	if err != nil {
		t.Fatalf("find: %v", err)
	}

	copyRec := *target
	copyRec.MovedFrom = "primary"
	copyRec.MovedAt = &movedAt

	if err := cs.store.Put(ctx, catalog.PartitionCloud, &copyRec); err != nil {
		t.Fatalf("put target copy: %v", err)
	}

	removed, err := cs.Reconcile(ctx)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}

	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}

	if _, err := cs.store.FindByKey(ctx, catalog.PartitionPrimary, "stale"); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("stale source survived: %v", err)
	}

	if _, err := cs.store.FindByKey(ctx, catalog.PartitionCloud, "stale"); err != nil {
		t.Fatalf("target copy lost: %v", err)
	}

	// A second pass finds nothing left to clean.
	removed, err = cs.Reconcile(ctx)
	if err != nil {
		t.Fatalf("second reconcile: %v", err)
	}

	if removed != 0 {
		t.Fatalf("second pass removed = %d, want 0", removed)
	}
}
