package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yeisme/mediavault/pkg/configs"
	"github.com/yeisme/mediavault/pkg/fileid"
	"github.com/yeisme/mediavault/pkg/internal/catalog"
	"github.com/yeisme/mediavault/pkg/internal/model"
	"github.com/yeisme/mediavault/pkg/internal/types"
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

func testConfig() *configs.AppConfig {
	cfg := &configs.AppConfig{}
	cfg.Catalog.MaxResults = configs.DefaultCatalogMaxResults
	cfg.Catalog.UseCaptionFilter = true

	return cfg
}

func newTestCatalogService(t *testing.T) *CatalogService {
	t.Helper()

	store := catalog.NewStore(openTestDB(t), nil)
	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return &CatalogService{store: store, cfg: testConfig()}
}

func seedRecord(t *testing.T, cs *CatalogService, p catalog.Partition, key, name string, added time.Time) {
	t.Helper()

	rec := &model.FileRecord{
		Key:       key,
		RefHandle: "handle-" + key,
		FileName:  name,
		FileSize:  1000,
		MediaType: "document",
		AddedAt:   added,
	}

	if outcome, err := cs.store.Insert(context.Background(), p, rec); outcome != catalog.Inserted {
		t.Fatalf("seed %s into %s: outcome=%s err=%v", key, p, outcome, err)
	}
}

func testHandle(mediaID int64, opts ...fileid.EncodeOption) string {
	return fileid.Encode(fileid.Handle{
		TypeTag:     fileid.TypeDocument,
		ShardID:     4,
		MediaID:     mediaID,
		AccessToken: mediaID * 7,
	}, opts...)
}

func TestIngestAndDuplicate(t *testing.T) {
	cs := newTestCatalogService(t)
	ctx := context.Background()

	resp, err := cs.Ingest(ctx, &types.IngestRequest{
		Handle:   testHandle(101),
		FileName: "Report.Final.pdf",
		FileSize: 2048,
	})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}

	if resp.Outcome != "inserted" {
		t.Fatalf("outcome = %s, want inserted", resp.Outcome)
	}

	if resp.Partition != "primary" {
		t.Fatalf("partition = %s, want primary", resp.Partition)
	}

	// The same media sent from a different client session has a different
	// handle but must collapse onto the same key.
	variant := testHandle(101, fileid.WithVersion(4), fileid.WithFileReference([]byte("session-ref")))

	dup, err := cs.Ingest(ctx, &types.IngestRequest{
		Handle:   variant,
		FileName: "Report Final (copy).pdf",
	})
	if err != nil {
		t.Fatalf("ingest variant: %v", err)
	}

	if dup.Outcome != "duplicate" {
		t.Fatalf("variant outcome = %s, want duplicate", dup.Outcome)
	}

	if dup.Key != resp.Key {
		t.Fatalf("variant key = %s, want %s", dup.Key, resp.Key)
	}
}

func TestIngestNormalizesFileName(t *testing.T) {
	cs := newTestCatalogService(t)
	ctx := context.Background()

	_, err := cs.Ingest(ctx, &types.IngestRequest{
		Handle:   testHandle(7),
		FileName: "Spider-Man.2021_1080p@moviechan",
	})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}

	resp, err := cs.Search(ctx, &types.SearchRequest{Query: "spider man"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	if resp.Total != 1 {
		t.Fatalf("total = %d, want 1", resp.Total)
	}

	if got := resp.Results[0].FileName; got != "Spider Man 2021 1080p" {
		t.Fatalf("stored name = %q", got)
	}
}

func TestIngestNormalizesCaption(t *testing.T) {
	cs := newTestCatalogService(t)
	ctx := context.Background()

	_, err := cs.Ingest(ctx, &types.IngestRequest{
		Handle:   testHandle(8),
		FileName: "plain name",
		Caption:  "Dual.Audio_Rip@capchan",
	})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}

	resp, err := cs.Search(ctx, &types.SearchRequest{Query: "dual audio"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	if resp.Total != 1 {
		t.Fatalf("total = %d, want 1", resp.Total)
	}

	if got := resp.Results[0].Caption; got != "Dual Audio Rip" {
		t.Fatalf("stored caption = %q", got)
	}
}

func TestIngestMalformedHandle(t *testing.T) {
	cs := newTestCatalogService(t)

	_, err := cs.Ingest(context.Background(), &types.IngestRequest{
		Handle:   "not-a-handle!!",
		FileName: "x",
	})
	if !errors.Is(err, fileid.ErrMalformedHandle) {
		t.Fatalf("err = %v, want ErrMalformedHandle", err)
	}
}

func TestIngestUnknownPartitionRoutesPrimary(t *testing.T) {
	cs := newTestCatalogService(t)

	resp, err := cs.Ingest(context.Background(), &types.IngestRequest{
		Handle:    testHandle(55),
		FileName:  "x",
		Partition: "glacier",
	})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}

	if resp.Partition != "primary" {
		t.Fatalf("partition = %s, want primary", resp.Partition)
	}
}

func TestSearchPagination(t *testing.T) {
	cs := newTestCatalogService(t)
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	for i := range 7 {
		seedRecord(t, cs, catalog.PartitionPrimary,
			fmt.Sprintf("key-%d", i), fmt.Sprintf("alpha file %d", i), base.Add(time.Duration(i)*time.Minute))
	}

	page1, err := cs.Search(ctx, &types.SearchRequest{Query: "alpha", Limit: 5})
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	if len(page1.Results) != 5 || page1.Total != 7 {
		t.Fatalf("page1: %d results, total %d", len(page1.Results), page1.Total)
	}

	if !page1.HasMore || page1.NextOffset != 5 {
		t.Fatalf("page1: HasMore=%v NextOffset=%d", page1.HasMore, page1.NextOffset)
	}

	page2, err := cs.Search(ctx, &types.SearchRequest{Query: "alpha", Offset: page1.NextOffset, Limit: 5})
	if err != nil {
		t.Fatalf("search page2: %v", err)
	}

	if len(page2.Results) != 2 || page2.Total != 7 {
		t.Fatalf("page2: %d results, total %d", len(page2.Results), page2.Total)
	}

	if page2.HasMore || page2.NextOffset != 0 {
		t.Fatalf("page2: HasMore=%v NextOffset=%d, want exhausted", page2.HasMore, page2.NextOffset)
	}

	// No overlap between pages.
	if page2.Results[0].Key == page1.Results[4].Key {
		t.Fatalf("pages overlap at %s", page2.Results[0].Key)
	}
}

func TestSearchMergesPartitionsInStableOrder(t *testing.T) {
	cs := newTestCatalogService(t)
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	// The archive row is older than the primary row; partition order still
	// wins over insertion time across partitions.
	seedRecord(t, cs, catalog.PartitionArchive, "arch-1", "beta old", base)
	seedRecord(t, cs, catalog.PartitionPrimary, "prim-1", "beta new", base.Add(time.Hour))
	seedRecord(t, cs, catalog.PartitionCloud, "cloud-1", "beta mid", base.Add(30*time.Minute))

	resp, err := cs.Search(ctx, &types.SearchRequest{Query: "beta"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	want := []string{"prim-1", "cloud-1", "arch-1"}
	for i, key := range want {
		if resp.Results[i].Key != key {
			t.Fatalf("result[%d] = %s, want %s", i, resp.Results[i].Key, key)
		}
	}

	wantProv := []string{"primary", "cloud", "archive"}
	for i, p := range wantProv {
		if resp.Results[i].Partition != p {
			t.Fatalf("result[%d] partition = %s, want %s", i, resp.Results[i].Partition, p)
		}
	}

	if resp.PartitionCounts["primary"] != 1 || resp.PartitionCounts["cloud"] != 1 || resp.PartitionCounts["archive"] != 1 {
		t.Fatalf("partition counts = %v", resp.PartitionCounts)
	}
}

func TestSearchSinglePartition(t *testing.T) {
	cs := newTestCatalogService(t)
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	seedRecord(t, cs, catalog.PartitionPrimary, "p1", "gamma one", base)
	seedRecord(t, cs, catalog.PartitionCloud, "c1", "gamma two", base)

	resp, err := cs.Search(context.Background(), &types.SearchRequest{Query: "gamma", Partition: "cloud"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	if resp.Total != 1 || resp.Results[0].Key != "c1" {
		t.Fatalf("total = %d, first = %+v", resp.Total, resp.Results)
	}

	if _, ok := resp.PartitionCounts["primary"]; ok {
		t.Fatal("primary counted in a cloud-only search")
	}
}

func TestSearchLanguageFilterBeforePagination(t *testing.T) {
	cs := newTestCatalogService(t)
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	// The language filter is a case-insensitive substring test on the stored
	// name; the Language column plays no part in it.
	names := []string{"delta hindi 720p", "delta english 720p", "delta Hindi rip", "delta plain"}
	for i, name := range names {
		rec := &model.FileRecord{
			Key:      fmt.Sprintf("l-%d", i),
			FileName: name,
			AddedAt:  base.Add(time.Duration(i) * time.Minute),
		}

		if outcome, err := cs.store.Insert(ctx, catalog.PartitionPrimary, rec); outcome != catalog.Inserted {
			t.Fatalf("seed: outcome=%s err=%v", outcome, err)
		}
	}

	resp, err := cs.Search(ctx, &types.SearchRequest{Query: "delta", Language: "hindi", Limit: 1})
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	if resp.Total != 2 {
		t.Fatalf("total = %d, want 2", resp.Total)
	}

	if len(resp.Results) != 1 || !resp.HasMore || resp.NextOffset != 1 {
		t.Fatalf("page = %d results, hasMore=%v nextOffset=%d", len(resp.Results), resp.HasMore, resp.NextOffset)
	}

	if got := resp.Results[0].FileName; got != "delta hindi 720p" {
		t.Fatalf("first result = %q", got)
	}
}

func TestSearchEmptyQueryMatchesAll(t *testing.T) {
	cs := newTestCatalogService(t)
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	seedRecord(t, cs, catalog.PartitionPrimary, "a", "anything", base)
	seedRecord(t, cs, catalog.PartitionPrimary, "b", "else entirely", base.Add(time.Minute))

	resp, err := cs.Search(context.Background(), &types.SearchRequest{})
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	if resp.Total != 2 {
		t.Fatalf("total = %d, want 2", resp.Total)
	}
}

func TestSearchCounts(t *testing.T) {
	cs := newTestCatalogService(t)
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	seedRecord(t, cs, catalog.PartitionPrimary, "s1", "epsilon one", base)
	seedRecord(t, cs, catalog.PartitionPrimary, "s2", "epsilon two", base)
	seedRecord(t, cs, catalog.PartitionArchive, "s3", "epsilon three", base)

	resp, err := cs.SearchCounts(context.Background(), &types.SearchRequest{Query: "epsilon"})
	if err != nil {
		t.Fatalf("counts: %v", err)
	}

	if resp.Total != 3 || resp.PartitionCounts["primary"] != 2 || resp.PartitionCounts["archive"] != 1 {
		t.Fatalf("counts = %+v", resp)
	}
}

func TestGetByKeyReportsPartition(t *testing.T) {
	cs := newTestCatalogService(t)
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	seedRecord(t, cs, catalog.PartitionCloud, "find-me", "zeta", base)

	res, err := cs.GetByKey(context.Background(), "find-me")
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if res.Partition != "cloud" {
		t.Fatalf("partition = %s, want cloud", res.Partition)
	}

	if _, err := cs.GetByKey(context.Background(), "absent"); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteMatchingAcrossPartitions(t *testing.T) {
	cs := newTestCatalogService(t)
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	seedRecord(t, cs, catalog.PartitionPrimary, "d1", "theta purge", base)
	seedRecord(t, cs, catalog.PartitionCloud, "d2", "theta purge", base)
	seedRecord(t, cs, catalog.PartitionPrimary, "keep", "unrelated", base)

	resp, err := cs.DeleteMatching(ctx, &types.DeleteRequest{Query: "theta"})
	if err != nil {
		t.Fatalf("delete: %v", err)
	}

	if resp.Deleted != 2 {
		t.Fatalf("deleted = %d, want 2", resp.Deleted)
	}

	if _, err := cs.GetByKey(ctx, "keep"); err != nil {
		t.Fatalf("unrelated record gone: %v", err)
	}
}

func TestDeleteMatchingIgnoresCaptions(t *testing.T) {
	cs := newTestCatalogService(t)
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	rec := &model.FileRecord{
		Key:      "cap-1",
		FileName: "omega file",
		Caption:  "zebra trailer",
		AddedAt:  base,
	}
	if outcome, err := cs.store.Insert(ctx, catalog.PartitionPrimary, rec); outcome != catalog.Inserted {
		t.Fatalf("seed: outcome=%s err=%v", outcome, err)
	}

	// The caption toggle widens search, never deletion.
	found, err := cs.Search(ctx, &types.SearchRequest{Query: "zebra"})
	if err != nil {
		t.Fatalf("caption search: %v", err)
	}

	if found.Total != 1 {
		t.Fatalf("caption search total = %d, want 1", found.Total)
	}

	resp, err := cs.DeleteMatching(ctx, &types.DeleteRequest{Query: "zebra"})
	if err != nil {
		t.Fatalf("delete: %v", err)
	}

	if resp.Deleted != 0 {
		t.Fatalf("deleted = %d, want 0", resp.Deleted)
	}

	if _, err := cs.GetByKey(ctx, "cap-1"); err != nil {
		t.Fatalf("record deleted on a caption-only match: %v", err)
	}
}
