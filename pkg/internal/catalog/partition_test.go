package catalog_test

import (
	"testing"

	"github.com/yeisme/mediavault/pkg/internal/catalog"
)

func TestParsePartition(t *testing.T) {
	cases := map[string]catalog.Partition{
		"primary": catalog.PartitionPrimary,
		"cloud":   catalog.PartitionCloud,
		"archive": catalog.PartitionArchive,
		// Unknown and empty names route to primary instead of failing.
		"":        catalog.PartitionPrimary,
		"glacier": catalog.PartitionPrimary,
		"CLOUD":   catalog.PartitionPrimary,
	}

	for in, want := range cases {
		if got := catalog.ParsePartition(in); got != want {
			t.Errorf("ParsePartition(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPartitionsOrder(t *testing.T) {
	got := catalog.Partitions()

	want := []catalog.Partition{
		catalog.PartitionPrimary,
		catalog.PartitionCloud,
		catalog.PartitionArchive,
	}

	if len(got) != len(want) {
		t.Fatalf("Partitions() returned %d entries, want %d", len(got), len(want))
	}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Partitions()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestTableName(t *testing.T) {
	cases := map[catalog.Partition]string{
		catalog.PartitionPrimary: "primary_files",
		catalog.PartitionCloud:   "cloud_files",
		catalog.PartitionArchive: "archive_files",
	}

	for p, want := range cases {
		if got := p.TableName(); got != want {
			t.Errorf("%q.TableName() = %q, want %q", p, got, want)
		}
	}
}

func TestPartitionValid(t *testing.T) {
	if !catalog.PartitionCloud.Valid() {
		t.Error("cloud should be valid")
	}

	if catalog.Partition("glacier").Valid() {
		t.Error("glacier should not be valid")
	}
}
