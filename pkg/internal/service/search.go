package service

import (
	"context"
	"fmt"

	"github.com/yeisme/mediavault/pkg/configs"
	"github.com/yeisme/mediavault/pkg/internal/catalog"
	"github.com/yeisme/mediavault/pkg/internal/types"
	"github.com/yeisme/mediavault/pkg/metrics"
)

// maxPageSize caps a caller-supplied page size.
const maxPageSize = 50

// Search runs a query across the requested partitions and returns one merged,
// paginated page. Results keep stable partition order (primary, cloud,
// archive) with store-native insertion order inside each partition, so the
// same query with advancing offsets walks the full result set without
// duplicates or gaps.
func (cs *CatalogService) Search(ctx context.Context, req *types.SearchRequest) (*types.SearchResponse, error) {
	q := catalog.NewQuery(catalog.Normalize(req.Query), cs.cfg.Catalog.UseCaptionFilter)
	partitions := cs.partitionsFor(req.Partition)

	var merged []types.FileResult

	counts := make(map[string]int, len(partitions))

	for _, p := range partitions {
		recs, err := cs.store.ScanMatching(ctx, p, q, req.Language)
		if err != nil {
			return nil, fmt.Errorf("search %s: %w", p, err)
		}

		counts[p.String()] = len(recs)
		metrics.SearchResults.WithLabelValues(p.String()).Observe(float64(len(recs)))

		for i := range recs {
			merged = append(merged, fileResult(&recs[i], p))
		}
	}

	total := len(merged)
	limit := cs.pageSize(req.Limit)
	offset := req.Offset

	if offset > total {
		offset = total
	}

	end := offset + limit
	if end > total {
		end = total
	}

	page := merged[offset:end]

	resp := &types.SearchResponse{
		Results:         page,
		Total:           total,
		PartitionCounts: counts,
		Offset:          req.Offset,
	}

	// NextOffset of zero with HasMore false marks exhaustion, mirroring how
	// chat pagination buttons disappear on the last page.
	if next := offset + limit; next < total {
		resp.NextOffset = next
		resp.HasMore = true
	}

	return resp, nil
}

// SearchCounts reports how many records a query would match, per partition,
// without materializing any page.
func (cs *CatalogService) SearchCounts(ctx context.Context, req *types.SearchRequest) (*types.SearchCountsResponse, error) {
	q := catalog.NewQuery(catalog.Normalize(req.Query), cs.cfg.Catalog.UseCaptionFilter)

	resp := &types.SearchCountsResponse{
		PartitionCounts: make(map[string]int),
	}

	for _, p := range cs.partitionsFor(req.Partition) {
		n, err := cs.store.CountMatching(ctx, p, q, req.Language)
		if err != nil {
			return nil, fmt.Errorf("count %s: %w", p, err)
		}

		resp.PartitionCounts[p.String()] = n
		resp.Total += n
	}

	return resp, nil
}

// pageSize resolves the effective page size: the configured default when the
// caller asked for none, hard-capped so a single page stays bounded.
func (cs *CatalogService) pageSize(requested int) int {
	size := requested
	if size <= 0 {
		size = cs.cfg.Catalog.MaxResults
	}

	if size <= 0 {
		size = configs.DefaultCatalogMaxResults
	}

	if size > maxPageSize {
		size = maxPageSize
	}

	return size
}
