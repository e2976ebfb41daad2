package configs

import "github.com/spf13/viper"

const (
	DefaultCatalogMaxResults     = 10 // results per search page
	DefaultCatalogCaptionFilter  = true
	DefaultCatalogSnapshotPrefix = "snapshots"
)

// CatalogConfig tunes catalog search and maintenance behavior.
type CatalogConfig struct {
	// UseCaptionFilter extends search predicates to match captions as well
	// as file names.
	UseCaptionFilter bool `mapstructure:"use_caption_filter"`
	// MaxResults is the default page size for search pagination.
	MaxResults int `mapstructure:"max_results" rule:"min=1,max=100"`
	// SnapshotPrefix is the object key prefix for catalog snapshots in S3.
	SnapshotPrefix string `mapstructure:"snapshot_prefix"`
}

func (c *CatalogConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("catalog.use_caption_filter", DefaultCatalogCaptionFilter)
	v.SetDefault("catalog.max_results", DefaultCatalogMaxResults)
	v.SetDefault("catalog.snapshot_prefix", DefaultCatalogSnapshotPrefix)
}
