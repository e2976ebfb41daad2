package configs

import "github.com/spf13/viper"

// EventsConfig toggles event publishing globally and per topic family.
type EventsConfig struct {
	Enabled bool                `mapstructure:"enabled"`
	Catalog CatalogEventsConfig `mapstructure:"catalog"`
}

// CatalogEventsConfig toggles for the catalog event family.
type CatalogEventsConfig struct {
	Ingested  bool `mapstructure:"ingested"`
	Moved     bool `mapstructure:"moved"`
	Copied    bool `mapstructure:"copied"`
	BulkMoved bool `mapstructure:"bulk_moved"`
	Deleted   bool `mapstructure:"deleted"`
	StoreFull bool `mapstructure:"store_full"`
}

func (c *EventsConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("events.enabled", true)

	// Minimal useful set on by default; high-volume or alerting topics are
	// opt-in.
	v.SetDefault("events.catalog.ingested", true)
	v.SetDefault("events.catalog.moved", true)
	v.SetDefault("events.catalog.copied", false)
	v.SetDefault("events.catalog.bulk_moved", true)
	v.SetDefault("events.catalog.deleted", true)
	v.SetDefault("events.catalog.store_full", true)
}
