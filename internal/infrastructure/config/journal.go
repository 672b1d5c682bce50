package config

import "time"

// JournalConfig controls the persisted match journal
type JournalConfig struct {
	Enabled bool `mapstructure:"enabled"`

	// Identical messages within this window are written once
	DedupWindow time.Duration `mapstructure:"dedup_window"`
}
