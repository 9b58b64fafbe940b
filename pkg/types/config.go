// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "infobox-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// StoreConfig holds settings for the record store.
type StoreConfig struct {
	// Path is the SQLite database file (e.g. "cache/infobox.db").
	Path string `json:"path" yaml:"path"`

	// MaxInstanceSample bounds how many same-type records are sampled
	// when computing shared properties (default 100).
	MaxInstanceSample int `json:"max_instance_sample" yaml:"max_instance_sample"`
}

// ExtractConfig holds settings for the dump extraction stage.
type ExtractConfig struct {
	// DumpPath is the dump file to scan. Files ending in .gz or .bz2
	// are decompressed transparently.
	DumpPath string `json:"dump_path" yaml:"dump_path"`

	// Limit stops extraction after this many record starts (0 = all).
	Limit int `json:"limit" yaml:"limit"`

	// Skip passes over the first N record starts without materializing
	// them, so a run can resume from an offset. The counter spans the
	// whole session, not individual batches.
	Skip int `json:"skip" yaml:"skip"`

	// BatchSize is how many records are handed to the store per batch
	// (default 100).
	BatchSize int `json:"batch_size" yaml:"batch_size"`

	// Filter keeps only records whose listed properties contain the
	// given substrings (case-insensitive). Empty means keep everything.
	Filter map[string]string `json:"filter,omitempty" yaml:"filter,omitempty"`
}

// SearchConfig holds settings for the web snippet source.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIKey authenticates against the search JSON API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// EngineID selects the configured search engine instance.
	EngineID string `json:"engine_id,omitempty" yaml:"engine_id,omitempty"`

	// Pages is the number of result pages fetched per snippet query
	// (default 1, ten snippets per page).
	Pages int `json:"pages" yaml:"pages"`

	// CacheResults stores fetched snippets in the record store so
	// repeated queries do not hit the network.
	CacheResults bool `json:"cache_results" yaml:"cache_results"`
}

// QueryConfig holds settings for query answering.
type QueryConfig struct {
	// MaxQueries bounds how many queries are read from a query file
	// (default 10).
	MaxQueries int `json:"max_queries" yaml:"max_queries"`

	// RandomQueries selects query-file lines randomly instead of from
	// the top.
	RandomQueries bool `json:"random_queries" yaml:"random_queries"`

	// TopProperties is how many shared properties are shown for an
	// answer's type (default 10).
	TopProperties int `json:"top_properties" yaml:"top_properties"`

	// Fuzzy enables the slow similarity fallback when resolving names.
	Fuzzy bool `json:"fuzzy" yaml:"fuzzy"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Store   StoreConfig   `json:"store" yaml:"store"`
	Extract ExtractConfig `json:"extract" yaml:"extract"`
	Search  SearchConfig  `json:"search" yaml:"search"`
	Query   QueryConfig   `json:"query" yaml:"query"`
}
