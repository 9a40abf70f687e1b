// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "bibcloud/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// FetchConfig holds settings for fetching records from DBLP.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the record endpoint prefix; the record key and ".xml" are
	// appended to it (default "https://dblp.org/rec/").
	BaseURL string `json:"base_url" yaml:"base_url"`

	// Delay is the minimum spacing between consecutive fetches (default 2s).
	Delay time.Duration `json:"delay" yaml:"delay"`

	// MaxRetries bounds retries on HTTP 429/503 (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// CacheBackend identifies the on-disk format of the record cache.
type CacheBackend string

const (
	BackendXML    CacheBackend = "xml"
	BackendSQLite CacheBackend = "sqlite"
)

// CacheConfig holds settings for the record cache.
type CacheConfig struct {
	// Dir is the working directory for the cache and fetch scratch files
	// (default ".bibcloud").
	Dir string `json:"dir" yaml:"dir"`

	// Backend selects the cache format: xml or sqlite.
	Backend CacheBackend `json:"backend" yaml:"backend"`

	// XMLFile is the cache document name inside Dir (default "DBLP.xml").
	XMLFile string `json:"xml_file" yaml:"xml_file"`

	// SQLiteFile is the database name inside Dir (default "cache.db").
	SQLiteFile string `json:"sqlite_file" yaml:"sqlite_file"`
}

// OverrideConfig names the optional user-maintained override files.
type OverrideConfig struct {
	// AliasFile maps local citation names to DBLP keys (default "dblp-alias.txt").
	AliasFile string `json:"alias_file" yaml:"alias_file"`

	// TitleFile replaces DBLP titles, one "raw|replacement" per line
	// (default "dblp-title.txt").
	TitleFile string `json:"title_file" yaml:"title_file"`

	// VenueFile adds venue short names and workshops (default "dblp-venue.yaml").
	VenueFile string `json:"venue_file" yaml:"venue_file"`
}

// Config groups all settings for one bibcloud run.
type Config struct {
	Fetch     FetchConfig    `json:"fetch" yaml:"fetch"`
	Cache     CacheConfig    `json:"cache" yaml:"cache"`
	Overrides OverrideConfig `json:"overrides" yaml:"overrides"`

	// OutputFile is the generated bibliography (default "dblp.bib").
	OutputFile string `json:"output_file" yaml:"output_file"`
}

// Defaults used when a Config field is left zero.
const (
	DefaultBaseURL    = "https://dblp.org/rec/"
	DefaultDelay      = 2 * time.Second
	DefaultTimeout    = 60 * time.Second
	DefaultUserAgent  = "bibcloud/0.1"
	DefaultMaxRetries = 5
	DefaultCacheDir   = ".bibcloud"
	DefaultXMLFile    = "DBLP.xml"
	DefaultSQLiteFile = "cache.db"
	DefaultAliasFile  = "dblp-alias.txt"
	DefaultTitleFile  = "dblp-title.txt"
	DefaultVenueFile  = "dblp-venue.yaml"
	DefaultOutputFile = "dblp.bib"
)

// DefaultConfig returns a Config with every field set to its default.
func DefaultConfig() Config {
	return Config{
		Fetch: FetchConfig{
			HTTPConfig: HTTPConfig{
				Timeout:   DefaultTimeout,
				UserAgent: DefaultUserAgent,
			},
			BaseURL:    DefaultBaseURL,
			Delay:      DefaultDelay,
			MaxRetries: DefaultMaxRetries,
		},
		Cache: CacheConfig{
			Dir:        DefaultCacheDir,
			Backend:    BackendXML,
			XMLFile:    DefaultXMLFile,
			SQLiteFile: DefaultSQLiteFile,
		},
		Overrides: OverrideConfig{
			AliasFile: DefaultAliasFile,
			TitleFile: DefaultTitleFile,
			VenueFile: DefaultVenueFile,
		},
		OutputFile: DefaultOutputFile,
	}
}
