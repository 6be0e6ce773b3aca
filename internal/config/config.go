// Package config defines the sizescope configuration, loaded from file, env
// vars, and defaults via viper.
package config

import "errors"

// Config is the top-level configuration struct for sizescope.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	Data     DataConfig     `mapstructure:"data"`
	Compare  CompareConfig  `mapstructure:"compare"`
	Flow     FlowConfig     `mapstructure:"flow"`
	Serve    ServeConfig    `mapstructure:"serve"`
	Sections SectionsConfig `mapstructure:"sections"`
}

// DataConfig locates the size tables and index produced by the measurement
// pipeline. Exactly one of BaseURL or Dir should be set; Dir wins when both
// are present.
type DataConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	Dir       string `mapstructure:"dir"`
	CacheSize int    `mapstructure:"cache_size"`
}

// CompareConfig holds comparison defaults.
type CompareConfig struct {
	Metric    string `mapstructure:"metric"`
	Threshold int64  `mapstructure:"threshold"`
	TableRows int    `mapstructure:"table_rows"`
}

// FlowConfig tunes the flow diagram layout.
type FlowConfig struct {
	MaxNodes int   `mapstructure:"max_nodes"`
	MinSize  int64 `mapstructure:"min_size"`
}

// ServeConfig holds dashboard server settings.
type ServeConfig struct {
	Listen string `mapstructure:"listen"`
	Theme  string `mapstructure:"theme"`
}

// SectionsConfig controls the debug-section exclusion applied to the ELF
// desktop platform family, whose tables interleave debug sections with code.
type SectionsConfig struct {
	ExcludeDebug   bool     `mapstructure:"exclude_debug"`
	PlatformPrefix string   `mapstructure:"platform_prefix"`
	DebugSections  []string `mapstructure:"debug_sections"`
}

// Configuration defaults.
const (
	DefaultMetric    = "filesize"
	DefaultThreshold = int64(1024)
	DefaultTableRows = 100
	DefaultMaxNodes  = 30
	DefaultMinSize   = int64(1000)
	DefaultCacheSize = 128
	DefaultListen    = ":8080"
	DefaultTheme     = "dark"

	// DefaultPlatformPrefix names the platform family whose tables carry
	// ELF debug sections.
	DefaultPlatformPrefix = "linux"
)

// DefaultDebugSections are the section identities hidden when debug
// exclusion is on.
var DefaultDebugSections = []string{
	".debug_info",
	".debug_str",
	".debug_line",
	".debug_abbrev",
	".debug_ranges",
	".symtab",
	".strtab",
}

// Sentinel errors for configuration validation.
var (
	// ErrNoDataSource indicates neither data.base_url nor data.dir is set.
	ErrNoDataSource = errors.New("one of data.base_url or data.dir must be set")
	// ErrInvalidCacheSize indicates the cache size is negative.
	ErrInvalidCacheSize = errors.New("data.cache_size must be non-negative")
	// ErrInvalidThreshold indicates the threshold is negative.
	ErrInvalidThreshold = errors.New("compare.threshold must be non-negative")
	// ErrInvalidTableRows indicates the table row cap is not positive.
	ErrInvalidTableRows = errors.New("compare.table_rows must be positive")
	// ErrInvalidMaxNodes indicates the node cap is not positive.
	ErrInvalidMaxNodes = errors.New("flow.max_nodes must be positive")
	// ErrInvalidTheme indicates an unknown theme name.
	ErrInvalidTheme = errors.New(`serve.theme must be "light" or "dark"`)
)

// Validate checks Config invariants and returns the first error found.
// RequireSource controls whether a data source must be configured; commands
// that never touch data skip that check.
func (c *Config) Validate(requireSource bool) error {
	if requireSource && c.Data.BaseURL == "" && c.Data.Dir == "" {
		return ErrNoDataSource
	}

	if c.Data.CacheSize < 0 {
		return ErrInvalidCacheSize
	}

	if c.Compare.Threshold < 0 {
		return ErrInvalidThreshold
	}

	if c.Compare.TableRows <= 0 {
		return ErrInvalidTableRows
	}

	if c.Flow.MaxNodes <= 0 {
		return ErrInvalidMaxNodes
	}

	if c.Serve.Theme != "light" && c.Serve.Theme != "dark" {
		return ErrInvalidTheme
	}

	return nil
}
