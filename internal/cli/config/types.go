// Package config provides configuration management for the noodlec CLI.
package config

import "time"

// Default values for configuration.
const (
	DefaultOutput    = "text"
	DefaultOutDir    = "build"
	DefaultCachePath = ".noodlec/cache.db"
	DefaultDebounce  = 200 * time.Millisecond
)

// DefaultExtensions lists the source file extensions picked up by build and watch.
var DefaultExtensions = []string{".nd"}

// WatchConfig holds configuration for the watch command.
type WatchConfig struct {
	Debounce   time.Duration `koanf:"debounce"`
	Extensions []string      `koanf:"extensions"`
}

// Config holds all CLI configuration options.
type Config struct {
	Optimize  bool        `koanf:"optimize"`
	Debug     bool        `koanf:"debug"`
	Output    string      `koanf:"output"`
	OutDir    string      `koanf:"out_dir"`
	CachePath string      `koanf:"cache_path"`
	NoCache   bool        `koanf:"no_cache"`
	Jobs      int         `koanf:"jobs"`
	Verbose   bool        `koanf:"verbose"`
	Color     bool        `koanf:"color"`
	Watch     WatchConfig `koanf:"watch"`
}

// Default returns a Config holding the default values.
func Default() *Config {
	return &Config{
		Output:    DefaultOutput,
		OutDir:    DefaultOutDir,
		CachePath: DefaultCachePath,
		Color:     true,
		Watch: WatchConfig{
			Debounce:   DefaultDebounce,
			Extensions: append([]string(nil), DefaultExtensions...),
		},
	}
}
