package commands

import (
	"errors"
	"fmt"
	"os"
	"time"

	"coursedesc/internal/catalog"
	"coursedesc/lib/configutil"
	configlibsql "coursedesc/lib/configutil/libsql"

	"dario.cat/mergo"
)

type Config struct {
	BaseUrl        string `json:"base_url" yaml:"base_url"`
	SeedFile       string `json:"seed_file" yaml:"seed_file"`
	OutputDir      string `json:"output_dir" yaml:"output_dir"`
	YearsPerDegree int    `json:"years_per_degree" yaml:"years_per_degree"`
	// RequestsPerSecond is unlimited when 0.
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`
	// Timeout is a duration like "30s", empty leaves it to the transport.
	Timeout          string `json:"timeout" yaml:"timeout"`
	UserAgent        string `json:"user_agent" yaml:"user_agent"`
	CloudflareBypass bool   `json:"cloudflare_bypass" yaml:"cloudflare_bypass"`
	// DumpHttpDir receives a file per http exchange when set.
	DumpHttpDir string              `json:"dump_http_dir" yaml:"dump_http_dir"`
	Database    configlibsql.Struct `json:"database" yaml:"database"`
	// Catalog overrides the default lookup tables, empty tables are kept.
	Catalog catalog.Tables `json:"catalog" yaml:"catalog"`
}

func defaultConfig() Config {
	return Config{
		BaseUrl:        catalog.DefaultBaseUrl,
		SeedFile:       "config/degrees.json",
		OutputDir:      "output",
		YearsPerDegree: catalog.DefaultYearsPerDegree,
	}
}

// loadConfig reads the configuration at path, a missing file means every
// field keeps its default.
func loadConfig(path string) (Config, error) {
	cfg, err := configutil.ReadConfig[Config](path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	err = mergo.Merge(&cfg, defaultConfig())
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Tables() catalog.Tables {
	return catalog.DefaultTables().Override(c.Catalog)
}

func (c Config) RequestTimeout() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	timeout, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, catalog.ConfigurationError{Message: fmt.Sprintf("invalid timeout %q: %v", c.Timeout, err)}
	}
	return timeout, nil
}
