package main

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// driverConfig holds the defaults a --config YAML file may override for the
// OptOptions/FrontendOptions flags, mirroring the way the reference engine's
// own tooling layers a config file under explicit flags.
type driverConfig struct {
	BasicOpts bool `yaml:"basicOpts"`
	MaxSSA    bool `yaml:"maxSSA"`
	DebugInfo bool `yaml:"debugInfo"`
}

// loadDriverConfig reads a YAML config file, if path is non-empty. A missing
// path is not an error; it just means every flag keeps its command-line (or
// pflag zero-value) default.
func loadDriverConfig(path string) (driverConfig, error) {
	var cfg driverConfig
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "reading config %q", path)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parsing config %q", path)
	}
	return cfg, nil
}
