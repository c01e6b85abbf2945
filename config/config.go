// Package config loads apkguard's run configuration from YAML and watches
// a rule-pack directory for changes, so a long-running server process can
// pick up new or edited rules without a restart.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/apkguard/apkguard/rule"
)

// Config is apkguard's top-level run configuration.
type Config struct {
	// RulePackDir is the directory LoadDir scans for *.yaml/*.yml rules.
	RulePackDir string `yaml:"rule_pack_dir"`

	// MaxSearchLayer overrides callgraph.DefaultMaxSearchLayer when non-zero.
	// The apkguard command applies it; apkguard-server evaluates with the
	// default cap.
	MaxSearchLayer int `yaml:"max_search_layer"`

	// EnableColor toggles ANSI color in the text report.
	EnableColor bool `yaml:"enable_color"`

	// NarrateCrimes turns on AI narration of matched crimes (see the
	// narrate package); requires an API key in the environment.
	NarrateCrimes bool `yaml:"narrate_crimes"`

	// HTTPAddr is the listen address for the server command.
	HTTPAddr string `yaml:"http_addr"`

	// HistoryDSN is the Postgres connection string for run-history storage;
	// empty disables persistence.
	HistoryDSN string `yaml:"history_dsn"`
}

// Default returns a Config with apkguard's baseline settings.
func Default() Config {
	return Config{
		MaxSearchLayer: 3,
		EnableColor:    true,
		HTTPAddr:       ":8443",
	}
}

// Load reads and parses a YAML config file, starting from Default so
// unset fields keep their baseline values.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path) // #nosec G304 -- operator-supplied config path
	if err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadRulePack loads the configured rule-pack directory.
func (c Config) LoadRulePack() (*rule.Pack, error) {
	if c.RulePackDir == "" {
		return &rule.Pack{}, nil
	}
	return rule.LoadDir(c.RulePackDir)
}
