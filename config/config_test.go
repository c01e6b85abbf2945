package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apkguard/apkguard/config"
)

func TestDefaultValues(t *testing.T) {
	cfg := config.Default()
	assert.Equal(t, 3, cfg.MaxSearchLayer)
	assert.True(t, cfg.EnableColor)
	assert.Equal(t, ":8443", cfg.HTTPAddr)
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "apkguard.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
rule_pack_dir: ./rules
max_search_layer: 5
enable_color: false
http_addr: ":9000"
`), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "./rules", cfg.RulePackDir)
	assert.Equal(t, 5, cfg.MaxSearchLayer)
	assert.False(t, cfg.EnableColor)
	assert.Equal(t, ":9000", cfg.HTTPAddr)
}

func TestLoadRulePackEmptyDirIsEmptyPack(t *testing.T) {
	cfg := config.Default()
	pack, err := cfg.LoadRulePack()
	require.NoError(t, err)
	assert.Empty(t, pack.Rules)
}
