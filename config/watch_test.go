package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apkguard/apkguard/config"
	"github.com/apkguard/apkguard/rule"
)

func TestRulePackWatcherReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mobile.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
rules:
  - crime: "first"
    permissions: []
    api_pair: [{class: "A", method: "a"}, {class: "B", method: "b"}]
    yscore: 1
`), 0o600))

	reloaded := make(chan *rule.Pack, 4)
	w, err := config.NewRulePackWatcher(dir, func(p *rule.Pack) { reloaded <- p }, nil)
	require.NoError(t, err)

	stop := make(chan struct{})
	go w.Run(stop)
	defer close(stop)

	require.NoError(t, os.WriteFile(path, []byte(`
rules:
  - crime: "second"
    permissions: []
    api_pair: [{class: "A", method: "a"}, {class: "B", method: "b"}]
    yscore: 1
`), 0o600))

	select {
	case pack := <-reloaded:
		require.Len(t, pack.Rules, 1)
		assert.Equal(t, "second", pack.Rules[0].Crime)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for rule pack reload")
	}
}
