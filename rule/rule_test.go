package rule_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apkguard/apkguard/rule"
)

const samplePack = `
rules:
  - crime: "Send location via SMS without consent"
    permissions: ["android.permission.SEND_SMS", "android.permission.ACCESS_FINE_LOCATION"]
    api_pair:
      - {class: "Landroid/telephony/SmsManager;", method: "sendTextMessage"}
      - {class: "Landroid/location/LocationManager;", method: "getLastKnownLocation"}
    yscore: 5
  - crime: "Dynamically load code"
    permissions: []
    api_pair:
      - {class: "Ldalvik/system/DexClassLoader;", method: "<init>"}
      - {class: "Ljava/lang/reflect/Method;", method: "invoke"}
    yscore: 4
    score_expr: "n >= 5 ? yscore : n >= 3 ? yscore * 0.5 : 0"
`

func writeSamplePack(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "mobile.yaml")
	require.NoError(t, os.WriteFile(path, []byte(samplePack), 0o600))
	return path
}

func TestLoadFileParsesRules(t *testing.T) {
	path := writeSamplePack(t)
	pack, err := rule.LoadFile(path)
	require.NoError(t, err)
	require.Len(t, pack.Rules, 2)

	r0 := pack.Rules[0]
	assert.Equal(t, "Send location via SMS without consent", r0.Crime)
	assert.Equal(t, "Landroid/telephony/SmsManager;", r0.FirstAPI().Class)
	assert.Equal(t, "getLastKnownLocation", r0.SecondAPI().Method)
	assert.Len(t, r0.PermissionSet(), 2)
}

func TestScoreForDefaultsToAllOrNothing(t *testing.T) {
	r := &rule.Rule{Crime: "x", YScore: 5}
	score, err := r.ScoreFor(4)
	require.NoError(t, err)
	assert.Zero(t, score)

	score, err = r.ScoreFor(5)
	require.NoError(t, err)
	assert.Equal(t, 5.0, score)
}

func TestScoreForExpression(t *testing.T) {
	path := writeSamplePack(t)
	pack, err := rule.LoadFile(path)
	require.NoError(t, err)
	r1 := pack.Rules[1]

	score, err := r1.ScoreFor(2)
	require.NoError(t, err)
	assert.Zero(t, score)

	score, err = r1.ScoreFor(3)
	require.NoError(t, err)
	assert.Equal(t, 2.0, score)

	score, err = r1.ScoreFor(5)
	require.NoError(t, err)
	assert.Equal(t, 4.0, score)
}

func TestLoadDirOrdersByFilename(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.yaml"), []byte(`rules:
  - crime: "second"
    permissions: []
    api_pair: [{class: "A", method: "a"}, {class: "B", method: "b"}]
    yscore: 1
`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yaml"), []byte(`rules:
  - crime: "first"
    permissions: []
    api_pair: [{class: "A", method: "a"}, {class: "B", method: "b"}]
    yscore: 1
`), 0o600))

	pack, err := rule.LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, pack.Rules, 2)
	assert.Equal(t, "first", pack.Rules[0].Crime)
	assert.Equal(t, "second", pack.Rules[1].Crime)
}
