package apk_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apkguard/apkguard/apk"
)

const sampleFixture = `{
  "filename": "app.apk",
  "filesize": 2048,
  "permissions": ["android.permission.SEND_SMS"],
  "calls": [
    {"caller": {"class": "Lcom/app/MainActivity;", "method": "onClick"},
     "callee": {"class": "Landroid/telephony/SmsManager;", "method": "sendTextMessage"},
     "offset": 10}
  ],
  "bytecode": {
    "Lcom/app/MainActivity;->onClick": [
      {"mnemonic": "new-instance", "parameter": "Landroid/telephony/SmsManager;", "registers": ["v0"]},
      {"mnemonic": "invoke-virtual", "parameter": "Landroid/telephony/SmsManager;->sendTextMessage", "registers": ["v0"]}
    ]
  }
}`

func TestLoadFixtureBuildsBundle(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleFixture), 0o600))

	b, err := apk.LoadFixture(path)
	require.NoError(t, err)

	assert.Equal(t, "app.apk", b.Filename())
	assert.Equal(t, int64(2048), b.Filesize())
	_, granted := b.Permissions()["android.permission.SEND_SMS"]
	assert.True(t, granted)

	callers, ok := b.UpperFunc("Landroid/telephony/SmsManager;", "sendTextMessage")
	require.True(t, ok)
	require.Len(t, callers, 1)
	assert.Equal(t, "onClick", callers[0].Method)

	instrs, err := b.MethodBytecode("Lcom/app/MainActivity;", "onClick")
	require.NoError(t, err)
	require.Len(t, instrs, 2)
	assert.Equal(t, "new-instance", instrs[0].Mnemonic)
}
