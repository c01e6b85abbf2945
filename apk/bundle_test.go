package apk_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apkguard/apkguard/apk"
)

func TestBundleFindMethod(t *testing.T) {
	b := apk.NewBundle("sample.apk", 1024)
	send := apk.MethodRef{Class: "Landroid/telephony/SmsManager;", Method: "sendTextMessage"}
	b.AddMethod(send)

	refs, ok := b.FindMethod(send.Class, send.Method)
	require.True(t, ok)
	assert.Equal(t, []apk.MethodRef{send}, refs)

	_, ok = b.FindMethod("Lno/such/Class;", "missing")
	assert.False(t, ok)
}

func TestBundleUpperFuncDistinguishesUnknownFromEmpty(t *testing.T) {
	b := apk.NewBundle("sample.apk", 1024)
	leaf := apk.MethodRef{Class: "Lcom/example/Leaf;", Method: "run"}
	b.AddMethod(leaf)

	callers, ok := b.UpperFunc(leaf.Class, leaf.Method)
	assert.True(t, ok, "a registered method with no callers is still known to the call graph")
	assert.Empty(t, callers)

	_, ok = b.UpperFunc("Lno/such/Class;", "missing")
	assert.False(t, ok, "an unregistered method is unknown, not empty")
}

func TestBundleAddCallWiresXrefAndCallGraph(t *testing.T) {
	b := apk.NewBundle("sample.apk", 2048)
	parent := apk.MethodRef{Class: "Lcom/example/Main;", Method: "onCreate"}
	childA := apk.MethodRef{Class: "Lcom/example/A;", Method: "a"}
	childB := apk.MethodRef{Class: "Lcom/example/B;", Method: "b"}

	b.AddCall(parent, childA, 10)
	b.AddCall(parent, childB, 4)

	xrefs, err := b.XrefTo(parent)
	require.NoError(t, err)
	require.Len(t, xrefs, 2)
	assert.Equal(t, childB, xrefs[0].Callee, "xrefs are returned sorted by offset")
	assert.Equal(t, childA, xrefs[1].Callee)

	callers, ok := b.UpperFunc(childA.Class, childA.Method)
	require.True(t, ok)
	assert.Equal(t, []apk.MethodRef{parent}, callers)

	// Adding the same call twice does not duplicate the call-graph edge.
	b.AddCall(parent, childA, 99)
	callers, _ = b.UpperFunc(childA.Class, childA.Method)
	assert.Len(t, callers, 1)
}

func TestBundleFingerprintIsDeterministic(t *testing.T) {
	b1 := apk.NewBundle("sample.apk", 1024)
	b2 := apk.NewBundle("sample.apk", 1024)

	fp1, err := b1.Fingerprint()
	require.NoError(t, err)
	fp2, err := b2.Fingerprint()
	require.NoError(t, err)
	assert.Equal(t, fp1, fp2)
	assert.NotEqual(t, b1.MD5(), fp1, "blake2b fingerprint is distinct from the md5 digest")
}
