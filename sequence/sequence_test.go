package sequence_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apkguard/apkguard/apk"
	"github.com/apkguard/apkguard/sequence"
)

func TestInOrderDetectsCorrectOrder(t *testing.T) {
	first := apk.MethodRef{Class: "A", Method: "a"}
	second := apk.MethodRef{Class: "B", Method: "b"}
	calls := []apk.XrefCall{
		{Callee: first, Offset: 10},
		{Callee: second, Offset: 20},
	}
	assert.True(t, sequence.InOrder(calls, first, second))
}

func TestInOrderRejectsReversedOrder(t *testing.T) {
	first := apk.MethodRef{Class: "A", Method: "a"}
	second := apk.MethodRef{Class: "B", Method: "b"}
	calls := []apk.XrefCall{
		{Callee: second, Offset: 5},
		{Callee: first, Offset: 15},
	}
	assert.False(t, sequence.InOrder(calls, first, second))
}

func TestInOrderToleratesInterveningCalls(t *testing.T) {
	first := apk.MethodRef{Class: "A", Method: "a"}
	second := apk.MethodRef{Class: "B", Method: "b"}
	other := apk.MethodRef{Class: "C", Method: "c"}
	calls := []apk.XrefCall{
		{Callee: first, Offset: 1},
		{Callee: other, Offset: 2},
		{Callee: other, Offset: 3},
		{Callee: second, Offset: 4},
	}
	assert.True(t, sequence.InOrder(calls, first, second))
}

func TestInOrderFalseWhenEitherMissing(t *testing.T) {
	first := apk.MethodRef{Class: "A", Method: "a"}
	second := apk.MethodRef{Class: "B", Method: "b"}
	calls := []apk.XrefCall{{Callee: first, Offset: 1}}
	assert.False(t, sequence.InOrder(calls, first, second))
}

func TestCheckResolvesCallerXrefs(t *testing.T) {
	first := apk.MethodRef{Class: "Landroid/telephony/SmsManager;", Method: "getDefault"}
	second := apk.MethodRef{Class: "Landroid/telephony/SmsManager;", Method: "sendTextMessage"}
	caller := apk.MethodRef{Class: "Lcom/app/MainActivity;", Method: "onClick"}

	b := apk.NewBundle("app.apk", 2048)
	b.AddCall(caller, first, 1)
	b.AddCall(caller, second, 2)

	ok, err := sequence.Check(b, caller, first, second)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = sequence.Check(b, caller, second, first)
	require.NoError(t, err)
	assert.False(t, ok)
}
