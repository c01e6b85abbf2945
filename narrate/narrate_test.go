package narrate_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apkguard/apkguard/narrate"
	"github.com/apkguard/apkguard/state"
)

func TestNarrateNoAPIKeyIsNoOp(t *testing.T) {
	n := narrate.New("")
	findings := []*state.Finding{{Crime: "Dynamically load code"}}
	require.NoError(t, n.Narrate(context.Background(), findings))
	assert.Empty(t, findings[0].Narration)
}

func TestNarrateEmptyFindingsIsNoOp(t *testing.T) {
	n := narrate.New("fake-key")
	require.NoError(t, n.Narrate(context.Background(), nil))
}

func TestNarrateSkipsAlreadyNarrated(t *testing.T) {
	n := narrate.New("fake-key")
	findings := []*state.Finding{{Crime: "x", Narration: "already explained"}}
	require.NoError(t, n.Narrate(context.Background(), findings))
	assert.Equal(t, "already explained", findings[0].Narration)
}
