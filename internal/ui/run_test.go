package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/keytips/internal/config"
)

func TestRenderSnapshot(t *testing.T) {
	cfg, err := config.Default()
	require.NoError(t, err)

	out, err := RenderSnapshot(SnapshotOptions{
		Options: Options{
			Config:   cfg,
			Rows:     [][]any{{"name", "qty"}, {"apples", 3.0}},
			Modifier: "alt",
			NoColor:  true,
			Width:    80,
			Height:   24,
		},
		StartKeys: []string{"<Alt>H"},
	})
	require.NoError(t, err)
	assert.Contains(t, out, "apples")
	assert.Contains(t, out, "Alt › H")
	assert.Contains(t, out, "Esc to cancel")
}

func TestRenderSnapshotBadModifier(t *testing.T) {
	cfg, err := config.Default()
	require.NoError(t, err)
	_, err = RenderSnapshot(SnapshotOptions{Options: Options{Config: cfg, Modifier: "hyper"}})
	assert.Error(t, err)
}
