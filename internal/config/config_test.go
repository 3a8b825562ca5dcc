package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestDefault(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)
	assert.Equal(t, "keytips", cfg.App.About.Name)
	assert.Equal(t, "auto", cfg.KeyTips.Modifier)
	assert.True(t, cfg.KeyTips.BuiltinsEnabled())
	assert.Equal(t, 200, cfg.MaxDebugEvents())
	assert.Equal(t, 30, cfg.UI.Grid.Rows)
	assert.NotEmpty(t, cfg.KeyTips.Commands)
	assert.False(t, cfg.NoColor())
	require.NoError(t, cfg.Validate())
}

func TestDefaultYAMLMatchesEmbedded(t *testing.T) {
	var raw map[string]any
	require.NoError(t, yaml.Unmarshal(DefaultConfigYAML(), &raw))
	assert.Contains(t, raw, "keytips")
}

func TestLoadMergesUserFile(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "config.yaml", `
keytips:
  modifier: meta
  builtins: false
  disabled: ["H B T"]
  commands:
    - keys: "X D"
      expr: "value * 2.0"
ui:
  grid:
    rows: 5
`)
	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "meta", cfg.KeyTips.Modifier)
	assert.False(t, cfg.KeyTips.BuiltinsEnabled())
	assert.Equal(t, []string{"H B T"}, cfg.KeyTips.Disabled)
	require.Len(t, cfg.KeyTips.Commands, 1, "lists replace defaults")
	assert.Equal(t, "X D", cfg.KeyTips.Commands[0].Keys)
	assert.Equal(t, 5, cfg.UI.Grid.Rows)
	assert.Equal(t, 8, cfg.UI.Grid.Cols, "unset keys keep defaults")

	opts := cfg.RegistryOptions()
	assert.False(t, opts.Builtins)
	assert.Len(t, opts.Exprs, 1)

	def, err := Default()
	require.NoError(t, err)
	assert.True(t, def.KeyTips.BuiltinsEnabled(), "loading must not mutate defaults")
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	p := writeFile(t, dir, "bad.yaml", "keytips:\n  modifier: hyper\n")
	_, err = Load(p)
	assert.ErrorContains(t, err, "keytips.modifier")

	p = writeFile(t, dir, "unknown.yaml", "keytips:\n  colour: red\n")
	_, err = Load(p)
	assert.Error(t, err)

	p = writeFile(t, dir, "nokeys.yaml", "keytips:\n  commands:\n    - expr: value\n")
	_, err = Load(p)
	assert.ErrorContains(t, err, "keys are required")
}

func TestLoadEmptyFile(t *testing.T) {
	p := writeFile(t, t.TempDir(), "empty.yaml", "")
	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "auto", cfg.KeyTips.Modifier)
}

func TestResolvePath(t *testing.T) {
	assert.Equal(t, "/explicit.yaml", ResolvePath("/explicit.yaml"))

	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", t.TempDir())
	assert.Equal(t, "", ResolvePath(""))

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "keytips"), 0o755))
	p := writeFile(t, filepath.Join(dir, "keytips"), "config.yaml", "")
	assert.Equal(t, p, ResolvePath(""))
}

func TestMarshalRoundTrip(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)
	data, err := Marshal(cfg)
	require.NoError(t, err)
	assert.Contains(t, string(data), "modifier: auto")
}

func TestWatcherNotifiesOnWrite(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "config.yaml", "keytips:\n  modifier: alt\n")

	changed := make(chan string, 4)
	w, err := NewWatcher(p, func(path string) { changed <- path })
	require.NoError(t, err)
	w.debounce = 10 * time.Millisecond
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	writeFile(t, dir, "other.yaml", "x")
	writeFile(t, dir, "config.yaml", "keytips:\n  modifier: meta\n")

	select {
	case got := <-changed:
		assert.Equal(t, filepath.Clean(p), got)
	case <-time.After(5 * time.Second):
		t.Fatal("expected a change notification")
	}
}

func TestWatcherCloseStopsNotifications(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "config.yaml", "")
	w, err := NewWatcher(p, func(string) { t.Error("unexpected notification") })
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
	w.scheduleNotify()
}
