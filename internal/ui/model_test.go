package ui

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/keytips/internal/config"
	"github.com/oakwood-commons/keytips/pkg/keytip"
	"github.com/oakwood-commons/keytips/pkg/sheet"
)

func newTestModel(t *testing.T, rows [][]any) *Model {
	t.Helper()
	cfg, err := config.Default()
	require.NoError(t, err)
	m, err := NewModel(Options{
		Config:   cfg,
		Rows:     rows,
		Modifier: "alt",
		NoColor:  true,
		Width:    100,
		Height:   30,
	})
	require.NoError(t, err)
	t.Cleanup(m.Close)
	return m
}

func optionKeys(m *Model) []string {
	var keys []string
	for _, o := range m.Controller().Snapshot().Options {
		keys = append(keys, o.Key)
	}
	return keys
}

func TestNewModelRejectsUnknownModifier(t *testing.T) {
	cfg, err := config.Default()
	require.NoError(t, err)
	_, err = NewModel(Options{Config: cfg, Modifier: "hyper"})
	assert.Error(t, err)
}

func TestTapAltShowsOverlay(t *testing.T) {
	m := newTestModel(t, nil)
	ApplyStartupKeys(m, []string{"<Alt>"})
	require.True(t, m.Controller().Active())
	assert.Equal(t, []string{"A", "F", "H"}, optionKeys(m))

	out := m.Render()
	assert.Contains(t, out, "Home")
	assert.Contains(t, out, "Data")
	assert.Contains(t, out, "Esc to cancel")

	ApplyStartupKeys(m, []string{"H"})
	assert.Contains(t, m.Render(), "Alt › H")
	assert.Equal(t, []string{"B", "O", "V"}, optionKeys(m))
}

func TestSequenceRunsCommand(t *testing.T) {
	m := newTestModel(t, [][]any{{3.0}, {1.0}, {2.0}})
	ApplyStartupKeys(m, []string{"<S-Down><S-Down>", "<Alt>AA"})

	assert.False(t, m.Controller().Active())
	assert.Equal(t, []any{1.0, 2.0, 3.0}, []any{m.Sheet().Value(0, 0), m.Sheet().Value(1, 0), m.Sheet().Value(2, 0)})
	assert.Equal(t, "ran Alt A A", m.Status())
}

func TestHostKeysSuppressedWhileActive(t *testing.T) {
	m := newTestModel(t, nil)
	ApplyStartupKeys(m, []string{"<Alt>", "<Down>", "x"})
	assert.Equal(t, sheet.Pos{}, m.Sheet().Cursor(), "arrow keys are swallowed")
	assert.False(t, m.Sheet().Editing(), "typing does not start an edit")
	assert.False(t, m.Controller().Active(), "an unknown key cancels")

	ApplyStartupKeys(m, []string{"<Down>", "x"})
	assert.Equal(t, sheet.Pos{Row: 1}, m.Sheet().Cursor())
	assert.True(t, m.Sheet().Editing())
}

func TestEscapeAndBackspace(t *testing.T) {
	m := newTestModel(t, nil)
	ApplyStartupKeys(m, []string{"<Alt>HB", "<BS>"})
	require.True(t, m.Controller().Active())
	assert.Equal(t, []string{"H"}, m.Controller().Snapshot().Path)

	ApplyStartupKeys(m, []string{"<Esc>"})
	assert.False(t, m.Controller().Active())
}

func TestActivationCommitsPendingEdit(t *testing.T) {
	m := newTestModel(t, nil)
	ApplyStartupKeys(m, []string{"42"})
	require.True(t, m.Sheet().Editing())

	ApplyStartupKeys(m, []string{"<Alt>"})
	assert.True(t, m.Controller().Active())
	assert.False(t, m.Sheet().Editing())
	assert.Equal(t, 42.0, m.Sheet().Value(0, 0))
}

func TestEditorCommitAndCancel(t *testing.T) {
	m := newTestModel(t, nil)
	ApplyStartupKeys(m, []string{"hi<CR>"})
	assert.Equal(t, "hi", m.Sheet().Value(0, 0))
	assert.Equal(t, sheet.Pos{Row: 1}, m.Sheet().Cursor())

	ApplyStartupKeys(m, []string{"zz<Esc>"})
	assert.Nil(t, m.Sheet().Value(1, 0))
	assert.False(t, m.Sheet().Editing())
}

func TestComboDoesNotActivate(t *testing.T) {
	m := newTestModel(t, nil)
	ApplyStartupKeys(m, []string{"<A-h>"})
	assert.False(t, m.Controller().Active())
	assert.False(t, m.Controller().Armed())
}

func TestMetaDoesNotActivateOnAltPlatform(t *testing.T) {
	m := newTestModel(t, nil)
	ApplyStartupKeys(m, []string{"<Meta>"})
	assert.False(t, m.Controller().Active())
}

func TestFallbackKeyToggles(t *testing.T) {
	m := newTestModel(t, nil)
	ApplyStartupKeys(m, []string{"<F10>"})
	assert.True(t, m.Controller().Active())
	ApplyStartupKeys(m, []string{"<F10>"})
	assert.False(t, m.Controller().Active())
}

func TestClickOutsideOverlayCancels(t *testing.T) {
	m := newTestModel(t, nil)
	ApplyStartupKeys(m, []string{"<Alt>"})
	m.Update(tea.MouseClickMsg{X: 15, Y: gridTop + 2, Button: tea.MouseLeft})
	assert.False(t, m.Controller().Active())
	assert.Equal(t, sheet.Pos{}, m.Sheet().Cursor(), "the cancelling click is consumed")
}

func TestClickInsideOverlayKeepsMode(t *testing.T) {
	m := newTestModel(t, nil)
	ApplyStartupKeys(m, []string{"<Alt>"})
	m.Render()
	require.Eventually(t, func() bool {
		return !m.zones.Get(overlayZone).IsZero()
	}, 2*time.Second, 5*time.Millisecond)

	z := m.zones.Get(overlayZone)
	m.Update(tea.MouseClickMsg{X: z.StartX + 1, Y: z.StartY + 1, Button: tea.MouseLeft})
	assert.True(t, m.Controller().Active())
}

func TestClickSelectsCell(t *testing.T) {
	m := newTestModel(t, nil)
	// Row labels take two columns for a 30 row grid; column B's text starts
	// at x=14.
	m.Update(tea.MouseClickMsg{X: 15, Y: gridTop + 2, Button: tea.MouseLeft})
	assert.Equal(t, sheet.Pos{Row: 2, Col: 1}, m.Sheet().Cursor())

	m.Update(tea.MouseClickMsg{X: 3, Y: gridTop, Button: tea.MouseLeft, Mod: tea.ModShift})
	assert.Equal(t, sheet.Range{Row: 0, Col: 0, Rows: 3, Cols: 2}, m.Sheet().ActiveSelection())
}

func TestBlurCancels(t *testing.T) {
	m := newTestModel(t, nil)
	ApplyStartupKeys(m, []string{"<Alt>H"})
	m.Update(tea.BlurMsg{})
	assert.False(t, m.Controller().Active())
}

func TestCopyThenPasteValues(t *testing.T) {
	m := newTestModel(t, [][]any{{"a", 1.0}})
	before := len(*copied)
	ApplyStartupKeys(m, []string{"<S-Right>", "<C-y>"})
	require.Len(t, *copied, before+1)
	assert.Equal(t, "a\t1\r\n", (*copied)[before])
	assert.Equal(t, "copied A1:B1", m.Status())

	ApplyStartupKeys(m, []string{"<Down><Left>", "<Alt>HVV"})
	assert.Equal(t, "a", m.Sheet().Value(1, 0))
	assert.Equal(t, 1.0, m.Sheet().Value(1, 1))
}

func TestCutClearsSelection(t *testing.T) {
	m := newTestModel(t, [][]any{{"a"}})
	ApplyStartupKeys(m, []string{"<C-x>"})
	assert.Nil(t, m.Sheet().Value(0, 0))
	text, ok := m.Capture().Text()
	require.True(t, ok)
	assert.Equal(t, "a\r\n", text)
}

func TestBracketedPasteIsCaptured(t *testing.T) {
	m := newTestModel(t, nil)
	m.Update(tea.PasteMsg{Content: "5\t6\n"})
	assert.Contains(t, m.Status(), "H V V")

	ApplyStartupKeys(m, []string{"<Alt>HVV"})
	assert.Equal(t, 5.0, m.Sheet().Value(0, 0))
	assert.Equal(t, 6.0, m.Sheet().Value(0, 1))
}

func TestPasteWhileEditingGoesToEditor(t *testing.T) {
	m := newTestModel(t, nil)
	ApplyStartupKeys(m, []string{"<CR>"})
	m.Update(tea.PasteMsg{Content: "abc"})
	_, captured := m.Capture().Text()
	assert.False(t, captured)
	assert.Equal(t, "abc", m.Sheet().EditBuffer())
}

func TestExpressionCommandFromConfig(t *testing.T) {
	m := newTestModel(t, [][]any{{" padded "}})
	ApplyStartupKeys(m, []string{"<Alt>FT"})
	assert.Equal(t, "padded", m.Sheet().Value(0, 0))
	ApplyStartupKeys(m, []string{"<Alt>FU"})
	assert.Equal(t, "PADDED", m.Sheet().Value(0, 0))
}

func TestConfigReload(t *testing.T) {
	m := newTestModel(t, nil)
	dir := t.TempDir()
	p := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(`
keytips:
  builtins: false
  commands:
    - keys: "X D"
      expr: "value"
`), 0o600))

	ApplyStartupKeys(m, []string{"<Alt>"})
	m.Update(ConfigChangedMsg{Path: p})
	assert.False(t, m.Controller().Active(), "reload returns to inactive")
	assert.Equal(t, "reloaded 1 commands", m.Status())

	ApplyStartupKeys(m, []string{"<Alt>"})
	assert.Equal(t, []string{"X"}, optionKeys(m))
	ApplyStartupKeys(m, []string{"<Esc>"})

	require.NoError(t, os.WriteFile(p, []byte("keytips:\n  commands:\n    - keys: \"X\"\n      expr: \"nope(\"\n"), 0o600))
	m.Update(ConfigChangedMsg{Path: p})
	assert.Contains(t, m.Status(), "reload failed")
	ApplyStartupKeys(m, []string{"<Alt>"})
	assert.Equal(t, []string{"X"}, optionKeys(m), "previous registry stays")
}

func TestDebugPanelRecordsTransitions(t *testing.T) {
	m := newTestModel(t, nil)
	ApplyStartupKeys(m, []string{"<F12>", "<Alt>H", "<Esc>"})
	require.True(t, m.debugVisible)
	assert.Equal(t, 3, m.events.len())
	out := m.Render()
	assert.Contains(t, out, "events (3)")
	assert.Contains(t, out, keytip.TransitionCancelled.String())
}

func TestQuitUnbinds(t *testing.T) {
	m := newTestModel(t, nil)
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'q', Mod: tea.ModCtrl})
	require.NotNil(t, cmd)
	assert.False(t, m.Controller().Bound())
	assert.Equal(t, 0, m.Sheet().EditHooks())
}

func TestFallbackHintUntilModifierRelease(t *testing.T) {
	m := newTestModel(t, nil)
	assert.Contains(t, m.renderStatus(), "or press f10")

	m.Update(tea.KeyboardEnhancementsMsg{Flags: 2})
	assert.True(t, m.supportsRelease)
	assert.Contains(t, m.renderStatus(), "or press f10", "event types alone do not report lone modifiers")

	m.Update(tea.KeyReleaseMsg{Code: tea.KeyLeftShift})
	assert.Contains(t, m.renderStatus(), "or press f10")

	m.Update(tea.KeyReleaseMsg{Code: tea.KeyLeftAlt})
	assert.Contains(t, m.renderStatus(), "for key tips")
	assert.NotContains(t, m.renderStatus(), "or press")
}

func TestFallbackKeyWhileHoldingAltTogglesOnce(t *testing.T) {
	m := newTestModel(t, nil)
	m.Update(tea.KeyPressMsg{Code: tea.KeyLeftAlt, Mod: tea.ModAlt})
	m.Update(tea.KeyPressMsg{Code: tea.KeyF10})
	require.True(t, m.Controller().Active())
	assert.False(t, m.Controller().Armed())

	m.Update(tea.KeyReleaseMsg{Code: tea.KeyLeftAlt})
	assert.True(t, m.Controller().Active(), "releasing Alt does not toggle a second time")
}

func TestScrollFollowsCursor(t *testing.T) {
	m := newTestModel(t, nil)
	for i := 0; i < 29; i++ {
		m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	}
	assert.Equal(t, 29, m.Sheet().Cursor().Row)
	assert.Greater(t, m.rowOffset, 0)
	assert.Contains(t, m.Render(), "30")
}
