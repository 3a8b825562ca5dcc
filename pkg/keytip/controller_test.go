package keytip

import (
	"testing"

	"github.com/go-logr/logr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSurface struct {
	endEdits int
	hooks    map[int]func(*EditStartingEvent)
	nextID   int
	applied  []string
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{hooks: map[int]func(*EditStartingEvent){}}
}

func (f *fakeSurface) EndEdit() { f.endEdits++ }

func (f *fakeSurface) OnEditStarting(fn func(*EditStartingEvent)) func() {
	id := f.nextID
	f.nextID++
	f.hooks[id] = fn
	return func() { delete(f.hooks, id) }
}

// startEdit mimics the host raising its edit-starting signal and reports
// whether the edit may proceed.
func (f *fakeSurface) startEdit() bool {
	ev := &EditStartingEvent{}
	for _, fn := range f.hooks {
		fn(ev)
	}
	return !ev.Cancel
}

func record(name string) Effect {
	return EffectFunc(func(host Surface) {
		host.(*fakeSurface).applied = append(host.(*fakeSurface).applied, name)
	})
}

func testCommands() []Command {
	return []Command{
		{Keys: []string{"H", "V", "V"}, Labels: []string{"Home", "Paste", "Values"}, Description: "Paste values", Effect: record("paste")},
		{Keys: []string{"H", "B", "B"}, Labels: []string{"Home", "Borders", "Bottom"}, Description: "Bottom border", Effect: record("bottom")},
		{Keys: []string{"H", "B", "T"}, Labels: []string{"Home", "Borders", "Top"}, Description: "Top border", Effect: record("top")},
		{Keys: []string{"H", "O", "I"}, Labels: []string{"Home", "Format", "Autofit"}, Description: "Autofit column", Effect: record("autofit")},
		{Keys: []string{"A", "S"}, Labels: []string{"Data", "Sort"}, Description: "Sort descending", Effect: record("sort")},
	}
}

func newTestController(t *testing.T, opts ...ControllerOption) (*Controller, *fakeSurface) {
	t.Helper()
	opts = append([]ControllerOption{WithPlatform(PlatformDefault)}, opts...)
	c, err := NewController(testCommands(), opts...)
	require.NoError(t, err)
	host := newFakeSurface()
	c.Bind(host)
	return c, host
}

func tapAlt(c *Controller) {
	c.HandleKeyDown(KeyEvent{Key: KeyAlt, Mods: ModAlt})
	c.HandleKeyUp(KeyEvent{Key: KeyAlt})
}

func press(c *Controller, keys ...string) {
	for _, k := range keys {
		c.HandleKeyDown(KeyEvent{Key: k})
		c.HandleKeyUp(KeyEvent{Key: k})
	}
}

func TestTapAloneActivates(t *testing.T) {
	c, host := newTestController(t)
	tapAlt(c)
	require.True(t, c.Active())
	assert.Equal(t, 1, host.endEdits, "activation ends any host edit")

	snap := c.Snapshot()
	assert.True(t, snap.Active)
	assert.Equal(t, "Alt", snap.Prefix)
	assert.Empty(t, snap.Path)
	assert.Equal(t, []Option{
		{Key: "A", Label: "Data", Caption: "Data"},
		{Key: "H", Label: "Home", Caption: "Home"},
	}, snap.Options)
}

func TestTapAgainCancels(t *testing.T) {
	c, _ := newTestController(t)
	tapAlt(c)
	tapAlt(c)
	assert.False(t, c.Active())
	assert.False(t, c.Snapshot().Active)
}

func TestComboDoesNotActivate(t *testing.T) {
	c, _ := newTestController(t)
	assert.Equal(t, PassThrough, c.HandleKeyDown(KeyEvent{Key: KeyAlt, Mods: ModAlt}))
	assert.Equal(t, PassThrough, c.HandleKeyDown(KeyEvent{Key: "f", Mods: ModAlt}))
	assert.False(t, c.Armed())
	assert.Equal(t, PassThrough, c.HandleKeyUp(KeyEvent{Key: KeyAlt}))
	assert.False(t, c.Active())
}

func TestComboWithMetaFlagDisarmsOnDefaultPlatform(t *testing.T) {
	c, _ := newTestController(t)
	c.HandleKeyDown(KeyEvent{Key: KeyAlt})
	c.HandleKeyDown(KeyEvent{Key: "x", Mods: ModMeta})
	c.HandleKeyUp(KeyEvent{Key: KeyAlt})
	assert.False(t, c.Active())
}

func TestToggleDropsPendingTap(t *testing.T) {
	c, _ := newTestController(t)
	c.HandleKeyDown(KeyEvent{Key: KeyAlt, Mods: ModAlt})
	require.True(t, c.Armed())

	assert.Equal(t, TransitionActivated, c.Toggle())
	assert.False(t, c.Armed())
	c.HandleKeyUp(KeyEvent{Key: KeyAlt})
	assert.True(t, c.Active(), "the modifier release after a toggle is not a second tap")
}

func TestShiftDoesNotDisarm(t *testing.T) {
	c, _ := newTestController(t)
	c.HandleKeyDown(KeyEvent{Key: KeyAlt})
	c.HandleKeyDown(KeyEvent{Key: "X", Mods: ModShift})
	c.HandleKeyUp(KeyEvent{Key: KeyAlt})
	assert.True(t, c.Active())
}

func TestMacPlatformUsesMeta(t *testing.T) {
	c, err := NewController(testCommands(), WithPlatform(PlatformMac))
	require.NoError(t, err)
	c.Bind(newFakeSurface())

	c.HandleKeyDown(KeyEvent{Key: KeyAlt})
	c.HandleKeyUp(KeyEvent{Key: KeyAlt})
	assert.False(t, c.Active(), "alt does nothing on mac")

	c.HandleKeyDown(KeyEvent{Key: KeyMeta})
	c.HandleKeyUp(KeyEvent{Key: KeyMeta})
	assert.True(t, c.Active())
	assert.Equal(t, "⌘", c.Snapshot().Prefix)
}

func TestSequenceCommitsExactlyOnce(t *testing.T) {
	var transitions []Transition
	c, host := newTestController(t, WithObserver(func(tr Transition, _ Snapshot) {
		transitions = append(transitions, tr)
	}))
	tapAlt(c)
	press(c, "h", "v")
	require.True(t, c.Active())
	assert.Equal(t, []string{"H", "V"}, c.Snapshot().Path)
	assert.Equal(t, []Option{{Key: "V", Label: "Values", Caption: "Paste values"}}, c.Snapshot().Options)

	press(c, "v")
	assert.False(t, c.Active())
	assert.Equal(t, []string{"paste"}, host.applied)
	assert.Equal(t, []Transition{TransitionActivated, TransitionAdvanced, TransitionAdvanced, TransitionCommitted}, transitions)
}

func TestInvalidKeyCancels(t *testing.T) {
	c, host := newTestController(t)
	tapAlt(c)
	press(c, "H")
	assert.Equal(t, Consumed, c.HandleKeyDown(KeyEvent{Key: "z"}))
	assert.False(t, c.Active())
	assert.Empty(t, host.applied)
}

func TestBackspace(t *testing.T) {
	c, _ := newTestController(t)
	tapAlt(c)
	press(c, "H", "B")
	assert.Equal(t, Consumed, c.HandleKeyDown(KeyEvent{Key: KeyBackspace}))
	snap := c.Snapshot()
	assert.Equal(t, []string{"H"}, snap.Path)
	assert.Equal(t, []string{"B", "O", "V"}, optionKeys(snap))

	c.HandleKeyDown(KeyEvent{Key: KeyBackspace})
	assert.True(t, c.Active())
	assert.Empty(t, c.Snapshot().Path)
	assert.Equal(t, []string{"A", "H"}, optionKeys(c.Snapshot()))

	c.HandleKeyDown(KeyEvent{Key: KeyBackspace})
	assert.False(t, c.Active(), "backspace at root cancels")
}

func optionKeys(s Snapshot) []string {
	out := make([]string, len(s.Options))
	for i, o := range s.Options {
		out[i] = o.Key
	}
	return out
}

func TestEscapeCancels(t *testing.T) {
	c, _ := newTestController(t)
	tapAlt(c)
	press(c, "H")
	assert.Equal(t, Consumed, c.HandleKeyDown(KeyEvent{Key: KeyEscape}))
	assert.False(t, c.Active())
}

func TestSuppressionWhileActive(t *testing.T) {
	c, _ := newTestController(t)
	assert.Equal(t, PassThrough, c.HandleKeyDown(KeyEvent{Key: "x"}), "inactive passes through")
	assert.Equal(t, PassThrough, c.HandleKeyUp(KeyEvent{Key: "x"}))

	tapAlt(c)
	assert.Equal(t, PassThrough, c.HandleKeyDown(KeyEvent{Key: KeyShift, Mods: ModShift}))
	assert.Equal(t, PassThrough, c.HandleKeyDown(KeyEvent{Key: KeyControl, Mods: ModCtrl}))
	assert.Equal(t, PassThrough, c.HandleKeyUp(KeyEvent{Key: KeyShift}))
	assert.Equal(t, Consumed, c.HandleKeyDown(KeyEvent{Key: "ArrowDown"}))
	assert.True(t, c.Active(), "named keys are swallowed without a transition")
	assert.Equal(t, Consumed, c.HandleKeyUp(KeyEvent{Key: "h"}))
}

func TestEditStartingCancelledOnlyWhileActive(t *testing.T) {
	c, host := newTestController(t)
	assert.True(t, host.startEdit())
	tapAlt(c)
	assert.False(t, host.startEdit())
	press(c, KeyEscape)
	assert.True(t, host.startEdit())
}

func TestClicks(t *testing.T) {
	c, _ := newTestController(t)
	assert.Equal(t, PassThrough, c.HandleClick(ClickEvent{X: 1, Y: 1}))

	tapAlt(c)
	assert.Equal(t, Consumed, c.HandleClick(ClickEvent{InsideOverlay: true}))
	assert.True(t, c.Active())
	assert.Equal(t, Consumed, c.HandleClick(ClickEvent{X: 3, Y: 4}))
	assert.False(t, c.Active())
}

func TestBlurCancels(t *testing.T) {
	c, _ := newTestController(t)
	tapAlt(c)
	c.HandleBlur()
	assert.False(t, c.Active())

	c.HandleKeyDown(KeyEvent{Key: KeyAlt})
	c.HandleBlur()
	c.HandleKeyUp(KeyEvent{Key: KeyAlt})
	assert.False(t, c.Active(), "blur disarms a pending tap")
}

func TestRebindUnsubscribesPreviousHost(t *testing.T) {
	c, first := newTestController(t)
	second := newFakeSurface()
	c.Bind(second)
	assert.Empty(t, first.hooks)
	assert.Len(t, second.hooks, 1)

	tapAlt(c)
	assert.True(t, first.startEdit())
	assert.False(t, second.startEdit())
	press(c, "A", "S")
	assert.Empty(t, first.applied)
	assert.Equal(t, []string{"sort"}, second.applied)

	c.Unbind()
	assert.Empty(t, second.hooks)
	assert.False(t, c.Bound())
}

func TestCommitWithoutHostStillResets(t *testing.T) {
	c, err := NewController(testCommands(), WithPlatform(PlatformDefault))
	require.NoError(t, err)
	tapAlt(c)
	press(c, "A", "S")
	assert.False(t, c.Active())
}

func TestPanickingEffectResets(t *testing.T) {
	c, err := NewController([]Command{{Keys: []string{"P"}, Effect: EffectFunc(func(Surface) { panic("boom") })}}, WithPlatform(PlatformDefault))
	require.NoError(t, err)
	c.Bind(newFakeSurface())
	tapAlt(c)
	assert.NotPanics(t, func() { press(c, "P") })
	assert.False(t, c.Active())
}

func TestNewControllerRejectsPrefixConflict(t *testing.T) {
	_, err := NewController([]Command{
		{Keys: []string{"H"}, Effect: noop()},
		{Keys: []string{"H", "V"}, Effect: noop()},
	})
	assert.ErrorIs(t, err, ErrPrefixConflict)
}

func TestPrefixNodeIsNonTerminal(t *testing.T) {
	var ran []string
	root := Build([]Command{
		{Keys: []string{"H"}, Effect: EffectFunc(func(Surface) { ran = append(ran, "H") })},
		{Keys: []string{"H", "V"}, Effect: EffectFunc(func(Surface) { ran = append(ran, "HV") })},
	})
	m := NewMachine(root, logr.Discard())
	m.SetHost(newFakeSurface())
	m.Activate()
	assert.Equal(t, TransitionAdvanced, m.Key("h"))
	assert.Empty(t, ran)
	assert.Equal(t, TransitionCommitted, m.Key("v"))
	assert.Equal(t, []string{"HV"}, ran)
}

func TestReload(t *testing.T) {
	c, host := newTestController(t)
	tapAlt(c)
	require.NoError(t, c.Reload([]Command{{Keys: []string{"Q"}, Effect: record("q")}}))
	assert.False(t, c.Active())

	tapAlt(c)
	assert.Equal(t, []string{"Q"}, optionKeys(c.Snapshot()))
	press(c, "q")
	assert.Equal(t, []string{"q"}, host.applied)

	err := c.Reload([]Command{{Keys: []string{"Q"}}})
	assert.ErrorIs(t, err, ErrNilEffect)
	tapAlt(c)
	assert.Equal(t, []string{"Q"}, optionKeys(c.Snapshot()), "failed reload keeps registry")
}

func TestMachineIgnoresKeysWhileInactive(t *testing.T) {
	m := NewMachine(Build(testCommands()), logr.Discard())
	assert.Equal(t, TransitionNone, m.Key("H"))
	assert.Equal(t, TransitionNone, m.Backspace())
	assert.Equal(t, TransitionNone, m.Escape())
	assert.Equal(t, TransitionActivated, m.Activate())
	assert.Equal(t, TransitionNone, m.Activate())
	assert.Equal(t, "activated", TransitionActivated.String())
}
