package ui

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/go-logr/logr"
	zone "github.com/lrstanley/bubblezone/v2"

	"github.com/oakwood-commons/keytips/internal/config"
	"github.com/oakwood-commons/keytips/pkg/commands"
	"github.com/oakwood-commons/keytips/pkg/keytip"
	"github.com/oakwood-commons/keytips/pkg/sheet"
)

// overlayZone is the bubblezone id of the key tip panel.
const overlayZone = "keytip-overlay"

// Options configures a Model.
type Options struct {
	Config config.Config
	// Rows seeds the grid. The grid is at least as large as the configured
	// minimum.
	Rows [][]any
	// Modifier overrides keytips.modifier from the config when non-empty.
	Modifier string
	NoColor  bool
	Debug    bool
	Logger   logr.Logger
	Width    int
	Height   int
}

// Model is the terminal spreadsheet host. Key events reach the keytip
// controller before the grid's own bindings; the controller decides whether
// the grid may still see them.
type Model struct {
	cfg        config.Config
	sheet      *sheet.Sheet
	controller *keytip.Controller
	capture    *commands.Capture
	keys       KeyMap
	input      textinput.Model
	zones      *zone.Manager
	styles     styles
	noColor    bool
	log        logr.Logger

	width, height        int
	rowOffset, colOffset int

	// supportsRelease is set once the terminal confirms it reports key
	// release events.
	supportsRelease bool
	// sawModifierRelease is set by the first release of Alt or Meta. Event
	// type reporting alone does not deliver lone modifier keys, so the
	// fallback key stays in the hint until a tap could actually work.
	sawModifierRelease bool

	debugVisible bool
	events       *eventLog
	lastPath     []string
	pendingKey   string
	status       string
	statusErr    bool
	quitting     bool
}

// NewModel builds the grid, the command registry and a controller bound to
// the grid.
func NewModel(opts Options) (*Model, error) {
	log := opts.Logger
	if log.GetSink() == nil {
		log = logr.Discard()
	}
	cfg := opts.Config
	choice := opts.Modifier
	if choice == "" {
		choice = cfg.KeyTips.Modifier
	}
	platform, err := keytip.ResolvePlatform(choice)
	if err != nil {
		return nil, err
	}

	m := &Model{
		cfg:          cfg,
		capture:      &commands.Capture{},
		keys:         DefaultKeyMap(cfg.KeyTips.FallbackKey),
		zones:        zone.New(),
		noColor:      opts.NoColor || cfg.NoColor(),
		log:          log,
		width:        opts.Width,
		height:       opts.Height,
		debugVisible: opts.Debug,
		events:       newEventLog(cfg.MaxDebugEvents()),
	}
	m.styles = newStyles(ThemeFromConfig(cfg.UI.Theme), m.noColor)

	cmds, err := m.buildRegistry(cfg)
	if err != nil {
		return nil, err
	}
	m.controller, err = keytip.NewController(cmds,
		keytip.WithLogger(log.WithName("keytip")),
		keytip.WithPlatform(platform),
		keytip.WithObserver(m.observe),
	)
	if err != nil {
		return nil, err
	}

	m.sheet = sheet.FromRows(opts.Rows, cfg.UI.Grid.Rows, cfg.UI.Grid.Cols)
	if w := cfg.UI.Grid.ColumnWidth; w > 0 {
		for c := 0; c < m.sheet.Cols(); c++ {
			m.sheet.SetColumnWidth(c, w)
		}
	}
	m.controller.Bind(m.sheet)

	m.input = textinput.New()
	m.input.Prompt = ""

	log.V(1).Info("model ready", "platform", platform.Name, "commands", len(cmds),
		"rows", m.sheet.Rows(), "cols", m.sheet.Cols())
	return m, nil
}

func (m *Model) buildRegistry(cfg config.Config) ([]keytip.Command, error) {
	opts := cfg.RegistryOptions()
	opts.Logger = m.log.WithName("commands")
	return commands.Build(m.capture, opts)
}

// Sheet returns the host grid.
func (m *Model) Sheet() *sheet.Sheet { return m.sheet }

// Controller returns the keytip controller bound to the grid.
func (m *Model) Controller() *keytip.Controller { return m.controller }

// Capture returns the copy/paste capture read by paste values.
func (m *Model) Capture() *commands.Capture { return m.capture }

// Status returns the status line text.
func (m *Model) Status() string { return m.status }

// Close unbinds the controller and stops the zone worker.
func (m *Model) Close() {
	m.controller.Unbind()
	m.zones.Close()
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyboardEnhancementsMsg:
		m.supportsRelease = msg.SupportsEventTypes()
		m.log.V(1).Info("keyboard enhancements", "event_types", m.supportsRelease)
	case tea.KeyPressMsg:
		cmd = m.handleKeyPress(msg)
	case tea.KeyReleaseMsg:
		ev := keyEvent(msg.Key())
		if ev.Key == keytip.KeyAlt || ev.Key == keytip.KeyMeta {
			m.sawModifierRelease = true
		}
		m.controller.HandleKeyUp(ev)
	case tea.MouseClickMsg:
		m.handleClick(msg)
	case tea.PasteMsg:
		cmd = m.handlePaste(msg)
	case tea.BlurMsg:
		m.controller.HandleBlur()
	case ConfigChangedMsg:
		m.reload(msg)
	}
	m.syncEditor()
	m.scrollToCursor()
	return m, cmd
}

func (m *Model) handleKeyPress(msg tea.KeyPressMsg) tea.Cmd {
	if msg.String() == "ctrl+c" || msg.Key().Code == 0x03 || key.Matches(msg, m.keys.Quit) {
		m.quitting = true
		m.Close()
		return tea.Quit
	}
	if key.Matches(msg, m.keys.Toggle) {
		m.controller.Toggle()
		return nil
	}
	ev := keyEvent(msg.Key())
	m.pendingKey = keytip.NormalizeKey(ev.Key)
	if m.controller.HandleKeyDown(ev) == keytip.Consumed {
		return nil
	}
	if m.sheet.Editing() {
		return m.updateEditor(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		m.sheet.MoveCursor(-1, 0)
	case key.Matches(msg, m.keys.Down):
		m.sheet.MoveCursor(1, 0)
	case key.Matches(msg, m.keys.Left):
		m.sheet.MoveCursor(0, -1)
	case key.Matches(msg, m.keys.Right):
		m.sheet.MoveCursor(0, 1)
	case key.Matches(msg, m.keys.ExtendUp):
		m.sheet.ExtendSelection(-1, 0)
	case key.Matches(msg, m.keys.ExtendDown):
		m.sheet.ExtendSelection(1, 0)
	case key.Matches(msg, m.keys.ExtendLeft):
		m.sheet.ExtendSelection(0, -1)
	case key.Matches(msg, m.keys.ExtendRight):
		m.sheet.ExtendSelection(0, 1)
	case key.Matches(msg, m.keys.SelectAll):
		m.sheet.SelectAll()
	case key.Matches(msg, m.keys.Edit):
		return m.beginEdit("", false)
	case key.Matches(msg, m.keys.Clear):
		m.sheet.ClearRange(m.sheet.ActiveSelection())
	case key.Matches(msg, m.keys.Copy):
		m.copySelection(false)
	case key.Matches(msg, m.keys.Cut):
		m.copySelection(true)
	case key.Matches(msg, m.keys.Debug):
		m.debugVisible = !m.debugVisible
	default:
		if msg.Text != "" && ev.IsPrintable() {
			return m.beginEdit(msg.Text, true)
		}
	}
	return nil
}

// beginEdit starts editing the cursor cell. With replace the cell text is
// replaced by initial, as when typing over a cell.
func (m *Model) beginEdit(initial string, replace bool) tea.Cmd {
	if !m.sheet.StartEdit() {
		m.setStatus("edit blocked while key tips are active", true)
		return nil
	}
	text := m.sheet.EditBuffer()
	if replace {
		text = initial
		m.sheet.SetEditBuffer(text)
	}
	m.input.SetValue(text)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *Model) updateEditor(msg tea.Msg) tea.Cmd {
	if kp, ok := msg.(tea.KeyPressMsg); ok {
		switch kp.Key().Code {
		case tea.KeyEnter:
			m.sheet.EndEdit()
			m.sheet.MoveCursor(1, 0)
			return nil
		case tea.KeyTab:
			m.sheet.EndEdit()
			m.sheet.MoveCursor(0, 1)
			return nil
		case tea.KeyEscape:
			m.sheet.CancelEdit()
			return nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.sheet.SetEditBuffer(m.input.Value())
	return cmd
}

// syncEditor blurs the text input once the grid has left edit mode, for
// example when activating key tips committed the edit.
func (m *Model) syncEditor() {
	if !m.sheet.Editing() && m.input.Focused() {
		m.input.Blur()
		m.input.SetValue("")
	}
}

func (m *Model) copySelection(cut bool) {
	sel := m.sheet.ActiveSelection()
	text := m.sheet.CopyText(sel)
	m.capture.Observe(text)
	if err := CopyToClipboard(text); err != nil {
		m.log.V(1).Info("system clipboard unavailable", "error", err.Error())
	}
	verb := "copied"
	if cut {
		m.sheet.ClearRange(sel)
		verb = "cut"
	}
	m.setStatus(fmt.Sprintf("%s %s", verb, sel), false)
}

func (m *Model) handlePaste(msg tea.PasteMsg) tea.Cmd {
	if m.sheet.Editing() {
		return m.updateEditor(msg)
	}
	if m.controller.Active() {
		return nil
	}
	m.capture.Observe(msg.Content)
	m.setStatus(fmt.Sprintf("clipboard captured, %s H V V pastes values", m.controller.Platform().Label), false)
	return nil
}

func (m *Model) handleClick(msg tea.MouseClickMsg) {
	ev := keytip.ClickEvent{X: msg.X, Y: msg.Y, InsideOverlay: m.inOverlay(msg)}
	if m.controller.HandleClick(ev) == keytip.Consumed {
		return
	}
	if msg.Button != tea.MouseLeft {
		return
	}
	row, col, ok := m.cellAt(msg.X, msg.Y)
	if !ok {
		return
	}
	if m.sheet.Editing() {
		m.sheet.EndEdit()
	}
	if msg.Mod.Contains(tea.ModShift) {
		cur := m.sheet.Cursor()
		m.sheet.ExtendSelection(row-cur.Row, col-cur.Col)
		return
	}
	m.sheet.SetCursor(row, col)
}

func (m *Model) inOverlay(msg tea.MouseMsg) bool {
	return m.zones.Get(overlayZone).InBounds(msg)
}

// observe records controller transitions for the status line and the
// debug panel.
func (m *Model) observe(t keytip.Transition, snap keytip.Snapshot) {
	m.events.add("%-11s %s", t, strings.Join(snap.Path, " "))
	switch t {
	case keytip.TransitionActivated, keytip.TransitionAdvanced, keytip.TransitionBacktracked:
		m.lastPath = snap.Path
		m.status = ""
	case keytip.TransitionCommitted:
		keys := append([]string{snap.Prefix}, m.lastPath...)
		m.setStatus("ran "+strings.Join(append(keys, m.pendingKey), " "), false)
		m.lastPath = nil
	case keytip.TransitionCancelled:
		m.lastPath = nil
	}
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

// ConfigChangedMsg is sent when the config file changes on disk.
type ConfigChangedMsg struct {
	Path string
}

// reload re-reads the config and swaps the registry. On any error the
// previous registry stays active.
func (m *Model) reload(msg ConfigChangedMsg) {
	cfg, err := config.Load(msg.Path)
	if err != nil {
		m.log.Error(err, "config reload failed", "path", msg.Path)
		m.setStatus("config reload failed: "+err.Error(), true)
		return
	}
	cmds, err := m.buildRegistry(cfg)
	if err == nil {
		err = m.controller.Reload(cmds)
	}
	if err != nil {
		m.log.Error(err, "registry reload failed", "path", msg.Path)
		m.setStatus("registry reload failed: "+err.Error(), true)
		return
	}
	m.cfg = cfg
	m.keys = DefaultKeyMap(cfg.KeyTips.FallbackKey)
	m.styles = newStyles(ThemeFromConfig(cfg.UI.Theme), m.noColor)
	m.events.limit = cfg.MaxDebugEvents()
	m.setStatus(fmt.Sprintf("reloaded %d commands", len(cmds)), false)
}
