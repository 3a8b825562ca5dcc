package ui

import (
	"strings"

	tea "charm.land/bubbletea/v2"
)

// ApplyStartupKeys simulates keystrokes (Vim-like tokens and literal text)
// against the model. Every key is pressed and released. "<Alt>" and
// "<Meta>" tap the modifier alone, which is how key tips are activated;
// "<A-x>" and "<M-x>" press x while the modifier is held.
func ApplyStartupKeys(m *Model, keys []string) {
	if len(keys) == 0 || m == nil {
		return
	}
	for _, raw := range keys {
		token := strings.TrimSpace(raw)
		if token == "" {
			continue
		}
		// Leading backslash forces literal text (e.g., "\\<f12>").
		if strings.HasPrefix(token, `\`) {
			typeText(m, strings.TrimPrefix(token, `\`))
			continue
		}
		for _, segment := range parseTokenSegments(token) {
			if !segment.isVimKey {
				typeText(m, segment.text)
				continue
			}
			if strokes, ok := keyStrokesFromToken(segment.text); ok {
				for _, k := range strokes {
					send(m, k)
				}
			}
		}
	}
}

// stroke is one key event to deliver.
type stroke struct {
	key     tea.Key
	release bool
}

func send(m *Model, s stroke) {
	if s.release {
		m.Update(tea.KeyReleaseMsg(s.key))
		return
	}
	m.Update(tea.KeyPressMsg(s.key))
}

func typeText(m *Model, text string) {
	for _, r := range text {
		for _, s := range tap(tea.Key{Code: r, Text: string(r)}) {
			send(m, s)
		}
	}
}

func tap(k tea.Key) []stroke {
	return []stroke{{key: k}, {key: k, release: true}}
}

// chord presses mod, taps k with the modifier held, then releases mod.
func chord(modKey rune, mod tea.KeyMod, k tea.Key) []stroke {
	held := tea.Key{Code: modKey, Mod: mod}
	k.Mod |= mod
	k.Text = ""
	out := []stroke{{key: held}}
	out = append(out, tap(k)...)
	return append(out, stroke{key: held, release: true})
}

// tokenSegment represents a parsed segment of a token (either a vim-style key or literal text)
type tokenSegment struct {
	text     string
	isVimKey bool
}

// parseTokenSegments splits a token into segments of vim-style keys and literal text.
// Example: "<Alt>HBB" -> [segment{text: "<Alt>", isVimKey: true}, segment{text: "HBB", isVimKey: false}]
func parseTokenSegments(token string) []tokenSegment {
	var segments []tokenSegment
	remaining := token

	for len(remaining) > 0 {
		startIdx := strings.Index(remaining, "<")
		if startIdx == -1 {
			segments = append(segments, tokenSegment{text: remaining})
			break
		}
		if startIdx > 0 {
			segments = append(segments, tokenSegment{text: remaining[:startIdx]})
		}
		endIdx := strings.Index(remaining[startIdx:], ">")
		if endIdx == -1 {
			// No closing >, treat rest as literal text
			segments = append(segments, tokenSegment{text: remaining[startIdx:]})
			break
		}
		segments = append(segments, tokenSegment{text: remaining[startIdx : startIdx+endIdx+1], isVimKey: true})
		remaining = remaining[startIdx+endIdx+1:]
	}

	return segments
}

var namedKeys = map[string]tea.Key{
	"esc":       {Code: tea.KeyEscape},
	"escape":    {Code: tea.KeyEscape},
	"c-[":       {Code: tea.KeyEscape},
	"cr":        {Code: tea.KeyEnter},
	"enter":     {Code: tea.KeyEnter},
	"return":    {Code: tea.KeyEnter},
	"tab":       {Code: tea.KeyTab},
	"space":     {Code: tea.KeySpace, Text: " "},
	"bs":        {Code: tea.KeyBackspace},
	"backspace": {Code: tea.KeyBackspace},
	"del":       {Code: tea.KeyDelete},
	"delete":    {Code: tea.KeyDelete},
	"left":      {Code: tea.KeyLeft},
	"right":     {Code: tea.KeyRight},
	"up":        {Code: tea.KeyUp},
	"down":      {Code: tea.KeyDown},
	"s-left":    {Code: tea.KeyLeft, Mod: tea.ModShift},
	"s-right":   {Code: tea.KeyRight, Mod: tea.ModShift},
	"s-up":      {Code: tea.KeyUp, Mod: tea.ModShift},
	"s-down":    {Code: tea.KeyDown, Mod: tea.ModShift},
	"home":      {Code: tea.KeyHome},
	"end":       {Code: tea.KeyEnd},
	"c-a":       {Code: 'a', Mod: tea.ModCtrl},
	"c-x":       {Code: 'x', Mod: tea.ModCtrl},
	"c-y":       {Code: 'y', Mod: tea.ModCtrl},
	"f1":        {Code: tea.KeyF1},
	"f2":        {Code: tea.KeyF2},
	"f10":       {Code: tea.KeyF10},
	"f12":       {Code: tea.KeyF12},
}

// keyStrokesFromToken parses a Vim-like token into key events.
// Examples: "<Alt>", "<Meta>", "<A-h>", "<Esc>", "<CR>", "<S-Down>", "<F10>".
// Only <...> forms are treated as keys; everything else is literal text.
func keyStrokesFromToken(token string) ([]stroke, bool) {
	if !strings.HasPrefix(token, "<") || !strings.HasSuffix(token, ">") {
		return nil, false
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(token, "<"), ">")
	lower := strings.ToLower(inner)
	switch lower {
	case "alt", "option":
		return tap(tea.Key{Code: tea.KeyLeftAlt}), true
	case "meta", "cmd", "super":
		return tap(tea.Key{Code: tea.KeyLeftSuper}), true
	}
	if k, ok := namedKeys[lower]; ok {
		return tap(k), true
	}
	if len(inner) == 3 && inner[1] == '-' {
		r := rune(inner[2])
		switch lower[0] {
		case 'a':
			return chord(tea.KeyLeftAlt, tea.ModAlt, tea.Key{Code: r}), true
		case 'm':
			return chord(tea.KeyLeftSuper, tea.ModSuper, tea.Key{Code: r}), true
		}
	}
	return nil, false
}
