package ui

import (
	"unicode"
	"unicode/utf8"

	tea "charm.land/bubbletea/v2"

	"github.com/oakwood-commons/keytips/pkg/keytip"
)

// keyEvent translates a Bubble Tea key into the controller's key model.
// Modifier keys are only delivered on terminals that report all keys as
// escape codes; elsewhere the configured fallback key toggles the mode.
func keyEvent(k tea.Key) keytip.KeyEvent {
	return keytip.KeyEvent{
		Key:    keyName(k),
		Mods:   modifiers(k.Mod),
		Repeat: k.IsRepeat,
	}
}

func keyName(k tea.Key) string {
	switch k.Code {
	case tea.KeyLeftAlt, tea.KeyRightAlt:
		return keytip.KeyAlt
	case tea.KeyLeftSuper, tea.KeyRightSuper, tea.KeyLeftMeta, tea.KeyRightMeta:
		return keytip.KeyMeta
	case tea.KeyLeftCtrl, tea.KeyRightCtrl:
		return keytip.KeyControl
	case tea.KeyLeftShift, tea.KeyRightShift:
		return keytip.KeyShift
	case tea.KeyEscape:
		return keytip.KeyEscape
	case tea.KeyBackspace:
		return keytip.KeyBackspace
	case tea.KeyEnter:
		return keytip.KeyEnter
	case tea.KeyTab:
		return keytip.KeyTab
	}
	if k.Text != "" && utf8.RuneCountInString(k.Text) == 1 {
		return k.Text
	}
	// Alt and Ctrl combos arrive without text.
	if k.Code < tea.KeyExtended && unicode.IsPrint(k.Code) {
		return string(k.Code)
	}
	return k.String()
}

func modifiers(mod tea.KeyMod) keytip.Modifier {
	var out keytip.Modifier
	if mod.Contains(tea.ModShift) {
		out |= keytip.ModShift
	}
	if mod.Contains(tea.ModCtrl) {
		out |= keytip.ModCtrl
	}
	if mod.Contains(tea.ModAlt) {
		out |= keytip.ModAlt
	}
	if mod.Contains(tea.ModMeta) || mod.Contains(tea.ModSuper) {
		out |= keytip.ModMeta
	}
	return out
}
