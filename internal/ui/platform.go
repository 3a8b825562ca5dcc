package ui

import (
	"github.com/atotto/clipboard"
)

// copyToClipboardFn is the active clipboard writer. Tests replace it via
// StubPlatformActions to prevent side effects.
var copyToClipboardFn = clipboard.WriteAll

// CopyToClipboard copies text to the system clipboard.
func CopyToClipboard(text string) error { return copyToClipboardFn(text) }

// StubPlatformActions replaces the clipboard writer with a recorder and
// returns a restore function. Use in tests to prevent side effects.
func StubPlatformActions() (copied *[]string, restore func()) {
	orig := copyToClipboardFn
	var got []string
	copyToClipboardFn = func(text string) error {
		got = append(got, text)
		return nil
	}
	return &got, func() { copyToClipboardFn = orig }
}
