package tui

import "github.com/oakwood-commons/keytips/internal/ui"

// CopyToClipboard copies text to the system clipboard. The grid uses the
// same writer for its copy and cut bindings.
func CopyToClipboard(text string) error {
	return ui.CopyToClipboard(text)
}
