package tui

import (
	"fmt"
	"io"

	"github.com/pkg/browser"
)

// OpenBrowser opens url in the system browser. Output from the launcher is
// discarded so it cannot corrupt the terminal UI.
func OpenBrowser(url string) error {
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
	if err := browser.OpenURL(url); err != nil {
		return fmt.Errorf("browser: %w", err)
	}
	return nil
}
