package export

import (
	"fmt"

	"github.com/atotto/clipboard"
)

var writeClipboard = clipboard.WriteAll

// CopyToClipboard places text on the system clipboard.
func CopyToClipboard(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("failed to copy data: no clipboard utility available")
	}
	if err := writeClipboard(text); err != nil {
		return fmt.Errorf("failed to copy data: %w", err)
	}
	return nil
}
