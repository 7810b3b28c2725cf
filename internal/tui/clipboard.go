package tui

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/atotto/clipboard"
)

const clipboardTimeout = 5 * time.Second

var errNoClipboard = errors.New("no clipboard available (set tui.clipboard_command)")

// copyText copies text with the configured command, or the platform
// clipboard when none is configured.
func copyText(text, command string) error {
	if strings.TrimSpace(command) != "" {
		return runClipboardCommand(text, command)
	}
	if clipboard.Unsupported {
		return errNoClipboard
	}
	return clipboard.WriteAll(text)
}

func runClipboardCommand(text, command string) error {
	parts := strings.Fields(command)

	ctx, cancel := context.WithTimeout(context.Background(), clipboardTimeout)
	defer cancel()

	c := exec.CommandContext(ctx, parts[0], parts[1:]...)
	c.Stdin = strings.NewReader(text)
	if out, err := c.CombinedOutput(); err != nil {
		if msg := strings.TrimSpace(string(out)); msg != "" {
			return fmt.Errorf("%s: %w: %s", parts[0], err, msg)
		}
		return fmt.Errorf("%s: %w", parts[0], err)
	}
	return nil
}
