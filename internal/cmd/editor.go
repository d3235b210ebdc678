package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// ErrInterrupted is returned when the description editor does not exit
// cleanly. The issue is left unchanged.
var ErrInterrupted = errors.New("editor did not exit cleanly")

// resolveEditor picks the editor command: $VISUAL, then $EDITOR, then the
// configured editor.
func (a *App) resolveEditor() (string, error) {
	for _, candidate := range []string{a.getenv("VISUAL"), a.getenv("EDITOR"), a.Config.Editor} {
		if strings.TrimSpace(candidate) != "" {
			return candidate, nil
		}
	}
	return "", errors.New("no suitable editor found: set $VISUAL, $EDITOR or the editor config key")
}

// editText opens initial in the editor on a temporary .txt file and returns
// the edited text with surrounding whitespace trimmed.
func (a *App) editText(ctx context.Context, initial string) (string, error) {
	editor, err := a.resolveEditor()
	if err != nil {
		return "", err
	}

	tmpFile, err := os.CreateTemp("", "cobweb-description-*.txt")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if _, err := tmpFile.WriteString(initial); err != nil {
		tmpFile.Close()
		return "", fmt.Errorf("writing to temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return "", fmt.Errorf("closing temp file: %w", err)
	}

	// The editor setting may carry arguments, e.g. "code --wait".
	fields := strings.Fields(editor)
	editorCmd := exec.CommandContext(ctx, fields[0], append(fields[1:], tmpPath)...)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr

	a.logger().Debug("running editor", "editor", editor, "file", tmpPath)
	if err := editorCmd.Run(); err != nil {
		return "", fmt.Errorf("%s: %w: %v", editor, ErrInterrupted, err)
	}

	data, err := os.ReadFile(tmpPath)
	if err != nil {
		return "", fmt.Errorf("reading edited file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}
