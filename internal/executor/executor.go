package executor

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Run executes an external command, returning its stdout. Stderr is
// captured and folded into the error so helper tool failures stay
// debuggable.
func Run(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("command %q failed: %w\nstderr: %s", name, err, msg)
		}
		return "", fmt.Errorf("command %q failed: %w", name, err)
	}

	return stdout.String(), nil
}

// LookPath reports whether a binary is available on PATH.
func LookPath(name string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%s not found on PATH: %w", name, err)
	}
	return path, nil
}
