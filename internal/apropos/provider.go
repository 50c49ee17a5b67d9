package apropos

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sync"
)

// exitNothingAppropriate is the apropos exit status for an empty result.
const exitNothingAppropriate = 16

// Provider looks up manual pages by keyword.
type Provider interface {
	// Search returns every entry matching keyword, in apropos order.
	Search(ctx context.Context, keyword string) ([]Entry, error)
}

// ShellProvider implements Provider by running apropos(1).
type ShellProvider struct {
	path string
	mu   sync.Mutex // One apropos process at a time
}

// NewShellProvider creates a provider that runs the apropos binary at path.
// An empty path means "apropos" from PATH.
func NewShellProvider(path string) *ShellProvider {
	if path == "" {
		path = "apropos"
	}
	return &ShellProvider{path: path}
}

// Search runs "apropos --long keyword" and parses its output.
func (p *ShellProvider) Search(ctx context.Context, keyword string) ([]Entry, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if keyword == "" {
		keyword = "."
	}

	cmd := exec.CommandContext(ctx, p.path, "--long", keyword)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == exitNothingAppropriate {
			return nil, nil
		}
		if msg := bytes.TrimSpace(stderr.Bytes()); len(msg) > 0 {
			return nil, fmt.Errorf("apropos %q: %w: %s", keyword, err, msg)
		}
		return nil, fmt.Errorf("apropos %q: %w", keyword, err)
	}

	return ParseOutput(string(out)), nil
}
