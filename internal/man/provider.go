package man

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"sync"
)

// Provider fetches rendered manual pages.
type Provider interface {
	// Page returns the plain-text page formatted for width columns.
	Page(ctx context.Context, page, section string, width int) (string, error)
}

// ShellProvider implements Provider by running man(1).
type ShellProvider struct {
	path string
	mu   sync.Mutex
}

// NewShellProvider creates a provider for the man binary at path.
// An empty path means "man" from PATH.
func NewShellProvider(path string) *ShellProvider {
	if path == "" {
		path = "man"
	}
	return &ShellProvider{path: path}
}

// Page runs "man section page" with paging and SGR output disabled.
func (p *ShellProvider) Page(ctx context.Context, page, section string, width int) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	args := []string{page}
	if section != "" {
		args = []string{section, page}
	}

	cmd := exec.CommandContext(ctx, p.path, args...)
	cmd.Env = append(os.Environ(),
		"MANPAGER=cat",
		"PAGER=cat",
		"GROFF_NO_SGR=1",
		"MAN_KEEP_FORMATTING=",
	)
	if width > 0 {
		cmd.Env = append(cmd.Env, "MANWIDTH="+strconv.Itoa(width))
	}

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := bytes.TrimSpace(stderr.Bytes()); len(msg) > 0 {
			return "", fmt.Errorf("man %s(%s): %w: %s", page, section, err, msg)
		}
		return "", fmt.Errorf("man %s(%s): %w", page, section, err)
	}
	return Clean(string(out)), nil
}
