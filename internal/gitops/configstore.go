// Package gitops handles the git side of a sync run: global identity
// management with guaranteed restoration, safe.directory trust, shallow tag
// fetch, staging, change counting, commit and push.
package gitops

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// ConfigStore reads and writes global git configuration values. The git CLI
// backs the real implementation; go-git reads global config but offers no
// write path for it.
type ConfigStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Unset(ctx context.Context, key string) error
	// Append adds a value to a multi-valued key (safe.directory).
	Append(ctx context.Context, key, value string) error
}

// CLIConfigStore shells out to `git config --global`.
type CLIConfigStore struct{}

// Get returns the configured value, or "" when the key is unset. git exits 1
// for unset keys; that is not an error here.
func (s *CLIConfigStore) Get(ctx context.Context, key string) (string, error) {
	// #nosec G204 -- fixed binary name and controlled args
	cmd := exec.CommandContext(ctx, "git", "config", "--global", "--get", key)
	out, err := cmd.Output()
	if err != nil {
		var ee *exec.ExitError
		if errors.As(err, &ee) && ee.ExitCode() == 1 {
			return "", nil
		}
		return "", fmt.Errorf("failed to read git config %s: %w", key, err)
	}
	return string(bytes.TrimSpace(out)), nil
}

func (s *CLIConfigStore) Set(ctx context.Context, key, value string) error {
	return s.run(ctx, "config", "--global", key, value)
}

func (s *CLIConfigStore) Unset(ctx context.Context, key string) error {
	return s.run(ctx, "config", "--global", "--unset", key)
}

func (s *CLIConfigStore) Append(ctx context.Context, key, value string) error {
	return s.run(ctx, "config", "--global", "--add", key, value)
}

func (s *CLIConfigStore) run(ctx context.Context, args ...string) error {
	// #nosec G204 -- fixed binary name and controlled args
	cmd := exec.CommandContext(ctx, "git", args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("git %v failed: %w: %s", args, err, bytes.TrimSpace(out))
	}
	return nil
}
