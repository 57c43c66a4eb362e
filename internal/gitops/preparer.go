package gitops

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/volker-raschek/gh-actions/internal/cleanup"
)

// Preparer establishes a deterministic git identity for the run and
// guarantees the previous identity comes back, whatever the exit path.
type Preparer struct {
	store ConfigStore
}

// NewPreparer creates a preparer over the given config store.
func NewPreparer(store ConfigStore) *Preparer {
	return &Preparer{store: store}
}

// SetupIdentity overwrites global user.name and user.email when they differ
// from the wanted identity. For every attribute it overwrites, it registers
// one restoration finalizer with reg; the registry appends, so two
// overridden attributes mean two finalizers, executed in that order.
func (p *Preparer) SetupIdentity(ctx context.Context, reg *cleanup.Registry, name, email string) error {
	for _, kv := range []struct{ key, want string }{
		{"user.name", name},
		{"user.email", email},
	} {
		current, err := p.store.Get(ctx, kv.key)
		if err != nil {
			return err
		}
		if current == kv.want {
			continue
		}

		if err := p.store.Set(ctx, kv.key, kv.want); err != nil {
			return err
		}
		slog.Debug("Overrode git identity attribute", slog.String("key", kv.key))

		key, previous := kv.key, current
		reg.Add(func() {
			var err error
			if previous == "" {
				err = p.store.Unset(context.Background(), key)
			} else {
				err = p.store.Set(context.Background(), key, previous)
			}
			cleanup.LogRestoreFailure("restore "+key, err)
		})
	}
	return nil
}

// TrustRepository marks the checkout as a safe.directory so git tolerates
// the uid mismatch between the runner and the container.
func (p *Preparer) TrustRepository(ctx context.Context, repoRoot string) error {
	abs, err := filepath.Abs(repoRoot)
	if err != nil {
		return fmt.Errorf("failed to resolve repository root %s: %w", repoRoot, err)
	}
	return p.store.Append(ctx, "safe.directory", abs)
}
