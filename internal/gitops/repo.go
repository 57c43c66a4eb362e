package gitops

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/volker-raschek/gh-actions/internal/logfields"
)

// Repo wraps the checkout all target directories live under.
type Repo struct {
	root string
	repo *git.Repository
	wt   *git.Worktree
}

// Open opens the git repository at root.
func Open(root string) (*Repo, error) {
	repo, err := git.PlainOpen(root)
	if err != nil {
		return nil, fmt.Errorf("failed to open repository at %s: %w", root, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree: %w", err)
	}
	return &Repo{root: root, repo: repo, wt: wt}, nil
}

// Root returns the repository root path.
func (r *Repo) Root() string { return r.root }

// FetchTags performs a shallow fetch of all remote tags. Callers treat a
// failure as non-fatal; already-up-to-date is success.
func (r *Repo) FetchTags(ctx context.Context) error {
	err := r.repo.FetchContext(ctx, &git.FetchOptions{
		RemoteName: "origin",
		RefSpecs:   []gitconfig.RefSpec{"+refs/tags/*:refs/tags/*"},
		Depth:      1,
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return fmt.Errorf("failed to fetch tags: %w", err)
	}
	return nil
}

// Stage adds path (relative to the repository root) to the index. Staging is
// idempotent: an unchanged or missing file is a no-op, not an error, so the
// synchronization loop can blindly stage every output file it may have
// touched.
func (r *Repo) Stage(path string) error {
	rel := filepath.ToSlash(filepath.Clean(path))

	if _, err := os.Stat(filepath.Join(r.root, rel)); os.IsNotExist(err) {
		slog.Debug("Output file does not exist, nothing to stage", logfields.Path(rel))
		return nil
	}

	if _, err := r.wt.Add(rel); err != nil {
		return fmt.Errorf("failed to stage %s: %w", rel, err)
	}
	return nil
}

// CountStaged counts index entries with staging status added or modified.
// Deletions and renames are deliberately excluded, matching the change
// semantics the action has always exposed.
func (r *Repo) CountStaged() (int, error) {
	status, err := r.wt.Status()
	if err != nil {
		return 0, fmt.Errorf("failed to read repository status: %w", err)
	}

	count := 0
	for _, fs := range status {
		if fs.Staging == git.Added || fs.Staging == git.Modified {
			count++
		}
	}
	return count, nil
}

// Commit commits the index with the given message and identity. When
// signOff is set, a Signed-off-by trailer is appended unless the message
// already carries one for the same identity.
func (r *Repo) Commit(message, name, email string, signOff bool) (plumbing.Hash, error) {
	if signOff {
		trailer := fmt.Sprintf("Signed-off-by: %s <%s>", name, email)
		if !strings.Contains(message, trailer) {
			message = strings.TrimRight(message, "\n") + "\n\n" + trailer
		}
	}

	hash, err := r.wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  name,
			Email: email,
			When:  time.Now(),
		},
	})
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to commit: %w", err)
	}

	slog.Info("Committed generated documentation", slog.String("commit", hash.String()[:8]))
	return hash, nil
}

// Push pushes the current branch to origin. Already-up-to-date is success.
func (r *Repo) Push(ctx context.Context) error {
	err := r.repo.PushContext(ctx, &git.PushOptions{RemoteName: "origin"})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return fmt.Errorf("failed to push: %w", err)
	}
	return nil
}
