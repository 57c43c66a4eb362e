// Package syncer runs the documentation synchronization workflow: one
// generator invocation per target directory, staging of managed output
// files, change counting, and the final commit/push or fail-on-diff
// decision.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/go-git/go-git/v5/plumbing"

	"github.com/volker-raschek/gh-actions/internal/config"
	"github.com/volker-raschek/gh-actions/internal/logfields"
	"github.com/volker-raschek/gh-actions/internal/tfdocs"
)

// ErrDocsOutOfDate reports staged documentation changes under fail-on-diff.
// The run exits non-zero; the changes stay staged for inspection.
var ErrDocsOutOfDate = errors.New("generated documentation is out of date")

// GitRepo is the slice of repository behavior the syncer depends on.
// *gitops.Repo satisfies it; tests substitute a fake.
type GitRepo interface {
	Stage(path string) error
	CountStaged() (int, error)
	Commit(message, name, email string, signOff bool) (plumbing.Hash, error)
	Push(ctx context.Context) error
}

// Result aggregates what a run did. NumChanged is always populated, even
// when the run afterwards fails on diff.
type Result struct {
	NumChanged int
	Committed  bool
	Pushed     bool
}

// Syncer executes the sync workflow over an immutable input set.
type Syncer struct {
	inputs *config.Inputs
	runner tfdocs.Runner
	repo   GitRepo
}

// New creates a syncer.
func New(inputs *config.Inputs, runner tfdocs.Runner, repo GitRepo) *Syncer {
	return &Syncer{inputs: inputs, runner: runner, repo: repo}
}

// Run processes every target directory in order, strictly sequentially and
// fail-fast: the first generator failure aborts the run with no commit.
// Afterwards it computes the change count and takes the final action.
func (s *Syncer) Run(ctx context.Context, dirs []string, base *tfdocs.BaseArgs) (*Result, error) {
	for _, dir := range dirs {
		start := time.Now()
		args := tfdocs.DirArgs(s.inputs, base, s.inputs.RepositoryRoot, dir)

		if err := s.runner.Run(ctx, dir, args); err != nil {
			return nil, err
		}

		if s.managesOutputFile() {
			if err := s.repo.Stage(s.outputRelPath(dir)); err != nil {
				return nil, err
			}
		}

		slog.Info("Directory synchronized", logfields.Dir(dir),
			logfields.DurationMS(float64(time.Since(start).Microseconds())/1000.0))
	}

	numChanged, err := s.repo.CountStaged()
	if err != nil {
		return nil, err
	}
	result := &Result{NumChanged: numChanged}
	slog.Info("Synchronization finished", slog.Int("directories", len(dirs)), logfields.NumChanged(numChanged))

	switch {
	case s.inputs.GitPush:
		if numChanged == 0 {
			slog.Info("No documentation changes, skipping commit")
			return result, nil
		}
		name, email := s.inputs.PushIdentity()
		if _, err := s.repo.Commit(s.inputs.GitCommitMessage, name, email, s.inputs.GitPushSignOff); err != nil {
			return result, err
		}
		result.Committed = true
		if err := s.repo.Push(ctx); err != nil {
			return result, err
		}
		result.Pushed = true

	case s.inputs.FailOnDiff && numChanged > 0:
		return result, fmt.Errorf("%w: %d file(s) changed", ErrDocsOutOfDate, numChanged)
	}

	return result, nil
}

// managesOutputFile reports whether the generator writes a file this run
// needs to stage.
func (s *Syncer) managesOutputFile() bool {
	return s.inputs.OutputMethod == config.OutputMethodInject ||
		s.inputs.OutputMethod == config.OutputMethodReplace
}

// outputRelPath returns the output file path for dir, relative to the
// repository root as the staging API expects.
func (s *Syncer) outputRelPath(dir string) string {
	p := filepath.Join(dir, s.inputs.OutputFile)
	if !filepath.IsAbs(p) {
		return p
	}
	root, err := filepath.Abs(s.inputs.RepositoryRoot)
	if err != nil {
		return p
	}
	if rel, err := filepath.Rel(root, p); err == nil {
		return rel
	}
	return p
}
