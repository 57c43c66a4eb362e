package syncer

import (
	"context"
	"errors"
	"testing"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/volker-raschek/gh-actions/internal/config"
	"github.com/volker-raschek/gh-actions/internal/tfdocs"
)

// fakeRunner records invocations and optionally fails on one directory.
type fakeRunner struct {
	invocations []string
	args        map[string][]string
	failOn      string
	failCode    int
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{args: map[string][]string{}}
}

func (r *fakeRunner) Run(_ context.Context, dir string, args []string) error {
	r.invocations = append(r.invocations, dir)
	r.args[dir] = args
	if dir == r.failOn {
		return &tfdocs.ExitError{Dir: dir, Code: r.failCode}
	}
	return nil
}

// fakeRepo models the staging area: Stage only counts paths marked changed.
type fakeRepo struct {
	changed map[string]bool
	staged  map[string]bool

	commits  int
	signOffs []bool
	messages []string
	pushes   int
	pushErr  error
}

func newFakeRepo(changed ...string) *fakeRepo {
	r := &fakeRepo{changed: map[string]bool{}, staged: map[string]bool{}}
	for _, p := range changed {
		r.changed[p] = true
	}
	return r
}

func (r *fakeRepo) Stage(path string) error {
	if r.changed[path] {
		r.staged[path] = true
	}
	return nil
}

func (r *fakeRepo) CountStaged() (int, error) {
	return len(r.staged), nil
}

func (r *fakeRepo) Commit(message, _, _ string, signOff bool) (plumbing.Hash, error) {
	r.commits++
	r.messages = append(r.messages, message)
	r.signOffs = append(r.signOffs, signOff)
	// Committing consumes the staging area.
	r.staged = map[string]bool{}
	r.changed = map[string]bool{}
	return plumbing.ZeroHash, nil
}

func (r *fakeRepo) Push(_ context.Context) error {
	r.pushes++
	return r.pushErr
}

func testInputs() *config.Inputs {
	return &config.Inputs{
		WorkingDir:       ".",
		AtlantisFile:     config.Disabled,
		FindDir:          config.Disabled,
		ConfigFile:       config.Disabled,
		OutputFormat:     "markdown table",
		OutputMethod:     config.OutputMethodInject,
		OutputFile:       "README.md",
		Indention:        2,
		GitCommitMessage: "terraform-docs: automated action",
		RepositoryRoot:   ".",
	}
}

func mustBaseArgs(t *testing.T, in *config.Inputs) *tfdocs.BaseArgs {
	t.Helper()
	base, err := tfdocs.BuildBaseArgs(in)
	require.NoError(t, err)
	return base
}

func TestRunProcessesDirectoriesInOrder(t *testing.T) {
	in := testInputs()
	runner := newFakeRunner()
	repo := newFakeRepo("a/README.md", "b/README.md")

	result, err := New(in, runner, repo).Run(context.Background(), []string{"a", "b"}, mustBaseArgs(t, in))
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, runner.invocations)
	assert.Equal(t, 2, result.NumChanged)
	assert.Equal(t, "a", runner.args["a"][len(runner.args["a"])-1], "target dir is the final positional argument")
}

func TestRunFailFast(t *testing.T) {
	in := testInputs()
	in.GitPush = true
	runner := newFakeRunner()
	runner.failOn = "b"
	runner.failCode = 3
	repo := newFakeRepo("a/README.md")

	_, err := New(in, runner, repo).Run(context.Background(), []string{"a", "b", "c"}, mustBaseArgs(t, in))
	require.Error(t, err)

	var exitErr *tfdocs.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 3, exitErr.Code)

	// Third directory never invoked, no partial commit.
	assert.Equal(t, []string{"a", "b"}, runner.invocations)
	assert.Equal(t, 0, repo.commits)

	// Only the first directory's change is staged.
	n, err := repo.CountStaged()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRunFailOnDiff(t *testing.T) {
	in := testInputs()
	in.FailOnDiff = true
	repo := newFakeRepo("a/README.md", "b/README.md")

	result, err := New(in, newFakeRunner(), repo).Run(context.Background(), []string{"a", "b"}, mustBaseArgs(t, in))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDocsOutOfDate)

	// Change count is still reported and no commit exists.
	require.NotNil(t, result)
	assert.Equal(t, 2, result.NumChanged)
	assert.Equal(t, 0, repo.commits)
}

func TestRunFailOnDiffNoChanges(t *testing.T) {
	in := testInputs()
	in.FailOnDiff = true
	repo := newFakeRepo() // nothing changed

	result, err := New(in, newFakeRunner(), repo).Run(context.Background(), []string{"a"}, mustBaseArgs(t, in))
	require.NoError(t, err)
	assert.Equal(t, 0, result.NumChanged)
}

func TestRunPushCommitsAndPushes(t *testing.T) {
	in := testInputs()
	in.GitPush = true
	in.GitPushSignOff = true
	repo := newFakeRepo("a/README.md")

	result, err := New(in, newFakeRunner(), repo).Run(context.Background(), []string{"a"}, mustBaseArgs(t, in))
	require.NoError(t, err)

	assert.True(t, result.Committed)
	assert.True(t, result.Pushed)
	require.Equal(t, 1, repo.commits)
	assert.Equal(t, "terraform-docs: automated action", repo.messages[0])
	assert.True(t, repo.signOffs[0])
	assert.Equal(t, 1, repo.pushes)
}

func TestRunPushSkipsCommitWithoutChanges(t *testing.T) {
	in := testInputs()
	in.GitPush = true
	repo := newFakeRepo()

	result, err := New(in, newFakeRunner(), repo).Run(context.Background(), []string{"a"}, mustBaseArgs(t, in))
	require.NoError(t, err)

	assert.Equal(t, 0, result.NumChanged)
	assert.False(t, result.Committed)
	assert.Equal(t, 0, repo.commits)
	assert.Equal(t, 0, repo.pushes)
}

func TestRunPushFailurePropagates(t *testing.T) {
	in := testInputs()
	in.GitPush = true
	repo := newFakeRepo("a/README.md")
	repo.pushErr = errors.New("remote rejected")

	result, err := New(in, newFakeRunner(), repo).Run(context.Background(), []string{"a"}, mustBaseArgs(t, in))
	require.Error(t, err)
	assert.True(t, result.Committed)
	assert.False(t, result.Pushed)
}

func TestRunSecondPassIsIdempotent(t *testing.T) {
	in := testInputs()
	in.GitPush = true
	repo := newFakeRepo("a/README.md")
	base := mustBaseArgs(t, in)

	first, err := New(in, newFakeRunner(), repo).Run(context.Background(), []string{"a"}, base)
	require.NoError(t, err)
	assert.Equal(t, 1, first.NumChanged)
	assert.Equal(t, 1, repo.commits)

	// With no intervening source changes the second run stages nothing.
	second, err := New(in, newFakeRunner(), repo).Run(context.Background(), []string{"a"}, base)
	require.NoError(t, err)
	assert.Equal(t, 0, second.NumChanged)
	assert.Equal(t, 1, repo.commits, "no commit on a clean second run")
}

func TestRunUnmanagedOutputIsNotStaged(t *testing.T) {
	in := testInputs()
	in.OutputMethod = config.OutputMethodNone
	repo := newFakeRepo("a/README.md")

	result, err := New(in, newFakeRunner(), repo).Run(context.Background(), []string{"a"}, mustBaseArgs(t, in))
	require.NoError(t, err)
	assert.Equal(t, 0, result.NumChanged)
}
