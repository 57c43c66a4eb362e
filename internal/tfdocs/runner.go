package tfdocs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"

	"github.com/volker-raschek/gh-actions/internal/logfields"
)

// DefaultBinary is the generator executable resolved on PATH.
const DefaultBinary = "terraform-docs"

// Runner executes the documentation generator for one target directory.
type Runner interface {
	Run(ctx context.Context, dir string, args []string) error
}

// ExitError reports a generator invocation that terminated with a non-zero
// status. The run propagates Code as its own exit status.
type ExitError struct {
	Dir  string
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("terraform-docs failed for %s with exit code %d", e.Dir, e.Code)
}

func (e *ExitError) Unwrap() error { return e.Err }

// ExecRunner invokes the terraform-docs binary via os/exec, streaming its
// output through to the step log.
type ExecRunner struct {
	Binary string
}

// NewExecRunner returns a runner using the default binary name.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{Binary: DefaultBinary}
}

func (r *ExecRunner) Run(ctx context.Context, dir string, args []string) error {
	binary := r.Binary
	if binary == "" {
		binary = DefaultBinary
	}

	slog.Debug("Invoking generator", logfields.Dir(dir), slog.String("binary", binary), slog.Any("args", args))

	// #nosec G204 -- fixed binary name, args assembled from validated inputs
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		var ee *exec.ExitError
		if errors.As(err, &ee) {
			return &ExitError{Dir: dir, Code: ee.ExitCode(), Err: err}
		}
		return fmt.Errorf("failed to invoke %s: %w", binary, err)
	}
	return nil
}
