// Package ghaction covers the surface between the process and the GitHub
// Actions runner: step output values and workflow-command log rendering.
package ghaction

import (
	"fmt"
	"log/slog"
	"os"
)

// IsRunner reports whether the process is executing under a GitHub Actions
// runner.
func IsRunner() bool {
	return os.Getenv("GITHUB_ACTIONS") == "true"
}

// SetOutput publishes a step output value by appending a name=value line to
// the file named by GITHUB_OUTPUT. Outside a runner (GITHUB_OUTPUT unset)
// the value is logged instead so local runs still surface it.
func SetOutput(name, value string) error {
	outputFile := os.Getenv("GITHUB_OUTPUT")
	if outputFile == "" {
		slog.Info("Step output (no GITHUB_OUTPUT file)", slog.String("name", name), slog.String("value", value))
		return nil
	}

	f, err := os.OpenFile(outputFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open output file %s: %w", outputFile, err)
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "%s=%s\n", name, value); err != nil {
		return fmt.Errorf("failed to write output %s: %w", name, err)
	}
	return nil
}
