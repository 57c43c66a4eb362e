// Package resolver determines the list of target directories a run
// processes. Exactly one of three strategies applies, in strict precedence:
// atlantis project file, recursive module search, comma separated
// working-dir list.
package resolver

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/volker-raschek/gh-actions/internal/atlantis"
	"github.com/volker-raschek/gh-actions/internal/config"
	"github.com/volker-raschek/gh-actions/internal/logfields"
	"github.com/volker-raschek/gh-actions/internal/util/sets"
)

// Strategy names, surfaced in logs only.
const (
	StrategyAtlantis   = "atlantis-file"
	StrategyFindDir    = "find-dir"
	StrategyWorkingDir = "working-dir"
)

// Resolve produces the ordered target directory list for the given inputs.
func Resolve(in *config.Inputs) ([]string, error) {
	if in.AtlantisFileEnabled() {
		if _, err := os.Stat(in.AtlantisFile); err == nil {
			dirs, err := atlantis.ProjectDirs(in.AtlantisFile)
			if err != nil {
				return nil, err
			}
			slog.Debug("Resolved target directories", logfields.Strategy(StrategyAtlantis), slog.Int("count", len(dirs)))
			return dirs, nil
		}
		slog.Debug("Atlantis file not found, falling through", logfields.Path(in.AtlantisFile))
	}

	if in.FindDirEnabled() {
		dirs, err := findModuleDirs(in.FindDir)
		if err != nil {
			return nil, err
		}
		slog.Debug("Resolved target directories", logfields.Strategy(StrategyFindDir), slog.Int("count", len(dirs)))
		return dirs, nil
	}

	dirs := splitWorkingDirs(in.WorkingDir)
	slog.Debug("Resolved target directories", logfields.Strategy(StrategyWorkingDir), slog.Int("count", len(dirs)))
	return dirs, nil
}

// findModuleDirs walks root for Terraform source files and maps each to its
// containing directory. WalkDir visits lexically, so the result is
// deterministic; the set suppresses one-entry-per-file duplication.
func findModuleDirs(root string) ([]string, error) {
	seen := sets.New[string]()
	var dirs []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".tf") {
			return nil
		}
		dir := filepath.Dir(path)
		if seen.Has(dir) {
			return nil
		}
		seen.Add(dir)
		dirs = append(dirs, dir)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search %s for Terraform modules: %w", root, err)
	}
	return dirs, nil
}

// splitWorkingDirs splits the comma separated working-dir input, dropping
// empty segments.
func splitWorkingDirs(workingDir string) []string {
	parts := strings.Split(workingDir, ",")
	dirs := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			dirs = append(dirs, trimmed)
		}
	}
	return dirs
}
