// Package atlantis reads the subset of an atlantis repo config this action
// consumes: the per-project directory list.
package atlantis

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File models an atlantis.yaml repo config. Only fields relevant to target
// resolution are mapped; everything else is ignored by the decoder.
type File struct {
	Version  int       `yaml:"version"`
	Projects []Project `yaml:"projects"`
}

// Project is a single atlantis project entry.
type Project struct {
	Name      string `yaml:"name,omitempty"`
	Dir       string `yaml:"dir"`
	Workspace string `yaml:"workspace,omitempty"`
}

// Load parses the atlantis file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read atlantis file %s: %w", path, err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to unmarshal atlantis file %s: %w", path, err)
	}
	return &f, nil
}

// ProjectDirs returns every project's dir in file order. Duplicates are
// kept: one atlantis project means one generator invocation.
func ProjectDirs(path string) ([]string, error) {
	f, err := Load(path)
	if err != nil {
		return nil, err
	}

	dirs := make([]string, 0, len(f.Projects))
	for _, p := range f.Projects {
		if p.Dir == "" {
			continue
		}
		dirs = append(dirs, p.Dir)
	}
	return dirs, nil
}
