// Package tfdocs assembles terraform-docs invocations and runs the binary.
package tfdocs

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/volker-raschek/gh-actions/internal/config"
	"github.com/volker-raschek/gh-actions/internal/util/sets"
)

// DefaultTemplate wraps generated content in the conventional marker lines
// so repeated inject runs replace the same region.
const DefaultTemplate = "<!-- BEGIN_TF_DOCS -->\n{{ .Content }}\n<!-- END_TF_DOCS -->"

// Formats that understand --indent. Any other format without a config file
// is a configuration error.
var indentFormats = sets.New(
	"asciidoc", "asciidoc table", "asciidoc document",
	"markdown", "markdown table", "markdown document",
)

// BaseArgs is the invariant argument prefix shared by every target
// directory, plus the effective output template.
type BaseArgs struct {
	Args     []string
	Template string
}

// BuildBaseArgs derives the shared prefix from the inputs. Output format
// tokens come first, then the free-form extra args, so a flag given in both
// resolves in favour of the extra args.
func BuildBaseArgs(in *config.Inputs) (*BaseArgs, error) {
	args := strings.Fields(in.OutputFormat)
	args = append(args, strings.Fields(in.Args)...)

	template := in.Template
	if !in.ConfigFileEnabled() {
		if !indentFormats.Has(in.OutputFormat) {
			return nil, fmt.Errorf("unsupported output format %q: supported formats without a config file are asciidoc[ table| document] and markdown[ table| document]", in.OutputFormat)
		}
		args = append(args, "--indent", strconv.Itoa(in.Indention))

		if template == "" {
			template = DefaultTemplate
		}
	}

	return &BaseArgs{Args: args, Template: template}, nil
}

// DirArgs builds the full argument list for one target directory. The base
// prefix is cloned, never extended in place, so per-directory flags cannot
// leak between iterations.
func DirArgs(in *config.Inputs, base *BaseArgs, repoRoot, dir string) []string {
	args := append([]string(nil), base.Args...)

	if in.ConfigFileEnabled() {
		args = append(args, "--config", resolveConfigFile(in.ConfigFile, repoRoot, dir))
	}

	if in.OutputMethod == config.OutputMethodInject || in.OutputMethod == config.OutputMethodReplace {
		args = append(args, "--output-mode", in.OutputMethod, "--output-file", in.OutputFile)
	}

	if base.Template != "" {
		args = append(args, "--output-template", base.Template)
	}

	if in.Recursive && in.RecursivePath != "" {
		args = append(args, "--recursive", "--recursive-path", in.RecursivePath)
	}

	return append(args, dir)
}

// resolveConfigFile mirrors the upstream lookup: a config file path that
// exists relative to the repository root wins; otherwise the path is taken
// relative to the target directory.
func resolveConfigFile(configFile, repoRoot, dir string) string {
	rooted := filepath.Join(repoRoot, configFile)
	if info, err := os.Stat(rooted); err == nil && !info.IsDir() {
		if abs, err := filepath.Abs(rooted); err == nil {
			return abs
		}
		return rooted
	}
	return filepath.Join(dir, configFile)
}
