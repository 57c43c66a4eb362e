package tfdocs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/volker-raschek/gh-actions/internal/config"
)

func baseInputs() *config.Inputs {
	return &config.Inputs{
		WorkingDir:    ".",
		AtlantisFile:  config.Disabled,
		FindDir:       config.Disabled,
		ConfigFile:    config.Disabled,
		OutputFormat:  "markdown table",
		OutputMethod:  config.OutputMethodInject,
		OutputFile:    "README.md",
		Indention:     2,
		RecursivePath: "modules",
	}
}

func TestBuildBaseArgsIndentGating(t *testing.T) {
	supported := []string{
		"asciidoc", "asciidoc table", "asciidoc document",
		"markdown", "markdown table", "markdown document",
	}
	for _, format := range supported {
		t.Run(format, func(t *testing.T) {
			in := baseInputs()
			in.OutputFormat = format

			base, err := BuildBaseArgs(in)
			require.NoError(t, err)
			assert.Contains(t, base.Args, "--indent")
			assert.Contains(t, base.Args, "2")
		})
	}
}

func TestBuildBaseArgsUnsupportedFormat(t *testing.T) {
	for _, format := range []string{"json", "yaml", "tfvars hcl", ""} {
		in := baseInputs()
		in.OutputFormat = format

		_, err := BuildBaseArgs(in)
		assert.Error(t, err, "format %q must be rejected without a config file", format)
	}
}

func TestBuildBaseArgsUnsupportedFormatAllowedWithConfigFile(t *testing.T) {
	in := baseInputs()
	in.OutputFormat = "json"
	in.ConfigFile = ".terraform-docs.yml"

	base, err := BuildBaseArgs(in)
	require.NoError(t, err)
	assert.NotContains(t, base.Args, "--indent")
	assert.Empty(t, base.Template, "no default template when a config file drives the run")
}

func TestBuildBaseArgsDefaultTemplate(t *testing.T) {
	in := baseInputs()

	base, err := BuildBaseArgs(in)
	require.NoError(t, err)
	assert.Equal(t, "<!-- BEGIN_TF_DOCS -->\n{{ .Content }}\n<!-- END_TF_DOCS -->", base.Template)
}

func TestBuildBaseArgsOrdering(t *testing.T) {
	in := baseInputs()
	in.Args = "--sort-by required --hide providers"

	base, err := BuildBaseArgs(in)
	require.NoError(t, err)

	// Format tokens first, extra args after, so extra args win flag conflicts.
	assert.Equal(t, []string{"markdown", "table", "--sort-by", "required", "--hide", "providers", "--indent", "2"}, base.Args)
}

func TestDirArgsDoesNotMutateBase(t *testing.T) {
	in := baseInputs()
	base, err := BuildBaseArgs(in)
	require.NoError(t, err)
	prefix := append([]string(nil), base.Args...)

	first := DirArgs(in, base, ".", "modules/a")
	second := DirArgs(in, base, ".", "modules/b")

	assert.Equal(t, prefix, base.Args, "shared prefix must stay untouched")
	assert.Equal(t, "modules/a", first[len(first)-1])
	assert.Equal(t, "modules/b", second[len(second)-1])
	assert.NotContains(t, second, "modules/a")
}

func TestDirArgsOutputFlags(t *testing.T) {
	in := baseInputs()
	base, err := BuildBaseArgs(in)
	require.NoError(t, err)

	args := DirArgs(in, base, ".", ".")
	assert.Contains(t, args, "--output-mode")
	assert.Contains(t, args, "inject")
	assert.Contains(t, args, "--output-file")
	assert.Contains(t, args, "README.md")
	assert.Contains(t, args, "--output-template")
}

func TestDirArgsOutputMethodNone(t *testing.T) {
	in := baseInputs()
	in.OutputMethod = config.OutputMethodNone
	base, err := BuildBaseArgs(in)
	require.NoError(t, err)

	args := DirArgs(in, base, ".", ".")
	assert.NotContains(t, args, "--output-mode")
	assert.NotContains(t, args, "--output-file")
}

func TestDirArgsRecursive(t *testing.T) {
	in := baseInputs()
	in.Recursive = true
	base, err := BuildBaseArgs(in)
	require.NoError(t, err)

	args := DirArgs(in, base, ".", ".")
	assert.Contains(t, args, "--recursive")
	assert.Contains(t, args, "--recursive-path")
	assert.Contains(t, args, "modules")
}

func TestDirArgsConfigFileResolution(t *testing.T) {
	root := t.TempDir()

	// Config file at the repository root wins.
	rooted := filepath.Join(root, ".terraform-docs.yml")
	require.NoError(t, os.WriteFile(rooted, []byte("formatter: markdown\n"), 0o600))

	in := baseInputs()
	in.ConfigFile = ".terraform-docs.yml"
	base, err := BuildBaseArgs(in)
	require.NoError(t, err)

	args := DirArgs(in, base, root, "modules/a")
	idx := indexOf(args, "--config")
	require.GreaterOrEqual(t, idx, 0)
	abs, err := filepath.Abs(rooted)
	require.NoError(t, err)
	assert.Equal(t, abs, args[idx+1])

	// Without a root-level file the path resolves against the target dir.
	require.NoError(t, os.Remove(rooted))
	args = DirArgs(in, base, root, "modules/a")
	idx = indexOf(args, "--config")
	require.GreaterOrEqual(t, idx, 0)
	assert.Equal(t, filepath.Join("modules/a", ".terraform-docs.yml"), args[idx+1])
}

func indexOf(list []string, want string) int {
	for i, v := range list {
		if v == want {
			return i
		}
	}
	return -1
}
