package config

import (
	"fmt"
	"strings"
)

// Disabled is the sentinel input value that switches an optional
// path-valued input (atlantis-file, find-dir, config-file) off.
const Disabled = "disabled"

// Output methods understood by the generator. "none" leaves the
// generated output unmanaged (printed, not written).
const (
	OutputMethodNone    = "none"
	OutputMethodInject  = "inject"
	OutputMethodReplace = "replace"
)

// Default commit identity used when no push user is configured.
const (
	DefaultPushUserName  = "github-actions[bot]"
	DefaultPushUserEmail = "github-actions[bot]@users.noreply.github.com"
)

// Inputs is the full set of action inputs. Each field binds both to a CLI
// flag and to the INPUT_* environment variable the Actions runner sets, so
// the same binary runs inside a workflow and on a developer machine.
// Inputs is constructed once in main and never mutated afterwards.
type Inputs struct {
	WorkingDir       string `name:"working-dir" env:"INPUT_WORKING_DIR" default:"." help:"Comma separated list of directories to generate docs for."`
	AtlantisFile     string `name:"atlantis-file" env:"INPUT_ATLANTIS_FILE" default:"disabled" help:"Atlantis project file to derive target directories from."`
	FindDir          string `name:"find-dir" env:"INPUT_FIND_DIR" default:"disabled" help:"Root directory to search for Terraform modules."`
	Recursive        bool   `name:"recursive" env:"INPUT_RECURSIVE" default:"false" help:"Generate documentation for submodules recursively."`
	RecursivePath    string `name:"recursive-path" env:"INPUT_RECURSIVE_PATH" default:"modules" help:"Submodule path passed to the generator in recursive mode."`
	OutputFormat     string `name:"output-format" env:"INPUT_OUTPUT_FORMAT" default:"markdown table" help:"Generator output format."`
	OutputMethod     string `name:"output-method" env:"INPUT_OUTPUT_METHOD" default:"inject" enum:"none,inject,replace" help:"How generated docs are written (none, inject, replace)."`
	OutputFile       string `name:"output-file" env:"INPUT_OUTPUT_FILE" default:"README.md" help:"File the generated docs are written to."`
	Template         string `name:"template" env:"INPUT_TEMPLATE" help:"Output template; defaults to the marker wrapper when unset."`
	Args             string `name:"args" env:"INPUT_ARGS" help:"Additional raw arguments passed to the generator."`
	Indention        int    `name:"indention" env:"INPUT_INDENTION" default:"2" help:"Markdown/asciidoc header indentation level."`
	ConfigFile       string `name:"config-file" env:"INPUT_CONFIG_FILE" default:"disabled" help:"Generator config file; overrides most other inputs."`
	GitPush          bool   `name:"git-push" env:"INPUT_GIT_PUSH" default:"false" help:"Commit and push changed docs."`
	GitCommitMessage string `name:"git-commit-message" env:"INPUT_GIT_COMMIT_MESSAGE" default:"terraform-docs: automated action" help:"Commit message used with git-push."`
	GitPushUserName  string `name:"git-push-user-name" env:"INPUT_GIT_PUSH_USER_NAME" help:"Committer name; defaults to the github-actions bot."`
	GitPushUserEmail string `name:"git-push-user-email" env:"INPUT_GIT_PUSH_USER_EMAIL" help:"Committer email; defaults to the github-actions bot."`
	GitPushSignOff   bool   `name:"git-push-sign-off" env:"INPUT_GIT_PUSH_SIGN_OFF" default:"false" help:"Append a Signed-off-by trailer to the commit."`
	FailOnDiff       bool   `name:"fail-on-diff" env:"INPUT_FAIL_ON_DIFF" default:"true" negatable:"" help:"Fail the run when docs changed and git-push is off."`
	RepositoryRoot   string `name:"repository-root" env:"GITHUB_WORKSPACE" default:"." help:"Root of the git checkout all target directories live under."`
}

// AtlantisFileEnabled reports whether an atlantis project file input is active.
func (in *Inputs) AtlantisFileEnabled() bool { return enabled(in.AtlantisFile) }

// FindDirEnabled reports whether the recursive module search input is active.
func (in *Inputs) FindDirEnabled() bool { return enabled(in.FindDir) }

// ConfigFileEnabled reports whether a generator config file is configured.
func (in *Inputs) ConfigFileEnabled() bool { return enabled(in.ConfigFile) }

func enabled(v string) bool {
	v = strings.TrimSpace(v)
	return v != "" && v != Disabled
}

// PushIdentity returns the commit identity, falling back to the bot defaults
// field by field so a partially configured identity still works.
func (in *Inputs) PushIdentity() (name, email string) {
	name, email = in.GitPushUserName, in.GitPushUserEmail
	if name == "" {
		name = DefaultPushUserName
	}
	if email == "" {
		email = DefaultPushUserEmail
	}
	return name, email
}

// Validate checks cross-field constraints kong cannot express.
func (in *Inputs) Validate() error {
	if in.Indention < 1 || in.Indention > 5 {
		return fmt.Errorf("indention must be between 1 and 5, got %d", in.Indention)
	}
	if in.WorkingDir == "" && !in.AtlantisFileEnabled() && !in.FindDirEnabled() {
		return fmt.Errorf("no target directories configured: working-dir is empty and atlantis-file/find-dir are disabled")
	}
	return nil
}
