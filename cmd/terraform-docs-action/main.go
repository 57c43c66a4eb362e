package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strconv"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/volker-raschek/gh-actions/internal/cleanup"
	"github.com/volker-raschek/gh-actions/internal/config"
	"github.com/volker-raschek/gh-actions/internal/ghaction"
	"github.com/volker-raschek/gh-actions/internal/gitops"
	"github.com/volker-raschek/gh-actions/internal/logfields"
	"github.com/volker-raschek/gh-actions/internal/resolver"
	"github.com/volker-raschek/gh-actions/internal/syncer"
	"github.com/volker-raschek/gh-actions/internal/tfdocs"
	"github.com/volker-raschek/gh-actions/internal/version"
)

var CLI struct {
	config.Inputs

	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `help:"Print version and exit"`
}

func main() {
	// .env is a convenience for local runs; inside a workflow the runner
	// provides the INPUT_* environment.
	_ = godotenv.Load()

	kong.Parse(&CLI,
		kong.Name("terraform-docs-action"),
		kong.Description("Generate Terraform module documentation with terraform-docs and optionally commit the result."),
		kong.Vars{"version": version.Version},
	)

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}

	var handler slog.Handler
	if ghaction.IsRunner() {
		handler = ghaction.NewHandler(os.Stdout, logLevel)
	} else {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
	}
	slog.SetDefault(slog.New(handler))

	if err := run(context.Background(), &CLI.Inputs); err != nil {
		slog.Error("Documentation sync failed", logfields.Error(err))
		os.Exit(exitCode(err))
	}
}

func run(ctx context.Context, inputs *config.Inputs) error {
	slog.Info("Starting documentation sync",
		logfields.RunID(uuid.NewString()),
		slog.String("version", version.Version),
		slog.String("output_format", inputs.OutputFormat),
		slog.String("output_method", inputs.OutputMethod))

	if err := inputs.Validate(); err != nil {
		return err
	}

	// A configuration error must surface before any generator invocation or
	// git mutation.
	base, err := tfdocs.BuildBaseArgs(inputs)
	if err != nil {
		return err
	}

	reg := cleanup.NewRegistry()
	defer reg.Run()
	stopTrap := reg.Trap()
	defer stopTrap()

	preparer := gitops.NewPreparer(&gitops.CLIConfigStore{})
	pushName, pushEmail := inputs.PushIdentity()
	if err := preparer.SetupIdentity(ctx, reg, pushName, pushEmail); err != nil {
		return err
	}
	if err := preparer.TrustRepository(ctx, inputs.RepositoryRoot); err != nil {
		return err
	}

	repo, err := gitops.Open(inputs.RepositoryRoot)
	if err != nil {
		return err
	}
	if err := repo.FetchTags(ctx); err != nil {
		slog.Warn("Tag fetch failed, continuing without tags", logfields.Error(err))
	}

	dirs, err := resolver.Resolve(inputs)
	if err != nil {
		return err
	}

	result, runErr := syncer.New(inputs, tfdocs.NewExecRunner(), repo).Run(ctx, dirs, base)
	if result != nil {
		if err := ghaction.SetOutput("num_changed", strconv.Itoa(result.NumChanged)); err != nil {
			slog.Warn("Failed to write step output", logfields.Error(err))
		}
	}
	return runErr
}

// exitCode propagates the generator's own exit status; every other failure
// exits 1.
func exitCode(err error) int {
	var exitErr *tfdocs.ExitError
	if errors.As(err, &exitErr) && exitErr.Code > 0 {
		return exitErr.Code
	}
	return 1
}
