// Package app glues configuration, the git collaborators, and the revision
// runner together into the revcheck flow.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/rancher/revcheck/internal/command"
	"github.com/rancher/revcheck/internal/event"
	"github.com/rancher/revcheck/internal/git"
	gh "github.com/rancher/revcheck/internal/github"
	"github.com/rancher/revcheck/internal/output"
	"github.com/rancher/revcheck/internal/pipeline"
	"github.com/rancher/revcheck/internal/revision"
	"github.com/rancher/revcheck/internal/runner"
)

// Runner wires the resolvers, the git repository, and the checkout iterator
// together to execute one scan.
type Runner struct {
	cfg       Config
	log       *slog.Logger
	ghFactory gh.Factory
	repo      git.Repo         // only set for testing via NewRunnerWithDeps
	commands  command.Runner   // only set for testing via NewRunnerWithDeps
	printer   *output.Printer  // only set for testing via NewRunnerWithDeps
}

// NewRunner constructs a Runner with the supplied configuration.
func NewRunner(cfg Config) (*Runner, error) {
	logger, err := NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	return &Runner{
		cfg:       cfg,
		log:       logger,
		ghFactory: gh.NewRESTFactory(cfg.GitHubBaseURL, cfg.GitHubUploadURL),
	}, nil
}

// NewRunnerWithDeps constructs a Runner with injected dependencies for testing.
func NewRunnerWithDeps(cfg Config, log *slog.Logger, ghFactory gh.Factory, repo git.Repo, commands command.Runner, printer *output.Printer) *Runner {
	return &Runner{cfg: cfg, log: log, ghFactory: ghFactory, repo: repo, commands: commands, printer: printer}
}

// Run executes the scan using the provided context. The returned error
// carries the process exit code via output.GetExitCode.
func (r *Runner) Run(ctx context.Context) error {
	if r.log != nil {
		r.log.Info("starting revision check", "command", r.cfg.Command, "raw", r.cfg.RawCommand, "dry_run", r.cfg.DryRun)
	}

	repo := r.repo
	if repo == nil {
		repo = git.NewShellRepo(r.cfg.Dir)
	}

	printer := r.printer
	if printer == nil {
		printer = output.NewPrinter(os.Stdout, os.Stderr)
	}

	commands := r.commands
	if commands == nil {
		commands = command.NewShellRunner(os.Stdout, os.Stderr)
	}

	spec, err := r.resolvePipeline()
	if err != nil {
		return err
	}

	dirty, err := repo.IsDirty(ctx)
	if err != nil {
		return output.NewUnexpectedWithCause("read working tree status", err)
	}
	if dirty && r.log != nil {
		r.log.Info("working tree is dirty, checking it in place", "revisions", "current")
	}

	revArgs := r.revisionArgs(dirty)

	revs, err := revision.NewResolver(repo).Resolve(ctx, revArgs, dirty)
	if err != nil {
		return err
	}

	runCfg := runner.Config{Dir: r.cfg.Dir, Dirty: dirty, DryRun: r.cfg.DryRun}
	iter := runner.New(runCfg, repo, commands, r.buildStatusReporter(ctx, spec), printer, r.log)

	result, runErr := iter.Run(ctx, revs, spec)

	if err := r.writeStepSummary(result); err != nil && r.log != nil {
		r.log.Warn("failed to write step summary", "error", err)
	}

	if runErr == nil && r.log != nil {
		r.log.Info("revision check passed", "revisions", len(result.Revisions), "pipeline", string(result.Pipeline))
	}

	return runErr
}

func (r *Runner) resolvePipeline() (pipeline.Spec, error) {
	if r.cfg.RawCommand {
		spec, err := pipeline.ResolveRaw(r.cfg.Command)
		if err != nil {
			return pipeline.Spec{}, output.NewBadInputWithCause("resolve raw command", err)
		}
		return spec, nil
	}

	overrides, err := pipeline.LoadOverrides(r.cfg.Dir)
	if err != nil {
		return pipeline.Spec{}, output.NewBadInputWithCause("load pipeline overrides", err)
	}

	spec, err := pipeline.NewResolverWithOverrides(overrides).Resolve(r.cfg.Command)
	if err != nil {
		if errors.Is(err, pipeline.ErrEmptyPipeline) {
			return pipeline.Spec{}, output.NewUnexpectedWithCause("resolve pipeline", err)
		}
		return pipeline.Spec{}, output.NewBadInputWithCause("resolve pipeline", err)
	}
	return spec, nil
}

// revisionArgs returns the revision arguments for the scan. When none were
// given on a clean tree inside a GitHub Actions push run, the pushed
// before..after range is used instead of the single HEAD default.
func (r *Runner) revisionArgs(dirty bool) []string {
	if len(r.cfg.RevisionArgs) > 0 || dirty {
		return r.cfg.RevisionArgs
	}

	if strings.TrimSpace(os.Getenv("GITHUB_EVENT_NAME")) != "push" {
		return nil
	}
	eventPath := strings.TrimSpace(os.Getenv("GITHUB_EVENT_PATH"))
	if eventPath == "" {
		return nil
	}

	payload, err := event.ParsePushEventFile(eventPath)
	if err != nil {
		if r.log != nil {
			r.log.Warn("failed to parse push event, falling back to HEAD", "error", err)
		}
		return nil
	}

	rng, ok := payload.Range()
	if !ok {
		return nil
	}

	if r.log != nil {
		r.log.Info("using pushed revision range", "range", rng, "ref", payload.Ref)
	}
	return []string{rng}
}

func (r *Runner) buildStatusReporter(ctx context.Context, spec pipeline.Spec) gh.StatusReporter {
	if r.cfg.DryRun || r.cfg.GitHubToken == "" {
		return gh.NewNoopStatusReporter()
	}

	owner, name, ok := splitRepository(r.cfg.GitHubRepository)
	if !ok {
		return gh.NewNoopStatusReporter()
	}

	reporter, err := r.ghFactory.New(ctx, r.cfg.GitHubToken, owner, name, string(spec.Name))
	if err != nil {
		if r.log != nil {
			r.log.Warn("commit-status reporting disabled", "error", err)
		}
		return gh.NewNoopStatusReporter()
	}

	if r.log != nil {
		r.log.Debug("commit-status reporting enabled", "repository", r.cfg.GitHubRepository)
	}
	return reporter
}
