// Package runner walks the resolved revision sequence, checking each one out
// and executing the pipeline commands, with guaranteed HEAD restoration.
package runner

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rancher/revcheck/internal/command"
	"github.com/rancher/revcheck/internal/git"
	gh "github.com/rancher/revcheck/internal/github"
	"github.com/rancher/revcheck/internal/output"
	"github.com/rancher/revcheck/internal/pipeline"
	"github.com/rancher/revcheck/internal/revision"
)

// RevisionStatus describes the evaluation state of one revision.
type RevisionStatus string

const (
	RevisionStatusPassed       RevisionStatus = "passed"
	RevisionStatusFailed       RevisionStatus = "failed"
	RevisionStatusCheckoutFail RevisionStatus = "checkout_failed"
	RevisionStatusNotEvaluated RevisionStatus = "not_evaluated"
	RevisionStatusDryRun       RevisionStatus = "dry_run"
)

// RevisionResult captures the per-revision outcome of a scan.
type RevisionResult struct {
	Revision      revision.Revision
	Status        RevisionStatus
	FailedCommand string
	ExitCode      int
	Reason        string
}

// Result captures the outcome of a whole scan. OriginalRef is the ref the
// tree is returned to.
type Result struct {
	Revisions   []RevisionResult
	OriginalRef string
	Pipeline    pipeline.Name
}

// Config captures the runtime controls the runner needs.
type Config struct {
	// Dir is the repository directory commands execute in.
	Dir string

	// Dirty marks a working tree with uncommitted changes; no checkout or
	// restoration happens when set.
	Dirty bool

	// DryRun prints the plan without checking anything out or running
	// commands.
	DryRun bool
}

// Runner is the single-pass, first-failure-stops-everything iterator over
// revisions and commands.
type Runner struct {
	cfg      Config
	repo     git.Repo
	commands command.Runner
	statuses gh.StatusReporter
	printer  *output.Printer
	log      *slog.Logger
}

// New returns a configured Runner. statuses may be nil when commit-status
// reporting is disabled.
func New(cfg Config, repo git.Repo, commands command.Runner, statuses gh.StatusReporter, printer *output.Printer, log *slog.Logger) *Runner {
	if statuses == nil {
		statuses = gh.NewNoopStatusReporter()
	}
	return &Runner{cfg: cfg, repo: repo, commands: commands, statuses: statuses, printer: printer, log: log}
}

// Run checks out each revision in order and executes the pipeline commands,
// stopping at the first failure. The original HEAD is restored on every exit
// path; the returned Result is best-effort complete even when err != nil.
func (r *Runner) Run(ctx context.Context, revs []revision.Revision, spec pipeline.Spec) (Result, error) {
	result := Result{Pipeline: spec.Name}

	if len(spec.Commands) == 0 {
		return result, output.NewUnexpected(fmt.Sprintf("pipeline %q resolved to no commands", spec.Name))
	}

	if r.cfg.DryRun {
		for _, rev := range revs {
			r.printer.Banner(rev.String())
			for _, cmd := range spec.Commands {
				r.printer.Announce(cmd)
			}
			result.Revisions = append(result.Revisions, RevisionResult{Revision: rev, Status: RevisionStatusDryRun, Reason: "dry run enabled"})
		}
		return result, nil
	}

	guard, err := Snapshot(ctx, r.repo, r.cfg.Dirty, r.log)
	if err != nil {
		return result, output.NewUnexpectedWithCause("snapshot original HEAD", err)
	}
	result.OriginalRef = guard.Ref()
	defer guard.Restore(ctx)

	for i, rev := range revs {
		res, err := r.runRevision(ctx, rev, spec)
		result.Revisions = append(result.Revisions, res)

		if err != nil {
			// First failure stops everything: remaining revisions are not
			// evaluated, not skipped.
			for _, rest := range revs[i+1:] {
				result.Revisions = append(result.Revisions, RevisionResult{Revision: rest, Status: RevisionStatusNotEvaluated})
			}
			return result, err
		}
	}

	r.printer.Done(len(revs))
	return result, nil
}

func (r *Runner) runRevision(ctx context.Context, rev revision.Revision, spec pipeline.Spec) (RevisionResult, error) {
	res := RevisionResult{Revision: rev, Status: RevisionStatusPassed}

	r.printer.Banner(rev.String())

	if !rev.IsCurrent() && !r.cfg.Dirty {
		if err := r.repo.Checkout(ctx, string(rev)); err != nil {
			res.Status = RevisionStatusCheckoutFail
			res.Reason = err.Error()
			r.printer.Errorf("checkout %s: %v", rev, err)
			return res, output.NewUnexpectedWithCause(fmt.Sprintf("checkout %s", rev), err)
		}
	}

	r.reportPending(ctx, rev)

	for _, cmd := range spec.Commands {
		r.printer.Announce(cmd)
		if r.log != nil {
			r.log.Debug("running pipeline command", "revision", rev.String(), "command", cmd)
		}

		exitCode, err := r.commands.Run(ctx, r.cfg.Dir, cmd)
		if err != nil {
			res.Status = RevisionStatusFailed
			res.FailedCommand = cmd
			res.Reason = err.Error()
			r.reportResult(ctx, rev, false, fmt.Sprintf("%s could not run", cmd))
			return res, output.NewUnexpectedWithCause(fmt.Sprintf("run %q on %s", cmd, rev), err)
		}

		if exitCode != 0 {
			res.Status = RevisionStatusFailed
			res.FailedCommand = cmd
			res.ExitCode = exitCode
			r.printer.NG(rev.String(), cmd, exitCode)
			r.reportResult(ctx, rev, false, fmt.Sprintf("%s failed (exit %d)", cmd, exitCode))
			return res, output.NewCommandFailed(fmt.Sprintf("%q failed on %s with exit code %d", cmd, rev, exitCode))
		}

		r.printer.OK()
	}

	r.reportResult(ctx, rev, true, fmt.Sprintf("pipeline %s passed", spec.Name))
	return res, nil
}

func (r *Runner) reportPending(ctx context.Context, rev revision.Revision) {
	if rev.IsCurrent() {
		return
	}
	if err := r.statuses.ReportPending(ctx, string(rev)); err != nil && r.log != nil {
		r.log.Warn("failed to report pending commit status", "revision", rev.String(), "error", err)
	}
}

func (r *Runner) reportResult(ctx context.Context, rev revision.Revision, passed bool, description string) {
	if rev.IsCurrent() {
		return
	}
	if err := r.statuses.ReportResult(ctx, string(rev), passed, description); err != nil && r.log != nil {
		r.log.Warn("failed to report commit status", "revision", rev.String(), "error", err)
	}
}
