package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rancher/revcheck/internal/runner"
)

func (r *Runner) writeStepSummary(result runner.Result) error {
	path := strings.TrimSpace(os.Getenv("GITHUB_STEP_SUMMARY"))
	if path == "" {
		return nil
	}

	// Try to ensure directory exists, but don't fail if we can't create it
	// (GitHub Actions should have already set this up)
	dir := filepath.Dir(path)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if mkErr := os.MkdirAll(dir, 0o755); mkErr != nil {
			fmt.Fprintf(os.Stderr, "warning: could not create summary directory: %v\n", mkErr)
		}
	}

	var builder strings.Builder
	builder.WriteString("## Revision check summary\n\n")
	builder.WriteString(renderResultDetails(result))

	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open step summary: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "failed to close step summary file: %v\n", closeErr)
		}
	}()

	if _, err := file.WriteString(builder.String()); err != nil {
		return fmt.Errorf("write step summary: %w", err)
	}

	return nil
}

func renderResultDetails(result runner.Result) string {
	var builder strings.Builder

	if result.Pipeline != "" {
		builder.WriteString(fmt.Sprintf("Pipeline: `%s`\n\n", result.Pipeline))
	}

	if len(result.Revisions) == 0 {
		builder.WriteString("No revisions selected.\n")
		return builder.String()
	}

	builder.WriteString("| Revision | Status | Detail |\n")
	builder.WriteString("| --- | --- | --- |\n")

	for _, rev := range result.Revisions {
		builder.WriteString(fmt.Sprintf("| `%s` | %s | %s |\n",
			rev.Revision.String(),
			summaryStatus(rev.Status),
			summaryDetail(rev)))
	}

	return builder.String()
}

func summaryStatus(status runner.RevisionStatus) string {
	switch status {
	case runner.RevisionStatusPassed:
		return "✅ passed"
	case runner.RevisionStatusFailed:
		return "❌ failed"
	case runner.RevisionStatusCheckoutFail:
		return "❌ checkout failed"
	case runner.RevisionStatusDryRun:
		return "ℹ️ dry run"
	case runner.RevisionStatusNotEvaluated:
		return "⏭ not evaluated"
	default:
		return string(status)
	}
}

func summaryDetail(rev runner.RevisionResult) string {
	switch {
	case rev.FailedCommand != "" && rev.ExitCode != 0:
		return fmt.Sprintf("`%s` exited %d", rev.FailedCommand, rev.ExitCode)
	case rev.FailedCommand != "":
		return fmt.Sprintf("`%s` could not run", rev.FailedCommand)
	case rev.Reason != "":
		return rev.Reason
	default:
		return ""
	}
}
