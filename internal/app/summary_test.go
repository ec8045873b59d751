package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rancher/revcheck/internal/runner"
)

func TestRenderResultDetailsEmpty(t *testing.T) {
	got := renderResultDetails(runner.Result{Pipeline: "all"})
	if !strings.Contains(got, "No revisions selected.") {
		t.Fatalf("unexpected render: %q", got)
	}
}

func TestRenderResultDetailsTable(t *testing.T) {
	result := runner.Result{
		Pipeline: "all",
		Revisions: []runner.RevisionResult{
			{Revision: "aaa111", Status: runner.RevisionStatusPassed},
			{Revision: "bbb222", Status: runner.RevisionStatusFailed, FailedCommand: "cargo test --verbose", ExitCode: 101},
			{Revision: "ccc333", Status: runner.RevisionStatusNotEvaluated},
		},
	}

	got := renderResultDetails(result)

	for _, want := range []string{
		"Pipeline: `all`",
		"| `aaa111` | ✅ passed |",
		"| `bbb222` | ❌ failed | `cargo test --verbose` exited 101 |",
		"| `ccc333` | ⏭ not evaluated |",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("summary missing %q in:\n%s", want, got)
		}
	}
}

func TestWriteStepSummaryAppendsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.md")
	t.Setenv("GITHUB_STEP_SUMMARY", path)

	r := &Runner{}
	result := runner.Result{
		Pipeline:  "test",
		Revisions: []runner.RevisionResult{{Revision: "aaa111", Status: runner.RevisionStatusPassed}},
	}

	if err := r.writeStepSummary(result); err != nil {
		t.Fatalf("writeStepSummary failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read summary: %v", err)
	}
	if !strings.Contains(string(data), "## Revision check summary") {
		t.Fatalf("summary content: %q", data)
	}
}

func TestWriteStepSummaryNoopWithoutEnv(t *testing.T) {
	t.Setenv("GITHUB_STEP_SUMMARY", "")

	r := &Runner{}
	if err := r.writeStepSummary(runner.Result{}); err != nil {
		t.Fatalf("writeStepSummary failed: %v", err)
	}
}
