package gh

import "context"

// StatusReporter publishes per-revision scan outcomes as GitHub commit
// statuses.
type StatusReporter interface {
	// ReportPending marks the commit as being checked.
	ReportPending(ctx context.Context, sha string) error

	// ReportResult records the final outcome for the commit.
	ReportResult(ctx context.Context, sha string, passed bool, description string) error
}

// Factory builds StatusReporter instances for a repository.
type Factory interface {
	New(ctx context.Context, token, owner, repo, statusContext string) (StatusReporter, error)
}
