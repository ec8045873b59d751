package runner

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rancher/revcheck/internal/git"
)

// StateGuard owns the original HEAD ref for the duration of a scan. It is
// snapshotted before the first checkout and restored exactly once on every
// exit path.
type StateGuard struct {
	repo     git.Repo
	ref      string
	dirty    bool
	restored bool
	log      *slog.Logger
}

// Snapshot captures the current ref: the checked-out branch name when on a
// branch, else the detached HEAD SHA.
func Snapshot(ctx context.Context, repo git.Repo, dirty bool, log *slog.Logger) (*StateGuard, error) {
	branch, onBranch, err := repo.CurrentBranch(ctx)
	if err != nil {
		return nil, fmt.Errorf("read current branch: %w", err)
	}

	ref := branch
	if !onBranch {
		ref, err = repo.Head(ctx)
		if err != nil {
			return nil, fmt.Errorf("read detached HEAD: %w", err)
		}
	}

	return &StateGuard{repo: repo, ref: ref, dirty: dirty, log: log}, nil
}

// Ref returns the captured ref.
func (g *StateGuard) Ref() string {
	return g.ref
}

// Restore checks the captured ref out again. A dirty tree is never touched,
// so restoration is a no-op by policy in that case. Restore failure is
// logged, not propagated: the scan outcome must survive a failed
// restoration.
func (g *StateGuard) Restore(ctx context.Context) {
	if g.restored {
		return
	}
	g.restored = true

	if g.dirty {
		return
	}

	if err := g.repo.Checkout(ctx, g.ref); err != nil {
		if g.log != nil {
			g.log.Error("failed to restore original HEAD", "ref", g.ref, "error", err)
		}
	}
}
