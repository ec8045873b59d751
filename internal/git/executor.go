package git

import "context"

// Repo exposes the version-control primitives the revision scan needs.
// Implementations may shell out to git or fake the repository for tests.
type Repo interface {
	// CurrentBranch returns the checked-out branch name, or ok=false when
	// HEAD is detached.
	CurrentBranch(ctx context.Context) (branch string, ok bool, err error)

	// Head returns the full SHA of the current HEAD commit.
	Head(ctx context.Context) (string, error)

	// IsDirty reports whether the working tree has uncommitted tracked changes.
	IsDirty(ctx context.Context) (bool, error)

	// Checkout moves the working tree to the given ref.
	Checkout(ctx context.Context, ref string) error

	// ResolveCommit returns the most recent commit reachable from start.
	ResolveCommit(ctx context.Context, start string) (string, error)

	// RevList returns the commits selected by the given rev-list arguments,
	// oldest first.
	RevList(ctx context.Context, args ...string) ([]string, error)
}
