// Package revision turns CLI revision arguments and working-tree state into
// the ordered list of checkout targets for a scan.
package revision

import (
	"context"
	"fmt"
	"strings"

	"github.com/rancher/revcheck/internal/git"
	"github.com/rancher/revcheck/internal/output"
)

// Revision is an opaque commit identifier: a SHA, a symbolic ref, or the
// empty sentinel meaning "the working tree as-is, no checkout".
type Revision string

// Current is the sentinel for operating on the present working tree.
const Current Revision = ""

// IsCurrent reports whether r is the working-tree sentinel.
func (r Revision) IsCurrent() bool {
	return r == Current
}

func (r Revision) String() string {
	if r.IsCurrent() {
		return "current"
	}
	return string(r)
}

// rangeSyntax matches the git two-dot (and three-dot) range operator.
const rangeSyntax = ".."

// Resolver builds checkout-target sequences from raw revision arguments.
type Resolver struct {
	repo git.Repo
}

// NewResolver returns a Resolver querying the given repository.
func NewResolver(repo git.Repo) *Resolver {
	return &Resolver{repo: repo}
}

// Resolve interprets the positional revision arguments together with the
// working-tree dirtiness. The returned sequence is ordered oldest first and
// never empty when err == nil, except for ranges that select no commits.
//
// Priority order:
//  1. dirty tree: exactly [current], no checkout will ever happen;
//  2. zero args, or one arg without the range operator: the single most
//     recent commit reachable from the start point (default HEAD);
//  3. exactly two args (a, b): the commits in (a, b], oldest first;
//  4. anything else: the args go to rev-list verbatim, oldest first.
func (r *Resolver) Resolve(ctx context.Context, args []string, dirty bool) ([]Revision, error) {
	if dirty {
		return []Revision{Current}, nil
	}

	args = trimArgs(args)

	switch {
	case len(args) == 0:
		return r.single(ctx, "HEAD")
	case len(args) == 1 && !strings.Contains(args[0], rangeSyntax):
		return r.single(ctx, args[0])
	case len(args) == 2:
		return r.list(ctx, fmt.Sprintf("%s..%s", args[0], args[1]))
	default:
		// One dangling range arg or 3+ args: delegate to rev-list as-is.
		return r.list(ctx, args...)
	}
}

func (r *Resolver) single(ctx context.Context, start string) ([]Revision, error) {
	sha, err := r.repo.ResolveCommit(ctx, start)
	if err != nil {
		return nil, resolutionError(start, err)
	}
	return []Revision{Revision(sha)}, nil
}

func (r *Resolver) list(ctx context.Context, args ...string) ([]Revision, error) {
	shas, err := r.repo.RevList(ctx, args...)
	if err != nil {
		return nil, resolutionError(strings.Join(args, " "), err)
	}

	revs := make([]Revision, 0, len(shas))
	for _, sha := range shas {
		revs = append(revs, Revision(sha))
	}
	return revs, nil
}

// resolutionError distinguishes git rejecting a revision spec (bad input)
// from git itself failing to run (unexpected).
func resolutionError(spec string, err error) error {
	if git.IsUnknownRevision(err) {
		return output.NewBadInputWithCause(fmt.Sprintf("cannot resolve revision %q", spec), err)
	}
	return output.NewUnexpectedWithCause(fmt.Sprintf("resolve revision %q", spec), err)
}

func trimArgs(args []string) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		if trimmed := strings.TrimSpace(a); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
