package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ShellRepo shells out to the system git binary against a local repository.
type ShellRepo struct {
	// Git is the git binary to execute. Defaults to "git" when empty.
	Git string

	// Dir is the repository directory git commands run in. When empty, the
	// process working directory is used.
	Dir string
}

// NewShellRepo returns a Repo backed by system git commands in dir.
func NewShellRepo(dir string) *ShellRepo {
	return &ShellRepo{Dir: dir}
}

func (r *ShellRepo) gitBinary() string {
	if r.Git == "" {
		return "git"
	}
	return r.Git
}

func (r *ShellRepo) CurrentBranch(ctx context.Context) (string, bool, error) {
	out, err := r.capture(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", false, fmt.Errorf("git rev-parse --abbrev-ref HEAD: %w", err)
	}
	branch := strings.TrimSpace(out)
	if branch == "" || branch == "HEAD" {
		// Detached HEAD.
		return "", false, nil
	}
	return branch, true, nil
}

func (r *ShellRepo) Head(ctx context.Context) (string, error) {
	out, err := r.capture(ctx, "rev-parse", "HEAD")
	if err != nil {
		return "", fmt.Errorf("git rev-parse HEAD: %w", err)
	}
	return strings.TrimSpace(out), nil
}

func (r *ShellRepo) IsDirty(ctx context.Context) (bool, error) {
	out, err := r.capture(ctx, "status", "--porcelain", "--untracked-files=no")
	if err != nil {
		return false, fmt.Errorf("git status: %w", err)
	}
	return strings.TrimSpace(out) != "", nil
}

func (r *ShellRepo) Checkout(ctx context.Context, ref string) error {
	if strings.TrimSpace(ref) == "" {
		return fmt.Errorf("checkout ref cannot be empty")
	}
	if err := r.run(ctx, "checkout", "--quiet", ref); err != nil {
		return fmt.Errorf("git checkout %s: %w", ref, err)
	}
	return nil
}

func (r *ShellRepo) ResolveCommit(ctx context.Context, start string) (string, error) {
	out, err := r.capture(ctx, "rev-list", "-1", start)
	if err != nil {
		return "", fmt.Errorf("git rev-list -1 %s: %w", start, err)
	}
	sha := strings.TrimSpace(out)
	if sha == "" {
		return "", fmt.Errorf("no commit reachable from %s", start)
	}
	return sha, nil
}

func (r *ShellRepo) RevList(ctx context.Context, args ...string) ([]string, error) {
	cmdArgs := append([]string{"rev-list", "--reverse"}, args...)
	out, err := r.capture(ctx, cmdArgs...)
	if err != nil {
		return nil, fmt.Errorf("git rev-list %s: %w", strings.Join(args, " "), err)
	}

	var commits []string
	for _, line := range strings.Split(out, "\n") {
		if sha := strings.TrimSpace(line); sha != "" {
			commits = append(commits, sha)
		}
	}
	return commits, nil
}

func (r *ShellRepo) run(ctx context.Context, args ...string) error {
	_, err := r.capture(ctx, args...)
	return err
}

func (r *ShellRepo) capture(ctx context.Context, args ...string) (string, error) {
	if r.Dir != "" {
		args = append([]string{"-C", r.Dir}, args...)
	}

	cmd := exec.CommandContext(ctx, r.gitBinary(), args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		var execErr *exec.Error
		if errors.As(err, &execErr) {
			return "", &GitError{Args: args, Output: stderr.String(), Err: err, NotFound: true}
		}
		return "", &GitError{Args: args, Output: stderr.String(), Err: err}
	}

	return stdout.String(), nil
}

// GitError wraps failures when invoking the git binary.
type GitError struct {
	Args   []string
	Output string
	Err    error

	// NotFound marks failures to locate or start the git binary itself, as
	// opposed to git rejecting the command.
	NotFound bool
}

func (e *GitError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("git %s: %v\n%s", strings.Join(e.Args, " "), e.Err, e.Output)
}

func (e *GitError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsUnknownRevision reports whether err is git rejecting a revision spec, as
// opposed to git itself failing to run.
func IsUnknownRevision(err error) bool {
	var gitErr *GitError
	if !errors.As(err, &gitErr) {
		return false
	}
	if gitErr.NotFound {
		return false
	}
	out := strings.ToLower(gitErr.Output)
	return strings.Contains(out, "unknown revision") ||
		strings.Contains(out, "bad revision") ||
		strings.Contains(out, "ambiguous argument") ||
		strings.Contains(out, "fatal: invalid") ||
		strings.Contains(out, "needed a single revision")
}
