// Package command executes pipeline commands as blocking shell invocations.
package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Runner executes a single shell command and reports its exit status.
type Runner interface {
	// Run executes command via the shell in dir, blocking until completion.
	// It returns the command's exit code; err is non-nil only when the
	// command could not be started at all.
	Run(ctx context.Context, dir, command string) (int, error)
}

// ShellRunner executes commands through "sh -c", streaming output to the
// configured writers.
type ShellRunner struct {
	// Shell is the shell binary. Defaults to "sh" when empty.
	Shell string

	// Stdout and Stderr receive the command's output. Nil writers discard.
	Stdout io.Writer
	Stderr io.Writer
}

// NewShellRunner returns a Runner that executes commands with sh -c.
func NewShellRunner(stdout, stderr io.Writer) *ShellRunner {
	return &ShellRunner{Stdout: stdout, Stderr: stderr}
}

func (r *ShellRunner) shell() string {
	if r.Shell == "" {
		return "sh"
	}
	return r.Shell
}

func (r *ShellRunner) Run(ctx context.Context, dir, command string) (int, error) {
	if strings.TrimSpace(command) == "" {
		return 0, fmt.Errorf("command cannot be empty")
	}

	cmd := exec.CommandContext(ctx, r.shell(), "-c", command)
	cmd.Dir = dir
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	setProcessGroup(cmd)

	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("start %q: %w", command, err)
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	select {
	case <-ctx.Done():
		terminateProcessGroup(cmd)
		<-done
		return 0, ctx.Err()
	case err := <-done:
		if err == nil {
			return 0, nil
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return 0, fmt.Errorf("wait for %q: %w", command, err)
	}
}
