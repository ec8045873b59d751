// Package pipeline resolves symbolic pipeline names into ordered lists of
// shell commands to run on each revision.
package pipeline

import (
	"errors"
	"fmt"
	"strings"
)

// Name identifies a pipeline as a closed set of variants.
type Name string

const (
	Fmt    Name = "fmt"
	Clippy Name = "clippy"
	Build  Name = "build"
	Test   Name = "test"
	All    Name = "all"

	// Raw marks a literal user-supplied command, bypassing the name table.
	Raw Name = "raw"
)

// allOrder is the fixed execution order of the combined pipeline.
var allOrder = []Name{Fmt, Clippy, Build, Test}

var (
	// ErrUnknownPipeline marks a symbolic name outside the known set.
	ErrUnknownPipeline = errors.New("unknown pipeline")

	// ErrEmptyPipeline marks a pipeline that resolved to no commands. The
	// built-in table never produces this; it guards override files.
	ErrEmptyPipeline = errors.New("pipeline defines no commands")
)

// defaultCommands maps each single pipeline to its command string.
var defaultCommands = map[Name]string{
	Fmt:    "cargo fmt -- --check",
	Clippy: "cargo clippy --all-targets --all-features -- -D warnings",
	Build:  "cargo build --verbose",
	Test:   "cargo test --verbose",
}

// Spec is an immutable ordered list of shell commands.
type Spec struct {
	Name     Name
	Commands []string
}

// Resolver maps pipeline names to command lists, honoring any overrides
// loaded from the repository configuration file.
type Resolver struct {
	overrides Overrides
}

// NewResolver returns a Resolver using the built-in command table.
func NewResolver() *Resolver {
	return &Resolver{}
}

// NewResolverWithOverrides returns a Resolver that consults the given
// overrides before the built-in table.
func NewResolverWithOverrides(ov Overrides) *Resolver {
	return &Resolver{overrides: ov}
}

// ResolveRaw wraps a literal user-supplied command as a single-element
// pipeline, bypassing symbolic-name validation entirely.
func ResolveRaw(command string) (Spec, error) {
	command = strings.TrimSpace(command)
	if command == "" {
		return Spec{}, fmt.Errorf("raw command cannot be empty")
	}
	return Spec{Name: Raw, Commands: []string{command}}, nil
}

// Resolve maps a symbolic pipeline name to its ordered command list.
func (r *Resolver) Resolve(raw string) (Spec, error) {
	name := Name(strings.TrimSpace(raw))

	switch name {
	case Fmt, Clippy, Build, Test:
		cmd, err := r.commandFor(name)
		if err != nil {
			return Spec{}, err
		}
		return Spec{Name: name, Commands: []string{cmd}}, nil
	case All:
		commands := make([]string, 0, len(allOrder))
		for _, n := range allOrder {
			cmd, err := r.commandFor(n)
			if err != nil {
				return Spec{}, err
			}
			commands = append(commands, cmd)
		}
		return Spec{Name: All, Commands: commands}, nil
	}

	if spec, ok := r.overrides.Extra[string(name)]; ok {
		commands := trimNonEmpty(spec)
		if len(commands) == 0 {
			return Spec{}, fmt.Errorf("pipeline %q: %w", name, ErrEmptyPipeline)
		}
		return Spec{Name: name, Commands: commands}, nil
	}

	return Spec{}, fmt.Errorf("%w: %q", ErrUnknownPipeline, raw)
}

func (r *Resolver) commandFor(name Name) (string, error) {
	if ov := strings.TrimSpace(r.overrides.forName(name)); ov != "" {
		return ov, nil
	}
	cmd, ok := defaultCommands[name]
	if !ok || strings.TrimSpace(cmd) == "" {
		return "", fmt.Errorf("pipeline %q: %w", name, ErrEmptyPipeline)
	}
	return cmd, nil
}

func trimNonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
