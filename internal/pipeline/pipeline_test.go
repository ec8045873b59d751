package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveSinglePipelines(t *testing.T) {
	r := NewResolver()

	tests := []struct {
		name    string
		command string
	}{
		{"fmt", "cargo fmt -- --check"},
		{"clippy", "cargo clippy --all-targets --all-features -- -D warnings"},
		{"build", "cargo build --verbose"},
		{"test", "cargo test --verbose"},
	}

	for _, tt := range tests {
		spec, err := r.Resolve(tt.name)
		require.NoError(t, err, tt.name)
		assert.Equal(t, Name(tt.name), spec.Name)
		assert.Equal(t, []string{tt.command}, spec.Commands)
	}
}

func TestResolveAllExpandsInFixedOrder(t *testing.T) {
	spec, err := NewResolver().Resolve("all")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"cargo fmt -- --check",
		"cargo clippy --all-targets --all-features -- -D warnings",
		"cargo build --verbose",
		"cargo test --verbose",
	}, spec.Commands)
}

func TestResolveUnknownName(t *testing.T) {
	_, err := NewResolver().Resolve("bench")
	require.ErrorIs(t, err, ErrUnknownPipeline)
}

func TestResolveRawBypassesValidation(t *testing.T) {
	spec, err := ResolveRaw("echo hi")
	require.NoError(t, err)
	assert.Equal(t, []string{"echo hi"}, spec.Commands)

	_, err = ResolveRaw("  ")
	require.Error(t, err)
}

func TestResolveWithOverrides(t *testing.T) {
	ov := Overrides{
		Test: "cargo nextest run",
		Extra: map[string][]string{
			"ci":    {"make lint", "make test"},
			"empty": {"  "},
		},
	}
	r := NewResolverWithOverrides(ov)

	spec, err := r.Resolve("test")
	require.NoError(t, err)
	assert.Equal(t, []string{"cargo nextest run"}, spec.Commands)

	spec, err = r.Resolve("all")
	require.NoError(t, err)
	assert.Equal(t, "cargo nextest run", spec.Commands[3])
	assert.Equal(t, "cargo fmt -- --check", spec.Commands[0])

	spec, err = r.Resolve("ci")
	require.NoError(t, err)
	assert.Equal(t, []string{"make lint", "make test"}, spec.Commands)

	_, err = r.Resolve("empty")
	require.ErrorIs(t, err, ErrEmptyPipeline)
}

func TestLoadOverridesMissingFile(t *testing.T) {
	ov, err := LoadOverrides(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Overrides{}, ov)
}

func TestLoadOverridesParsesFile(t *testing.T) {
	dir := t.TempDir()
	content := `
test = "cargo nextest run"

[pipelines]
ci = ["make lint", "make test"]
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFile), []byte(content), 0o644))

	ov, err := LoadOverrides(dir)
	require.NoError(t, err)
	assert.Equal(t, "cargo nextest run", ov.Test)
	assert.Equal(t, []string{"make lint", "make test"}, ov.Extra["ci"])
}

func TestLoadOverridesMalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFile), []byte("test = ["), 0o644))

	_, err := LoadOverrides(dir)
	require.Error(t, err)
}
