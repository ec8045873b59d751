package gh

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusContext(t *testing.T) {
	tests := []struct {
		name     string
		pipeline string
		want     string
	}{
		{name: "plain pipeline", pipeline: "all", want: "revcheck/all"},
		{name: "trims whitespace", pipeline: "  test  ", want: "revcheck/test"},
		{name: "spaces become dashes", pipeline: "cargo test", want: "revcheck/cargo-test"},
		{name: "shell metacharacters sanitized", pipeline: "echo $(pwd)", want: "revcheck/echo--pwd"},
		{name: "lowercased", pipeline: "Build", want: "revcheck/build"},
		{name: "empty falls back to prefix", pipeline: "", want: "revcheck"},
		{name: "only junk falls back to prefix", pipeline: "///", want: "revcheck"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusContext(tt.pipeline))
		})
	}
}

func TestStatusContextLengthLimit(t *testing.T) {
	got := StatusContext(strings.Repeat("a", 100))
	assert.LessOrEqual(t, len(got), 63)
	assert.True(t, strings.HasPrefix(got, "revcheck/"))
	assert.False(t, strings.HasSuffix(got, "-"))
}

func TestTruncateDescription(t *testing.T) {
	assert.Equal(t, "short", truncateDescription("  short  "))

	long := strings.Repeat("x", 200)
	got := truncateDescription(long)
	assert.Len(t, got, 140)
	assert.True(t, strings.HasSuffix(got, "..."))
}
