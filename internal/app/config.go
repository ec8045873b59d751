package app

import (
	"fmt"
	"os"
	"strings"
)

const (
	defaultLogLevel  = "info"
	defaultLogFormat = "text"
)

// Config captures runtime options sourced from CLI flags and environment
// variables.
type Config struct {
	// Command is the first positional argument: a symbolic pipeline name, or
	// a literal shell command in raw mode.
	Command string

	// RevisionArgs are the positional arguments after the command.
	RevisionArgs []string

	// RawCommand treats Command as a literal shell command instead of a
	// symbolic pipeline name.
	RawCommand bool

	// DryRun prints the plan without checking out or running anything.
	DryRun bool

	// Dir is the repository directory to operate in; empty means the current
	// working directory.
	Dir string

	LogLevel  string
	LogFormat string
	Verbose   bool

	// GitHubToken enables commit-status reporting when set together with
	// GitHubRepository.
	GitHubToken      string
	GitHubRepository string
	GitHubBaseURL    string
	GitHubUploadURL  string
}

// LoadConfig applies environment overrides and defaults to a flag-populated
// Config, and performs validation.
func LoadConfig(cfg Config) (Config, error) {
	if cfg.LogLevel == "" {
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(envOrDefault("REVCHECK_LOG_LEVEL", defaultLogLevel)))
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = strings.ToLower(strings.TrimSpace(envOrDefault("REVCHECK_LOG_FORMAT", defaultLogFormat)))
	}

	if cfg.GitHubToken == "" {
		cfg.GitHubToken = strings.TrimSpace(os.Getenv("REVCHECK_GITHUB_TOKEN"))
	}
	if cfg.GitHubToken == "" {
		cfg.GitHubToken = strings.TrimSpace(os.Getenv("GITHUB_TOKEN"))
	}
	cfg.GitHubRepository = strings.TrimSpace(os.Getenv("GITHUB_REPOSITORY"))
	cfg.GitHubBaseURL = strings.TrimSpace(os.Getenv("REVCHECK_GITHUB_BASE_URL"))
	cfg.GitHubUploadURL = strings.TrimSpace(os.Getenv("REVCHECK_GITHUB_UPLOAD_URL"))

	cfg.Command = strings.TrimSpace(cfg.Command)
	if cfg.Command == "" {
		return Config{}, fmt.Errorf("no command specified")
	}

	if (cfg.GitHubBaseURL == "") != (cfg.GitHubUploadURL == "") {
		return Config{}, fmt.Errorf("REVCHECK_GITHUB_BASE_URL and REVCHECK_GITHUB_UPLOAD_URL must both be set for GitHub Enterprise")
	}

	supportedFormats := map[string]struct{}{"text": {}, "json": {}}
	if _, ok := supportedFormats[cfg.LogFormat]; !ok {
		return Config{}, fmt.Errorf("unsupported log format %q", cfg.LogFormat)
	}

	if cfg.Verbose {
		cfg.LogLevel = "debug"
	}

	return cfg, nil
}

// splitRepository splits an "owner/name" repository slug.
func splitRepository(slug string) (owner, name string, ok bool) {
	parts := strings.SplitN(strings.TrimSpace(slug), "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
