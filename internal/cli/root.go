// Package cli implements the command-line interface for revcheck.
package cli

import (
	"github.com/rancher/revcheck/internal/app"
	"github.com/rancher/revcheck/internal/output"
	"github.com/spf13/cobra"
)

var (
	rawCommand bool
	dryRun     bool
	verbose    bool
	directory  string
	logLevel   string
	logFormat  string
)

var rootCmd = &cobra.Command{
	Use:   "revcheck [-r] <fmt|clippy|build|test|all|command> [rev1 [rev2 ...]]",
	Short: "Run a verification pipeline over a range of git revisions",
	Long: `revcheck checks out each commit of a revision range in order and runs a
pipeline of verification commands, stopping at the first failure and
restoring the original HEAD afterwards.

Revision selection:
  no revision          the most recent commit reachable from HEAD
  one revision         the most recent commit reachable from it
  two revisions a b    every commit in (a, b], oldest first
  a..b or 3+ args      passed to git rev-list as-is, oldest first
A dirty working tree is checked in place without any checkout.

Examples:
  revcheck all                    # fmt, clippy, build, test on HEAD
  revcheck test v1.2.0 HEAD       # tests on every commit after v1.2.0
  revcheck clippy main..topic     # lint the topic branch commits
  revcheck -r "make ci" HEAD~3 HEAD`,
	Args:          cobra.MinimumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runCheck,
}

func init() {
	rootCmd.Flags().BoolVarP(&rawCommand, "raw-command", "r", false, "Treat the command argument as a literal shell command")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the plan without checking out or running anything")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.Flags().StringVarP(&directory, "directory", "C", "", "Repository directory to operate in (default: current directory)")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.Flags().StringVar(&logFormat, "log-format", "", "Log format: text, json")
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := app.LoadConfig(app.Config{
		Command:      args[0],
		RevisionArgs: args[1:],
		RawCommand:   rawCommand,
		DryRun:       dryRun,
		Verbose:      verbose,
		Dir:          directory,
		LogLevel:     logLevel,
		LogFormat:    logFormat,
	})
	if err != nil {
		return output.NewBadInputWithCause("load config", err)
	}

	runner, err := app.NewRunner(cfg)
	if err != nil {
		return output.NewBadInputWithCause("create runner", err)
	}

	return runner.Run(cmd.Context())
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
