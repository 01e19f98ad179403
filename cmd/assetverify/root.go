package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ochairo/assetverify/cmd/assetverify/internal/clierr"
	"github.com/ochairo/assetverify/internal/domain/entities"
	"github.com/ochairo/assetverify/internal/domain/interfaces"
	"github.com/ochairo/assetverify/internal/external-adapters/zaplog"
)

// options are the flags shared by every subcommand
type options struct {
	configPath string
	envFile    string
	repoDir    string
	apiURL     string
	jsonOutput bool
	verbose    bool
	timeout    time.Duration

	logger interfaces.Logger
}

func newRootCmd() *cobra.Command {
	version := os.Getenv("ASSETVERIFY_VERSION")
	if version == "" {
		version = "0.0.0-dev"
	}

	opts := &options{logger: &interfaces.NoOpLogger{}}
	var zlog *zaplog.Logger

	cmd := &cobra.Command{
		Use:   "assetverify",
		Short: "assetverify - verify fixture repositories on GitHub or in a local checkout",
		Long: `assetverify checks that a fixture repository has the expected shape:
a target file with the required structure and content, commit history
containing a keyword, and the credentials the checks depend on.

Credentials are read from .mcp_env (MCP_GITHUB_TOKEN, GITHUB_EVAL_ORG);
variables already set in the environment take precedence.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		// A root Args validator keeps cobra from resolving unknown subcommands
		// itself, so they reach RunE and get the usage exit code
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return clierr.Newf(clierr.CodeUsage, "unknown command %q for %q", args[0], cmd.CommandPath())
			}
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			zlog, err = zaplog.New(opts.verbose)
			if err != nil {
				return err
			}
			opts.logger = zlog
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if zlog != nil {
				_ = zlog.Sync()
			}
		},
	}

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return clierr.Wrap(clierr.CodeUsage, "invalid flag", err)
	})

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "verification config (YAML); built-in default when empty")
	flags.StringVar(&opts.envFile, "env-file", entities.DefaultEnvFile, "dotenv file holding MCP_GITHUB_TOKEN and GITHUB_EVAL_ORG")
	flags.StringVar(&opts.repoDir, "repo-dir", "", "verify a local git checkout instead of the GitHub API")
	flags.StringVar(&opts.apiURL, "api-url", "", "GitHub API base URL (default https://api.github.com)")
	flags.BoolVar(&opts.jsonOutput, "json", false, "print the report as JSON")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	flags.DurationVar(&opts.timeout, "timeout", 2*time.Minute, "overall deadline for the run")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number of assetverify",
		Args:  usageArgs(cobra.NoArgs),
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "assetverify version %s\n", version)
		},
	})
	cmd.AddCommand(newVerifyCmd(opts))
	cmd.AddCommand(newFixtureCmd(opts))
	cmd.AddCommand(newCheckCmd(opts))

	return cmd
}

// usageArgs reports argument validation failures with the usage exit code
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return clierr.Wrap(clierr.CodeUsage, "invalid arguments", err)
		}
		return nil
	}
}
