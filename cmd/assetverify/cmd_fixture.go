package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/ochairo/assetverify/cmd/assetverify/internal/clierr"
	"github.com/ochairo/assetverify/internal/domain-adapters/gateways"
	"github.com/ochairo/assetverify/internal/domain/entities"
	"github.com/ochairo/assetverify/internal/domain/services"
)

func newFixtureCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "fixture",
		Short: "Check that a fixture repository satisfies the setup checklist",
		Long: `Checks every item of the fixture setup checklist and reports each one:

  - the env file defines non-empty MCP_GITHUB_TOKEN and GITHUB_EVAL_ORG
  - each fixture file exists (docs/analysis-report.md, config/project-config.yaml,
    data/test-data.json, scripts/verification-config.py by default)
  - at least one commit message contains the keyword (分析报告 by default)

Unlike verify, a failed item does not stop the remaining checks.`,
		Example: `  # Check a local fixture checkout
  assetverify fixture --repo-dir ./fixture-repo

  # Check the GitHub repository named in the config, as JSON
  assetverify fixture --config verify.yaml --json`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()
			return runFixture(ctx, cmd, opts)
		},
	}
}

func runFixture(ctx context.Context, cmd *cobra.Command, opts *options) error {
	cfg, err := opts.loadConfig(ctx)
	if err != nil {
		return err
	}

	env, err := opts.loadEnv(cfg.Fixture.EnvKeys)
	if err != nil {
		return err
	}

	svc := services.NewFixtureService(
		opts.repositoryGateway(env.Get(entities.EnvGitHubToken)),
		gateways.NewChecksumVerifier(),
		opts.logger,
	)

	report, err := svc.Check(ctx, env.Get(entities.EnvGitHubOrg), cfg, env)
	if err != nil {
		return err
	}

	if err := writeReport(cmd.OutOrStdout(), "fixture", report, len(report.Steps), opts.jsonOutput); err != nil {
		return err
	}

	if !report.Passed {
		return clierr.New(clierr.CodeVerifyFailed, "fixture check failed")
	}
	return nil
}
