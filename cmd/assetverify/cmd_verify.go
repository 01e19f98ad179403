package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/ochairo/assetverify/cmd/assetverify/internal/clierr"
	"github.com/ochairo/assetverify/internal/domain-adapters/gateways"
	"github.com/ochairo/assetverify/internal/domain/entities"
	"github.com/ochairo/assetverify/internal/domain/services"
	"github.com/ochairo/assetverify/internal/external-adapters/dotenv"
)

func newVerifyCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Verify the target file and commit history of a fixture repository",
		Long: `Runs four checks against the configured target repository and stops at
the first failure:

  1. file existence   the target file exists on its branch
  2. file structure   every required structure string is present
  3. content accuracy stat_match, regex_match and text_match rules hold
  4. commit record    a recent commit message matches msg_pattern

MCP_GITHUB_TOKEN and GITHUB_EVAL_ORG must be set before any check runs.`,
		Example: `  # Verify with the built-in config against GitHub
  assetverify verify

  # Verify a local checkout with a custom config
  assetverify verify --config verify.yaml --repo-dir ./fixture-repo`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()
			return runVerify(ctx, cmd, opts)
		},
	}
}

func runVerify(ctx context.Context, cmd *cobra.Command, opts *options) error {
	cfg, err := opts.loadConfig(ctx)
	if err != nil {
		return err
	}

	env, err := opts.loadEnv(entities.DefaultEnvKeys())
	if err != nil {
		return err
	}
	if err := dotenv.Require(env, opts.envFile, entities.DefaultEnvKeys()...); err != nil {
		return clierr.Wrap(clierr.CodeEnvironment, "environment error", err)
	}

	signer, err := opts.signatureVerifier(cfg)
	if err != nil {
		return err
	}

	token, owner := env.Get(entities.EnvGitHubToken), env.Get(entities.EnvGitHubOrg)
	svc := services.NewVerificationService(
		opts.repositoryGateway(token),
		gateways.NewChecksumVerifier(),
		signer,
		opts.logger,
	)

	report, err := svc.Verify(ctx, owner, cfg)
	if err != nil {
		return err
	}

	if err := writeReport(cmd.OutOrStdout(), "verify", report, services.VerificationSteps, opts.jsonOutput); err != nil {
		return err
	}

	if !report.Passed {
		return clierr.New(clierr.CodeVerifyFailed, "verification failed")
	}
	return nil
}
