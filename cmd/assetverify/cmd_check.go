package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ochairo/assetverify/cmd/assetverify/internal/clierr"
	"github.com/ochairo/assetverify/internal/domain-adapters/gateways"
	orchestrators "github.com/ochairo/assetverify/internal/domain-orchestrators"
	"github.com/ochairo/assetverify/internal/domain/entities"
	"github.com/ochairo/assetverify/internal/domain/services"
)

func newCheckCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Run the fixture checklist and then verify the repository",
		Long: `Runs the fixture checklist, then the four verification steps.

Verification does not run when the environment item of the checklist fails
or when MCP_GITHUB_TOKEN or GITHUB_EVAL_ORG is not set.`,
		Example: `  assetverify check --repo-dir ./fixture-repo`,
		Args:    usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()
			return runCheck(ctx, cmd, opts)
		},
	}
}

func runCheck(ctx context.Context, cmd *cobra.Command, opts *options) error {
	cfg, err := opts.loadConfig(ctx)
	if err != nil {
		return err
	}

	env, err := opts.loadEnv(append(entities.DefaultEnvKeys(), cfg.Fixture.EnvKeys...))
	if err != nil {
		return err
	}

	signer, err := opts.signatureVerifier(cfg)
	if err != nil {
		return err
	}

	repo := opts.repositoryGateway(env.Get(entities.EnvGitHubToken))
	checksums := gateways.NewChecksumVerifier()
	orch := orchestrators.NewAssetOrchestrator(
		services.NewFixtureService(repo, checksums, opts.logger),
		services.NewVerificationService(repo, checksums, signer, opts.logger),
		opts.logger,
	)

	result, err := orch.PerformWorkflow(ctx, env.Get(entities.EnvGitHubOrg), cfg, env)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
	} else {
		if err := writeReport(out, "fixture", result.Fixture, len(result.Fixture.Steps), false); err != nil {
			return err
		}
		_, _ = fmt.Fprintln(out)
		if result.Blocked {
			_, _ = fmt.Fprintf(out, "⛔ verify skipped: %s\n", result.BlockReason)
		} else if err := writeReport(out, "verify", result.Verification, services.VerificationSteps, false); err != nil {
			return err
		}
	}

	switch {
	case result.Blocked:
		return clierr.New(clierr.CodeEnvironment, result.BlockReason)
	case !result.Passed():
		return clierr.New(clierr.CodeVerifyFailed, "check failed")
	}
	return nil
}
