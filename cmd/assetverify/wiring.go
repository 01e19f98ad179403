package main

import (
	"context"

	"github.com/ochairo/assetverify/cmd/assetverify/internal/clierr"
	"github.com/ochairo/assetverify/internal/domain-adapters/gateways"
	"github.com/ochairo/assetverify/internal/domain/entities"
	domaingw "github.com/ochairo/assetverify/internal/domain/interfaces/gateways"
	"github.com/ochairo/assetverify/internal/external-adapters/dotenv"
	"github.com/ochairo/assetverify/internal/external-adapters/gpg"
	"github.com/ochairo/assetverify/internal/external-adapters/yaml"
)

// loadConfig reads the verification config, mapping failures to a usage exit code
func (o *options) loadConfig(ctx context.Context) (*entities.VerificationConfig, error) {
	cfg, err := yaml.NewConfigRepository().Load(ctx, o.configPath)
	if err != nil {
		return nil, clierr.Wrap(clierr.CodeUsage, "invalid configuration", err)
	}
	return cfg, nil
}

// loadEnv reads the env file merged with the process environment
func (o *options) loadEnv(keys []string) (entities.EnvRecord, error) {
	env, err := dotenv.NewEnvLoader().Load(o.envFile, keys...)
	if err != nil {
		return nil, clierr.Wrap(clierr.CodeEnvironment, "environment error", err)
	}
	return env, nil
}

// repositoryGateway selects the local checkout or the GitHub API
func (o *options) repositoryGateway(token string) domaingw.RepositoryGateway {
	if o.repoDir != "" {
		return gateways.NewGitCLIGateway(o.repoDir, o.logger)
	}
	gh := gateways.NewHTTPGitHubGateway(token, o.logger)
	if o.apiURL != "" {
		gh = gh.WithBaseURL(o.apiURL)
	}
	return gh
}

// signatureVerifier loads the configured keyring, or returns nil when signed
// commits are not required
func (o *options) signatureVerifier(cfg *entities.VerificationConfig) (domaingw.SignatureVerifier, error) {
	cv := cfg.CommitVerification
	if cv == nil || !cv.RequireSigned {
		return nil, nil
	}

	v := gpg.NewVerifier()
	if err := v.ImportKeyFromFile(cv.KeyringPath); err != nil {
		return nil, clierr.Wrap(clierr.CodeUsage, "failed to load commit keyring", err)
	}
	return v, nil
}
