// Package orchestrators coordinates domain services for multi-step use cases.
package orchestrators

import (
	"context"
	"fmt"
	"time"

	"github.com/ochairo/assetverify/internal/domain/entities"
	"github.com/ochairo/assetverify/internal/domain/interfaces"
	"github.com/ochairo/assetverify/internal/domain/interfaces/services"
	domainsvc "github.com/ochairo/assetverify/internal/domain/services"
)

// AssetOrchestrator runs the fixture checklist and then the asset verification
type AssetOrchestrator struct {
	fixtures     services.FixtureService
	verification services.VerificationService
	logger       interfaces.Logger
}

// NewAssetOrchestrator creates a new asset orchestrator
func NewAssetOrchestrator(fixtures services.FixtureService, verification services.VerificationService, logger interfaces.Logger) *AssetOrchestrator {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	return &AssetOrchestrator{
		fixtures:     fixtures,
		verification: verification,
		logger:       logger,
	}
}

// WorkflowResult contains both reports of a complete run
type WorkflowResult struct {
	Fixture          *entities.Report `json:"fixture"`
	Verification     *entities.Report `json:"verification,omitempty"`
	WorkflowDuration time.Duration    `json:"duration_ns"`
	Blocked          bool             `json:"blocked"`
	BlockReason      string           `json:"block_reason,omitempty"`
}

// Passed reports whether both phases ran and passed
func (r *WorkflowResult) Passed() bool {
	return !r.Blocked && r.Fixture != nil && r.Fixture.Passed &&
		r.Verification != nil && r.Verification.Passed
}

// PerformWorkflow checks the fixture, then verifies it.
// Verification is blocked when the environment step of the checklist fails
// or when the GitHub credentials are missing from env, whichever keys the
// checklist was configured with.
func (o *AssetOrchestrator) PerformWorkflow(ctx context.Context, owner string, cfg *entities.VerificationConfig, env entities.EnvRecord) (*WorkflowResult, error) {
	startTime := time.Now()
	result := &WorkflowResult{}

	fixture, err := o.fixtures.Check(ctx, owner, cfg, env)
	if err != nil {
		return nil, fmt.Errorf("fixture check failed: %w", err)
	}
	result.Fixture = fixture

	if reason := blockReason(fixture, env); reason != "" {
		result.Blocked = true
		result.BlockReason = reason
		result.WorkflowDuration = time.Since(startTime)
		o.logger.Warn("verification blocked", interfaces.F("reason", reason))
		return result, nil
	}

	verification, err := o.verification.Verify(ctx, owner, cfg)
	if err != nil {
		return nil, fmt.Errorf("verification failed: %w", err)
	}
	result.Verification = verification
	result.WorkflowDuration = time.Since(startTime)

	o.logger.Info("workflow finished",
		interfaces.F("passed", result.Passed()),
		interfaces.F("duration", result.WorkflowDuration.String()))
	return result, nil
}

func blockReason(fixture *entities.Report, env entities.EnvRecord) string {
	for _, s := range fixture.Steps {
		if s.Step == domainsvc.StepEnvironment && s.Failed() {
			return "environment not ready: " + s.Message
		}
	}
	if creds := domainsvc.CheckEnvironment(env, entities.DefaultEnvKeys()); creds.Failed() {
		return "credentials not set: " + creds.Message
	}
	return ""
}
