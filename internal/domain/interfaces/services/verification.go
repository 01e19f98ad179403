// Package services defines interfaces for domain service contracts.
package services

import (
	"context"

	"github.com/ochairo/assetverify/internal/domain/entities"
)

// VerificationService runs the four-step asset verification
// Steps stop at the first failure
type VerificationService interface {
	Verify(ctx context.Context, owner string, cfg *entities.VerificationConfig) (*entities.Report, error)

	// Individual steps, exposed for reuse and testing
	CheckStructure(content string, required []string) entities.StepResult
	CheckContentRules(content string, rules []entities.ContentRule) entities.StepResult
}

// FixtureService runs the fixture preparation checklist
// Every check runs regardless of earlier failures
type FixtureService interface {
	Check(ctx context.Context, owner string, cfg *entities.VerificationConfig, env entities.EnvRecord) (*entities.Report, error)
}
