package orchestrators

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ochairo/assetverify/internal/domain/entities"
	domainsvc "github.com/ochairo/assetverify/internal/domain/services"
)

type stubFixtureService struct {
	report *entities.Report
	err    error
}

func (s *stubFixtureService) Check(_ context.Context, _ string, _ *entities.VerificationConfig, _ entities.EnvRecord) (*entities.Report, error) {
	return s.report, s.err
}

type stubVerificationService struct {
	report *entities.Report
	calls  int
}

func (s *stubVerificationService) Verify(_ context.Context, _ string, _ *entities.VerificationConfig) (*entities.Report, error) {
	s.calls++
	return s.report, nil
}

func (s *stubVerificationService) CheckStructure(string, []string) entities.StepResult {
	return entities.StepResult{}
}

func (s *stubVerificationService) CheckContentRules(string, []entities.ContentRule) entities.StepResult {
	return entities.StepResult{}
}

func credentials() entities.EnvRecord {
	return entities.EnvRecord{entities.EnvGitHubToken: "ghp_test", entities.EnvGitHubOrg: "acme"}
}

func report(steps ...entities.StepResult) *entities.Report {
	r := &entities.Report{Steps: steps}
	r.Finalize()
	return r
}

func TestPerformWorkflow_Passes(t *testing.T) {
	fixtures := &stubFixtureService{report: report(
		entities.StepResult{Step: domainsvc.StepEnvironment, Status: entities.StatusPass},
		entities.StepResult{Step: domainsvc.StepCommitKeyword, Status: entities.StatusPass},
	)}
	verification := &stubVerificationService{report: report(
		entities.StepResult{Step: domainsvc.StepFileExistence, Status: entities.StatusPass},
	)}

	result, err := NewAssetOrchestrator(fixtures, verification, nil).
		PerformWorkflow(context.Background(), "acme", entities.DefaultVerificationConfig(), credentials())
	require.NoError(t, err)

	assert.True(t, result.Passed())
	assert.False(t, result.Blocked)
	assert.Equal(t, 1, verification.calls)
}

func TestPerformWorkflow_BlockedOnEnvironment(t *testing.T) {
	fixtures := &stubFixtureService{report: report(
		entities.StepResult{Step: domainsvc.StepEnvironment, Status: entities.StatusFail, Message: "missing or empty: MCP_GITHUB_TOKEN"},
	)}
	verification := &stubVerificationService{}

	result, err := NewAssetOrchestrator(fixtures, verification, nil).
		PerformWorkflow(context.Background(), "acme", entities.DefaultVerificationConfig(), entities.EnvRecord{})
	require.NoError(t, err)

	assert.True(t, result.Blocked)
	assert.Contains(t, result.BlockReason, "MCP_GITHUB_TOKEN")
	assert.Nil(t, result.Verification)
	assert.False(t, result.Passed())
	assert.Zero(t, verification.calls)
}

func TestPerformWorkflow_FixtureFailureStillVerifies(t *testing.T) {
	fixtures := &stubFixtureService{report: report(
		entities.StepResult{Step: domainsvc.StepEnvironment, Status: entities.StatusPass},
		entities.StepResult{Step: domainsvc.StepCommitKeyword, Status: entities.StatusFail},
	)}
	verification := &stubVerificationService{report: report(
		entities.StepResult{Step: domainsvc.StepFileExistence, Status: entities.StatusPass},
	)}

	result, err := NewAssetOrchestrator(fixtures, verification, nil).
		PerformWorkflow(context.Background(), "acme", entities.DefaultVerificationConfig(), credentials())
	require.NoError(t, err)

	assert.False(t, result.Blocked)
	require.NotNil(t, result.Verification)
	assert.False(t, result.Passed())
}

func TestPerformWorkflow_FixtureError(t *testing.T) {
	fixtures := &stubFixtureService{err: context.Canceled}

	_, err := NewAssetOrchestrator(fixtures, &stubVerificationService{}, nil).
		PerformWorkflow(context.Background(), "acme", entities.DefaultVerificationConfig(), entities.EnvRecord{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestPerformWorkflow_BlockedOnMissingCredentials(t *testing.T) {
	// the checklist was configured with unrelated keys and passes
	fixtures := &stubFixtureService{report: report(
		entities.StepResult{Step: domainsvc.StepEnvironment, Status: entities.StatusPass},
	)}
	verification := &stubVerificationService{}
	env := entities.EnvRecord{"HOME": "/root", entities.EnvGitHubOrg: "acme"}

	result, err := NewAssetOrchestrator(fixtures, verification, nil).
		PerformWorkflow(context.Background(), "acme", entities.DefaultVerificationConfig(), env)
	require.NoError(t, err)

	assert.True(t, result.Blocked)
	assert.Contains(t, result.BlockReason, entities.EnvGitHubToken)
	assert.NotContains(t, result.BlockReason, entities.EnvGitHubOrg)
	assert.Zero(t, verification.calls)
}
