// Package services implements domain business logic and use cases.
package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ochairo/assetverify/internal/domain/entities"
	"github.com/ochairo/assetverify/internal/domain/interfaces"
	"github.com/ochairo/assetverify/internal/domain/interfaces/gateways"
	"github.com/ochairo/assetverify/internal/domain/interfaces/services"
)

// Step names, in execution order
const (
	StepFileExistence = "file_existence"
	StepFileStructure = "file_structure"
	StepContentRules  = "content_accuracy"
	StepCommitRecord  = "commit_record"
)

// VerificationSteps is the number of steps a complete verification runs
const VerificationSteps = 4

// verificationService implements VerificationService with pure business logic
type verificationService struct {
	repo      gateways.RepositoryGateway
	checksums gateways.ChecksumVerifier
	signer    gateways.SignatureVerifier
	logger    interfaces.Logger
}

// NewVerificationService creates a new verification service with dependency injection.
// signer may be nil when no config requires signed commits.
func NewVerificationService(
	repo gateways.RepositoryGateway,
	checksums gateways.ChecksumVerifier,
	signer gateways.SignatureVerifier,
	logger interfaces.Logger,
) services.VerificationService {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	return &verificationService{repo: repo, checksums: checksums, signer: signer, logger: logger}
}

// Verify runs file existence, structure, content and commit checks in order.
// The first failing step ends the run; the returned error is reserved for
// problems that are not verification failures.
func (s *verificationService) Verify(ctx context.Context, owner string, cfg *entities.VerificationConfig) (*entities.Report, error) {
	if cfg == nil {
		return nil, fmt.Errorf("verification config is required")
	}

	report := &entities.Report{
		Repository: s.repo.Describe(owner, cfg.TargetRepo),
		Branch:     cfg.TargetFile.Branch,
		File:       cfg.TargetFile.Path,
	}
	defer report.Finalize()

	s.logger.Info("verification started",
		interfaces.F("repository", report.Repository),
		interfaces.F("file", cfg.TargetFile.Path),
		interfaces.F("branch", cfg.TargetFile.Branch))

	existence, content := s.checkFileExistence(ctx, owner, cfg)
	report.Add(existence)
	if existence.Failed() {
		return report, ctx.Err()
	}

	structure := s.CheckStructure(content, cfg.RequiredStructures)
	report.Add(structure)
	if structure.Failed() {
		return report, nil
	}

	rules := s.CheckContentRules(content, cfg.ContentRules)
	report.Add(rules)
	if rules.Failed() {
		return report, nil
	}

	commits := s.checkCommitRecord(ctx, owner, cfg)
	report.Add(commits)
	if !commits.Failed() && cfg.CommitVerification != nil {
		report.MatchedPattern = cfg.CommitVerification.MsgPattern
	}

	return report, ctx.Err()
}

func (s *verificationService) checkFileExistence(ctx context.Context, owner string, cfg *entities.VerificationConfig) (entities.StepResult, string) {
	res := entities.StepResult{Step: StepFileExistence}
	path, branch := cfg.TargetFile.Path, cfg.TargetFile.Branch

	data, err := s.repo.GetFileContent(ctx, owner, cfg.TargetRepo, path, branch)
	switch {
	case errors.Is(err, gateways.ErrNotFound):
		res.Status = entities.StatusFail
		res.Message = fmt.Sprintf("file %s not found on branch %s", path, branch)
		return res, ""
	case err != nil:
		s.logger.Error("failed to fetch target file", interfaces.F("path", path), interfaces.F("error", err))
		res.Status = entities.StatusFail
		res.Message = fmt.Sprintf("file %s could not be read: %v", path, err)
		return res, ""
	case len(data) == 0:
		res.Status = entities.StatusFail
		res.Message = fmt.Sprintf("file %s is empty on branch %s", path, branch)
		return res, ""
	case !utf8.Valid(data):
		res.Status = entities.StatusFail
		res.Message = fmt.Sprintf("file %s is not valid UTF-8 text", path)
		return res, ""
	}

	if cfg.TargetFile.SHA256 != "" {
		if s.checksums == nil {
			res.Status = entities.StatusFail
			res.Message = "checksum configured but no checksum verifier available"
			return res, ""
		}
		if err := s.checksums.VerifyContent(data, cfg.TargetFile.SHA256); err != nil {
			res.Status = entities.StatusFail
			res.Message = fmt.Sprintf("file %s: %v", path, err)
			return res, ""
		}
	}

	res.Status = entities.StatusPass
	res.Message = fmt.Sprintf("file %s exists (%d bytes)", path, len(data))
	return res, string(data)
}

// CheckStructure verifies that every required structure appears in content
// Pure business logic - no I/O
func (s *verificationService) CheckStructure(content string, required []string) entities.StepResult {
	res := entities.StepResult{Step: StepFileStructure}

	var missing []string
	for _, structure := range required {
		if !strings.Contains(content, structure) {
			missing = append(missing, structure)
		}
	}

	if len(missing) > 0 {
		res.Status = entities.StatusFail
		res.Message = "missing required structures: " + strings.Join(missing, ", ")
		return res
	}

	res.Status = entities.StatusPass
	res.Message = fmt.Sprintf("all %d required structures present", len(required))
	return res
}

// CheckContentRules evaluates rules in order and fails on the first mismatch.
// No rules means the step is skipped.
func (s *verificationService) CheckContentRules(content string, rules []entities.ContentRule) entities.StepResult {
	res := entities.StepResult{Step: StepContentRules}

	if len(rules) == 0 {
		res.Status = entities.StatusSkip
		res.Message = "no content rules configured"
		return res
	}

	for _, rule := range rules {
		matched, err := MatchRule(content, rule)
		if err != nil {
			res.Status = entities.StatusFail
			res.Message = fmt.Sprintf("rule %s on %s: %v", rule.Type, rule.Target, err)
			return res
		}
		if !matched {
			res.Status = entities.StatusFail
			res.Message = fmt.Sprintf("content rule failed: %s expected %s, no match", rule.Target, rule.Expected)
			return res
		}
	}

	res.Status = entities.StatusPass
	res.Message = fmt.Sprintf("all %d content rules passed", len(rules))
	return res
}

func (s *verificationService) checkCommitRecord(ctx context.Context, owner string, cfg *entities.VerificationConfig) entities.StepResult {
	res := entities.StepResult{Step: StepCommitRecord}

	cv := cfg.CommitVerification
	if cv == nil {
		res.Status = entities.StatusSkip
		res.Message = "no commit verification configured"
		return res
	}

	pattern, err := regexp.Compile("(?i)" + cv.MsgPattern)
	if err != nil {
		res.Status = entities.StatusFail
		res.Message = fmt.Sprintf("invalid commit pattern %q: %v", cv.MsgPattern, err)
		return res
	}

	commits, err := s.repo.ListCommits(ctx, owner, cfg.TargetRepo, cv.MaxCommits)
	if err != nil {
		s.logger.Error("failed to list commits", interfaces.F("error", err))
		res.Status = entities.StatusFail
		res.Message = fmt.Sprintf("commit history could not be read: %v", err)
		return res
	}

	var unverified []string
	for _, c := range commits {
		if !pattern.MatchString(c.Message) {
			continue
		}
		if !cv.RequireSigned {
			res.Status = entities.StatusPass
			res.Message = fmt.Sprintf("commit %s matches %q", shortSHA(c.SHA), cv.MsgPattern)
			return res
		}
		if s.signer == nil {
			res.Status = entities.StatusFail
			res.Message = "signed commits required but no keyring loaded"
			return res
		}
		if err := s.signer.VerifyCommit(c); err != nil {
			s.logger.Debug("matching commit failed signature check", interfaces.F("sha", c.SHA), interfaces.F("error", err))
			unverified = append(unverified, shortSHA(c.SHA))
			continue
		}
		res.Status = entities.StatusPass
		res.Message = fmt.Sprintf("signed commit %s matches %q", shortSHA(c.SHA), cv.MsgPattern)
		return res
	}

	res.Status = entities.StatusFail
	if len(unverified) > 0 {
		res.Message = fmt.Sprintf("commits matching %q have no valid signature: %s", cv.MsgPattern, strings.Join(unverified, ", "))
		return res
	}
	res.Message = fmt.Sprintf("no commit in the latest %d matches %q", len(commits), cv.MsgPattern)
	return res
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}
