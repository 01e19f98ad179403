package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ochairo/assetverify/internal/domain/entities"
	"github.com/ochairo/assetverify/internal/domain/interfaces"
	"github.com/ochairo/assetverify/internal/domain/interfaces/gateways"
	"github.com/ochairo/assetverify/internal/domain/interfaces/services"
)

// Fixture checklist step names. File steps are suffixed with the path.
const (
	StepEnvironment   = "environment"
	StepFixtureFile   = "fixture_file"
	StepCommitKeyword = "commit_keyword"
)

// maxConcurrentFetches bounds parallel file lookups against the gateway
const maxConcurrentFetches = 4

// fixtureService implements FixtureService
type fixtureService struct {
	repo      gateways.RepositoryGateway
	checksums gateways.ChecksumVerifier
	logger    interfaces.Logger
}

// NewFixtureService creates a new fixture checklist service with dependency injection
func NewFixtureService(repo gateways.RepositoryGateway, checksums gateways.ChecksumVerifier, logger interfaces.Logger) services.FixtureService {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	return &fixtureService{repo: repo, checksums: checksums, logger: logger}
}

// Check runs every checklist item and records one result per item.
// Results are ordered: environment, each fixture file as declared, commit keyword.
func (s *fixtureService) Check(ctx context.Context, owner string, cfg *entities.VerificationConfig, env entities.EnvRecord) (*entities.Report, error) {
	if cfg == nil {
		return nil, fmt.Errorf("verification config is required")
	}

	report := &entities.Report{
		Repository: s.repo.Describe(owner, cfg.TargetRepo),
		Branch:     cfg.TargetFile.Branch,
	}

	report.Add(CheckEnvironment(env, cfg.Fixture.EnvKeys))

	files, err := s.checkFiles(ctx, owner, cfg)
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		report.Add(f)
	}

	report.Add(s.checkKeyword(ctx, owner, cfg))

	report.Finalize()
	s.logger.Info("fixture check finished",
		interfaces.F("repository", report.Repository),
		interfaces.F("passed", report.Passed))
	return report, nil
}

// CheckEnvironment verifies that every key has a non-empty value
// Pure business logic - no I/O
func CheckEnvironment(env entities.EnvRecord, keys []string) entities.StepResult {
	res := entities.StepResult{Step: StepEnvironment}

	var missing []string
	for _, k := range keys {
		if strings.TrimSpace(env.Get(k)) == "" {
			missing = append(missing, k)
		}
	}

	if len(missing) > 0 {
		res.Status = entities.StatusFail
		res.Message = "missing or empty: " + strings.Join(missing, ", ")
		return res
	}

	res.Status = entities.StatusPass
	res.Message = fmt.Sprintf("%d variables set", len(keys))
	return res
}

// checkFiles looks up fixture files concurrently; a failed lookup is a
// failed step, only cancellation aborts the run
func (s *fixtureService) checkFiles(ctx context.Context, owner string, cfg *entities.VerificationConfig) ([]entities.StepResult, error) {
	results := make([]entities.StepResult, len(cfg.Fixture.Files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)

	for i, file := range cfg.Fixture.Files {
		g.Go(func() error {
			results[i] = s.checkFile(gctx, owner, cfg.TargetRepo, cfg.TargetFile.Branch, file)
			return gctx.Err()
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *fixtureService) checkFile(ctx context.Context, owner, repo, branch string, file entities.FixtureFile) entities.StepResult {
	res := entities.StepResult{Step: StepFixtureFile + ":" + file.Path}

	data, err := s.repo.GetFileContent(ctx, owner, repo, file.Path, branch)
	switch {
	case errors.Is(err, gateways.ErrNotFound):
		res.Status = entities.StatusFail
		res.Message = fmt.Sprintf("%s not found on branch %s", file.Path, branch)
		return res
	case err != nil:
		s.logger.Warn("fixture file lookup failed", interfaces.F("path", file.Path), interfaces.F("error", err))
		res.Status = entities.StatusFail
		res.Message = fmt.Sprintf("%s could not be read: %v", file.Path, err)
		return res
	}

	if file.SHA256 != "" {
		if s.checksums == nil {
			res.Status = entities.StatusFail
			res.Message = fmt.Sprintf("%s: checksum configured but no checksum verifier available", file.Path)
			return res
		}
		if err := s.checksums.VerifyContent(data, file.SHA256); err != nil {
			res.Status = entities.StatusFail
			res.Message = fmt.Sprintf("%s: %v", file.Path, err)
			return res
		}
	}

	res.Status = entities.StatusPass
	if file.Purpose != "" {
		res.Message = fmt.Sprintf("%s present (%s, %d bytes)", file.Path, file.Purpose, len(data))
	} else {
		res.Message = fmt.Sprintf("%s present (%d bytes)", file.Path, len(data))
	}
	return res
}

func (s *fixtureService) checkKeyword(ctx context.Context, owner string, cfg *entities.VerificationConfig) entities.StepResult {
	res := entities.StepResult{Step: StepCommitKeyword}
	keyword := cfg.Fixture.Keyword

	commits, err := s.repo.ListCommits(ctx, owner, cfg.TargetRepo, cfg.Fixture.MaxCommits)
	if err != nil {
		res.Status = entities.StatusFail
		res.Message = fmt.Sprintf("commit history could not be read: %v", err)
		return res
	}

	if c, ok := FindKeywordCommit(commits, keyword); ok {
		res.Status = entities.StatusPass
		res.Message = fmt.Sprintf("commit %s contains %q", shortSHA(c.SHA), keyword)
		return res
	}

	res.Status = entities.StatusFail
	res.Message = fmt.Sprintf("none of %d commits contains %q", len(commits), keyword)
	return res
}

// FindKeywordCommit returns the newest commit whose message contains keyword
// Pure business logic - no I/O
func FindKeywordCommit(commits []entities.Commit, keyword string) (entities.Commit, bool) {
	if keyword == "" {
		return entities.Commit{}, false
	}
	for _, c := range commits {
		if strings.Contains(c.Message, keyword) {
			return c, true
		}
	}
	return entities.Commit{}, false
}
