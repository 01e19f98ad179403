// Package yaml provides YAML-based verification config parsing and loading.
package yaml

import (
	"fmt"
	"os"
	"regexp"

	"github.com/ochairo/assetverify/internal/domain/entities"
	"gopkg.in/yaml.v3"
)

// yamlConfig represents the raw YAML structure
type yamlConfig struct {
	TargetRepo         string                  `yaml:"target_repo"`
	TargetFile         yamlTargetFile          `yaml:"target_file"`
	RequiredStructures []string                `yaml:"required_structures"`
	ContentRules       []yamlContentRule       `yaml:"content_rules"`
	CommitVerification *yamlCommitVerification `yaml:"commit_verification"`
	Fixture            *yamlFixture            `yaml:"fixture"`
}

type yamlTargetFile struct {
	Path   string `yaml:"path"`
	Branch string `yaml:"branch"`
	SHA256 string `yaml:"sha256"`
}

type yamlContentRule struct {
	Type     string `yaml:"type"`
	Target   string `yaml:"target"`
	Expected string `yaml:"expected"`
}

type yamlCommitVerification struct {
	MsgPattern    string `yaml:"msg_pattern"`
	MaxCommits    int    `yaml:"max_commits"`
	RequireSigned bool   `yaml:"require_signed"`
	Keyring       string `yaml:"keyring"`
}

type yamlFixture struct {
	Keyword    string            `yaml:"keyword"`
	MaxCommits int               `yaml:"max_commits"`
	EnvKeys    []string          `yaml:"env_keys"`
	Files      []yamlFixtureFile `yaml:"files"`
}

type yamlFixtureFile struct {
	Path    string `yaml:"path"`
	Purpose string `yaml:"purpose"`
	SHA256  string `yaml:"sha256"`
}

// ConfigParser parses YAML verification config files
type ConfigParser struct{}

// NewConfigParser creates a new YAML parser
func NewConfigParser() *ConfigParser {
	return &ConfigParser{}
}

// ParseFile parses a YAML config file into a VerificationConfig entity
func (p *ConfigParser) ParseFile(filePath string) (*entities.VerificationConfig, error) {
	//nolint:gosec // G304: filePath is the user-provided config path
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}

	return p.Parse(data)
}

// Parse parses YAML bytes into a VerificationConfig entity
func (p *ConfigParser) Parse(data []byte) (*entities.VerificationConfig, error) {
	var raw yamlConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	cfg := &entities.VerificationConfig{
		TargetRepo:         raw.TargetRepo,
		TargetFile:         convertTargetFile(raw.TargetFile),
		RequiredStructures: raw.RequiredStructures,
		ContentRules:       convertContentRules(raw.ContentRules),
		CommitVerification: convertCommitVerification(raw.CommitVerification),
		Fixture:            convertFixture(raw.Fixture),
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks a config for missing fields and malformed patterns
func Validate(cfg *entities.VerificationConfig) error {
	if cfg.TargetRepo == "" {
		return fmt.Errorf("target_repo is required")
	}
	if cfg.TargetFile.Path == "" {
		return fmt.Errorf("target_file.path is required")
	}

	for i, rule := range cfg.ContentRules {
		if !rule.Type.Valid() {
			return fmt.Errorf("content_rules[%d]: unknown rule type %q", i, rule.Type)
		}
		if rule.Expected == "" {
			return fmt.Errorf("content_rules[%d]: expected is required", i)
		}
		if rule.Type == entities.RuleRegexMatch {
			if _, err := regexp.Compile(rule.Expected); err != nil {
				return fmt.Errorf("content_rules[%d]: invalid regex: %w", i, err)
			}
		}
	}

	if cv := cfg.CommitVerification; cv != nil {
		if cv.MsgPattern == "" {
			return fmt.Errorf("commit_verification.msg_pattern is required")
		}
		if _, err := regexp.Compile("(?i)" + cv.MsgPattern); err != nil {
			return fmt.Errorf("commit_verification.msg_pattern: invalid regex: %w", err)
		}
		if cv.MaxCommits < 0 {
			return fmt.Errorf("commit_verification.max_commits must not be negative")
		}
		if cv.RequireSigned && cv.KeyringPath == "" {
			return fmt.Errorf("commit_verification.keyring is required when require_signed is set")
		}
	}

	for i, f := range cfg.Fixture.Files {
		if f.Path == "" {
			return fmt.Errorf("fixture.files[%d]: path is required", i)
		}
	}

	return nil
}

func convertTargetFile(yt yamlTargetFile) entities.TargetFile {
	branch := yt.Branch
	if branch == "" {
		branch = entities.DefaultBranch
	}
	return entities.TargetFile{
		Path:   yt.Path,
		Branch: branch,
		SHA256: yt.SHA256,
	}
}

func convertContentRules(yr []yamlContentRule) []entities.ContentRule {
	rules := make([]entities.ContentRule, 0, len(yr))
	for _, r := range yr {
		rules = append(rules, entities.ContentRule{
			Type:     entities.RuleType(r.Type),
			Target:   r.Target,
			Expected: r.Expected,
		})
	}
	return rules
}

// convertCommitVerification treats an absent or empty block as no commit check
func convertCommitVerification(yc *yamlCommitVerification) *entities.CommitVerification {
	if yc == nil || *yc == (yamlCommitVerification{}) {
		return nil
	}
	maxCommits := yc.MaxCommits
	if maxCommits == 0 {
		maxCommits = entities.DefaultMaxCommits
	}
	return &entities.CommitVerification{
		MsgPattern:    yc.MsgPattern,
		MaxCommits:    maxCommits,
		RequireSigned: yc.RequireSigned,
		KeyringPath:   yc.Keyring,
	}
}

// convertFixture fills every unset fixture field with the checklist defaults
func convertFixture(yf *yamlFixture) entities.FixtureSpec {
	spec := entities.FixtureSpec{
		Files:      entities.DefaultFixtureFiles(),
		EnvKeys:    entities.DefaultEnvKeys(),
		Keyword:    entities.DefaultKeyword,
		MaxCommits: entities.DefaultFixtureHistory,
	}
	if yf == nil {
		return spec
	}

	if yf.MaxCommits > 0 {
		spec.MaxCommits = yf.MaxCommits
	}
	if yf.Keyword != "" {
		spec.Keyword = yf.Keyword
	}
	if len(yf.EnvKeys) > 0 {
		spec.EnvKeys = yf.EnvKeys
	}
	if len(yf.Files) > 0 {
		spec.Files = make([]entities.FixtureFile, 0, len(yf.Files))
		for _, f := range yf.Files {
			spec.Files = append(spec.Files, entities.FixtureFile{
				Path:    f.Path,
				Purpose: entities.FilePurpose(f.Purpose),
				SHA256:  f.SHA256,
			})
		}
	}
	return spec
}
