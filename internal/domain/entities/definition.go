// Package entities defines core domain models and data structures.
package entities

// Defaults applied when a verification config leaves a field empty
const (
	DefaultBranch     = "main"
	DefaultMaxCommits = 10
	DefaultKeyword    = "分析报告"

	// DefaultFixtureHistory bounds how far back the fixture keyword is searched
	DefaultFixtureHistory = 100
)

// VerificationConfig describes what must hold for a fixture repository to pass
type VerificationConfig struct {
	TargetRepo         string
	TargetFile         TargetFile
	RequiredStructures []string
	ContentRules       []ContentRule
	CommitVerification *CommitVerification // nil disables the commit step
	Fixture            FixtureSpec
}

// TargetFile is the single file the four-step verification inspects
type TargetFile struct {
	Path   string
	Branch string
	SHA256 string // optional, hex encoded
}

// RuleType selects how a ContentRule is evaluated
type RuleType string

// Supported content rule types
const (
	RuleStatMatch  RuleType = "stat_match"  // first number on a line containing Target equals Expected
	RuleRegexMatch RuleType = "regex_match" // Expected is a regex that must match the content
	RuleTextMatch  RuleType = "text_match"  // Expected is a literal substring of the content
)

// Valid reports whether t is a known rule type
func (t RuleType) Valid() bool {
	switch t {
	case RuleStatMatch, RuleRegexMatch, RuleTextMatch:
		return true
	default:
		return false
	}
}

// ContentRule is a single content accuracy check
type ContentRule struct {
	Type     RuleType
	Target   string
	Expected string
}

// CommitVerification configures the commit history check
type CommitVerification struct {
	MsgPattern    string // case-insensitive regex
	MaxCommits    int
	RequireSigned bool
	KeyringPath   string // armored OpenPGP keyring, required when RequireSigned is set
}

// FixtureSpec configures the fixture checklist
type FixtureSpec struct {
	Files      []FixtureFile
	EnvKeys    []string
	Keyword    string // plain substring, case-sensitive
	MaxCommits int
}
