package entities

// FilePurpose is the declared role of a fixture file
type FilePurpose string

// Known fixture file purposes
const (
	PurposeDoc    FilePurpose = "doc"
	PurposeConfig FilePurpose = "config"
	PurposeData   FilePurpose = "data"
	PurposeScript FilePurpose = "script"
)

// FixtureFile is a file that must exist in the fixture repository
type FixtureFile struct {
	Path    string
	Purpose FilePurpose
	SHA256  string // optional
}

// Environment variable names read by the verifier
const (
	EnvGitHubToken = "MCP_GITHUB_TOKEN"
	EnvGitHubOrg   = "GITHUB_EVAL_ORG"
)

// DefaultEnvFile is where the credentials are expected to live
const DefaultEnvFile = ".mcp_env"

// EnvRecord maps environment variable names to values
type EnvRecord map[string]string

// Get returns the value for key, or "" if unset
func (e EnvRecord) Get(key string) string {
	return e[key]
}

// DefaultFixtureFiles returns the fixture layout the setup checklist asks for
func DefaultFixtureFiles() []FixtureFile {
	return []FixtureFile{
		{Path: "docs/analysis-report.md", Purpose: PurposeDoc},
		{Path: "config/project-config.yaml", Purpose: PurposeConfig},
		{Path: "data/test-data.json", Purpose: PurposeData},
		{Path: "scripts/verification-config.py", Purpose: PurposeScript},
	}
}

// DefaultEnvKeys returns the variables that must be non-empty before verification
func DefaultEnvKeys() []string {
	return []string{EnvGitHubToken, EnvGitHubOrg}
}
