package yaml

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ochairo/assetverify/internal/domain/entities"
)

// ConfigRepository implements repositories.ConfigRepository using YAML files
type ConfigRepository struct {
	parser *ConfigParser
}

// NewConfigRepository creates a new YAML-based config repository
func NewConfigRepository() *ConfigRepository {
	return &ConfigRepository{
		parser: NewConfigParser(),
	}
}

// Load retrieves the verification config at path.
// An empty path yields the built-in default config.
func (r *ConfigRepository) Load(_ context.Context, path string) (*entities.VerificationConfig, error) {
	if path == "" {
		return entities.DefaultVerificationConfig(), nil
	}

	path = os.ExpandEnv(path)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config not found: %s", path)
	}

	cfg, err := r.parser.ParseFile(path)
	if err != nil {
		return nil, err
	}

	// Keyring paths are relative to the config file
	if cv := cfg.CommitVerification; cv != nil && cv.KeyringPath != "" && !filepath.IsAbs(cv.KeyringPath) {
		cv.KeyringPath = filepath.Join(filepath.Dir(path), cv.KeyringPath)
	}

	return cfg, nil
}
