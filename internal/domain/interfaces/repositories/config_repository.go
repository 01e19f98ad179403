// Package repositories defines interfaces for data access layers.
package repositories

import (
	"context"

	"github.com/ochairo/assetverify/internal/domain/entities"
)

// ConfigRepository defines the interface for loading verification configs
type ConfigRepository interface {
	// Load returns the config at path, or the built-in default when path is empty
	Load(ctx context.Context, path string) (*entities.VerificationConfig, error)
}

// EnvRepository defines the interface for loading the environment record
type EnvRepository interface {
	// Load reads the env file at path merged with the process environment.
	// keys are looked up in the process environment even if the file omits them.
	Load(path string, keys ...string) (entities.EnvRecord, error)
}
