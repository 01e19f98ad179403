// Package dotenv loads the verifier's credentials from a dotenv file.
package dotenv

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"

	"github.com/ochairo/assetverify/internal/domain/entities"
)

// EnvLoader implements repositories.EnvRepository on top of godotenv.
// Variables already set in the process environment take precedence over the file.
type EnvLoader struct {
	lookup func(string) (string, bool)
}

// NewEnvLoader creates a loader backed by the process environment
func NewEnvLoader() *EnvLoader {
	return &EnvLoader{lookup: os.LookupEnv}
}

// NewEnvLoaderWithLookup creates a loader with a custom environment lookup (useful for tests)
func NewEnvLoaderWithLookup(lookup func(string) (string, bool)) *EnvLoader {
	return &EnvLoader{lookup: lookup}
}

// Load reads path and overlays the process environment.
// A missing file is not an error; the record then comes from the environment only.
func (l *EnvLoader) Load(path string, keys ...string) (entities.EnvRecord, error) {
	record := make(entities.EnvRecord)

	if path != "" {
		values, err := godotenv.Read(path)
		switch {
		case err == nil:
			for k, v := range values {
				record[k] = v
			}
		case errors.Is(err, fs.ErrNotExist):
			// fall through to the process environment
		default:
			return nil, fmt.Errorf("failed to read env file %s: %w", path, err)
		}
	}

	overlay := make([]string, 0, len(record)+len(keys))
	for k := range record {
		overlay = append(overlay, k)
	}
	overlay = append(overlay, keys...)

	for _, k := range overlay {
		if v, ok := l.lookup(k); ok {
			record[k] = v
		}
	}

	return record, nil
}

// Require returns an error naming the first key that is missing or empty
func Require(record entities.EnvRecord, source string, keys ...string) error {
	for _, k := range keys {
		if record.Get(k) == "" {
			return &MissingKeyError{Key: k, Source: source}
		}
	}
	return nil
}

// MissingKeyError reports an unset required environment variable
type MissingKeyError struct {
	Key    string
	Source string
}

func (e *MissingKeyError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("%s is not configured", e.Key)
	}
	return fmt.Sprintf("%s is not configured (set it in %s)", e.Key, e.Source)
}
