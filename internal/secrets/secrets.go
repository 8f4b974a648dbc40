// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets resolves API keys from the environment or a directory of
// plain-text files.
//
// Resolution order for each credential: a .env file in the working directory
// (loaded into the process environment on first use), the environment
// variable itself, then a file in the secrets directory whose name is the
// lower-case dashed form of the variable. File contents are trimmed.
//
// Supported key files: openai-api-key, google-api-key, materials-project-api-key.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variable names for the credentials the pipeline uses.
const (
	EnvOpenAI    = "OPENAI_API_KEY"
	EnvGoogle    = "GOOGLE_API_KEY"
	EnvMaterials = "MATERIALS_PROJECT_API_KEY"
)

// fileNames maps each environment variable to its secrets-directory file.
var fileNames = map[string]string{
	EnvOpenAI:    "openai-api-key",
	EnvGoogle:    "google-api-key",
	EnvMaterials: "materials-project-api-key",
}

// Keys holds the resolved credentials for one run. A credential that could
// not be resolved is empty; commands validate the subset they need with
// Require.
type Keys struct {
	OpenAI    string
	Google    string
	Materials string

	dir string
}

// Load resolves every known credential. A missing directory or missing
// files are not errors; only an unreadable directory aborts.
func Load(dir string) (Keys, error) {
	// A .env file is a convenience for local runs; absence is normal.
	_ = godotenv.Load()

	files, err := loadDir(dir)
	if err != nil {
		return Keys{}, err
	}

	return Keys{
		OpenAI:    resolve(EnvOpenAI, files),
		Google:    resolve(EnvGoogle, files),
		Materials: resolve(EnvMaterials, files),
		dir:       dir,
	}, nil
}

// Require returns an error naming every listed credential that is empty, so
// a user with several unset keys fixes them in one round.
func (k Keys) Require(names ...string) error {
	var missing, files []string
	for _, name := range names {
		var value string
		switch name {
		case EnvOpenAI:
			value = k.OpenAI
		case EnvGoogle:
			value = k.Google
		case EnvMaterials:
			value = k.Materials
		default:
			return fmt.Errorf("unknown credential %q", name)
		}
		if value == "" {
			missing = append(missing, name)
			files = append(files, filepath.Join(k.dir, fileNames[name]))
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("missing credential(s) %s: set the environment variable(s) or create %s",
		strings.Join(missing, ", "), strings.Join(files, ", "))
}

// resolve prefers the environment over the secrets directory.
func resolve(envName string, files map[string]string) string {
	if v := strings.TrimSpace(os.Getenv(envName)); v != "" {
		return v
	}
	return files[fileNames[envName]]
}

// loadDir reads all files in dir and returns a map of filename to trimmed
// contents. Unreadable files produce a warning on stderr but do not abort.
func loadDir(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}
