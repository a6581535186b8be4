// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads provider API keys from a directory of plain-text
// files, a dotenv file, and the process environment. Each file in the
// directory represents one secret: the filename is the key name and the
// file contents (trimmed) are the value.
//
// Supported key files: anthropic-api-key, openai-api-key.
package secrets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
)

// Key names for provider credentials.
const (
	AnthropicKey = "anthropic-api-key"
	OpenAIKey    = "openai-api-key"
)

// Default locations searched by Resolve.
const (
	DefaultDir     = ".secrets"
	DefaultEnvFile = ".env"
)

// envNames maps each key name to its environment variable.
var envNames = map[string]string{
	AnthropicKey: "ANTHROPIC_API_KEY",
	OpenAIKey:    "OPENAI_API_KEY",
}

// KeyFor returns the secret name holding the API key for a provider
// ("anthropic" or "openai"). Unknown providers return "".
func KeyFor(provider string) string {
	switch strings.ToLower(provider) {
	case "anthropic":
		return AnthropicKey
	case "openai":
		return OpenAIKey
	}
	return ""
}

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files produce a warning on stderr but do not abort.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		name := entry.Name()

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintln(os.Stderr, color.YellowString("warning: could not read secret %s: %v", name, err))
			continue
		}

		if value := strings.TrimSpace(string(data)); value != "" {
			secrets[name] = value
		}
	}
	return secrets, nil
}

// LoadEnv reads provider keys from a dotenv file, returning them under
// their secret names. A missing file yields an empty map.
func LoadEnv(path string) (map[string]string, error) {
	vars, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading env file %s: %w", path, err)
	}

	secrets := make(map[string]string)
	for key, env := range envNames {
		if value := strings.TrimSpace(vars[env]); value != "" {
			secrets[key] = value
		}
	}
	return secrets, nil
}

// Resolve merges every source of provider keys. The process environment
// wins over the secrets directory, which wins over the dotenv file.
func Resolve(dir, envFile string) (map[string]string, error) {
	secrets, err := LoadEnv(envFile)
	if err != nil {
		return nil, err
	}

	fromDir, err := Load(dir)
	if err != nil {
		return nil, err
	}
	for k, v := range fromDir {
		secrets[k] = v
	}

	for key, env := range envNames {
		if value := strings.TrimSpace(os.Getenv(env)); value != "" {
			secrets[key] = value
		}
	}
	return secrets, nil
}
