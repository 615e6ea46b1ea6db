package client

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// EnvAPIKey is the environment variable checked first for credentials.
const EnvAPIKey = "MOLTBOOK_API_KEY"

type credentials struct {
	APIKey string `json:"api_key"`
}

// ResolveAPIKey finds the Moltbook API key. Search order: the
// MOLTBOOK_API_KEY environment variable, ~/.config/moltbook/
// credentials.json, ./credentials.json, then an explicit extra path.
func ResolveAPIKey(extraPath string) (string, error) {
	if key := os.Getenv(EnvAPIKey); key != "" {
		return key, nil
	}

	var candidates []string
	if configDir, err := os.UserConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(configDir, "moltbook", "credentials.json"))
	}
	candidates = append(candidates, "credentials.json")
	if extraPath != "" {
		candidates = append(candidates, extraPath)
	}

	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var creds credentials
		if err := json.Unmarshal(data, &creds); err != nil || creds.APIKey == "" {
			continue
		}
		return creds.APIKey, nil
	}

	return "", fmt.Errorf("no Moltbook credentials found: set %s or place credentials.json in the user config dir or the current directory", EnvAPIKey)
}
