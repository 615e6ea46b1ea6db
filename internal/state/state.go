// Package state implements the shared persistence discipline for the
// curation stores: one human-readable JSON file per store, loaded once
// at construction and overwritten whole after every mutation.
//
// The design assumes a single process with non-overlapping access. There
// is no locking and no atomic rename; two processes sharing a state file
// can silently lose updates (last writer wins).
package state

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// projectDir is the project-local state directory checked before falling
// back to the user config dir.
const projectDir = ".moltbook"

// Dir returns the state directory: ./.moltbook if it exists, otherwise
// the user config dir (e.g. ~/.config/moltbook on Linux).
func Dir() string {
	if fi, err := os.Stat(projectDir); err == nil && fi.IsDir() {
		return projectDir
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		return projectDir
	}
	return filepath.Join(configDir, "moltbook")
}

// Resolve returns the path for a named state file in the state directory.
func Resolve(name string) string {
	return filepath.Join(Dir(), name)
}

// Load reads a JSON state file into v. A missing or corrupt file leaves
// v untouched, so stores start from their empty state rather than failing.
func Load(path string, v any) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	if !json.Valid(data) {
		return
	}
	_ = json.Unmarshal(data, v)
}

// Save writes v to a JSON state file, creating parent directories as
// needed. The file is indented so it stays hand-inspectable.
func Save(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
