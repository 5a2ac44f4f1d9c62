package prefs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"
)

// Per-user preferences, stored outside any document. Env always wins over
// the file so scripted runs stay reproducible.

const prefsFileName = "preferences.json"

// EnvTheme overrides the persisted theme when set.
const EnvTheme = "TRACKLINE_THEME"

// Preferences are the sticky display defaults: theme name, scale policy and
// zoom factor. Zero values mean "use the built-in default".
type Preferences struct {
	Theme string  `json:"theme,omitempty"`
	Scale string  `json:"scale,omitempty"`
	Zoom  float64 `json:"zoom,omitempty"`
}

func prefsDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home: %w", err)
	}
	return filepath.Join(home, ".trackline"), nil
}

func prefsFilePath() (string, error) {
	dir, err := prefsDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, prefsFileName), nil
}

// Load reads the stored preferences, applying the env override. A missing
// file is not an error; it returns the zero value.
func Load() (Preferences, error) {
	var p Preferences
	path, err := prefsFilePath()
	if err != nil {
		return p, err
	}
	b, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return p, fmt.Errorf("read preferences: %w", err)
	}
	if err == nil {
		if err := sonic.Unmarshal(b, &p); err != nil {
			return Preferences{}, fmt.Errorf("parse preferences: %w", err)
		}
	}
	if env := strings.TrimSpace(os.Getenv(EnvTheme)); env != "" {
		p.Theme = env
	}
	return p, nil
}

// Save persists preferences to ~/.trackline with owner-only permissions.
func Save(p Preferences) error {
	dir, err := prefsDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	b, err := sonic.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	path, _ := prefsFilePath()
	if err := os.WriteFile(path, b, 0o600); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// Delete removes the preference file; deleting nothing is fine.
func Delete() error {
	path, err := prefsFilePath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("remove: %w", err)
	}
	return nil
}
