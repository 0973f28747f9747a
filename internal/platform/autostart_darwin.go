//go:build darwin

package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

func fallbackConfigDir(homeDir string) string {
	return filepath.Join(homeDir, "Library", "Application Support")
}

func launchAgentPath(name string) (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	return filepath.Join(homeDir, "Library", "LaunchAgents", launchAgentLabel(name)+".plist"), nil
}

func (service *platformService) RegisterLogin(entry LoginEntry) error {
	if err := entry.Validate(); err != nil {
		return fmt.Errorf("register login: %w", err)
	}
	path, err := launchAgentPath(entry.Name)
	if err != nil {
		return fmt.Errorf("register login: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("register login: create LaunchAgents dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(launchAgentPlist(entry)), 0o644); err != nil {
		return fmt.Errorf("register login: write plist: %w", err)
	}
	return nil
}

func (service *platformService) UnregisterLogin(name string) error {
	path, err := launchAgentPath(name)
	if err != nil {
		return fmt.Errorf("unregister login: %w", err)
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("unregister login: remove plist: %w", err)
	}
	return nil
}

func (service *platformService) LoginRegistered(name string) (bool, error) {
	path, err := launchAgentPath(name)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}
