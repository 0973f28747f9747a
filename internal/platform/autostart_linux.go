//go:build linux

package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

func fallbackConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config")
}

func (service *platformService) desktopFilePath(name string) (string, error) {
	configDir, err := service.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "autostart", desktopFileName(name)), nil
}

func (service *platformService) RegisterLogin(entry LoginEntry) error {
	if err := entry.Validate(); err != nil {
		return fmt.Errorf("register login: %w", err)
	}
	path, err := service.desktopFilePath(entry.Name)
	if err != nil {
		return fmt.Errorf("register login: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("register login: create autostart dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(desktopEntry(entry)), 0o644); err != nil {
		return fmt.Errorf("register login: write desktop entry: %w", err)
	}
	return nil
}

func (service *platformService) UnregisterLogin(name string) error {
	path, err := service.desktopFilePath(name)
	if err != nil {
		return fmt.Errorf("unregister login: %w", err)
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("unregister login: remove desktop entry: %w", err)
	}
	return nil
}

func (service *platformService) LoginRegistered(name string) (bool, error) {
	path, err := service.desktopFilePath(name)
	if err != nil {
		return false, err
	}
	return fileExists(path)
}

func fileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}
