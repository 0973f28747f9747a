//go:build windows

package platform

import (
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

const registryRunKey = `HKCU\Software\Microsoft\Windows\CurrentVersion\Run`

func fallbackConfigDir(homeDir string) string {
	return filepath.Join(homeDir, "AppData", "Roaming")
}

func runReg(args ...string) error {
	output, err := exec.Command("reg", args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("reg %s: %w: %s", args[0], err, strings.TrimSpace(string(output)))
	}
	return nil
}

func (service *platformService) RegisterLogin(entry LoginEntry) error {
	if err := entry.Validate(); err != nil {
		return fmt.Errorf("register login: %w", err)
	}
	if err := runReg("add", registryRunKey, "/v", entry.Name, "/t", "REG_SZ", "/d", quoteWindowsPath(entry.Exec), "/f"); err != nil {
		return fmt.Errorf("register login: %w", err)
	}
	return nil
}

func (service *platformService) UnregisterLogin(name string) error {
	registered, err := service.LoginRegistered(name)
	if err != nil || !registered {
		return err
	}
	if err := runReg("delete", registryRunKey, "/v", name, "/f"); err != nil {
		return fmt.Errorf("unregister login: %w", err)
	}
	return nil
}

// LoginRegistered treats a failed query as a missing value; reg exits
// non-zero when the value does not exist.
func (service *platformService) LoginRegistered(name string) (bool, error) {
	err := exec.Command("reg", "query", registryRunKey, "/v", name).Run()
	if err == nil {
		return true, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return false, nil
	}
	return false, fmt.Errorf("query login entry: %w", err)
}
