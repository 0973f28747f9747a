package platform

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

const loginComment = "Desk clock and countdown timer"

// LoginItem keeps the launch-at-login entry in step with the user setting.
type LoginItem struct {
	service    Service
	appName    string
	executable func() (string, error)
	logger     *slog.Logger
}

// NewLoginItem creates a login item for the running executable.
func NewLoginItem(service Service, appName string, logger *slog.Logger) *LoginItem {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoginItem{
		service:    service,
		appName:    appName,
		executable: os.Executable,
		logger:     logger.With("component", "login_item"),
	}
}

// Apply registers or removes the entry.
func (item *LoginItem) Apply(enabled bool) error {
	if !enabled {
		if err := item.service.UnregisterLogin(item.appName); err != nil {
			item.logger.Warn("disable launch at login failed", "error", err)
			return err
		}
		return nil
	}

	execPath, err := item.executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(execPath); err == nil {
		execPath = resolved
	}
	entry := LoginEntry{Name: item.appName, Exec: execPath, Comment: loginComment}
	if err := item.service.RegisterLogin(entry); err != nil {
		item.logger.Warn("enable launch at login failed", "error", err)
		return err
	}
	item.logger.Info("launch at login enabled", "exec", execPath)
	return nil
}

// Sync brings the OS entry in line with the stored setting at start-up.
// An enabled entry is rewritten so it follows a moved executable.
func (item *LoginItem) Sync(enabled bool) error {
	if enabled {
		return item.Apply(true)
	}
	registered, err := item.service.LoginRegistered(item.appName)
	if err != nil {
		return fmt.Errorf("check login entry: %w", err)
	}
	if !registered {
		return nil
	}
	return item.Apply(false)
}

// AppConfigDir returns the per-user directory holding the app's files.
func AppConfigDir(service Service, appName string) (string, error) {
	configDir, err := service.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, appName), nil
}
