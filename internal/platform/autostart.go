package platform

import (
	"fmt"
	"os"
)

// Service locates Clockwork's files and registers the clock to launch at
// login.
type Service interface {
	ConfigDir() (string, error)
	RegisterLogin(entry LoginEntry) error
	UnregisterLogin(name string) error
	LoginRegistered(name string) (bool, error)
}

type platformService struct{}

// NewService returns the Service for the running OS.
func NewService() Service {
	return &platformService{}
}

// ConfigDir returns the directory user settings live under. Without a
// usable os.UserConfigDir it is derived from the home directory.
func (service *platformService) ConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err == nil && configDir != "" {
		return configDir, nil
	}

	homeDir, homeErr := os.UserHomeDir()
	if homeErr != nil {
		if err != nil {
			return "", fmt.Errorf("config dir: %w", err)
		}
		return "", fmt.Errorf("config dir: %w", homeErr)
	}
	return fallbackConfigDir(homeDir), nil
}
