package storage

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the name of the hand-edited config file.
const ConfigFileName = "config.yaml"

const (
	defaultDatabaseFile = "clockwork.db"
	defaultSeedFile     = "data.json"
)

// AppConfig holds process-level options that are edited by hand rather
// than through the preferences window.
type AppConfig struct {
	WindowWidth   float32
	WindowHeight  float32
	DataDir       string
	DatabaseFile  string
	SeedFile      string
	TickInterval  time.Duration
	FrameInterval time.Duration
	Presets       []int
	LogLevel      slog.Level
}

type yamlConfig struct {
	WindowWidth     float32 `yaml:"window_width"`
	WindowHeight    float32 `yaml:"window_height"`
	DataDir         string  `yaml:"data_dir"`
	DatabaseFile    string  `yaml:"database_file"`
	SeedFile        string  `yaml:"seed_file"`
	TickIntervalMs  int     `yaml:"tick_interval_ms"`
	FrameIntervalMs int     `yaml:"frame_interval_ms"`
	Presets         []int   `yaml:"presets"`
	LogLevel        string  `yaml:"log_level"`
}

// DefaultAppConfig returns the configuration used when no file exists.
// Paths are resolved relative to configDir.
func DefaultAppConfig(configDir string) AppConfig {
	return AppConfig{
		WindowWidth:   720,
		WindowHeight:  560,
		DataDir:       configDir,
		DatabaseFile:  defaultDatabaseFile,
		SeedFile:      filepath.Join(configDir, defaultSeedFile),
		TickInterval:  time.Second,
		FrameInterval: 100 * time.Millisecond,
		Presets:       []int{5, 10, 15, 25, 30, 45, 60},
		LogLevel:      slog.LevelInfo,
	}
}

// DatabasePath returns the absolute database location.
func (config AppConfig) DatabasePath() string {
	if filepath.IsAbs(config.DatabaseFile) {
		return config.DatabaseFile
	}
	return filepath.Join(config.DataDir, config.DatabaseFile)
}

// LoadConfig reads config.yaml from dir. If the file does not exist,
// defaults are returned.
func LoadConfig(dir string) (AppConfig, error) {
	config := DefaultAppConfig(dir)
	rawData, err := os.ReadFile(filepath.Join(dir, ConfigFileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return config, nil
		}
		return config, fmt.Errorf("read config file: %w", err)
	}

	var fileData yamlConfig
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return config, fmt.Errorf("parse config yaml: %w", err)
	}

	applyYamlConfig(&config, fileData, dir)
	return config, nil
}

// SaveConfig writes config.yaml into dir.
func SaveConfig(dir string, config AppConfig) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	fileData := yamlConfig{
		WindowWidth:     config.WindowWidth,
		WindowHeight:    config.WindowHeight,
		DataDir:         config.DataDir,
		DatabaseFile:    config.DatabaseFile,
		SeedFile:        config.SeedFile,
		TickIntervalMs:  int(config.TickInterval / time.Millisecond),
		FrameIntervalMs: int(config.FrameInterval / time.Millisecond),
		Presets:         config.Presets,
		LogLevel:        strings.ToLower(config.LogLevel.String()),
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal config yaml: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), serialized, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

func applyYamlConfig(config *AppConfig, fileData yamlConfig, dir string) {
	if fileData.WindowWidth >= 320 {
		config.WindowWidth = fileData.WindowWidth
	}
	if fileData.WindowHeight >= 320 {
		config.WindowHeight = fileData.WindowHeight
	}
	if fileData.DataDir != "" {
		config.DataDir = fileData.DataDir
	}
	if fileData.DatabaseFile != "" {
		config.DatabaseFile = fileData.DatabaseFile
	}
	if fileData.SeedFile != "" {
		config.SeedFile = fileData.SeedFile
		if !filepath.IsAbs(config.SeedFile) {
			config.SeedFile = filepath.Join(dir, config.SeedFile)
		}
	}
	if fileData.TickIntervalMs >= 100 && fileData.TickIntervalMs <= 1000 {
		config.TickInterval = time.Duration(fileData.TickIntervalMs) * time.Millisecond
	}
	if fileData.FrameIntervalMs >= 16 && fileData.FrameIntervalMs <= 1000 {
		config.FrameInterval = time.Duration(fileData.FrameIntervalMs) * time.Millisecond
	}

	var presets []int
	for _, minutes := range fileData.Presets {
		if minutes > 0 && minutes < 24*60 {
			presets = append(presets, minutes)
		}
	}
	if len(presets) > 0 {
		config.Presets = presets
	}

	if fileData.LogLevel != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(fileData.LogLevel)); err == nil {
			config.LogLevel = level
		}
	}
}
