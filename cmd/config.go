package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-ini/ini"
	"gopkg.in/yaml.v3"

	"github.com/minuteman3/log-find-time/internal/locate"
)

const (
	defaultConfigFile = ".log-find-time.ini"
	defaultLogFile    = "/logs/haproxy.log"

	// envLogFile overrides the log file named in the config file.
	envLogFile = "LOG_FIND_TIME_FILE"
)

type config struct {
	File   string
	Column int
	Time   string
}

// yamlConfig mirrors the INI layout for YAML config files.
type yamlConfig struct {
	Input struct {
		File   string `yaml:"file"`
		Column *int   `yaml:"column"`
	} `yaml:"input"`
	Search struct {
		Time string `yaml:"time"`
	} `yaml:"search"`
}

func loadConfig(path string) (*config, error) {
	cfg := &config{
		File:   defaultLogFile,
		Column: locate.DefaultColumn,
	}

	// Check if config file exists
	if _, err := os.Stat(path); err == nil {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			err = loadYAML(path, cfg)
		default:
			err = loadINI(path, cfg)
		}
		if err != nil {
			return nil, err
		}
	}

	if file := os.Getenv(envLogFile); file != "" {
		cfg.File = file
	}

	if cfg.Column < 0 {
		return nil, fmt.Errorf("invalid timestamp column %d", cfg.Column)
	}

	return cfg, nil
}

func loadINI(path string, cfg *config) error {
	iniFile, err := ini.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load config file: %w", err)
	}

	// Input section
	inputSection := iniFile.Section("input")
	cfg.File = inputSection.Key("file").MustString(cfg.File)
	cfg.Column = inputSection.Key("column").MustInt(cfg.Column)

	// Search section
	cfg.Time = iniFile.Section("search").Key("time").String()
	return nil
}

func loadYAML(path string, cfg *config) error {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path is expected
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	if yc.Input.File != "" {
		cfg.File = yc.Input.File
	}
	if yc.Input.Column != nil {
		cfg.Column = *yc.Input.Column
	}
	cfg.Time = yc.Search.Time
	return nil
}

// getDefaultConfigPath returns the path to the default config file in the user's home directory
func getDefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return defaultConfigFile
	}
	return filepath.Join(homeDir, defaultConfigFile)
}
