package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/nagyistge/cloud-functions-emulator/internal/logger"
	"github.com/nagyistge/cloud-functions-emulator/internal/store"
)

// Config holds the defaults the CLI applies when a command does not
// override them. It is read-only from the controller's point of view.
//
// Command is the base command used to launch the emulator server process;
// the controller appends the resolved flags to it. It may be a bare binary
// or "runtime script" form such as "node /usr/lib/emulator/main.js".

type Config struct {
	Host         string        `json:"host" mapstructure:"host"`
	Port         int           `json:"port" mapstructure:"port"`
	ProjectID    string        `json:"project_id" mapstructure:"project_id"`
	Timeout      time.Duration `json:"timeout" mapstructure:"timeout"`
	PollInterval time.Duration `json:"poll_interval" mapstructure:"poll_interval"`
	Command      string        `json:"command" mapstructure:"command"`
	LogFile      string        `json:"log_file" mapstructure:"log_file"`
	Verbose      bool          `json:"verbose" mapstructure:"verbose"`
	UseMocks     bool          `json:"use_mocks" mapstructure:"use_mocks"`
	Env          []string      `json:"env,omitempty" mapstructure:"env"`
	Store        store.Config  `json:"store" mapstructure:"store"`
	Log          logger.Config `json:"log" mapstructure:"log"`
}

// Default returns the built-in configuration. State lives under
// ~/.cloud-functions-emulator (falling back to the working directory when
// the home directory cannot be determined).
func Default() Config {
	base := baseDir()
	return Config{
		Host:         "localhost",
		Port:         8008,
		ProjectID:    "",
		Timeout:      3 * time.Second,
		PollInterval: 500 * time.Millisecond,
		Command:      "node " + filepath.Join(base, "emulator", "main.js"),
		LogFile:      filepath.Join(base, "cloud-functions-emulator.log"),
		Store: store.Config{
			Type: "file",
			Path: filepath.Join(base, "status.json"),
		},
	}
}

// Load reads a TOML config file and merges it over the defaults.
// An empty path returns the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return &cfg, nil
	}
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func baseDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".cloud-functions-emulator"
	}
	return filepath.Join(home, ".cloud-functions-emulator")
}
