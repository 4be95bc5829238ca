package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/mediadl/dlctl/build"
	"github.com/mediadl/dlctl/pkg/log"
	"github.com/mediadl/dlctl/pkg/webui"
	"github.com/mediadl/dlctl/rest"
)

var (
	ConfigFile      string
	Verbose         bool
	AlsoLogToStderr bool
	Output          string
	DefaultConfig   = Config{
		BaseURL: webui.DefaultBaseURL,
	}
)

type Config struct {
	// The address of the downloader web UI.
	BaseURL string `yaml:"base_url,omitempty"`
	// The web UI login secret.
	Password string `yaml:"password,omitempty"`
	// Whether to enable verbose logging.
	Verbose bool `yaml:"verbose,omitempty"`
	// Whether to write logs as JSON.
	JSONLogs bool `yaml:"json_logs,omitempty"`
	// Where to write logs. Defaults to dlctl.log in the config directory.
	LogFile string `yaml:"log_file,omitempty"`
}

// Dir returns the path to the dlctl configuration directory.
func Dir() string {
	return filepath.Join(os.Getenv("HOME"), ".dlctl")
}

func getDefaultConfigPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// Load reads the config file. A missing file yields the default config.
func Load() (*Config, error) {
	if ConfigFile == "" {
		ConfigFile = getDefaultConfigPath()
	}
	cfg := DefaultConfig
	yamlFile, err := os.ReadFile(ConfigFile)
	if os.IsNotExist(err) {
		return &cfg, nil
	} else if err != nil {
		return nil, fmt.Errorf("error reading YAML file: %w", err)
	}
	if err := yaml.Unmarshal(yamlFile, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal YAML: %w", err)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultConfig.BaseURL
	}
	return &cfg, nil
}

// InitLogging sets up the default logger according to cfg and the
// command line flags.
func InitLogging(cfg *Config) error {
	logFile := cfg.LogFile
	if logFile == "" {
		logFile = filepath.Join(Dir(), "dlctl.log")
	}
	opts := []log.Option{log.WithLogFile(logFile)}
	if Verbose || cfg.Verbose {
		opts = append(opts, log.WithLevel(log.DebugLevel))
		if build.IsDev() {
			opts = append(opts, log.WithDevMode())
		}
	}
	if AlsoLogToStderr {
		opts = append(opts, log.WithAlsoLogToStderr())
	}
	if cfg.JSONLogs {
		opts = append(opts, log.WithJSON())
	}
	if err := log.Init(opts...); err != nil {
		return err
	}
	log.Debugf("Verbose logging enabled")
	return nil
}

func ensureDirExists(filePath string) error {
	dir := filepath.Dir(filePath)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		// Create the directory if it doesn't exist
		err := os.MkdirAll(dir, 0755)
		if err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	return nil
}

// Store writes cfg to the config file. The file holds the login secret, so
// it is only readable by the owner.
func Store(cfg *Config) error {
	yamlFile, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	if ConfigFile == "" {
		ConfigFile = getDefaultConfigPath()
	}
	if err := ensureDirExists(ConfigFile); err != nil {
		return fmt.Errorf("failed to ensure directory exists: %w", err)
	}
	if err := os.WriteFile(ConfigFile, yamlFile, 0600); err != nil {
		return fmt.Errorf("failed to write YAML file: %w", err)
	}
	return nil
}

// DefaultClient returns a web UI client for the address in cfg.
func DefaultClient(cfg *Config) (*webui.Client, error) {
	return webui.NewClient(cfg.BaseURL, rest.WithLogger(log.New(Verbose || cfg.Verbose)))
}
