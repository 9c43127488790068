package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ServiceConfig holds connection details for one backend service.
// Secrets can live in the file directly or be named by *_env keys and
// resolved from the environment (a .env file is loaded at startup).
type ServiceConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKey      string `yaml:"api_key,omitempty"`
	APIKeyEnv   string `yaml:"api_key_env,omitempty"`
	Username    string `yaml:"username,omitempty"`
	Password    string `yaml:"password,omitempty"`
	PasswordEnv string `yaml:"password_env,omitempty"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// ResolvedAPIKey prefers the environment variable named by api_key_env.
func (s ServiceConfig) ResolvedAPIKey() string {
	if s.APIKeyEnv != "" {
		if v := os.Getenv(s.APIKeyEnv); v != "" {
			return v
		}
	}
	return s.APIKey
}

// ResolvedPassword prefers the environment variable named by password_env.
func (s ServiceConfig) ResolvedPassword() string {
	if s.PasswordEnv != "" {
		if v := os.Getenv(s.PasswordEnv); v != "" {
			return v
		}
	}
	return s.Password
}

// RAGConfig configures the document-embedding service.
type RAGConfig struct {
	ServiceConfig `yaml:",inline"`
	K             int  `yaml:"k"`
	Concise       bool `yaml:"concise"`
}

// KAGConfig configures the knowledge-graph service.
type KAGConfig struct {
	ServiceConfig `yaml:",inline"`
	Limit         int    `yaml:"limit"`
	Variant       string `yaml:"variant"`
	DocumentType  string `yaml:"document_type,omitempty"`
}

// MonitorConfig configures the availability monitor.
type MonitorConfig struct {
	ProbeIntervalSecs int `yaml:"probe_interval_secs"`
}

// LogConfig configures the file logger. An empty file disables logging.
type LogConfig struct {
	File  string `yaml:"file,omitempty"`
	Level string `yaml:"level,omitempty"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Mode         string        `yaml:"mode"`
	RAG          RAGConfig     `yaml:"rag"`
	KAG          KAGConfig     `yaml:"kag"`
	Monitor      MonitorConfig `yaml:"monitor"`
	Log          LogConfig     `yaml:"log"`
	QuickQueries []string      `yaml:"quick_queries,omitempty"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig()
			return cfg, nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/docchat/config.yaml.
// If neither exists, it writes defaults to ~/.config/docchat/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "docchat", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		Mode: "rag",
		RAG: RAGConfig{
			ServiceConfig: ServiceConfig{BaseURL: "http://localhost:8000", TimeoutSecs: 30},
			K:             5,
		},
		KAG: KAGConfig{
			ServiceConfig: ServiceConfig{BaseURL: "http://localhost:8000", TimeoutSecs: 30},
			Limit:         10,
			Variant:       "standard",
		},
		Monitor: MonitorConfig{ProbeIntervalSecs: 30},
	}
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Mode == "" {
		cfg.Mode = "rag"
	}
	if cfg.RAG.K <= 0 {
		cfg.RAG.K = 5
	}
	if cfg.RAG.TimeoutSecs <= 0 {
		cfg.RAG.TimeoutSecs = 30
	}
	if cfg.KAG.Limit <= 0 {
		cfg.KAG.Limit = 10
	}
	if cfg.KAG.TimeoutSecs <= 0 {
		cfg.KAG.TimeoutSecs = 30
	}
	if cfg.KAG.Variant == "" {
		cfg.KAG.Variant = "standard"
	}
	if cfg.Monitor.ProbeIntervalSecs <= 0 {
		cfg.Monitor.ProbeIntervalSecs = 30
	}
}
