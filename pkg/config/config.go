package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
	"k8s.io/client-go/util/homedir"

	"github.com/helmcode/triage-ai/pkg/llm"
)

// FileName is the config file looked up in the home directory.
const FileName = ".triage-ai.yaml"

// Config is the optional on-disk configuration. Credentials never live here;
// they are read from the environment.
type Config struct {
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	BaseURL  string `yaml:"base_url"`
	Output   string `yaml:"output"`
}

// Overrides carries values given on the command line.
type Overrides struct {
	Provider string
	Model    string
	BaseURL  string
}

// Settings is the resolved provider selection.
type Settings struct {
	Provider    llm.Provider
	Model       string
	BaseURL     string
	APIKey      string
	APIKeyNames []string
}

// DefaultPath returns ~/.triage-ai.yaml, or "" when no home directory is known.
func DefaultPath() string {
	home := homedir.HomeDir()
	if home == "" {
		return ""
	}
	return filepath.Join(home, FileName)
}

// LoadDotEnv loads variables from .env files without overriding ones already
// set in the process environment. A missing file is not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// Load reads the YAML config at path. When the file does not exist and
// required is false, an empty Config is returned.
func Load(path string, required bool) (*Config, error) {
	cfg := &Config{}
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Output == "" {
		cfg.Output = "human"
	}
	return cfg, nil
}

// Resolve picks provider, model and base URL with precedence
// flags > environment > config file > defaults, then looks up the API key.
// The file's model and base URL only apply when the selected provider is
// the file's provider, or the file names none.
func (c *Config) Resolve(o Overrides) (*Settings, error) {
	name := firstNonEmpty(o.Provider, os.Getenv("LLM_PROVIDER"), c.Provider)
	provider, err := llm.ParseProvider(name)
	if err != nil {
		return nil, err
	}

	var fileModel, fileBaseURL string
	if c.appliesTo(provider) {
		fileModel, fileBaseURL = c.Model, c.BaseURL
	}

	apiKey, names := llm.APIKeyFromEnv(provider)
	return &Settings{
		Provider:    provider,
		Model:       firstNonEmpty(o.Model, llm.ModelFromEnv(provider), fileModel),
		BaseURL:     firstNonEmpty(o.BaseURL, fileBaseURL),
		APIKey:      apiKey,
		APIKeyNames: names,
	}, nil
}

// NewLLM builds the provider client. It fails before any network call when
// the credential is missing.
func (s *Settings) NewLLM(ctx context.Context) (llm.LLM, error) {
	return llm.NewFactory().CreateLLM(ctx, s.Provider, map[string]string{
		llm.ConfigAPIKey:  s.APIKey,
		llm.ConfigModel:   s.Model,
		llm.ConfigBaseURL: s.BaseURL,
	})
}

func (c *Config) appliesTo(provider llm.Provider) bool {
	if c.Provider == "" {
		return true
	}
	p, err := llm.ParseProvider(c.Provider)
	return err == nil && p == provider
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
