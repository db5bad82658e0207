package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/Rorical/MultiChat/internal/models"
)

const (
	appDirName     = ".multichat"
	configFileName = "config.toml"
)

type ModelConfig struct {
	ID       string `toml:"id"`
	Name     string `toml:"name"`
	Provider string `toml:"provider"`
}

type CredentialsConfig struct {
	// Backend is "file", "sqlite" or "memory".
	Backend string `toml:"backend"`
	// Path overrides the default location under the app directory.
	Path string `toml:"path,omitempty"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "text" or "json"
	Path   string `toml:"path,omitempty"`
}

type ProviderConfig struct {
	BaseURL string `toml:"base_url,omitempty"`
}

type ProvidersConfig struct {
	Anthropic ProviderConfig `toml:"anthropic"`
	OpenAI    ProviderConfig `toml:"openai"`
}

type Config struct {
	DefaultModel string            `toml:"default_model"`
	Credentials  CredentialsConfig `toml:"credentials"`
	Log          LogConfig         `toml:"log"`
	Providers    ProvidersConfig   `toml:"providers"`
	Models       []ModelConfig     `toml:"models"`

	path string
}

// DefaultModels is the built-in catalog.
var DefaultModels = []ModelConfig{
	{ID: "claude-3-5-sonnet-20241022", Name: "Claude 3.5 Sonnet", Provider: string(models.ProviderAnthropic)},
	{ID: "o1", Name: "OpenAI O1", Provider: string(models.ProviderOpenAI)},
}

func Default() *Config {
	catalog := make([]ModelConfig, len(DefaultModels))
	copy(catalog, DefaultModels)
	return &Config{
		DefaultModel: DefaultModels[0].ID,
		Credentials:  CredentialsConfig{Backend: "file"},
		Log:          LogConfig{Level: "info", Format: "text"},
		Models:       catalog,
	}
}

// LoadConfig reads the config file, creating it with defaults when it does
// not exist, then applies environment overrides.
func LoadConfig() (*Config, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}

	if err := ensureConfigDir(configPath); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	config, err := loadConfigFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	config.applyEnv()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configPath, err)
	}

	return config, nil
}

// HomeDir returns the directory holding config, credentials and logs.
func HomeDir() (string, error) {
	var baseDir string

	// Use MULTICHAT_HOME if set, otherwise use user's home directory
	if home := os.Getenv("MULTICHAT_HOME"); home != "" {
		baseDir = home
	} else {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		baseDir = homeDir
	}

	return filepath.Join(baseDir, appDirName), nil
}

func getConfigPath() (string, error) {
	dir, err := HomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

func ensureConfigDir(configPath string) error {
	return os.MkdirAll(filepath.Dir(configPath), 0755)
}

func loadConfigFile(configPath string) (*Config, error) {
	// If config file doesn't exist, create default
	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		config := Default()
		config.path = configPath
		if err := config.Save(); err != nil {
			return nil, err
		}
		return config, nil
	}

	config := Default()
	config.Models = nil
	if _, err := toml.DecodeFile(configPath, config); err != nil {
		return nil, err
	}
	if len(config.Models) == 0 {
		config.Models = Default().Models
	}
	config.path = configPath

	return config, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("MULTICHAT_DEFAULT_MODEL"); v != "" {
		c.DefaultModel = v
	}
	if v := os.Getenv("MULTICHAT_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("MULTICHAT_CREDENTIALS_BACKEND"); v != "" {
		c.Credentials.Backend = v
	}
}

// Save writes the config back to the file it was loaded from.
func (c *Config) Save() error {
	if c.path == "" {
		configPath, err := getConfigPath()
		if err != nil {
			return fmt.Errorf("failed to get config path: %w", err)
		}
		c.path = configPath
	}

	f, err := os.OpenFile(c.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (c *Config) Path() string {
	return c.path
}

func (c *Config) Validate() error {
	if len(c.Models) == 0 {
		return errors.New("no models defined")
	}

	seen := make(map[string]bool, len(c.Models))
	for _, m := range c.Models {
		if m.ID == "" {
			return errors.New("model with empty id")
		}
		if seen[m.ID] {
			return fmt.Errorf("duplicate model id %q", m.ID)
		}
		seen[m.ID] = true

		switch models.Provider(m.Provider) {
		case models.ProviderAnthropic, models.ProviderOpenAI:
		default:
			return fmt.Errorf("model %q: unknown provider %q", m.ID, m.Provider)
		}
	}

	if !seen[c.DefaultModel] {
		return fmt.Errorf("default model %q is not in the model list", c.DefaultModel)
	}

	switch c.Credentials.Backend {
	case "file", "sqlite", "memory":
	default:
		return fmt.Errorf("unknown credential backend %q", c.Credentials.Backend)
	}

	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}

	return nil
}

// Catalog converts the configured models into domain models without keys.
func (c *Config) Catalog() []models.Model {
	catalog := make([]models.Model, len(c.Models))
	for i, m := range c.Models {
		name := m.Name
		if name == "" {
			name = m.ID
		}
		catalog[i] = models.Model{ID: m.ID, Name: name, Provider: models.Provider(m.Provider)}
	}
	return catalog
}

func (c *Config) HasModel(id string) bool {
	for _, m := range c.Models {
		if m.ID == id {
			return true
		}
	}
	return false
}

// CredentialsPath returns the configured credential location or the
// default one for the selected backend.
func (c *Config) CredentialsPath() (string, error) {
	if c.Credentials.Path != "" {
		return c.Credentials.Path, nil
	}
	dir, err := HomeDir()
	if err != nil {
		return "", err
	}
	if c.Credentials.Backend == "sqlite" {
		return filepath.Join(dir, "credentials.db"), nil
	}
	return filepath.Join(dir, "credentials.json"), nil
}

func (c *Config) LogPath() (string, error) {
	if c.Log.Path != "" {
		return c.Log.Path, nil
	}
	dir, err := HomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "multichat.log"), nil
}
