package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type (
	Config struct {
		Language    string                      `json:"language"`
		AIConfig    AIConfig                    `json:"ai_config"`
		AIProviders map[string]AIProviderConfig `json:"ai_providers"`
		GitHub      GitHubConfig                `json:"github"`
		Timeouts    TimeoutsConfig              `json:"timeouts"`
		Cache       CacheConfig                 `json:"cache"`
		Limits      LimitsConfig                `json:"limits"`
		Analysis    AnalysisConfig              `json:"analysis"`
		Server      ServerConfig                `json:"server"`

		PathFile string `json:"-"`
	}

	AIConfig struct {
		ActiveAI AI           `json:"active_ai"`
		Models   map[AI]Model `json:"models"`
	}

	AIProviderConfig struct {
		APIKey      string  `json:"api_key,omitempty"`
		Model       string  `json:"model,omitempty"`
		Temperature float32 `json:"temperature"`
		MaxTokens   int     `json:"max_tokens"`
	}

	GitHubConfig struct {
		Token string `json:"token,omitempty"`
		Host  string `json:"host"`
	}

	TimeoutsConfig struct {
		Fetch      Duration `json:"fetch"`
		Generation Duration `json:"generation"`
	}

	// CacheConfig sizes the process-lifetime snapshot cache. MaxEntries 0 keeps it unbounded.
	CacheConfig struct {
		MaxEntries int `json:"max_entries"`
	}

	LimitsConfig struct {
		MaxReadmeBytes   int `json:"max_readme_bytes"`
		MaxManifestBytes int `json:"max_manifest_bytes"`
		MaxTreeEntries   int `json:"max_tree_entries"`
	}

	AnalysisConfig struct {
		ManifestCandidates []string `json:"manifest_candidates"`
	}

	ServerConfig struct {
		Addr string `json:"addr"`
	}
)

const (
	configDirName  = ".repograde"
	configFileName = "config.json"

	defaultLang              = LangEN
	defaultGitHubHost        = "github.com"
	defaultFetchTimeout      = 15 * time.Second
	defaultGenerationTimeout = 60 * time.Second
	defaultTemperature       = 0.3
	defaultMaxTokens         = 4096
	defaultMaxReadmeBytes    = 8000
	defaultMaxManifestBytes  = 6000
	defaultMaxTreeEntries    = 400
	defaultServerAddr        = ":8080"
)

var defaultManifestCandidates = []string{
	"package.json",
	"go.mod",
	"pyproject.toml",
	"requirements.txt",
	"Cargo.toml",
	"pom.xml",
	"build.gradle",
	"composer.json",
	"Gemfile",
}

// Default returns a configuration with every default applied and no secrets.
func Default() *Config {
	return &Config{
		Language: defaultLang,
		AIConfig: AIConfig{
			ActiveAI: AIGemini,
			Models:   map[AI]Model{AIGemini: DefaultModelForAI(AIGemini)},
		},
		AIProviders: map[string]AIProviderConfig{
			string(AIGemini): {
				Model:       string(DefaultModelForAI(AIGemini)),
				Temperature: defaultTemperature,
				MaxTokens:   defaultMaxTokens,
			},
		},
		GitHub: GitHubConfig{Host: defaultGitHubHost},
		Timeouts: TimeoutsConfig{
			Fetch:      Duration(defaultFetchTimeout),
			Generation: Duration(defaultGenerationTimeout),
		},
		Limits: LimitsConfig{
			MaxReadmeBytes:   defaultMaxReadmeBytes,
			MaxManifestBytes: defaultMaxManifestBytes,
			MaxTreeEntries:   defaultMaxTreeEntries,
		},
		Analysis: AnalysisConfig{
			ManifestCandidates: append([]string(nil), defaultManifestCandidates...),
		},
		Server: ServerConfig{Addr: defaultServerAddr},
	}
}

// LoadConfig reads the config file under path (a directory holding .repograde/ or a .json file),
// creating a default one when missing, then applies environment overrides.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	configPath, err := resolvePath(path)
	if err != nil {
		return nil, err
	}

	var config *Config
	if _, statErr := os.Stat(configPath); os.IsNotExist(statErr) {
		config, err = createDefaultConfig(configPath)
		if err != nil {
			return nil, err
		}
	} else {
		config, err = readConfig(configPath)
		if err != nil {
			return nil, err
		}
	}

	applyEnv(config)

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("loaded configuration is invalid: %w", err)
	}

	return config, nil
}

func resolvePath(path string) (string, error) {
	if filepath.Ext(path) == ".json" {
		return path, nil
	}
	if path == "" {
		return "", errors.New("configuration directory is not defined")
	}
	return filepath.Join(path, configDirName, configFileName), nil
}

func readConfig(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading configuration file: %w", err)
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error decoding configuration JSON: %w", err)
	}
	config.PathFile = configPath

	return config, nil
}

func createDefaultConfig(path string) (*Config, error) {
	config := Default()
	config.PathFile = path

	if err := writeConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnv lets secrets and deployment settings come from the environment (or a .env file).
func applyEnv(config *Config) {
	if key := strings.TrimSpace(os.Getenv("GEMINI_API_KEY")); key != "" {
		provider := config.AIProviders[string(AIGemini)]
		provider.APIKey = key
		if config.AIProviders == nil {
			config.AIProviders = map[string]AIProviderConfig{}
		}
		config.AIProviders[string(AIGemini)] = provider
	}
	if model := strings.TrimSpace(os.Getenv("REPOGRADE_MODEL")); model != "" {
		if config.AIConfig.Models == nil {
			config.AIConfig.Models = map[AI]Model{}
		}
		config.AIConfig.Models[config.AIConfig.ActiveAI] = Model(model)
	}
	if token := strings.TrimSpace(os.Getenv("GITHUB_TOKEN")); token != "" {
		config.GitHub.Token = token
	}
	if lang := strings.TrimSpace(os.Getenv("REPOGRADE_LANG")); lang != "" {
		config.Language = lang
	}
	if addr := strings.TrimSpace(os.Getenv("REPOGRADE_ADDR")); addr != "" {
		config.Server.Addr = addr
	}
}

// SaveConfig validates and writes the configuration back to its file.
func SaveConfig(config *Config) error {
	if err := validateConfig(config); err != nil {
		return fmt.Errorf("configuration to save is invalid: %w", err)
	}

	if config.PathFile == "" {
		return errors.New("configuration file path is not defined")
	}

	return writeConfig(config)
}

func writeConfig(config *Config) error {
	if err := os.MkdirAll(filepath.Dir(config.PathFile), 0755); err != nil {
		return fmt.Errorf("error creating configuration directory: %w", err)
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding configuration: %w", err)
	}

	if err := os.WriteFile(config.PathFile, data, 0600); err != nil {
		return fmt.Errorf("error saving configuration: %w", err)
	}

	return nil
}

// ActiveModel returns the model configured for the active AI provider.
func (c *Config) ActiveModel() string {
	if model, ok := c.AIConfig.Models[c.AIConfig.ActiveAI]; ok && model != "" {
		return string(model)
	}
	if provider, ok := c.AIProviders[string(c.AIConfig.ActiveAI)]; ok && provider.Model != "" {
		return provider.Model
	}
	return string(DefaultModelForAI(c.AIConfig.ActiveAI))
}

func validateConfig(config *Config) error {
	if config.Language == "" {
		return errors.New("language cannot be empty")
	}
	if config.Language != LangEN && config.Language != LangES {
		return fmt.Errorf("language not supported: %s", config.Language)
	}
	if config.AIConfig.ActiveAI != "" && !isSupportedAI(config.AIConfig.ActiveAI) {
		return fmt.Errorf("AI provider not supported: %s", config.AIConfig.ActiveAI)
	}
	if config.Timeouts.Fetch <= 0 {
		return errors.New("timeouts.fetch must be greater than 0")
	}
	if config.Timeouts.Generation <= 0 {
		return errors.New("timeouts.generation must be greater than 0")
	}
	if config.Cache.MaxEntries < 0 {
		return errors.New("cache.max_entries cannot be negative")
	}
	if config.Limits.MaxReadmeBytes <= 0 || config.Limits.MaxManifestBytes <= 0 || config.Limits.MaxTreeEntries <= 0 {
		return errors.New("limits must be greater than 0")
	}
	if len(config.Analysis.ManifestCandidates) == 0 {
		return errors.New("analysis.manifest_candidates cannot be empty")
	}
	return nil
}
