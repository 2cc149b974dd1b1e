// Package config handles configuration loading for foreman. It supports
// XDG config paths, project-level overrides, and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"foreman/internal/router"
)

// Config holds all configuration for foreman.
type Config struct {
	Anthropic AnthropicConfig `mapstructure:"anthropic"`
	AWS       AWSConfig       `mapstructure:"aws"`
	Execution ExecutionConfig `mapstructure:"execution"`
	Routing   RoutingConfig   `mapstructure:"routing"`
	Registry  RegistryConfig  `mapstructure:"registry"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// AWSConfig holds Bedrock access settings.
type AWSConfig struct {
	// UseBedrock routes generation through AWS Bedrock instead of the
	// Anthropic API.
	UseBedrock bool   `mapstructure:"use_bedrock"`
	Region     string `mapstructure:"region"`
	Profile    string `mapstructure:"profile"`
}

// ExecutionConfig holds scheduler settings.
type ExecutionConfig struct {
	// MaxConcurrentTasks bounds tasks in flight within one module plan.
	MaxConcurrentTasks int `mapstructure:"max_concurrent_tasks"`
	// ContinueOnFailure keeps later phases running after a module fails.
	ContinueOnFailure bool `mapstructure:"continue_on_failure"`
	// MaxTokens is the per-task generation token cap.
	MaxTokens int `mapstructure:"max_tokens"`
}

// RoutingConfig holds model selection settings.
type RoutingConfig struct {
	// BudgetPreference is the default routing preference: cost_optimized,
	// quality_first, or balanced.
	BudgetPreference string `mapstructure:"budget_preference"`
	// Weights tunes the routing score. Zero values fall back to defaults.
	Weights router.Weights `mapstructure:"weights"`
}

// RegistryConfig points at an external capability table.
type RegistryConfig struct {
	// Path is a YAML capability file; empty means built-in defaults.
	Path string `mapstructure:"path"`
}

// Load loads configuration from XDG paths, project overrides, and
// environment variables. Precedence (highest to lowest):
// 1. Environment variables (ANTHROPIC_API_KEY)
// 2. Project config (.foreman.yaml in current directory or a parent)
// 3. User config (~/.config/foreman/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	userConfigDir := getUserConfigDir()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(userConfigDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	projectConfig := findProjectConfig()
	if projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	v.AutomaticEnv()
	v.SetEnvPrefix("")
	v.BindEnv("anthropic.api_key", "ANTHROPIC_API_KEY")
	v.BindEnv("aws.region", "AWS_REGION")
	v.BindEnv("aws.profile", "AWS_PROFILE")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Anthropic.APIKey = expandEnv(cfg.Anthropic.APIKey)

	return cfg, nil
}

// LoadFromPath loads configuration from a specific file.
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Anthropic.APIKey = expandEnv(cfg.Anthropic.APIKey)

	return cfg, nil
}

// Save writes the configuration to the user config file.
func Save(cfg *Config) error {
	userConfigDir := getUserConfigDir()
	if err := os.MkdirAll(userConfigDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	configPath := filepath.Join(userConfigDir, "config.yaml")

	v := viper.New()
	v.SetConfigFile(configPath)

	v.Set("anthropic.api_key", cfg.Anthropic.APIKey)
	v.Set("anthropic.model", cfg.Anthropic.Model)
	v.Set("aws.use_bedrock", cfg.AWS.UseBedrock)
	v.Set("aws.region", cfg.AWS.Region)
	v.Set("aws.profile", cfg.AWS.Profile)
	v.Set("execution.max_concurrent_tasks", cfg.Execution.MaxConcurrentTasks)
	v.Set("execution.continue_on_failure", cfg.Execution.ContinueOnFailure)
	v.Set("execution.max_tokens", cfg.Execution.MaxTokens)
	v.Set("routing.budget_preference", cfg.Routing.BudgetPreference)
	v.Set("registry.path", cfg.Registry.Path)

	return v.WriteConfig()
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// GetProjectConfigPath returns the path to the project config file if it exists.
func GetProjectConfigPath() string {
	return findProjectConfig()
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("anthropic.api_key", "")
	v.SetDefault("anthropic.model", "claude-3-5-sonnet")

	v.SetDefault("aws.use_bedrock", false)
	v.SetDefault("aws.region", "")
	v.SetDefault("aws.profile", "")

	v.SetDefault("execution.max_concurrent_tasks", 10)
	v.SetDefault("execution.continue_on_failure", false)
	v.SetDefault("execution.max_tokens", 4096)

	v.SetDefault("routing.budget_preference", "balanced")
	w := router.DefaultWeights()
	v.SetDefault("routing.weights.simple_free_bonus", w.SimpleFreeBonus)
	v.SetDefault("routing.weights.critical_premium_bonus", w.CriticalPremiumBonus)
	v.SetDefault("routing.weights.specialization_bonus", w.SpecializationBonus)
	v.SetDefault("routing.weights.cost_optimized_quality", w.CostOptimizedQuality)
	v.SetDefault("routing.weights.cost_optimized_cost", w.CostOptimizedCost)
	v.SetDefault("routing.weights.quality_first_quality", w.QualityFirstQuality)
	v.SetDefault("routing.weights.quality_first_cost", w.QualityFirstCost)
	v.SetDefault("routing.weights.balanced_quality", w.BalancedQuality)
	v.SetDefault("routing.weights.balanced_cost", w.BalancedCost)

	v.SetDefault("registry.path", "")
}

// getUserConfigDir returns the XDG config directory for foreman.
func getUserConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "foreman")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "foreman")
	}
	return filepath.Join(home, ".config", "foreman")
}

// findProjectConfig searches for .foreman.yaml in the current directory and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, ".foreman.yaml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}

	return ""
}

// expandEnv expands ${VAR} references in a string.
func expandEnv(s string) string {
	return os.ExpandEnv(s)
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Anthropic: AnthropicConfig{
			Model: "claude-3-5-sonnet",
		},
		Execution: ExecutionConfig{
			MaxConcurrentTasks: 10,
			MaxTokens:          4096,
		},
		Routing: RoutingConfig{
			BudgetPreference: "balanced",
			Weights:          router.DefaultWeights(),
		},
	}
}
