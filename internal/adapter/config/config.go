package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config はアプリケーション全体の設定
type Config struct {
	LLM       LLMConfig       `yaml:"llm"`
	Nominatim NominatimConfig `yaml:"nominatim"`
	Agent     AgentConfig     `yaml:"agent"`
	Log       LogConfig       `yaml:"log"`
}

// LLMConfig はLLMプロバイダー設定
type LLMConfig struct {
	Provider string `yaml:"provider" env:"GEONAVI_LLM_PROVIDER"`
	Model    string `yaml:"model" env:"GEONAVI_LLM_MODEL"`
	BaseURL  string `yaml:"base_url" env:"GEONAVI_LLM_BASE_URL"`
	APIKey   string `yaml:"api_key" env:"OPENAI_API_KEY"` // 環境変数から読み込み推奨
}

// NominatimConfig はジオコーディングAPI設定
type NominatimConfig struct {
	BaseURL   string `yaml:"base_url" env:"GEONAVI_NOMINATIM_BASE_URL"`
	UserAgent string `yaml:"user_agent" env:"GEONAVI_NOMINATIM_USER_AGENT"`
}

// AgentConfig は会話エージェント設定
type AgentConfig struct {
	MaxIterations int     `yaml:"max_iterations" env:"GEONAVI_AGENT_MAX_ITERATIONS"`
	MaxTokens     int     `yaml:"max_tokens" env:"GEONAVI_AGENT_MAX_TOKENS"`
	Temperature   float64 `yaml:"temperature" env:"GEONAVI_AGENT_TEMPERATURE"`
}

// LogConfig はログ設定
type LogConfig struct {
	Level string `yaml:"level" env:"GEONAVI_LOG_LEVEL"`
}

// LoadConfig は設定ファイルを読み込む
// pathが空または存在しない場合はデフォルト値と環境変数のみで構成する
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config YAML: %w", err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// 環境変数が設定ファイルを上書きする
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}

	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults はデフォルト値を設定
func (c *Config) setDefaults() {
	if c.LLM.Provider == "" {
		c.LLM.Provider = "openai"
	}

	if c.LLM.Model == "" {
		c.LLM.Model = "gpt-4o-mini"
	}

	if c.Agent.MaxIterations == 0 {
		c.Agent.MaxIterations = 5
	}

	if c.Agent.MaxTokens == 0 {
		c.Agent.MaxTokens = 8192
	}

	if c.Agent.Temperature == 0 {
		c.Agent.Temperature = 0.7
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate は設定の妥当性を検証
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case "openai", "ollama":
	default:
		return fmt.Errorf("unknown llm provider: %s (must be openai or ollama)", c.LLM.Provider)
	}

	if c.LLM.Provider == "openai" && c.LLM.APIKey == "" {
		return fmt.Errorf("openai api_key is required (set OPENAI_API_KEY)")
	}

	if c.Agent.MaxIterations < 1 {
		return fmt.Errorf("invalid agent max_iterations: %d (must be >= 1)", c.Agent.MaxIterations)
	}

	return nil
}
