// Package core holds configuration loading, session primitives, and the
// startup validation suite shared by the rest of the application.
package core

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all runtime configuration. Values come from an optional
// config.yaml overlaid by environment variables; environment wins.
type Config struct {
	// LLM provider
	OpenAIAPIKey  string  `yaml:"openai_api_key"`
	OpenAIBaseURL string  `yaml:"openai_base_url"`
	TextModel     string  `yaml:"text_model"`
	VisionModel   string  `yaml:"vision_model"`
	Temperature   float64 `yaml:"temperature"`

	// Document store (GitHub contents API)
	StoreOwner        string `yaml:"store_owner"`
	StoreRepo         string `yaml:"store_repo"`
	StoreBranch       string `yaml:"store_branch"`
	StoreToken        string `yaml:"store_token"`
	StoreBaseURL      string `yaml:"store_base_url"`
	PromptsPathPrefix string `yaml:"prompts_path_prefix"`
	AccountsPath      string `yaml:"accounts_path"`

	// HTTP server
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// AITimeout bounds each chat or vision completion call.
	AITimeout time.Duration `yaml:"ai_timeout"`

	// Upload limits for the describe endpoint.
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`
	MaxImageEdge   int   `yaml:"max_image_edge"`

	// Sessions
	SessionTTL time.Duration `yaml:"session_ttl"`

	// TrustProxyHeaders enables client-IP resolution from X-Forwarded-For /
	// X-Real-IP. Set only behind a trusted reverse proxy.
	TrustProxyHeaders bool `yaml:"trust_proxy_headers"`

	// Logging
	LogFile string `yaml:"log_file"`
	DevMode bool   `yaml:"dev_mode"`
}

// LoadConfig builds the configuration. configPath names an optional YAML
// file ("" skips the overlay); a missing file is not an error, a malformed
// one is.
func LoadConfig(configPath string) (*Config, error) {
	cfg := defaultConfig()

	if configPath != "" {
		if err := applyYAML(cfg, configPath); err != nil {
			return nil, err
		}
	}
	applyEnv(cfg)

	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("port %d out of range", cfg.Port)
	}
	if cfg.Temperature < 0 || cfg.Temperature > 2 {
		return nil, fmt.Errorf("temperature %.2f out of range [0, 2]", cfg.Temperature)
	}

	var missing []string
	if cfg.OpenAIAPIKey == "" {
		missing = append(missing, "OPENAI_API_KEY")
	}
	if cfg.StoreOwner == "" {
		missing = append(missing, "STORE_OWNER")
	}
	if cfg.StoreRepo == "" {
		missing = append(missing, "STORE_REPO")
	}
	if cfg.StoreToken == "" {
		missing = append(missing, "STORE_TOKEN")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required configuration: %s. See .env.example for a template", strings.Join(missing, ", "))
	}

	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		OpenAIBaseURL:     "https://api.openai.com/v1",
		TextModel:         "gpt-4o",
		VisionModel:       "gpt-4o",
		Temperature:       0.8,
		StoreBranch:       "main",
		StoreBaseURL:      "https://api.github.com",
		PromptsPathPrefix: "prompts",
		AccountsPath:      "users.json",
		Host:              "0.0.0.0",
		Port:              3000,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      120 * time.Second,
		AITimeout:         90 * time.Second,
		MaxUploadBytes:    10 << 20,
		MaxImageEdge:      1024,
		SessionTTL:        24 * time.Hour,
		LogFile:           "logs/promptwizard.log",
	}
}

// applyYAML overlays values from a YAML file. Missing file is skipped so a
// pure-environment deployment needs no config file at all.
func applyYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.OpenAIAPIKey, "OPENAI_API_KEY")
	setString(&cfg.OpenAIBaseURL, "OPENAI_BASE_URL")
	setString(&cfg.TextModel, "TEXT_MODEL")
	setString(&cfg.VisionModel, "VISION_MODEL")
	setFloat(&cfg.Temperature, "TEMPERATURE")

	setString(&cfg.StoreOwner, "STORE_OWNER")
	setString(&cfg.StoreRepo, "STORE_REPO")
	setString(&cfg.StoreBranch, "STORE_BRANCH")
	setString(&cfg.StoreToken, "STORE_TOKEN")
	setString(&cfg.StoreBaseURL, "STORE_BASE_URL")
	setString(&cfg.PromptsPathPrefix, "PROMPTS_PATH_PREFIX")
	setString(&cfg.AccountsPath, "ACCOUNTS_PATH")

	setString(&cfg.Host, "HOST")
	setInt(&cfg.Port, "PORT")
	setSeconds(&cfg.ReadTimeout, "READ_TIMEOUT")
	setSeconds(&cfg.WriteTimeout, "WRITE_TIMEOUT")
	setSeconds(&cfg.AITimeout, "AI_TIMEOUT")

	setInt64(&cfg.MaxUploadBytes, "MAX_UPLOAD_BYTES")
	setInt(&cfg.MaxImageEdge, "MAX_IMAGE_EDGE")
	setSeconds(&cfg.SessionTTL, "SESSION_TTL")
	setBool(&cfg.TrustProxyHeaders, "TRUST_PROXY_HEADERS")

	setString(&cfg.LogFile, "LOG_FILE")
	setBool(&cfg.DevMode, "DEV_MODE")
}

// Environment parsing helpers. Unset or unparseable values leave the
// destination untouched.

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setFloat(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

// setSeconds reads a duration given as a number of seconds.
func setSeconds(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = time.Duration(n) * time.Second
		}
	}
}

func setBool(dst *bool, key string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "yes", "on":
		*dst = true
	case "false", "0", "no", "off":
		*dst = false
	}
}

// Addr returns the host:port the server listens on.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
