// Package config handles loading user configuration for memcard.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all user configuration.
type Config struct {
	Provider string        `mapstructure:"provider"` // gemini, anthropic, openai, remote
	Model    string        `mapstructure:"model"`    // Empty means the provider default
	Timeout  time.Duration `mapstructure:"timeout"`
	Words    string        `mapstructure:"words"` // Word list path

	Anthropic KeyConfig     `mapstructure:"anthropic"`
	OpenAI    KeyConfig     `mapstructure:"openai"`
	Gemini    KeyConfig     `mapstructure:"gemini"`
	Remote    RemoteConfig  `mapstructure:"remote"`
	Breaker   BreakerConfig `mapstructure:"breaker"`
	Cache     CacheConfig   `mapstructure:"cache"`
	Audio     AudioConfig   `mapstructure:"audio"`
	Server    ServerConfig  `mapstructure:"server"`
	Log       LogConfig     `mapstructure:"log"`
}

// KeyConfig holds credentials for a hosted provider.
type KeyConfig struct {
	APIKey string `mapstructure:"api_key"`
}

// RemoteConfig points at another memcard server.
type RemoteConfig struct {
	URL string `mapstructure:"url"`
}

// BreakerConfig tunes the circuit breaker in front of the generator.
type BreakerConfig struct {
	MaxFailures uint32        `mapstructure:"max_failures"`
	OpenTimeout time.Duration `mapstructure:"open_timeout"`
}

// CacheConfig selects where generated cards are cached.
type CacheConfig struct {
	Backend   string        `mapstructure:"backend"` // none, sqlite, redis
	Path      string        `mapstructure:"path"`
	RedisAddr string        `mapstructure:"redis_addr"`
	TTL       time.Duration `mapstructure:"ttl"`
}

// AudioConfig selects the pronunciation source.
type AudioConfig struct {
	Source      string `mapstructure:"source"` // openai, espeak, url, none
	Voice       string `mapstructure:"voice"`
	Model       string `mapstructure:"model"`
	URLTemplate string `mapstructure:"url_template"` // %s is replaced by the escaped word
	CacheDir    string `mapstructure:"cache_dir"`
}

// ServerConfig configures `memcard serve`.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Mode  string `mapstructure:"mode"`
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// SetDefaults registers defaults and environment bindings on v.
func SetDefaults(v *viper.Viper) {
	dataDir := DataDir()

	v.SetDefault("provider", "gemini")
	v.SetDefault("model", "")
	v.SetDefault("timeout", 30*time.Second)
	v.SetDefault("words", filepath.Join(GetConfigDir(), "words.yaml"))
	v.SetDefault("breaker.max_failures", 3)
	v.SetDefault("breaker.open_timeout", 30*time.Second)
	v.SetDefault("cache.backend", "sqlite")
	v.SetDefault("cache.path", filepath.Join(dataDir, "cards.db"))
	v.SetDefault("cache.redis_addr", "localhost:6379")
	v.SetDefault("cache.ttl", 30*24*time.Hour)
	v.SetDefault("audio.source", "url")
	v.SetDefault("audio.voice", "alloy")
	v.SetDefault("audio.model", "tts-1")
	v.SetDefault("audio.url_template", "https://dict.youdao.com/dictvoice?audio=%s&type=2")
	v.SetDefault("audio.cache_dir", filepath.Join(dataDir, "audio"))
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("log.mode", "dev")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", filepath.Join(dataDir, "memcard.log"))

	// Provider keys follow the names the hosted APIs document.
	v.BindEnv("anthropic.api_key", "MEMCARD_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY")
	v.BindEnv("openai.api_key", "MEMCARD_OPENAI_API_KEY", "OPENAI_API_KEY")
	v.BindEnv("gemini.api_key", "MEMCARD_GEMINI_API_KEY", "GEMINI_API_KEY")
}

// Load reads the config file known to v (a missing file is fine) and
// decodes the merged settings.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return &cfg, nil
}

// APIKey returns the key configured for the selected provider.
func (c *Config) APIKey() string {
	switch c.Provider {
	case "anthropic", "claude":
		return c.Anthropic.APIKey
	case "openai":
		return c.OpenAI.APIKey
	case "gemini":
		return c.Gemini.APIKey
	default:
		return ""
	}
}

// GetConfigDir returns the default configuration directory.
func GetConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "memcard")
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".memcard"
	}
	return filepath.Join(home, ".config", "memcard")
}

// DataDir returns the directory for the card cache, audio files and logs.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "memcard")
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".memcard"
	}
	return filepath.Join(home, ".local", "share", "memcard")
}

// EnsureConfigDir creates the config directory if it doesn't exist.
func EnsureConfigDir() (string, error) {
	dir := GetConfigDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}
