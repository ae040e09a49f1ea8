package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`

	// Engine selects the TTS provider, see tts.EngineType.
	Engine       string `mapstructure:"engine"`
	DefaultVoice string `mapstructure:"default_voice"`

	StaticDir    string `mapstructure:"static_dir"`
	TempDir      string `mapstructure:"temp_dir"` // empty means os.TempDir()
	MaxBodyBytes int64  `mapstructure:"max_body_bytes"`

	CleanupAttempts int           `mapstructure:"cleanup_attempts"`
	CleanupDelay    time.Duration `mapstructure:"cleanup_delay"`
	ProbeAudio      bool          `mapstructure:"probe_audio"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	// Edge
	EdgeCommand string `mapstructure:"edge_command"` // e.g. "edge-tts" or "python3 -m edge_tts"

	// OpenAI
	OpenAIAPIKey  string `mapstructure:"openai_api_key"`
	OpenAIBaseURL string `mapstructure:"openai_base_url"`
	OpenAIModel   string `mapstructure:"openai_model"`

	// Google
	GoogleAPIKey  string `mapstructure:"google_api_key"`
	GoogleBaseURL string `mapstructure:"google_base_url"`

	// Xunfei
	XunfeiAppID     string `mapstructure:"xunfei_app_id"`
	XunfeiAPIKey    string `mapstructure:"xunfei_api_key"`
	XunfeiAPISecret string `mapstructure:"xunfei_api_secret"`
	XunfeiHostURL   string `mapstructure:"xunfei_host_url"`
}

const ConfigFile = "config"

var defaults = map[string]any{
	"host":              "0.0.0.0",
	"port":              "8000",
	"engine":            "edge",
	"default_voice":     "en-US-AriaNeural",
	"static_dir":        ".",
	"temp_dir":          "",
	"max_body_bytes":    int64(1 << 20),
	"cleanup_attempts":  5,
	"cleanup_delay":     100 * time.Millisecond,
	"probe_audio":       false,
	"log_level":         "info",
	"log_format":        "json",
	"edge_command":      "edge-tts",
	"openai_api_key":    "",
	"openai_base_url":   "https://api.openai.com/v1",
	"openai_model":      "tts-1",
	"google_api_key":    "",
	"google_base_url":   "https://texttospeech.googleapis.com/v1",
	"xunfei_app_id":     "",
	"xunfei_api_key":    "",
	"xunfei_api_secret": "",
	"xunfei_host_url":   "wss://tts-api.xfyun.cn/v2/tts",
}

// flagKeys are the config keys that can be overridden on the command line.
var flagKeys = []string{"host", "port", "engine", "static_dir", "log_level", "log_format"}

// Flags declares the command line overrides. Flag names use dashes.
func Flags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("tts", pflag.ContinueOnError)
	fs.String("config-dir", ".", "directory holding config.json")
	for _, key := range flagKeys {
		fs.String(flagName(key), fmt.Sprint(defaults[key]), "overrides "+strings.ToUpper(key))
	}
	return fs
}

func flagName(key string) string {
	return strings.ReplaceAll(key, "_", "-")
}

// LoadConfig reads .env, then config.json (or .yaml/.toml) from dir, then the
// environment. Later sources win.
func LoadConfig(dir string) (*Config, error) {
	return LoadConfigWithFlags(dir, nil)
}

// LoadConfigWithFlags is LoadConfig with flags from Flags() taking precedence
// over everything else. Only flags that were set count.
func LoadConfigWithFlags(dir string, fs *pflag.FlagSet) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	v.SetConfigName(ConfigFile)
	v.AddConfigPath(dir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Older deployments used XUNFEI_APPID.
	if err := v.BindEnv("xunfei_app_id", "XUNFEI_APPID", "XUNFEI_APP_ID"); err != nil {
		return nil, err
	}

	if fs != nil {
		for _, key := range flagKeys {
			if f := fs.Lookup(flagName(key)); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, err
				}
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 0 || port > 65535 {
		return fmt.Errorf("invalid port %q", c.Port)
	}
	if c.CleanupAttempts < 1 {
		return fmt.Errorf("cleanup_attempts must be at least 1, got %d", c.CleanupAttempts)
	}
	if c.CleanupDelay < 0 {
		return fmt.Errorf("cleanup_delay must not be negative")
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("max_body_bytes must be positive")
	}
	switch strings.ToLower(c.LogFormat) {
	case "json", "console":
	default:
		return fmt.Errorf("unknown log_format %q", c.LogFormat)
	}
	return nil
}

// Addr is the listen address for http.Server.
func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}
