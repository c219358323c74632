// Package config loads service and CLI settings with viper: defaults, then
// an optional YAML file, then APIDOC_* environment variables, then flags.
package config

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. APIDOC_SERVER_ADDR.
const EnvPrefix = "APIDOC"

// Config is the full configuration tree.
type Config struct {
	Server  Server  `mapstructure:"server"`
	Log     Log     `mapstructure:"log"`
	Export  Export  `mapstructure:"export"`
	OpenAI  OpenAI  `mapstructure:"openai"`
	Postman Postman `mapstructure:"postman"`
	Archive Archive `mapstructure:"archive"`
}

type Server struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes"`
}

type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type Export struct {
	Filename string `mapstructure:"filename"`
	Heading  string `mapstructure:"heading"`

	// EmptyItemsStatus is the HTTP status for an export without items.
	EmptyItemsStatus int     `mapstructure:"empty_items_status"`
	Browser          Browser `mapstructure:"browser"`
}

type Browser struct {
	Enabled      bool          `mapstructure:"enabled"`
	ChromePath   string        `mapstructure:"chrome_path"`
	NoSandbox    bool          `mapstructure:"no_sandbox"`
	AutoDownload bool          `mapstructure:"auto_download"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

type OpenAI struct {
	APIKey     string        `mapstructure:"api_key"`
	BaseURL    string        `mapstructure:"base_url"`
	Model      string        `mapstructure:"model"`
	MaxRetries int           `mapstructure:"max_retries"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

type Postman struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

// Archive configures the optional copy of every export to object storage.
type Archive struct {
	Enabled   bool   `mapstructure:"enabled"`
	Endpoint  string `mapstructure:"endpoint"`
	Bucket    string `mapstructure:"bucket"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	Prefix    string `mapstructure:"prefix"`
}

// SetDefaults registers every key with its default value. Keys must be
// known to viper for environment overrides to reach Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 2*time.Minute)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.max_body_bytes", int64(10<<20))

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("export.filename", "api_documentation.pdf")
	v.SetDefault("export.heading", "")
	v.SetDefault("export.empty_items_status", http.StatusInternalServerError)
	v.SetDefault("export.browser.enabled", false)
	v.SetDefault("export.browser.chrome_path", "")
	v.SetDefault("export.browser.no_sandbox", false)
	v.SetDefault("export.browser.auto_download", false)
	v.SetDefault("export.browser.timeout", 30*time.Second)

	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("openai.model", "gpt-3.5-turbo")
	v.SetDefault("openai.max_retries", 3)
	v.SetDefault("openai.timeout", 60*time.Second)

	v.SetDefault("postman.api_key", "")
	v.SetDefault("postman.base_url", "https://api.getpostman.com")

	v.SetDefault("archive.enabled", false)
	v.SetDefault("archive.endpoint", "")
	v.SetDefault("archive.bucket", "")
	v.SetDefault("archive.access_key", "")
	v.SetDefault("archive.secret_key", "")
	v.SetDefault("archive.use_ssl", true)
	v.SetDefault("archive.prefix", "exports/")
}

// Setup prepares v: defaults, environment binding, and the config file at
// path when path is not empty.
func Setup(v *viper.Viper, path string) error {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// The upstream credentials keep their conventional names.
	_ = v.BindEnv("openai.api_key", EnvPrefix+"_OPENAI_API_KEY", "OPENAI_API_KEY")
	_ = v.BindEnv("postman.api_key", EnvPrefix+"_POSTMAN_API_KEY", "POSTMAN_API_KEY")

	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("config: reading %s: %w", path, err)
	}
	return nil
}

// Load decodes v into a Config and validates it.
func Load(v *viper.Viper) (Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate reports settings that cannot work together.
func (c Config) Validate() error {
	var errs []error
	if c.Server.MaxBodyBytes <= 0 {
		errs = append(errs, errors.New("server.max_body_bytes must be positive"))
	}
	if s := c.Export.EmptyItemsStatus; s < 400 || s > 599 {
		errs = append(errs, fmt.Errorf("export.empty_items_status %d is not an error status", s))
	}
	if c.Export.Filename == "" {
		errs = append(errs, errors.New("export.filename is empty"))
	}
	if c.Archive.Enabled && (c.Archive.Endpoint == "" || c.Archive.Bucket == "") {
		errs = append(errs, errors.New("archive.endpoint and archive.bucket are required when archive.enabled is set"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
