package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/joshsymonds/mailview/internal/fetch"
)

// EnvPrefix namespaces every environment override.
const EnvPrefix = "MAILVIEW"

// LogConfig controls the process logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// Config is the resolved viewer configuration.
type Config struct {
	// Subject is the mailbox the service account impersonates.
	Subject string `mapstructure:"subject"`
	// Credentials optionally preloads a key document at startup.
	Credentials string `mapstructure:"credentials"`
	Folder      string `mapstructure:"folder"`
	Limit       int    `mapstructure:"limit"`
	MinLimit    int    `mapstructure:"min_limit"`
	MaxLimit    int    `mapstructure:"max_limit"`
	APIEndpoint string `mapstructure:"api_endpoint"`
	RPS         int    `mapstructure:"rps"`

	Log LogConfig `mapstructure:"log"`
}

// Options locates the optional configuration sources.
type Options struct {
	// Path is a YAML file; empty skips it, a missing file is an error.
	Path string
	// EnvFile is a dotenv file; empty or missing is ignored.
	EnvFile string
}

var defaults = map[string]any{
	"subject":      "",
	"credentials":  "",
	"folder":       string(fetch.FolderInbox),
	"limit":        fetch.DefaultLimit,
	"min_limit":    fetch.DefaultBounds.Min,
	"max_limit":    fetch.DefaultBounds.Max,
	"api_endpoint": "",
	"rps":          0,
	"log.level":    "info",
	"log.format":   "text",
	"log.file":     "",
}

// EnvName returns the environment variable that overrides key.
func EnvName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// Load resolves configuration from defaults, the YAML file, the dotenv file
// and the environment, later sources winning. It does not validate.
func Load(opts Options) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if opts.Path != "" {
		v.SetConfigFile(opts.Path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", opts.Path, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.EnvFile != "" {
		if err := applyEnvFile(v, opts.EnvFile); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.normalize()
	return cfg, nil
}

func (c *Config) normalize() {
	c.Folder = strings.ToUpper(strings.TrimSpace(c.Folder))
	c.Subject = strings.TrimSpace(c.Subject)
}

// applyEnvFile layers dotenv values above the YAML file but below variables
// already present in the environment.
func applyEnvFile(v *viper.Viper, path string) error {
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading env file %s: %w", path, err)
	}
	for key := range defaults {
		name := EnvName(key)
		raw, ok := values[name]
		if !ok {
			continue
		}
		if _, set := os.LookupEnv(name); set {
			continue
		}
		v.Set(key, raw)
	}
	return nil
}

// Bounds returns the configured limit range.
func (c *Config) Bounds() fetch.Bounds {
	return fetch.Bounds{Min: c.MinLimit, Max: c.MaxLimit}
}

// Request is the fetch described by the configured folder and limit.
func (c *Config) Request() (fetch.Request, error) {
	folder, err := fetch.ParseFolder(c.Folder)
	if err != nil {
		return fetch.Request{}, err
	}
	return fetch.Request{Folder: folder, Limit: c.Limit}, nil
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	if c.Subject == "" {
		return fmt.Errorf("subject is required (set %s or -subject)", EnvName("subject"))
	}
	if !strings.Contains(c.Subject, "@") {
		return fmt.Errorf("subject %q is not an email address", c.Subject)
	}
	bounds := c.Bounds()
	if err := bounds.Validate(); err != nil {
		return err
	}
	if !bounds.Contains(c.Limit) {
		return fmt.Errorf("limit %d outside %d..%d", c.Limit, bounds.Min, bounds.Max)
	}
	if _, err := fetch.ParseFolder(c.Folder); err != nil {
		return err
	}
	if c.RPS < 0 {
		return fmt.Errorf("rps must not be negative, got %d", c.RPS)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q (want text or json)", c.Log.Format)
	}
	return nil
}
