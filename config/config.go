// Package config reads the stk settings.
//
// Settings come, in increasing priority, from defaults, a YAML config file
// (.stk.yaml in the working or home directory), a .env file and STK_*
// environment variables. Command-line flags are applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strconv"
	"strings"

	"github.com/etnz/stock"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read as a setting.
const EnvPrefix = "STK"

// Setting keys.
const (
	KeyFile         = "file"
	KeyStore        = "store"
	KeyCapacity     = "capacity"
	KeyLowThreshold = "low-threshold"
	KeyLogLevel     = "log-level"
	KeyVerbose      = "verbose"
)

// Defaults.
const (
	DefaultFile     = "stock_data.json"
	DefaultCapacity = 1000
	DefaultLogLevel = "warn"
)

// Config holds the stk settings.
type Config struct {
	File         string         // snapshot file, used when Store is empty
	Store        string         // store URL, e.g. redis://localhost:6379/0
	Capacity     stock.Quantity // 0 means unlimited
	LowThreshold stock.Quantity // remaining room below it is reported as low
	LogLevel     string
}

// Load reads the settings. configFile, if not empty, is the config file to
// use instead of looking for .stk.yaml, and it must exist.
func Load(configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("cannot load .env file: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	// extensions receive the snapshot file as STK_SNAPSHOT_FILE.
	if err := v.BindEnv(KeyFile, "STK_SNAPSHOT_FILE", "STK_FILE"); err != nil {
		return nil, err
	}

	v.SetDefault(KeyFile, DefaultFile)
	v.SetDefault(KeyStore, "")
	v.SetDefault(KeyCapacity, DefaultCapacity)
	v.SetDefault(KeyLowThreshold, int64(stock.DefaultLowThreshold))
	v.SetDefault(KeyLogLevel, DefaultLogLevel)
	v.SetDefault(KeyVerbose, false)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("cannot read config file %q: %w", configFile, err)
		}
	} else {
		v.SetConfigName(".stk")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("cannot read config file: %w", err)
			}
		}
	}

	capacity, err := getQuantity(v, KeyCapacity)
	if err != nil {
		return nil, err
	}
	low, err := getQuantity(v, KeyLowThreshold)
	if err != nil {
		return nil, err
	}
	cfg := &Config{
		File:         v.GetString(KeyFile),
		Store:        v.GetString(KeyStore),
		Capacity:     capacity,
		LowThreshold: low,
		LogLevel:     v.GetString(KeyLogLevel),
	}
	verbose, err := getBool(v, KeyVerbose)
	if err != nil {
		return nil, err
	}
	if verbose {
		// verbose only ever adds logs, it keeps trace.
		if level, err := cfg.Level(); err != nil || level > zerolog.DebugLevel {
			cfg.LogLevel = zerolog.LevelDebugValue
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the settings are usable.
func (c *Config) Validate() error {
	if c.Store == "" && strings.TrimSpace(c.File) == "" {
		return errors.New("no snapshot file")
	}
	if c.Capacity < 0 {
		return fmt.Errorf("capacity must not be negative, got %d", c.Capacity)
	}
	if c.LowThreshold < 0 {
		return fmt.Errorf("low threshold must not be negative, got %d", c.LowThreshold)
	}
	if c.Store != "" {
		u, err := url.Parse(c.Store)
		if err != nil {
			return fmt.Errorf("invalid store %q: %w", c.Store, err)
		}
		switch u.Scheme {
		case "file":
			if FilePath(u) == "" {
				return fmt.Errorf("store %q has no file path", c.Store)
			}
		case "redis", "rediss":
		default:
			return fmt.Errorf("unsupported store %q, want a file://, redis:// or rediss:// URL", c.Store)
		}
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// FilePath returns the file a file:// store URL points to.
//
// Both file:///abs/stock.json and the relative file://stock.json or
// file:stock.json forms are accepted.
func FilePath(u *url.URL) string {
	if u.Opaque != "" {
		return u.Opaque
	}
	host := u.Host
	if host == "localhost" {
		host = ""
	}
	return host + u.Path
}

// Level returns the configured log level.
func (c *Config) Level() (zerolog.Level, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// getBool reads a boolean setting strictly.
func getBool(v *viper.Viper, key string) (bool, error) {
	raw := strings.TrimSpace(v.GetString(key))
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: not a boolean", key, raw)
	}
	return b, nil
}

// getQuantity reads an integer setting strictly: viper silently casts
// garbage to 0.
func getQuantity(v *viper.Viper, key string) (stock.Quantity, error) {
	raw := strings.TrimSpace(v.GetString(key))
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: not an integer", key, raw)
	}
	return stock.Quantity(n), nil
}
