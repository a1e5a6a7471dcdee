// Package config merges flags, ROTIPANI_* environment variables, an
// optional .env file and an optional YAML settings file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gookit/validate"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/julianstephens/rotipani/internal/constants"
	"github.com/julianstephens/rotipani/internal/utils"
)

const (
	EnvPrefix        = "ROTIPANI"
	SettingsFileName = "config.yaml"
)

// Config is the resolved runtime configuration
type Config struct {
	Storage  string `mapstructure:"storage" validate:"required"`
	Timezone string `mapstructure:"timezone" validate:"knownTimezone"`
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level" validate:"in:debug,info,warn,error"`
	CacheMB  int    `mapstructure:"cache_mb" validate:"min:0"`

	// SettingsFile is the YAML file that was read, if any
	SettingsFile string `mapstructure:"-"`
}

// KnownTimezone is the validator behind the knownTimezone rule
func (c Config) KnownTimezone(val string) bool {
	return utils.ValidateTimezone(val)
}

// Messages customises validation errors
func (c Config) Messages() map[string]string {
	return validate.MS{
		"required":      "{field} is required",
		"min":           "{field} must not be negative",
		"knownTimezone": "{field} is not a known IANA timezone",
		"in":            "{field} must be one of debug, info, warn or error",
	}
}

// Flags carries the command line values. Empty strings and nil
// pointers mean the flag was not given.
type Flags struct {
	Storage      string
	SettingsPath string
	EnvFile      string
	Timezone     string
	Debug        bool
	CacheMB      *int
}

// Load resolves the configuration. Precedence is flag, environment,
// settings file, default.
func Load(flags Flags) (*Config, error) {
	envFile := flags.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	v := viper.New()
	v.SetDefault("storage", constants.DefaultConfigPath)
	v.SetDefault("timezone", "Local")
	v.SetDefault("debug", false)
	v.SetDefault("log_level", "warn")
	v.SetDefault("cache_mb", constants.DefaultCacheSizeMB)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range []string{"storage", "timezone", "debug", "log_level", "cache_mb"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	settingsFile, err := readSettings(v, flags)
	if err != nil {
		return nil, err
	}

	if flags.Storage != "" {
		v.Set("storage", flags.Storage)
	}
	if flags.Timezone != "" {
		v.Set("timezone", flags.Timezone)
	}
	if flags.Debug {
		v.Set("debug", true)
	}
	if flags.CacheMB != nil {
		v.Set("cache_mb", *flags.CacheMB)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}
	cfg.Storage = ExpandHome(cfg.Storage)
	cfg.SettingsFile = settingsFile

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// readSettings reads the YAML settings file. An explicit path must
// exist; the default one next to the database is optional.
func readSettings(v *viper.Viper, flags Flags) (string, error) {
	path := flags.SettingsPath
	explicit := path != ""
	if !explicit {
		storage := flags.Storage
		if storage == "" {
			storage = v.GetString("storage")
		}
		if strings.Contains(storage, "://") || storage == "keyring" {
			storage = constants.DefaultConfigPath
		}
		path = filepath.Join(filepath.Dir(ExpandHome(storage)), SettingsFileName)
	}
	path = ExpandHome(path)

	if _, err := os.Stat(path); err != nil {
		if explicit {
			return "", fmt.Errorf("settings file %s: %w", path, err)
		}
		return "", nil
	}

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return "", fmt.Errorf("failed to read settings file %s: %w", path, err)
	}
	return path, nil
}

// Validate checks the resolved values.
func (c *Config) Validate() error {
	v := validate.Struct(c)
	if !v.Validate() {
		return fmt.Errorf("invalid configuration: %s", v.Errors.One())
	}
	return nil
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// ConfigDir is the directory holding the database, settings and logs.
func (c *Config) ConfigDir() string {
	if strings.Contains(c.Storage, "://") || c.Storage == "keyring" {
		return filepath.Dir(ExpandHome(constants.DefaultConfigPath))
	}
	return filepath.Dir(c.Storage)
}
