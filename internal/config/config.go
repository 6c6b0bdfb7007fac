package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Keys shared by viper, the environment and cobra flag bindings
const (
	KeyTarget        = "target"
	KeyTimeout       = "timeout"
	KeyAliasTimeout  = "alias_timeout"
	KeyDetectTimeout = "detect_timeout"
	KeyAttempts      = "attempts"
	KeyPort          = "port"
	KeyLogLevel      = "log_level"
	KeyHost          = "host"
	KeyAlias         = "alias"
	KeyConfigFile    = "config"

	// EnvPrefix is prepended to upper-cased keys (KASACTL_TARGET, ...)
	EnvPrefix = "KASACTL"
)

// Defaults
const (
	DefaultTarget        = "255.255.255.255"
	DefaultTimeout       = 3 * time.Second
	DefaultAliasTimeout  = 1 * time.Second
	DefaultDetectTimeout = 2 * time.Second
	DefaultAttempts      = 3
	DefaultPort          = 9999
)

// Config is the resolved set of settings
type Config struct {
	Target        string        `mapstructure:"target" validate:"required"`
	Timeout       time.Duration `mapstructure:"timeout" validate:"gt=0"`
	AliasTimeout  time.Duration `mapstructure:"alias_timeout" validate:"gt=0"`
	DetectTimeout time.Duration `mapstructure:"detect_timeout" validate:"gt=0"`
	Attempts      int           `mapstructure:"attempts" validate:"gte=1"`
	Port          int           `mapstructure:"port" validate:"min=1,max=65535"`
	LogLevel      string        `mapstructure:"log_level" validate:"omitempty,oneof=debug info warn warning error"`
	Host          string        `mapstructure:"host" validate:"excluded_with=Alias"`
	Alias         string        `mapstructure:"alias"`

	// File is the config file that was read, empty if none
	File string `mapstructure:"-"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// SetDefaults registers the default of every key on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyTarget, DefaultTarget)
	v.SetDefault(KeyTimeout, DefaultTimeout)
	v.SetDefault(KeyAliasTimeout, DefaultAliasTimeout)
	v.SetDefault(KeyDetectTimeout, DefaultDetectTimeout)
	v.SetDefault(KeyAttempts, DefaultAttempts)
	v.SetDefault(KeyPort, DefaultPort)
	v.SetDefault(KeyLogLevel, "")
	v.SetDefault(KeyHost, "")
	v.SetDefault(KeyAlias, "")
}

// Load resolves the configuration on v. Flags must already be bound.
// A missing config file is not an error; an unreadable one is.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// Legacy variables of the Python tool
	if err := v.BindEnv(KeyHost, EnvPrefix+"_HOST", "PYHS100_HOST", "PYHS100_IP"); err != nil {
		return nil, err
	}
	if err := v.BindEnv(KeyAlias, EnvPrefix+"_ALIAS", "PYHS100_NAME"); err != nil {
		return nil, err
	}

	file, err := readConfigFile(v)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	cfg.File = file

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// readConfigFile reads an explicit --config file, or the default file if
// it exists. It returns the path that was read.
func readConfigFile(v *viper.Viper) (string, error) {
	if explicit := v.GetString(KeyConfigFile); explicit != "" {
		v.SetConfigFile(explicit)
		if err := v.ReadInConfig(); err != nil {
			return "", fmt.Errorf("failed to read config file %s: %w", explicit, err)
		}
		return explicit, nil
	}

	path, err := GetConfigPath()
	if err != nil {
		// No home directory: run on defaults
		return "", nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return "", nil
	}

	v.SetConfigFile(path)
	v.SetConfigType(configType)
	if err := v.ReadInConfig(); err != nil {
		return "", fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return path, nil
}

// Validate checks every field and reports all failures at once
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

// describe renders one validation failure using the config key name
func describe(fe validator.FieldError) string {
	key := keyFor(fe.StructField())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", key)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s (got %v)", key, fe.Param(), fe.Value())
	case "gte", "min":
		return fmt.Sprintf("%s must be at least %s (got %v)", key, fe.Param(), fe.Value())
	case "max":
		return fmt.Sprintf("%s must be at most %s (got %v)", key, fe.Param(), fe.Value())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s] (got %v)", key, fe.Param(), fe.Value())
	case "excluded_with":
		return "host and alias cannot both be set"
	default:
		return fmt.Sprintf("%s failed %s validation", key, fe.Tag())
	}
}

func keyFor(field string) string {
	switch field {
	case "AliasTimeout":
		return KeyAliasTimeout
	case "DetectTimeout":
		return KeyDetectTimeout
	case "LogLevel":
		return KeyLogLevel
	default:
		return strings.ToLower(field)
	}
}
