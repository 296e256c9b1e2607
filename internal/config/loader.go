package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. GOROOTS_SOLVER_TOLERANCE.
const EnvPrefix = "GOROOTS"

// Load loads configuration from defaults, an optional config file and
// environment variables. An empty path searches ".", "~/.goroots" and
// "/etc/goroots" for goroots.yaml; a missing file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Read from environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("goroots")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".goroots"))
		}
		v.AddConfigPath("/etc/goroots")

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config

	// Solver
	cfg.Solver.Tolerance = v.GetFloat64("solver.tolerance")
	cfg.Solver.MaxIter = v.GetInt("solver.max_iter")

	// Server
	cfg.Server.Host = v.GetString("server.host")
	cfg.Server.Port = v.GetInt("server.port")
	cfg.Server.RateLimit = v.GetFloat64("server.rate_limit")
	cfg.Server.Burst = v.GetInt("server.burst")

	// Logging
	cfg.Log.Level = v.GetString("log.level")
	cfg.Log.Format = v.GetString("log.format")

	// History
	cfg.History.Enabled = v.GetBool("history.enabled")
	cfg.History.Dir = expandHome(v.GetString("history.dir"))

	// Validate required fields
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Solver defaults
	v.SetDefault("solver.tolerance", 1e-6)
	v.SetDefault("solver.max_iter", 100)

	// Server defaults
	v.SetDefault("server.host", "")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_limit", 0)
	v.SetDefault("server.burst", 10)

	// Logging defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// History defaults
	v.SetDefault("history.enabled", false)
	v.SetDefault("history.dir", "~/.goroots")
}

var validate = newValidator()

// newValidator reports fields by their config keys, e.g. solver.max_iter.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("mapstructure"); name != "" {
			return name
		}
		return f.Name
	})
	return v
}

func validateConfig(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		var errs validator.ValidationErrors
		if !errors.As(err, &errs) {
			return fmt.Errorf("validate config: %w", err)
		}
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = fmt.Sprintf("%s: %s", strings.TrimPrefix(e.Namespace(), "Config."), message(e))
		}
		return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
	}
	// +Inf passes gte=0
	if err := cfg.SolverOptions().Validate(); err != nil {
		return fmt.Errorf("solver config: %w", err)
	}
	return nil
}

func message(e validator.FieldError) string {
	switch e.Tag() {
	case "required_if":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", e.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", e.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", e.Param())
	default:
		return fmt.Sprintf("failed validation: %s", e.Tag())
	}
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
