package config

import (
	"fmt"

	"golang.org/x/time/rate"

	goroots "github.com/njchilds90/goroots"
)

// Config holds all configuration for the goroots binaries
type Config struct {
	Solver  SolverConfig  `mapstructure:"solver"`
	Server  ServerConfig  `mapstructure:"server"`
	Log     LogConfig     `mapstructure:"log"`
	History HistoryConfig `mapstructure:"history"`
}

// SolverConfig holds the default stopping rules
type SolverConfig struct {
	Tolerance float64 `mapstructure:"tolerance" validate:"gte=0"`
	MaxIter   int     `mapstructure:"max_iter" validate:"gte=0"`
}

// ServerConfig holds the HTTP tool server configuration. RateLimit is in
// requests per second on POST /tool; 0 disables limiting.
type ServerConfig struct {
	Host      string  `mapstructure:"host"`
	Port      int     `mapstructure:"port" validate:"gte=0,lte=65535"`
	RateLimit float64 `mapstructure:"rate_limit" validate:"gte=0"`
	Burst     int     `mapstructure:"burst" validate:"gte=1"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error dpanic panic fatal"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
}

// HistoryConfig holds the solve history store configuration
type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Dir     string `mapstructure:"dir" validate:"required_if=Enabled true"`
}

// SolverOptions converts the solver section into library options
func (c *Config) SolverOptions() goroots.Options {
	return goroots.Options{Tolerance: c.Solver.Tolerance, MaxIter: c.Solver.MaxIter}
}

// Addr returns the listen address of the HTTP tool server
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Limiter builds the token bucket for POST /tool, or nil when RateLimit is 0.
func (c ServerConfig) Limiter() *rate.Limiter {
	if c.RateLimit <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(c.RateLimit), c.Burst)
}
