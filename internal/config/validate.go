package config

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/dmitrijs2005/datafaker/internal/common"
	"github.com/dmitrijs2005/datafaker/internal/logging"
)

// Validate rejects settings the generator cannot run with. All problems are
// reported at once.
func (c *Config) Validate() error {
	var errs []error
	invalid := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{common.ErrInvalidConfig}, args...)...))
	}

	switch c.Backend {
	case BackendPostgres, BackendSQLite, BackendMongo, BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("%w: %q", common.ErrUnknownBackend, c.Backend))
	}

	if c.Backend != BackendMemory && strings.TrimSpace(c.DatabaseDSN) == "" {
		invalid("database DSN is required")
	}
	if c.Backend == BackendMongo && c.DatabaseName == "" {
		invalid("database name is required for mongo")
	}
	if c.TickInterval <= 0 {
		invalid("tick interval must be positive, got %v", c.TickInterval)
	}
	if c.InitialUsers < 1 {
		invalid("initial users must be at least 1, got %d", c.InitialUsers)
	}
	if !validPercentage(c.SignupGrowthPercentage) {
		invalid("signup growth percentage must be a number in [0, %v], got %v", MaxPercentage, c.SignupGrowthPercentage)
	}
	if !validPercentage(c.SigninPercentage) {
		invalid("signin percentage must be a number in [0, %v], got %v", MaxPercentage, c.SigninPercentage)
	}
	if c.ReconnectDelay <= 0 {
		invalid("reconnect delay must be positive, got %v", c.ReconnectDelay)
	}
	if c.Concurrency < 1 {
		invalid("concurrency must be at least 1, got %d", c.Concurrency)
	}
	if c.MaxTicks < 0 {
		invalid("max ticks must not be negative, got %d", c.MaxTicks)
	}
	if c.S3Enabled() && c.S3Region == "" {
		invalid("s3 region is required when a bucket is set")
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		invalid("%v", err)
	}
	switch strings.ToLower(c.LogFormat) {
	case logging.FormatText, logging.FormatJSON, "":
	default:
		invalid("unknown log format %q", c.LogFormat)
	}

	return errors.Join(errs...)
}

// MaxPercentage bounds both growth percentages; a day may at most grow the
// population a hundredfold.
const MaxPercentage = 10000

func validPercentage(p float64) bool {
	return !math.IsNaN(p) && p >= 0 && p <= MaxPercentage
}
