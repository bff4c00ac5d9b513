package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/datafaker/internal/common"
	"github.com/joho/godotenv"
)

// envLoader loads a .env file into the process environment. Missing files are
// not an error.
var envLoader = func() { _ = godotenv.Load() }

// parseEnv overlays values from environment variables. TICK_INTERVAL is a
// number of milliseconds; RECONNECT_DELAY accepts a Go duration string.
func parseEnv(c *Config) error {
	envLoader()

	p := envParser{}

	p.str(&c.Backend, "DB_BACKEND")
	p.str(&c.DatabaseDSN, "DB_URL")
	p.str(&c.ReplicaSet, "REPLICA_SET_NAME")
	p.str(&c.DatabaseName, "DB_NAME")
	p.millis(&c.TickInterval, "TICK_INTERVAL")
	p.integer(&c.InitialUsers, "INITIAL_USERS_NB")
	p.float(&c.SignupGrowthPercentage, "SIGNUP_GROWTH_PERCENTAGE")
	p.float(&c.SigninPercentage, "SIGNIN_PERCENTAGE")
	p.duration(&c.ReconnectDelay, "RECONNECT_DELAY")
	p.integer(&c.Concurrency, "INSERT_CONCURRENCY")
	p.integer(&c.MaxTicks, "MAX_TICKS")
	p.uint(&c.Seed, "SEED")
	p.boolean(&c.HashPasswords, "HASH_PASSWORDS")
	p.str(&c.HealthAddr, "HEALTH_ADDR")
	p.str(&c.MetricsAddr, "METRICS_ADDR")
	p.str(&c.S3Bucket, "S3_BUCKET")
	p.str(&c.S3Region, "S3_REGION")
	p.str(&c.S3BaseEndpoint, "S3_BASE_ENDPOINT")
	p.str(&c.S3RootUser, "S3_ROOT_USER")
	p.str(&c.S3RootPassword, "S3_ROOT_PASSWORD")
	p.str(&c.LogLevel, "LOG_LEVEL")
	p.str(&c.LogFormat, "LOG_FORMAT")

	return errors.Join(p.errs...)
}

type envParser struct {
	errs []error
}

func (p *envParser) fail(key, value, want string) {
	p.errs = append(p.errs, fmt.Errorf("%w: %s=%q is not %s", common.ErrInvalidConfig, key, value, want))
}

func (p *envParser) str(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func (p *envParser) integer(dst *int, key string) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.fail(key, v, "an integer")
		return
	}
	*dst = n
}

func (p *envParser) uint(dst *uint64, key string) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		p.fail(key, v, "an unsigned integer")
		return
	}
	*dst = n
}

func (p *envParser) float(dst *float64, key string) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		p.fail(key, v, "a number")
		return
	}
	*dst = f
}

func (p *envParser) boolean(dst *bool, key string) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.fail(key, v, "a boolean")
		return
	}
	*dst = b
}

func (p *envParser) millis(dst *time.Duration, key string) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	ms, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		p.fail(key, v, "a number of milliseconds")
		return
	}
	*dst = time.Duration(ms) * time.Millisecond
}

func (p *envParser) duration(dst *time.Duration, key string) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		p.fail(key, v, "a duration")
		return
	}
	*dst = d
}
