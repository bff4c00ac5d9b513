package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/datafaker/internal/flagx"
	"github.com/dmitrijs2005/datafaker/internal/timex"
)

// JsonConfig is the on-disk shape of a config file. Pointer fields tell an
// absent key apart from a zero value, so a partial file only overrides what
// it mentions.
type JsonConfig struct {
	Backend                *string         `json:"backend"`
	DatabaseDSN            *string         `json:"database_dsn"`
	ReplicaSet             *string         `json:"replica_set"`
	DatabaseName           *string         `json:"database_name"`
	TickInterval           *timex.Duration `json:"tick_interval"`
	InitialUsers           *int            `json:"initial_users"`
	SignupGrowthPercentage *float64        `json:"signup_growth_percentage"`
	SigninPercentage       *float64        `json:"signin_percentage"`
	ReconnectDelay         *timex.Duration `json:"reconnect_delay"`
	Concurrency            *int            `json:"concurrency"`
	MaxTicks               *int            `json:"max_ticks"`
	Seed                   *uint64         `json:"seed"`
	HashPasswords          *bool           `json:"hash_passwords"`
	HealthAddr             *string         `json:"health_addr"`
	MetricsAddr            *string         `json:"metrics_addr"`
	S3Bucket               *string         `json:"s3_bucket"`
	S3Region               *string         `json:"s3_region"`
	S3BaseEndpoint         *string         `json:"s3_base_endpoint"`
	S3RootUser             *string         `json:"s3_root_user"`
	S3RootPassword         *string         `json:"s3_root_password"`
	LogLevel               *string         `json:"log_level"`
	LogFormat              *string         `json:"log_format"`
}

// parseJson loads the file named by -c/-config, if any, into config.
// An unreadable or malformed file panics.
func parseJson(config *Config, args []string) {
	path := flagx.ConfigFile(args)
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	c.apply(config)
}

func (c *JsonConfig) apply(config *Config) {
	setIf(&config.Backend, c.Backend)
	setIf(&config.DatabaseDSN, c.DatabaseDSN)
	setIf(&config.ReplicaSet, c.ReplicaSet)
	setIf(&config.DatabaseName, c.DatabaseName)
	if c.TickInterval != nil {
		config.TickInterval = c.TickInterval.Duration
	}
	setIf(&config.InitialUsers, c.InitialUsers)
	setIf(&config.SignupGrowthPercentage, c.SignupGrowthPercentage)
	setIf(&config.SigninPercentage, c.SigninPercentage)
	if c.ReconnectDelay != nil {
		config.ReconnectDelay = c.ReconnectDelay.Duration
	}
	setIf(&config.Concurrency, c.Concurrency)
	setIf(&config.MaxTicks, c.MaxTicks)
	setIf(&config.Seed, c.Seed)
	setIf(&config.HashPasswords, c.HashPasswords)
	setIf(&config.HealthAddr, c.HealthAddr)
	setIf(&config.MetricsAddr, c.MetricsAddr)
	setIf(&config.S3Bucket, c.S3Bucket)
	setIf(&config.S3Region, c.S3Region)
	setIf(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setIf(&config.S3RootUser, c.S3RootUser)
	setIf(&config.S3RootPassword, c.S3RootPassword)
	setIf(&config.LogLevel, c.LogLevel)
	setIf(&config.LogFormat, c.LogFormat)
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
