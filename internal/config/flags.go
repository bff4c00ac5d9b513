package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/datafaker/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-b string        store backend (postgres, sqlite, mongo, memory)
//	-d string        database DSN / URL
//	-r string        mongo replica set name
//	-n string        mongo database name
//	-t int           tick interval, milliseconds
//	-i int           initial number of users
//	-g float         signup growth percentage per tick
//	-s float         signin percentage per tick
//	-w duration      reconnect delay (e.g. "1s")
//	-p int           max concurrent inserts per batch
//	-m int           stop after this many ticks (0 = forever)
//	-seed uint       random seed (0 = random)
//	-hash            store argon2id password hashes
//	-health string   gRPC health listen address
//	-metrics string  Prometheus listen address
//	-s3-bucket, -s3-region, -s3-endpoint, -s3-user, -s3-password
//	-log-level, -log-format
//
// Only flags defined here are handed to the FlagSet; -c/-config is consumed
// by parseJson. A malformed value panics.
func parseFlags(config *Config, args []string) {
	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.Backend, "b", config.Backend, "store backend")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.ReplicaSet, "r", config.ReplicaSet, "mongo replica set name")
	fs.StringVar(&config.DatabaseName, "n", config.DatabaseName, "mongo database name")

	tickInterval := fs.Int64("t", config.TickInterval.Milliseconds(), "tick interval (in milliseconds)")

	fs.IntVar(&config.InitialUsers, "i", config.InitialUsers, "initial number of users")
	fs.Float64Var(&config.SignupGrowthPercentage, "g", config.SignupGrowthPercentage, "signup growth percentage")
	fs.Float64Var(&config.SigninPercentage, "s", config.SigninPercentage, "signin percentage")
	fs.DurationVar(&config.ReconnectDelay, "w", config.ReconnectDelay, "reconnect delay")
	fs.IntVar(&config.Concurrency, "p", config.Concurrency, "max concurrent inserts")
	fs.IntVar(&config.MaxTicks, "m", config.MaxTicks, "stop after N ticks")
	fs.Uint64Var(&config.Seed, "seed", config.Seed, "random seed")
	fs.BoolVar(&config.HashPasswords, "hash", config.HashPasswords, "store password hashes")
	fs.StringVar(&config.HealthAddr, "health", config.HealthAddr, "gRPC health address")
	fs.StringVar(&config.MetricsAddr, "metrics", config.MetricsAddr, "Prometheus metrics address")
	fs.StringVar(&config.S3Bucket, "s3-bucket", config.S3Bucket, "S3 bucket for tick reports")
	fs.StringVar(&config.S3Region, "s3-region", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "s3-endpoint", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.S3RootUser, "s3-user", config.S3RootUser, "S3 access key")
	fs.StringVar(&config.S3RootPassword, "s3-password", config.S3RootPassword, "S3 secret key")
	fs.StringVar(&config.LogLevel, "log-level", config.LogLevel, "log level")
	fs.StringVar(&config.LogFormat, "log-format", config.LogFormat, "log format (text, json)")

	if err := fs.Parse(flagx.FilterFlagSet(args, fs)); err != nil {
		panic(err)
	}

	config.TickInterval = time.Duration(*tickInterval) * time.Millisecond
}
