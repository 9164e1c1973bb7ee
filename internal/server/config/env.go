package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// envConfig mirrors Config with env tags. Zero values mean the variable was
// not set and the previous layer's value survives.
type envConfig struct {
	EndpointAddr    string        `env:"ADDRESS"`
	DatabaseDSN     string        `env:"DATABASE_DSN"`
	KeyDir          string        `env:"KEY_DIR"`
	CORSOrigins     []string      `env:"CORS_ORIGINS" envSeparator:","`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT"`
	S3RootUser      string        `env:"S3_ROOT_USER"`
	S3RootPassword  string        `env:"S3_ROOT_PASSWORD"`
	S3Bucket        string        `env:"S3_BUCKET"`
	S3Region        string        `env:"S3_REGION"`
	S3BaseEndpoint  string        `env:"S3_BASE_ENDPOINT"`
}

// parseEnv overlays configuration from the environment. A .env file in the
// working directory is loaded first when present; a missing file is not an
// error. Unparseable variables panic, as with the other layers.
func parseEnv(config *Config) {
	_ = godotenv.Load()

	c := envConfig{}
	if err := env.Parse(&c); err != nil {
		panic(err)
	}

	if c.EndpointAddr != "" {
		config.EndpointAddr = c.EndpointAddr
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.KeyDir != "" {
		config.KeyDir = c.KeyDir
	}
	if c.CORSOrigins != nil {
		config.CORSOrigins = c.CORSOrigins
	}
	if c.ShutdownTimeout != 0 {
		config.ShutdownTimeout = c.ShutdownTimeout
	}
	if c.S3RootUser != "" {
		config.S3RootUser = c.S3RootUser
	}
	if c.S3RootPassword != "" {
		config.S3RootPassword = c.S3RootPassword
	}
	if c.S3Bucket != "" {
		config.S3Bucket = c.S3Bucket
	}
	if c.S3Region != "" {
		config.S3Region = c.S3Region
	}
	if c.S3BaseEndpoint != "" {
		config.S3BaseEndpoint = c.S3BaseEndpoint
	}
}
