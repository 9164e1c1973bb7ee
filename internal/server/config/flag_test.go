package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected *Config
		name     string
		args     []string
	}{
		{
			name: "all flags set",
			args: []string{"cmd",
				"-a", "127.0.0.1:9090", "-d", "db", "-k", "/keys",
				"-o", "http://a,http://b", "-w", "10",
				"-u", "user", "-p", "password", "-b", "bucket", "-g", "us-west-1", "-e", "http://endpoint",
			},
			expected: &Config{
				EndpointAddr:    "127.0.0.1:9090",
				DatabaseDSN:     "db",
				KeyDir:          "/keys",
				CORSOrigins:     []string{"http://a", "http://b"},
				ShutdownTimeout: 10 * time.Second,
				S3RootUser:      "user",
				S3RootPassword:  "password",
				S3Bucket:        "bucket",
				S3Region:        "us-west-1",
				S3BaseEndpoint:  "http://endpoint",
			},
		},
		{
			name: "unrelated flags are ignored",
			args: []string{"cmd", "-config", "ignored.json", "-a", "127.0.0.1:9091", "-w", "3"},
			expected: &Config{
				EndpointAddr:    "127.0.0.1:9091",
				ShutdownTimeout: 3 * time.Second,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args

			config := &Config{}
			require.NotPanics(t, func() { parseFlags(config) })
			assert.Empty(t, cmp.Diff(tt.expected, config))
		})
	}
}

func TestParseEnv(t *testing.T) {
	t.Setenv("ADDRESS", "envhost:7070")
	t.Setenv("CORS_ORIGINS", "http://x,http://y")
	t.Setenv("SHUTDOWN_TIMEOUT", "12s")
	t.Setenv("S3_BUCKET", "archives")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, "envhost:7070", cfg.EndpointAddr)
	assert.Equal(t, []string{"http://x", "http://y"}, cfg.CORSOrigins)
	assert.Equal(t, 12*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "archives", cfg.S3Bucket)

	// untouched layers survive
	assert.Equal(t, "keys", cfg.KeyDir)
	assert.Equal(t, "us-east-1", cfg.S3Region)
}
