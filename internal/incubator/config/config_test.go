package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "time/tzdata"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFileAndEnvOverlay(t *testing.T) {
	path := writeFile(t, `
HTTP_PORT: 9090
DB_HOST: "db"
DB_NAME: "incubator"
JWT_SECRET: "from-file"
S3_BUCKET: "docs"
KAFKA_BROKERS: ["k1:9092"]
`)
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("KAFKA_BROKERS", "a:9092,b:9092")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.Equal(t, "from-env", cfg.JWTSecret)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.KafkaBrokers)
	// untouched keys keep their defaults
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "@yearly", cfg.ArchiveSchedule)
	assert.Equal(t, "Europe/Paris", cfg.Location().String())
}

func TestLoadPathFromEnv(t *testing.T) {
	path := writeFile(t, `
DB_DRIVER: "sqlite"
DB_PATH: "incubator.db"
JWT_SECRET: "s"
S3_BUCKET: "b"
`)
	t.Setenv(PathEnv, path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.DBDriver)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		c := Defaults()
		c.DBHost, c.DBName = "db", "incubator"
		c.JWTSecret = "secret"
		c.S3Bucket = "docs"
		return c
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"missing secret", func(c *Config) { c.JWTSecret = "" }, "JWT_SECRET"},
		{"unknown driver", func(c *Config) { c.DBDriver = "mysql" }, "DB_DRIVER"},
		{"sqlite without path", func(c *Config) { c.DBDriver = "sqlite" }, "DB_PATH"},
		{"empty bucket", func(c *Config) { c.S3Bucket = "" }, "S3_BUCKET"},
		{"bad port", func(c *Config) { c.HTTPPort = 0 }, "HTTP_PORT"},
		{"bad timezone", func(c *Config) { c.Timezone = "Mars/Olympus" }, "TIMEZONE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
