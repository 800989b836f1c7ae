package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
api:
  environment: test
  port: "9000"
  jwt_signing_key: secret
  jwt_ttl: 2h
  allowed_cors_domains:
    - http://example.com
gin:
  mode: release
postgres:
  host: db
  user: farm
  password: pw
  db: farmlog
stats:
  max_rows: 10
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	conf, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "test", conf.API.Environment)
	assert.Equal(t, "9000", conf.API.Port)
	assert.Equal(t, 2*time.Hour, conf.API.JWTTTL)
	assert.Equal(t, []string{"http://example.com"}, conf.API.AllowedCORSDomains)
	assert.Equal(t, "release", conf.Gin.Mode)
	assert.Equal(t, "5432", conf.Postgres.Port)
	assert.Equal(t, 10, conf.Stats.MaxRows)
	assert.Equal(t, 40, conf.API.RateLimitBurst)
	assert.Equal(t, "host=db port=5432 user=farm password=pw dbname=farmlog sslmode=disable", conf.Postgres.DSN())
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("API_PORT", "7000")
	t.Setenv("POSTGRES_HOST", "override")

	conf, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "7000", conf.API.Port)
	assert.Equal(t, "override", conf.Postgres.Host)
}

func TestLoad_MissingSigningKey(t *testing.T) {
	_, err := Load(writeConfig(t, "api:\n  port: \"1\"\n"))
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}

func TestWatch_MissingFile(t *testing.T) {
	err := Watch(filepath.Join(t.TempDir(), "nope.yml"), func(string) {})
	assert.Error(t, err)
}

func TestWatch_ReportsNewLevel(t *testing.T) {
	path := writeConfig(t, sampleYAML)

	levels := make(chan string, 8)
	require.NoError(t, Watch(path, func(level string) {
		select {
		case levels <- level:
		default:
		}
	}))

	updated := strings.Replace(sampleYAML, "environment: test", "environment: test\n  log_level: debug", 1)
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o600))

	assert.Eventually(t, func() bool {
		select {
		case level := <-levels:
			return level == "debug"
		default:
			return false
		}
	}, 5*time.Second, 50*time.Millisecond)
}
