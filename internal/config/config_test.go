package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SECRET", "")
	t.Setenv("HTTP_PORT", "")
	t.Setenv("DATABASE_DSN", "")
	t.Setenv("DATABASE_PATH", "")

	cfg := Load()

	assert.Equal(t, "dev_secret", cfg.Secret)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "file:bistro.db?_pragma=foreign_keys(1)", cfg.DatabaseDSN)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SECRET", "s3cret")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DATABASE_DSN", "file:custom.db")

	cfg := Load()

	assert.Equal(t, "s3cret", cfg.Secret)
	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, "file:custom.db", cfg.DatabaseDSN)
}

func TestLoad_InvalidPortFallsBack(t *testing.T) {
	t.Setenv("HTTP_PORT", "not-a-port")

	cfg := Load()

	assert.Equal(t, "8080", cfg.HTTPPort)
}

func TestLoad_DatabasePathShorthand(t *testing.T) {
	t.Setenv("DATABASE_DSN", "")
	t.Setenv("DATABASE_PATH", "/var/lib/bistro/app.db")

	cfg := Load()

	assert.Equal(t, "file:/var/lib/bistro/app.db?_pragma=foreign_keys(1)", cfg.DatabaseDSN)
}
