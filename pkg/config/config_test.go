package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("stock-service")
	require.NoError(t, err)

	assert.Equal(t, 8084, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "development", cfg.Server.Environment)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "cinestock_stock", cfg.Database.Database)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.NotEmpty(t, cfg.RabbitMQ.URL)
}

func TestLoadEnvOverride(t *testing.T) {
	os.Setenv("CINESTOCK_SERVER_PORT", "9999")
	os.Setenv("CINESTOCK_DATABASE_HOST", "db.internal")
	defer os.Unsetenv("CINESTOCK_SERVER_PORT")
	defer os.Unsetenv("CINESTOCK_DATABASE_HOST")

	cfg, err := Load("stock-service")
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
}

func TestDatabaseDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db.internal",
		Port:     5432,
		User:     "cinestock",
		Password: "secret",
		Database: "cinestock_stock",
		SSLMode:  "require",
	}

	dsn := cfg.DSN()
	assert.Contains(t, dsn, "host=db.internal")
	assert.Contains(t, dsn, "dbname=cinestock_stock")
	assert.Contains(t, dsn, "sslmode=require")
}

func TestDatabaseValidate(t *testing.T) {
	cfg := DatabaseConfig{Host: "localhost"}

	assert.NoError(t, cfg.Validate(EnvDevelopment))
	assert.Error(t, cfg.Validate(EnvProduction))
	assert.Error(t, cfg.Validate(EnvStaging))

	cfg.Host = "db.internal"
	assert.NoError(t, cfg.Validate(EnvProduction))
}

func TestGetEnvironment(t *testing.T) {
	original := os.Getenv("CINESTOCK_SERVER_ENVIRONMENT")
	defer func() {
		if original != "" {
			os.Setenv("CINESTOCK_SERVER_ENVIRONMENT", original)
		} else {
			os.Unsetenv("CINESTOCK_SERVER_ENVIRONMENT")
		}
	}()

	os.Setenv("CINESTOCK_SERVER_ENVIRONMENT", "PRODUCTION")
	assert.Equal(t, "production", GetEnvironment())
	assert.True(t, IsProduction())
	assert.True(t, IsProductionLike())

	os.Unsetenv("CINESTOCK_SERVER_ENVIRONMENT")
	assert.Equal(t, "development", GetEnvironment())
	assert.True(t, IsDevelopment())
}
