package app

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wayfarerhq/wayfarer/internal/auth"
	"github.com/wayfarerhq/wayfarer/internal/realtime"
)

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join("testdata")
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, "debug", cfg.Server.LogLevel)
	require.True(t, cfg.Server.DevMode)

	require.Equal(t, "mongodb://db.example.com:27017", cfg.Database.URI)
	require.Equal(t, "wayfarer_test", cfg.Database.Name)
	require.Equal(t, 15*time.Second, cfg.Database.Timeout)

	require.Equal(t, "jwt-secret", cfg.Auth.JWT.Secret)
	require.Equal(t, "wayfarer-test", cfg.Auth.JWT.Issuer)
	require.Equal(t, 30*time.Minute, cfg.Auth.JWT.TTL)

	require.Equal(t, 2*time.Second, cfg.Realtime.PersistTimeout)

	require.False(t, cfg.Monitoring.Prometheus.Enabled)
	require.Equal(t, "/internal/metrics", cfg.Monitoring.Prometheus.Endpoint)
	require.False(t, cfg.Monitoring.Health.Enabled)
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, 8000, cfg.Server.Port)
	require.Equal(t, "info", cfg.Server.LogLevel)
	require.Equal(t, "mongodb://127.0.0.1:27017", cfg.Database.URI)
	require.Equal(t, "wayfarer", cfg.Database.Name)
	require.Equal(t, 10*time.Second, cfg.Database.Timeout)
	require.Equal(t, 24*time.Hour, cfg.Auth.JWT.TTL)
	require.Equal(t, 5*time.Second, cfg.Realtime.PersistTimeout)
	require.True(t, cfg.Monitoring.Prometheus.Enabled)
	require.Equal(t, "/metrics", cfg.Monitoring.Prometheus.Endpoint)
	require.True(t, cfg.Monitoring.Health.Enabled)
}

func TestConfigAdapters(t *testing.T) {
	cfg := Config{
		Auth: AuthConfig{
			JWT: JWTSettings{
				Secret: "secret",
				Issuer: "issuer",
				TTL:    30 * time.Minute,
			},
		},
		Database: DatabaseConfig{
			URI:     "mongodb://localhost:27017",
			Name:    "wayfarer",
			Timeout: 5 * time.Second,
		},
	}

	jwtCfg := cfg.Auth.JWTServiceConfig()
	require.Equal(t, auth.JWTConfig{
		Secret:         "secret",
		Issuer:         "issuer",
		AccessTokenTTL: 30 * time.Minute,
	}, jwtCfg)

	dbCfg := cfg.Database.ConnectorConfig()
	require.Equal(t, "mongodb://localhost:27017", dbCfg.URI)
	require.Equal(t, "wayfarer", dbCfg.Database)
	require.Equal(t, 5*time.Second, dbCfg.Timeout)
}

func TestConfigAdaptersFallback(t *testing.T) {
	var authCfg AuthConfig
	require.Equal(t, auth.DefaultAccessTokenTTL, authCfg.JWTServiceConfig().AccessTokenTTL)

	var rtCfg RealtimeConfig
	require.Equal(t, realtime.DefaultPersistTimeout, rtCfg.PersistTimeoutOrDefault())

	rtCfg.PersistTimeout = time.Second
	require.Equal(t, time.Second, rtCfg.PersistTimeoutOrDefault())
}
