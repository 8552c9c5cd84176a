package config_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-injector/framework/config"
)

// ── Load ─────────────────────────────────────────────────────────────────────

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("testdata/empty.env")
	require.NoError(t, err)

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"App.Name", cfg.App.Name, "GoInjector"},
		{"App.Env", cfg.App.Env, "local"},
		{"App.Debug", cfg.App.Debug, true},
		{"Log.Level", cfg.Log.Level, "info"},
		{"Container.DetectCycles", cfg.Container.DetectCycles, true},
		{"Container.Profile", cfg.Container.Profile, "release"},
		{"Container.DBLifetime", cfg.Container.DBLifetime, "scoped"},
		{"HTTP.Port", cfg.HTTP.Port, "8000"},
		{"HTTP.Metrics", cfg.HTTP.Metrics, true},
		{"DB.ConnectionString", cfg.DB.ConnectionString, "192.168.1.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("APP_NAME", "MyApp")
	t.Setenv("APP_ENV", "production")
	t.Setenv("APP_PORT", "9000")
	t.Setenv("CONTAINER_DETECT_CYCLES", "false")
	t.Setenv("DB_CONNECTION", "postgres://db/test")

	cfg, err := config.Load("testdata/empty.env")
	require.NoError(t, err)

	assert.Equal(t, "MyApp", cfg.App.Name)
	assert.Equal(t, "production", cfg.App.Env)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "9000", cfg.HTTP.Port)
	assert.False(t, cfg.Container.DetectCycles)
	assert.Equal(t, "postgres://db/test", cfg.DB.ConnectionString)
}

func TestLoad_ReadsEnvFile(t *testing.T) {
	t.Cleanup(func() {
		_ = os.Unsetenv("APP_NAME")
		_ = os.Unsetenv("CONTAINER_PROFILE")
	})

	cfg, err := config.Load("testdata/app.env")
	require.NoError(t, err)

	assert.Equal(t, "FromFile", cfg.App.Name)
	assert.Equal(t, "debug", cfg.Container.Profile)
}

func TestLoad_MissingFileIsNotFatal(t *testing.T) {
	cfg, err := config.Load("testdata/does-not-exist.env")
	require.NoError(t, err)
	assert.Equal(t, "GoInjector", cfg.App.Name)
}

func TestLoad_InvalidBoolFails(t *testing.T) {
	t.Setenv("APP_DEBUG", "not-a-bool")

	_, err := config.Load("testdata/empty.env")
	assert.Error(t, err)
}
