package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("around-test")
	require.NoError(t, err)

	assert.Equal(t, 8090, cfg.Server.Port)
	assert.Equal(t, "http://localhost:8080", cfg.API.Root)
	assert.Equal(t, "Bearer", cfg.API.AuthPrefix)
	assert.Equal(t, 20.0, cfg.API.DefaultRadius)
	assert.Equal(t, DriverValkey, cfg.Storage.Driver)
	assert.Equal(t, "POS_KEY", cfg.Storage.PosKey)
	assert.Equal(t, "TOKEN_KEY", cfg.Storage.TokenKey)
	assert.True(t, cfg.Geolocation.EnableHighAccuracy)
	assert.Equal(t, int64(27000), cfg.Geolocation.TimeoutMs)
	assert.Equal(t, int64(3600000), cfg.Geolocation.MaximumAgeMs)
	assert.Equal(t, "around-test", cfg.Telemetry.ServiceName)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("AROUND_API_ROOT", "https://around.example.com")
	t.Setenv("AROUND_STORAGE_DRIVER", "memory")
	t.Setenv("AROUND_SERVER_PORT", "9000")

	cfg, err := Load("around-test")
	require.NoError(t, err)
	assert.Equal(t, "https://around.example.com", cfg.API.Root)
	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
	assert.Equal(t, 9000, cfg.Server.Port)
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := &Config{
		Server:      ServerConfig{Port: 0, ReadTimeout: 1, WriteTimeout: 1},
		API:         APIConfig{Root: ""},
		Storage:     StorageConfig{Driver: "sqlite"},
		Geolocation: GeolocationConfig{Provider: "gps"},
	}

	err := cfg.Validate()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "server.port")
	assert.Contains(t, msg, "api.root")
	assert.Contains(t, msg, "storage.driver")
	assert.Contains(t, msg, "geolocation.provider")
}

func TestValidate_StaticProvider(t *testing.T) {
	cfg := &Config{
		Server:      ServerConfig{Port: 8090, ReadTimeout: 1, WriteTimeout: 1},
		API:         APIConfig{Root: "http://x"},
		Storage:     StorageConfig{Driver: DriverMemory},
		Geolocation: GeolocationConfig{Provider: ProviderStatic, StaticLat: 95},
	}
	assert.Error(t, cfg.Validate())

	cfg.Geolocation.StaticLat = 40.7
	assert.NoError(t, cfg.Validate())
}

func TestDatabaseDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", DBName: "around", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@db:5432/around?sslmode=disable", d.DSN())
}
