package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	API         APIConfig         `mapstructure:"api"`
	Storage     StorageConfig     `mapstructure:"storage"`
	Database    DatabaseConfig    `mapstructure:"database"`
	NATS        NATSConfig        `mapstructure:"nats"`
	Valkey      ValkeyConfig      `mapstructure:"valkey"`
	Geolocation GeolocationConfig `mapstructure:"geolocation"`
	Telemetry   TelemetryConfig   `mapstructure:"telemetry"`
	Log         LogConfig         `mapstructure:"log"`
}

type ServerConfig struct {
	Port         int `mapstructure:"port"`
	ReadTimeout  int `mapstructure:"read_timeout"`
	WriteTimeout int `mapstructure:"write_timeout"`
}

// APIConfig points at the posts backend.
type APIConfig struct {
	Root           string  `mapstructure:"root"`
	AuthPrefix     string  `mapstructure:"auth_prefix"`
	DefaultRadius  float64 `mapstructure:"default_radius"`
	RequestTimeout int     `mapstructure:"request_timeout"`
}

// Storage drivers.
const (
	DriverValkey   = "valkey"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type StorageConfig struct {
	Driver    string `mapstructure:"driver"`
	KeyPrefix string `mapstructure:"key_prefix"`
	PosKey    string `mapstructure:"pos_key"`
	TokenKey  string `mapstructure:"token_key"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type NATSConfig struct {
	URL string `mapstructure:"url"`
}

type ValkeyConfig struct {
	Addr string `mapstructure:"addr"`
}

// Geolocation providers.
const (
	ProviderIPAPI  = "ipapi"
	ProviderStatic = "static"
	ProviderNone   = "none"
)

type GeolocationConfig struct {
	Provider           string  `mapstructure:"provider"`
	EnableHighAccuracy bool    `mapstructure:"enable_high_accuracy"`
	TimeoutMs          int64   `mapstructure:"timeout_ms"`
	MaximumAgeMs       int64   `mapstructure:"maximum_age_ms"`
	IPAPIURL           string  `mapstructure:"ipapi_url"`
	StaticLat          float64 `mapstructure:"static_lat"`
	StaticLon          float64 `mapstructure:"static_lon"`
}

type TelemetryConfig struct {
	ServiceName string `mapstructure:"service_name"`
	TempoAddr   string `mapstructure:"tempo_addr"`
	Enabled     bool   `mapstructure:"enabled"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from .env, file and environment variables.
func Load(service string) (*Config, error) {
	// .env is optional; real environment variables take precedence.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v, service)

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: AROUND_API_ROOT → api.root
	v.SetEnvPrefix("AROUND")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper, service string) {
	v.SetDefault("server.port", 8090)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("api.root", "http://localhost:8080")
	v.SetDefault("api.auth_prefix", "Bearer")
	v.SetDefault("api.default_radius", 20)
	v.SetDefault("api.request_timeout", 0)
	v.SetDefault("storage.driver", DriverValkey)
	v.SetDefault("storage.key_prefix", "around:")
	v.SetDefault("storage.pos_key", "POS_KEY")
	v.SetDefault("storage.token_key", "TOKEN_KEY")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "around")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "around")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("valkey.addr", "localhost:6379")
	v.SetDefault("geolocation.provider", ProviderIPAPI)
	v.SetDefault("geolocation.enable_high_accuracy", true)
	v.SetDefault("geolocation.timeout_ms", 27000)
	v.SetDefault("geolocation.maximum_age_ms", 3600000)
	v.SetDefault("geolocation.ipapi_url", "http://ip-api.com/json/")
	v.SetDefault("geolocation.static_lat", 0)
	v.SetDefault("geolocation.static_lon", 0)
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.tempo_addr", "tempo:4317")
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}
	if c.API.Root == "" {
		errs = append(errs, "api.root is required")
	}
	if c.API.DefaultRadius < 0 {
		errs = append(errs, "api.default_radius must not be negative")
	}
	if c.API.RequestTimeout < 0 {
		errs = append(errs, "api.request_timeout must not be negative")
	}

	switch c.Storage.Driver {
	case DriverValkey:
		if c.Valkey.Addr == "" {
			errs = append(errs, "valkey.addr is required for storage.driver=valkey")
		}
	case DriverPostgres:
		if c.Database.Host == "" {
			errs = append(errs, "database.host is required for storage.driver=postgres")
		}
		if c.Database.Port <= 0 || c.Database.Port > 65535 {
			errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", c.Database.Port))
		}
		if c.Database.User == "" {
			errs = append(errs, "database.user is required")
		}
		if c.Database.DBName == "" {
			errs = append(errs, "database.dbname is required")
		}
	case DriverMemory:
	default:
		errs = append(errs, fmt.Sprintf("storage.driver must be valkey, postgres or memory, got %q", c.Storage.Driver))
	}

	switch c.Geolocation.Provider {
	case ProviderIPAPI, ProviderNone:
	case ProviderStatic:
		if c.Geolocation.StaticLat < -90 || c.Geolocation.StaticLat > 90 ||
			c.Geolocation.StaticLon < -180 || c.Geolocation.StaticLon > 180 {
			errs = append(errs, "geolocation.static_lat/static_lon out of range")
		}
	default:
		errs = append(errs, fmt.Sprintf("geolocation.provider must be ipapi, static or none, got %q", c.Geolocation.Provider))
	}
	if c.Geolocation.TimeoutMs < 0 || c.Geolocation.MaximumAgeMs < 0 {
		errs = append(errs, "geolocation timeouts must not be negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
