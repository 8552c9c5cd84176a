package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the central typed configuration struct.
type Config struct {
	App       AppConfig
	Log       LogConfig
	Container ContainerConfig
	HTTP      HTTPConfig
	DB        DBConfig
}

type AppConfig struct {
	Name  string `env:"APP_NAME" envDefault:"GoInjector"`
	Env   string `env:"APP_ENV" envDefault:"local"` // local | production | testing
	Debug bool   `env:"APP_DEBUG" envDefault:"true"`
}

type LogConfig struct {
	Level string `env:"LOG_LEVEL" envDefault:"info"`
}

type ContainerConfig struct {
	DetectCycles bool `env:"CONTAINER_DETECT_CYCLES" envDefault:"true"`
	// Profile picks the service wiring: release | debug
	Profile string `env:"CONTAINER_PROFILE" envDefault:"release"`
	// DBLifetime is how long the release database lives: transient | scoped | singleton
	DBLifetime string `env:"CONTAINER_DB_LIFETIME" envDefault:"scoped"`
}

type HTTPConfig struct {
	Port    string `env:"APP_PORT" envDefault:"8000"`
	Metrics bool   `env:"METRICS_ENABLED" envDefault:"true"`
}

type DBConfig struct {
	ConnectionString string `env:"DB_CONNECTION" envDefault:"192.168.1.1"`
}

// Load reads .env (if present) and populates a Config from environment
// variables. Call once at bootstrap: cfg, err := config.Load()
func Load(envFiles ...string) (*Config, error) {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}
	// Non-fatal: .env may not exist in production
	_ = godotenv.Load(files...)

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) IsProduction() bool { return c.App.Env == "production" }
