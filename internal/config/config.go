package config

import (
	"net"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	_ "github.com/joho/godotenv/autoload"

	"todo-board/internal/storage"
)

const (
	EnvDev   = "dev"
	EnvProd  = "prod"
	EnvLocal = "local"
)

type Config struct {
	Env      string `env:"ENV" env-default:"local" yaml:"env" toml:"env"`
	LogLevel string `env:"LOG_LEVEL" env-default:"info" yaml:"log_level" toml:"log_level"`

	HTTP     HTTPConfig
	Database DatabaseConfig
	Weather  WeatherConfig
	Telegram TelegramConfig
}

type HTTPConfig struct {
	Host            string        `env:"HOST" env-default:"0.0.0.0" yaml:"host" toml:"host"`
	Port            string        `env:"PORT" env-default:"5000" yaml:"port" toml:"port"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"5s" yaml:"shutdown_timeout" toml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Backend        string        `env:"DB_BACKEND" yaml:"backend" toml:"backend"`
	URL            string        `env:"DATABASE_URL" yaml:"url" toml:"url"`
	SQLitePath     string        `env:"SQLITE_PATH" env-default:"data/todoapp.db" yaml:"sqlite_path" toml:"sqlite_path"`
	ConnectTimeout time.Duration `env:"DB_CONNECT_TIMEOUT" env-default:"10s" yaml:"connect_timeout" toml:"connect_timeout"`
	PingTimeout    time.Duration `env:"DB_PING_TIMEOUT" env-default:"10s" yaml:"ping_timeout" toml:"ping_timeout"`
}

type WeatherConfig struct {
	APIKey   string        `env:"OPENWEATHER_API_KEY" yaml:"api_key" toml:"api_key"`
	BaseURL  string        `env:"OPENWEATHER_BASE_URL" env-default:"http://api.openweathermap.org/data/2.5/weather" yaml:"base_url" toml:"base_url"`
	City     string        `env:"WEATHER_CITY" env-default:"São Paulo" yaml:"city" toml:"city"`
	Lang     string        `env:"WEATHER_LANG" env-default:"pt_br" yaml:"lang" toml:"lang"`
	Timeout  time.Duration `env:"WEATHER_TIMEOUT" env-default:"10s" yaml:"timeout" toml:"timeout"`
	CacheTTL time.Duration `env:"WEATHER_CACHE_TTL" env-default:"10m" yaml:"cache_ttl" toml:"cache_ttl"`
}

type TelegramConfig struct {
	Token string `env:"TELEGRAM_TOKEN" yaml:"token" toml:"token"`
	Debug bool   `env:"TELEGRAM_DEBUG" yaml:"debug" toml:"debug"`
}

// Read loads the config file named by CONFIG_PATH when set (yaml, toml, json or
// env, overridden by the environment), otherwise the environment alone.
func Read() (*Config, error) {
	cfg := new(Config)

	var err error
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		err = cleanenv.ReadConfig(path, cfg)
	} else {
		err = cleanenv.ReadEnv(cfg)
	}
	if err != nil {
		return nil, err
	}

	cfg.Database.Backend = cfg.Database.resolveBackend()
	return cfg, nil
}

// A DATABASE_URL without an explicit backend means postgres, as on hosted deployments.
func (c DatabaseConfig) resolveBackend() string {
	if c.Backend != "" {
		return c.Backend
	}
	if c.URL != "" {
		return storage.BackendPostgres
	}
	return storage.BackendSQLite
}

func (c DatabaseConfig) StorageOptions() storage.Options {
	return storage.Options{
		Backend:        c.Backend,
		URL:            c.URL,
		SQLitePath:     c.SQLitePath,
		ConnectTimeout: c.ConnectTimeout,
		PingTimeout:    c.PingTimeout,
	}
}

func (c HTTPConfig) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}
