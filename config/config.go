package config

import (
	"fmt"

	"github.com/spf13/viper"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	DurabilityRelaxed = "relaxed"
	DurabilityFull    = "full"

	TransportRedis = "redis"
	TransportNone  = "none"
)

type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	Notifier NotifierConfig
}

type AppConfig struct {
	Port     string
	Env      string
	LogLevel string
}

type DBConfig struct {
	Driver     string
	Path       string
	Durability string

	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type NotifierConfig struct {
	Transport string
	Channel   string
}

func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_DRIVER", DriverSQLite)
	v.SetDefault("DB_PATH", "patient_portal.db")
	v.SetDefault("DB_DURABILITY", DurabilityRelaxed)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("NOTIFIER_TRANSPORT", TransportRedis)
	v.SetDefault("NOTIFIER_CHANNEL", "patient_data_channel")

	// .env is optional; environment variables and defaults still apply
	_ = v.ReadInConfig()

	config := &Config{
		App: AppConfig{
			Port:     v.GetString("APP_PORT"),
			Env:      v.GetString("APP_ENV"),
			LogLevel: v.GetString("LOG_LEVEL"),
		},
		DB: DBConfig{
			Driver:     v.GetString("DB_DRIVER"),
			Path:       v.GetString("DB_PATH"),
			Durability: v.GetString("DB_DURABILITY"),
			Host:       v.GetString("DB_HOST"),
			Port:       v.GetString("DB_PORT"),
			User:       v.GetString("DB_USER"),
			Password:   v.GetString("DB_PASSWORD"),
			Name:       v.GetString("DB_NAME"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Notifier: NotifierConfig{
			Transport: v.GetString("NOTIFIER_TRANSPORT"),
			Channel:   v.GetString("NOTIFIER_CHANNEL"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate rejects settings the bootstrap cannot act on.
func (c *Config) Validate() error {
	switch c.DB.Driver {
	case DriverSQLite:
		if c.DB.Path == "" {
			return fmt.Errorf("DB_PATH is required for driver %q", DriverSQLite)
		}
	case DriverPostgres:
		if c.DB.Name == "" {
			return fmt.Errorf("DB_NAME is required for driver %q", DriverPostgres)
		}
	default:
		return fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverSQLite, DriverPostgres, c.DB.Driver)
	}

	if c.DB.Durability != DurabilityRelaxed && c.DB.Durability != DurabilityFull {
		return fmt.Errorf("DB_DURABILITY must be %q or %q, got %q", DurabilityRelaxed, DurabilityFull, c.DB.Durability)
	}

	if c.Notifier.Transport != TransportRedis && c.Notifier.Transport != TransportNone {
		return fmt.Errorf("NOTIFIER_TRANSPORT must be %q or %q, got %q", TransportRedis, TransportNone, c.Notifier.Transport)
	}

	return nil
}

func (c *Config) IsDev() bool {
	return c.App.Env == "development"
}
