package config

import (
	"errors"
	"os"

	"github.com/spf13/viper"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"

	EventsDriverRedis  = "redis"
	EventsDriverMemory = "memory"
)

type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	IdP      IdPConfig
	Dispatch DispatchConfig
}

type AppConfig struct {
	Port         string
	Env          string
	LogLevel     string
	StoreDriver  string
	EventsDriver string
}

type DBConfig struct {
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	SSLMode     string
	TimeZone    string
	AutoMigrate bool
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// IdPConfig describes how bearer tokens issued by the external identity
// provider are verified. Issuer and Audience are checked only when set.
type IdPConfig struct {
	Secret   string
	Issuer   string
	Audience string
}

type DispatchConfig struct {
	MaxWorkers int
	MaxDonors  int
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// env-only deployments have no .env file
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	config := &Config{
		App: AppConfig{
			Port:         viper.GetString("APP_PORT"),
			Env:          viper.GetString("APP_ENV"),
			LogLevel:     viper.GetString("LOG_LEVEL"),
			StoreDriver:  viper.GetString("STORE_DRIVER"),
			EventsDriver: viper.GetString("EVENTS_DRIVER"),
		},
		DB: DBConfig{
			Host:        viper.GetString("DB_HOST"),
			Port:        viper.GetString("DB_PORT"),
			User:        viper.GetString("DB_USER"),
			Password:    viper.GetString("DB_PASSWORD"),
			Name:        viper.GetString("DB_NAME"),
			SSLMode:     viper.GetString("DB_SSLMODE"),
			TimeZone:    viper.GetString("DB_TIMEZONE"),
			AutoMigrate: viper.GetBool("DB_AUTO_MIGRATE"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		IdP: IdPConfig{
			Secret:   viper.GetString("IDP_JWT_SECRET"),
			Issuer:   viper.GetString("IDP_ISSUER"),
			Audience: viper.GetString("IDP_AUDIENCE"),
		},
		Dispatch: DispatchConfig{
			MaxWorkers: viper.GetInt("DISPATCH_MAX_WORKERS"),
			MaxDonors:  viper.GetInt("DISPATCH_MAX_DONORS"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func setDefaults() {
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_ENV", "production")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("STORE_DRIVER", StoreDriverPostgres)
	viper.SetDefault("EVENTS_DRIVER", EventsDriverRedis)
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "UTC")
	viper.SetDefault("DB_AUTO_MIGRATE", true)
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("DISPATCH_MAX_WORKERS", 8)
	viper.SetDefault("DISPATCH_MAX_DONORS", 200)
}

// Validate rejects configurations the service cannot start with.
func (c *Config) Validate() error {
	if c.IdP.Secret == "" {
		return errors.New("IDP_JWT_SECRET is required")
	}
	switch c.App.StoreDriver {
	case StoreDriverPostgres, StoreDriverMemory:
	default:
		return errors.New("STORE_DRIVER must be postgres or memory")
	}
	switch c.App.EventsDriver {
	case EventsDriverRedis, EventsDriverMemory:
	default:
		return errors.New("EVENTS_DRIVER must be redis or memory")
	}
	if c.Dispatch.MaxWorkers < 1 {
		return errors.New("DISPATCH_MAX_WORKERS must be at least 1")
	}
	if c.Dispatch.MaxDonors < 1 {
		return errors.New("DISPATCH_MAX_DONORS must be at least 1")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}
