package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("IDP_JWT_SECRET", "s3cret")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "info", cfg.App.LogLevel)
	assert.Equal(t, StoreDriverPostgres, cfg.App.StoreDriver)
	assert.Equal(t, EventsDriverRedis, cfg.App.EventsDriver)
	assert.Equal(t, "5432", cfg.DB.Port)
	assert.Equal(t, "UTC", cfg.DB.TimeZone)
	assert.True(t, cfg.DB.AutoMigrate)
	assert.Equal(t, 8, cfg.Dispatch.MaxWorkers)
	assert.Equal(t, 200, cfg.Dispatch.MaxDonors)
	assert.False(t, cfg.IsDevelopment())
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	t.Setenv("IDP_JWT_SECRET", "s3cret")
	t.Setenv("IDP_ISSUER", "https://idp.example.com")
	t.Setenv("APP_ENV", "development")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("EVENTS_DRIVER", "memory")
	t.Setenv("DISPATCH_MAX_WORKERS", "3")
	t.Setenv("DB_AUTO_MIGRATE", "false")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "https://idp.example.com", cfg.IdP.Issuer)
	assert.Equal(t, StoreDriverMemory, cfg.App.StoreDriver)
	assert.Equal(t, EventsDriverMemory, cfg.App.EventsDriver)
	assert.Equal(t, 3, cfg.Dispatch.MaxWorkers)
	assert.False(t, cfg.DB.AutoMigrate)
	assert.True(t, cfg.IsDevelopment())
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			App:      AppConfig{StoreDriver: StoreDriverPostgres, EventsDriver: EventsDriverRedis},
			IdP:      IdPConfig{Secret: "s3cret"},
			Dispatch: DispatchConfig{MaxWorkers: 1, MaxDonors: 1},
		}
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{name: "missing secret", mutate: func(c *Config) { c.IdP.Secret = "" }, want: "IDP_JWT_SECRET is required"},
		{name: "unknown store", mutate: func(c *Config) { c.App.StoreDriver = "mysql" }, want: "STORE_DRIVER must be postgres or memory"},
		{name: "unknown events", mutate: func(c *Config) { c.App.EventsDriver = "kafka" }, want: "EVENTS_DRIVER must be redis or memory"},
		{name: "no workers", mutate: func(c *Config) { c.Dispatch.MaxWorkers = 0 }, want: "DISPATCH_MAX_WORKERS must be at least 1"},
		{name: "no donors", mutate: func(c *Config) { c.Dispatch.MaxDonors = 0 }, want: "DISPATCH_MAX_DONORS must be at least 1"},
	}

	require.NoError(t, valid().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)

			assert.EqualError(t, c.Validate(), tt.want)
		})
	}
}
