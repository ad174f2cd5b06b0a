package config_test

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ecosystem-api/pkg/config"
)

func TestFromViper_Defaults(t *testing.T) {
	v := viper.New()
	v.Set("JWT_SECRET", "s3cret")

	cfg, err := config.FromViper(v)
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "postgres", cfg.App.StorageDriver)
	assert.Equal(t, "0.0.0.0:3001", cfg.HTTP.Addr())
	assert.Equal(t, int64(10), cfg.Inventory.LowStockThreshold)
	assert.Equal(t, 24*60, cfg.JWT.Expiration)
	assert.Equal(t, "postgres://postgres:@localhost:5432/ecosystem?sslmode=disable", cfg.DB.ConnectionString())
}

func TestFromViper_SinSecretFalla(t *testing.T) {
	_, err := config.FromViper(viper.New())
	assert.Error(t, err)
}

func TestFromViper_StringsNumericos(t *testing.T) {
	v := viper.New()
	v.Set("JWT_SECRET", "x")
	v.Set("HTTP_PORT", "8081")
	v.Set("LOW_STOCK_THRESHOLD", "25")
	v.Set("DB_PORT", "no-numero")

	cfg, err := config.FromViper(v)
	require.NoError(t, err)
	assert.Equal(t, 8081, cfg.HTTP.Port)
	assert.Equal(t, int64(25), cfg.Inventory.LowStockThreshold)
	assert.Equal(t, 5432, cfg.DB.Port, "valor inválido cae al default")
}

func TestFromViper_MemoryUsaRevocacionEnMemoria(t *testing.T) {
	v := viper.New()
	v.Set("JWT_SECRET", "x")
	v.Set("STORAGE_DRIVER", "MEMORY")

	cfg, err := config.FromViper(v)
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.App.StorageDriver)
	assert.Equal(t, "memory", cfg.Auth.RevocationBackend)
}

func TestFromViper_DriverDesconocido(t *testing.T) {
	v := viper.New()
	v.Set("JWT_SECRET", "x")
	v.Set("STORAGE_DRIVER", "sqlite")
	_, err := config.FromViper(v)
	assert.Error(t, err)
}

func TestDBConfig_DatabaseURLTienePrioridad(t *testing.T) {
	c := config.DBConfig{DatabaseURL: "postgres://u:p@h:1/db", Host: "otro"}
	assert.Equal(t, "postgres://u:p@h:1/db", c.ConnectionString())
}

func TestDBConfig_DSNEscapaPassword(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss/wd", DBName: "eco", SSLMode: "require"}
	assert.Equal(t, "postgres://app:p%40ss%2Fwd@db:5432/eco?sslmode=require", c.DSN())
}
