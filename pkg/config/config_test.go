package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg := fromViper(viper.New())

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, DriverPostgres, cfg.DB.Driver)
	assert.True(t, cfg.DB.Migrate)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, DeletePolicyDeactivate, cfg.Inventory.DeletePolicy)
	assert.Equal(t, 50, cfg.Inventory.LowStockThreshold)
	assert.Equal(t, 480, cfg.JWT.Expiration)
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("DB_DRIVER", "MEMORY")
	v.Set("HTTP_PORT", "9090")
	v.Set("INVENTORY_DELETE_POLICY", "reject")
	v.Set("INVENTORY_LOW_STOCK_THRESHOLD", "10")
	v.Set("DB_MIGRATE", false)

	cfg := fromViper(v)

	assert.Equal(t, DriverMemory, cfg.DB.Driver)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, DeletePolicyReject, cfg.Inventory.DeletePolicy)
	assert.Equal(t, 10, cfg.Inventory.LowStockThreshold)
	assert.False(t, cfg.DB.Migrate)
}

func TestFromViper_EnteroInvalidoUsaDefault(t *testing.T) {
	v := viper.New()
	v.Set("HTTP_PORT", "no-es-numero")

	assert.Equal(t, 8080, fromViper(v).HTTP.Port)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return fromViper(viper.New())
	}

	cfg := base()
	require.NoError(t, cfg.Validate())
	assert.NotEmpty(t, cfg.JWT.Secret, "en development se asigna un secret de desarrollo")

	cfg = base()
	cfg.App.Env = "production"
	assert.Error(t, cfg.Validate(), "JWT_SECRET es obligatorio fuera de development")

	cfg = base()
	cfg.DB.Driver = "mysql"
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Inventory.DeletePolicy = "cascade"
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Inventory.LowStockThreshold = -1
	assert.Error(t, cfg.Validate())
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:word", DBName: "restaurante", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aword@db:5432/restaurante?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://otro/db"
	assert.Equal(t, "postgres://otro/db", c.ConnectionString())
}
