package config_test

import (
	"testing"
	"time"

	"github.com/JonaTomas14/InsumosArica/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_HOST", "db.local")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.Inventory.LockTimeout)
	assert.Equal(t, 25, cfg.DB.MaxConns)
	assert.Equal(t, "db.local", cfg.DB.Host)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestLoad_LockTimeout(t *testing.T) {
	t.Setenv("INVENTORY_LOCK_TIMEOUT", "750ms")
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 750*time.Millisecond, cfg.Inventory.LockTimeout)

	t.Setenv("INVENTORY_LOCK_TIMEOUT", "2000")
	cfg, err = config.Load()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, cfg.Inventory.LockTimeout)

	t.Setenv("INVENTORY_LOCK_TIMEOUT", "pronto")
	_, err = config.Load()
	assert.Error(t, err)
}

func TestLoad_AutoMigrateYPrefijo(t *testing.T) {
	t.Setenv("DB_AUTO_MIGRATE", "true")
	t.Setenv("METRICS_PREFIX", "bodega")
	t.Setenv("DB_MAX_CONNS", "8")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.True(t, cfg.Migrations.AutoMigrate)
	assert.Equal(t, "bodega", cfg.Metrics.Prefix)
	assert.Equal(t, 8, cfg.DB.MaxConns)
}

func TestDBConfig_DSNEscapaPassword(t *testing.T) {
	c := config.DBConfig{Host: "h", Port: 5432, User: "u", Password: "p@ss/word", DBName: "insumos", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p%40ss%2Fword@h:5432/insumos?sslmode=disable", c.DSN())

	c.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", c.ConnectionString())
}
