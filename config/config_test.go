package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsAndEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("STORE_DRIVER", " SQLite ")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("JWT_TTL", "2h")

	l, err := Load("")
	require.NoError(t, err)
	cfg := l.Config()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DriverSQLite, cfg.StoreDriver)
	assert.Equal(t, 2*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Brokers())
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins())
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	cfg := &Config{StoreDriver: DriverFirestore, JWTTTL: time.Hour}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
	assert.Contains(t, err.Error(), "FIREBASE_PROJECT_ID")

	cfg = &Config{StoreDriver: "mongo", JWTSecret: "x", JWTTTL: time.Hour}
	assert.ErrorContains(t, cfg.Validate(), "unknown STORE_DRIVER")
}

func TestLoadFile(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	path := filepath.Join(t.TempDir(), "app.env")
	require.NoError(t, os.WriteFile(path, []byte("LOG_LEVEL=debug\nPORT=9090\n"), 0o600))

	l, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", l.Config().LogLevel)
	assert.Equal(t, "9090", l.Config().Port)

	_, err = Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}
