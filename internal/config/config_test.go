package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("MONGO_URL", "mongodb://localhost:27017")
	t.Setenv("DB_NAME", "pivot_test")
	t.Setenv("JWT_SECRET", "test-secret")
}

func TestLoadFromEnv(t *testing.T) {
	setRequired(t)
	t.Setenv("JWT_EXPIRY_MINUTES", "60")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURL)
	assert.Equal(t, "pivot_test", cfg.DBName)
	assert.Equal(t, ":8001", cfg.ListenAddr)
	assert.Equal(t, "pivot-media", cfg.R2BucketName)
	assert.Equal(t, time.Hour, cfg.JWTExpiry())
	assert.Equal(t, 10*time.Minute, cfg.PresignExpiry())
}

func TestLoadMissingRequired(t *testing.T) {
	setRequired(t)
	t.Setenv("JWT_SECRET", "")

	_, err := Load(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}
