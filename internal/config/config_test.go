package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "JWT_SECRET", "USER_STORE", "POST_STORE", "MONGO_DB",
		"RATE_LIMIT_WRITES_PER_MIN", "CORS_ORIGINS", "MINIO_USE_SSL",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "mongo", cfg.UserStore)
	assert.Equal(t, "mongo", cfg.PostStore)
	assert.Equal(t, "devconnector", cfg.MongoDB)
	assert.Equal(t, 60, cfg.WritesPerMinute)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
	assert.False(t, cfg.MinioUseSSL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("USER_STORE", "Postgres")
	t.Setenv("RATE_LIMIT_WRITES_PER_MIN", "5")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test ,")
	t.Setenv("MINIO_USE_SSL", "true")

	cfg := Load()
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "postgres", cfg.UserStore)
	assert.Equal(t, 5, cfg.WritesPerMinute)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.True(t, cfg.MinioUseSSL)
}

func TestLoadIgnoresBadInt(t *testing.T) {
	t.Setenv("RATE_LIMIT_WRITES_PER_MIN", "lots")
	assert.Equal(t, 60, Load().WritesPerMinute)
}
