package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg := fromViper(viper.New())

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "America/Santiago", cfg.App.TimeZone)
	assert.Equal(t, 5*time.Second, cfg.Timeouts.Store)
	assert.Equal(t, 10*time.Second, cfg.Timeouts.Notify)
	assert.Equal(t, float64(5), cfg.RateLimit.VerifyRPS)
	assert.False(t, cfg.SMTP.Enabled())
	assert.Error(t, cfg.Validate(), "sin JWT_SECRET no debe arrancar")
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("JWT_SECRET", "s3cr3t")
	v.Set("STORE_TIMEOUT_MS", "1500")
	v.Set("APP_PUBLIC_URL", "https://asistencia.example.cl/")
	v.Set("CORS_ORIGINS", "http://a.cl, ,http://b.cl")
	v.Set("SMTP_HOST", "smtp.example.cl")

	cfg := fromViper(v)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 1500*time.Millisecond, cfg.Timeouts.Store)
	assert.Equal(t, "https://asistencia.example.cl", cfg.App.PublicURL)
	assert.Equal(t, []string{"http://a.cl", "http://b.cl"}, cfg.HTTP.CORSOriginList())
	assert.True(t, cfg.SMTP.Enabled())
}

func TestDSN_EscapaPassword(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss/word", DBName: "marcaciones", SSLMode: "require"}
	assert.Equal(t, "postgres://app:p%40ss%2Fword@db:5432/marcaciones?sslmode=require", c.ConnectionString())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}

func TestLocation_Invalida(t *testing.T) {
	assert.Equal(t, time.UTC, AppConfig{TimeZone: "No/Existe"}.Location())
}
