package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
server:
  port: "8080"
  allowed_origins: ["https://goodnight.example"]
mongo:
  uri: ${TEST_MONGO_URI}
  database: inn
auth:
  jwt_secret: file-secret
hotel:
  email: desk@goodnight.example
  time_zone: America/Toronto
  receipt_secret: r
mail:
  emailjs:
    service_id: service_d3cy1e9
    bill_template: template_11t5n5a
`

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	t.Setenv("TEST_MONGO_URI", "mongodb://db:27017")
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("TAX_RATE", "0.05")
	t.Setenv("PORT", "")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port, "empty env values do not override")
	assert.Equal(t, []string{"https://goodnight.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "mongodb://db:27017", cfg.Mongo.URI)
	assert.Equal(t, "inn", cfg.Mongo.Database)
	assert.Equal(t, "env-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, 0.05, cfg.Hotel.TaxRate)
	assert.Equal(t, "Good Night Inn", cfg.Hotel.Name, "defaults survive a partial file")
	assert.Equal(t, map[string]string{"bill": "template_11t5n5a"}, cfg.Mail.Templates())
	require.NoError(t, cfg.Validate())

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "America/Toronto", loc.String())
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "goodnight", cfg.Mongo.Database)
}

func TestLoadBadNumbers(t *testing.T) {
	t.Setenv("TAX_RATE", "thirteen")
	_, err := Load("")
	assert.ErrorContains(t, err, "TAX_RATE")
}

func TestValidateJoinsErrors(t *testing.T) {
	cfg := Default()
	cfg.Hotel.TaxRate = 1.5
	cfg.Hotel.TimeZone = "Mars/Olympus"
	cfg.Auth.AdminEmail = "admin@example.com"

	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"JWT_SECRET", "RECEIPT_SECRET", "tax rate", "Mars/Olympus", "ADMIN_PASSWORD"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"ALLOWED_ORIGINS": "http://a,http://b",
		"REDIS_ADDR":      "redis:6379",
		"REDIS_DB":        "2",
	}
	cfg := Default()
	require.NoError(t, cfg.applyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}))
	assert.Equal(t, []string{"http://a", "http://b"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "redis:6379", cfg.Redis.Address)
	assert.Equal(t, 2, cfg.Redis.DB)
}
