package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
api:
  port: "9090"
  jwt_signing_key: secret
storage:
  driver: postgres
checkout:
  default_valid_minutes: 30
`)

	conf, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", conf.API.Port)
	assert.Equal(t, "secret", conf.API.JWTSigningKey)
	assert.Equal(t, 24*time.Hour, conf.API.JWTTTL)
	assert.Equal(t, StoragePostgres, conf.Storage.Driver)
	assert.Equal(t, "vnuk", conf.Storage.Namespace)
	assert.Equal(t, 30*time.Minute, conf.Checkout.DefaultValidity())
	assert.NotEmpty(t, conf.Checkout.QRImageURL)
}

func TestLoad_EnvOverride(t *testing.T) {
	path := writeConfig(t, `
api:
  port: "9090"
  jwt_signing_key: secret
`)
	t.Setenv("API_PORT", "7070")

	conf, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "7070", conf.API.Port)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing signing key", "api:\n  port: \"8080\"\n"},
		{"unknown storage", "api:\n  jwt_signing_key: k\nstorage:\n  driver: redis\n"},
		{"non-positive validity", "api:\n  jwt_signing_key: k\ncheckout:\n  default_valid_minutes: 0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}
