package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadReadsPrefixedEnvironment(t *testing.T) {
	t.Setenv("CONNECT_JWT_SECRET", "access-secret")
	t.Setenv("CONNECT_JWT_REFRESH_SECRET", "refresh-secret")
	t.Setenv("CONNECT_OPENAI_API_KEY", "sk-test-123")
	t.Setenv("CONNECT_CLOUDINARY_API_KEY", "cld-key")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "FAST Connect API", cfg.AppName)
	require.Equal(t, "access-secret", cfg.JWTSecret)
	require.Equal(t, "sk-test-123", cfg.OpenAIAPIKey)
	require.Equal(t, "cld-key", cfg.CloudinaryAPIKey)
}

func TestLoadRequiresJWTSecrets(t *testing.T) {
	t.Setenv("CONNECT_JWT_SECRET", "")
	t.Setenv("CONNECT_JWT_REFRESH_SECRET", "")

	_, err := Load()
	require.Error(t, err)
}
