package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("AZURE_OPENAI_ENDPOINT", "https://example.openai.azure.com/")
	t.Setenv("AZURE_OPENAI_KEY", "test-key")
	t.Setenv("AZURE_OPENAI_CHAT_DEPLOYMENT", "gpt-4o")
	t.Setenv("AZURE_OPENAI_EMBEDDING_MODEL_DEPLOYMENT", "text-embedding-ada-002")
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("SECRETS_DIR", t.TempDir())
}

func TestLoadConfig(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("UPSTREAM_TIMEOUT", "15s")
	t.Setenv("CORS_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("VECTOR_COLLECTION", "recipes_v2")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "https://example.openai.azure.com/", cfg.OpenAI.Endpoint)
	assert.Equal(t, "test-key", cfg.OpenAI.APIKey)
	assert.Equal(t, "gpt-4o", cfg.OpenAI.ChatDeployment)
	assert.Equal(t, "db", cfg.Database.Host)
	assert.Equal(t, "6543", cfg.Database.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.UpstreamTimeout)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "recipes_v2", cfg.Vector.Collection)
}

func TestLoadConfigWithDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, 60*time.Second, cfg.Server.UpstreamTimeout)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "food_recipe_collection", cfg.Vector.Collection)
	assert.Equal(t, 1536, cfg.Vector.Dimension)
	assert.Equal(t, 10, cfg.Vector.Probes)
	assert.Equal(t, 2000, cfg.OpenAI.MaxTokens)
	assert.Equal(t, time.Duration(0), cfg.OpenAI.EmbeddingCacheTTL)
	assert.False(t, cfg.RateLimit.Enabled)
}

func TestLoadConfigFromFileAndSecrets(t *testing.T) {
	setRequiredEnv(t)
	os.Unsetenv("AZURE_OPENAI_KEY")

	secrets := t.TempDir()
	t.Setenv("SECRETS_DIR", secrets)
	require.NoError(t, os.WriteFile(filepath.Join(secrets, "azure_openai_key"), []byte("from-secret\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(secrets, "db_password"), []byte("pg-pass"), 0o600))

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: \"9090\"\nlogging:\n  format: text\n"), 0o600))
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "from-secret", cfg.OpenAI.APIKey)
	assert.Equal(t, "pg-pass", cfg.Database.Password)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestLoadConfigMissingRequired(t *testing.T) {
	setRequiredEnv(t)
	os.Unsetenv("AZURE_OPENAI_CHAT_DEPLOYMENT")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OpenAI.ChatDeployment: is required")
}

func TestLoadDatabaseConfigIgnoresModelSettings(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("SECRETS_DIR", t.TempDir())
	t.Setenv("AZURE_OPENAI_ENDPOINT", "")
	t.Setenv("AZURE_OPENAI_KEY", "")
	t.Setenv("AZURE_OPENAI_CHAT_DEPLOYMENT", "")
	t.Setenv("DB_HOST", "db")

	_, err := LoadConfig()
	require.Error(t, err)

	cfg, err := LoadDatabaseConfig()
	require.NoError(t, err)
	assert.Equal(t, "db", cfg.Database.Host)
	assert.Equal(t, "food_recipe_collection", cfg.Vector.Collection)
}

func TestLoadDatabaseConfigValidatesVector(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("SECRETS_DIR", t.TempDir())
	t.Setenv("VECTOR_COLLECTION", "Bad-Name")
	t.Setenv("DB_SSL_MODE", "sometimes")

	_, err := LoadDatabaseConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Database.SSLMode")
}

func TestValidateConfigRejectsBadCollection(t *testing.T) {
	cfg := defaultConfig()
	cfg.OpenAI = OpenAIConfig{
		Endpoint:            "https://example.openai.azure.com/",
		APIKey:              "k",
		ChatDeployment:      "chat",
		ChatAPIVersion:      "v",
		EmbeddingDeployment: "emb",
		EmbeddingAPIVersion: "v",
		MaxTokens:           10,
	}
	require.NoError(t, ValidateConfig(cfg))

	cfg.Vector.Collection = "recipes; DROP TABLE users"
	err := ValidateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Vector.Collection")
}

func TestValidateConfigRateLimitNeedsRedis(t *testing.T) {
	cfg := defaultConfig()
	cfg.OpenAI = OpenAIConfig{
		Endpoint:            "https://example.openai.azure.com/",
		APIKey:              "k",
		ChatDeployment:      "chat",
		ChatAPIVersion:      "v",
		EmbeddingDeployment: "emb",
		EmbeddingAPIVersion: "v",
		MaxTokens:           10,
	}
	cfg.RateLimit.Enabled = true

	err := ValidateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Redis.URL")
}

func TestParseS3URI(t *testing.T) {
	bucket, key, err := ParseS3URI("s3://datasets/users/people_data.json")
	require.NoError(t, err)
	assert.Equal(t, "datasets", bucket)
	assert.Equal(t, "users/people_data.json", key)

	_, _, err = ParseS3URI("s3://datasets")
	assert.Error(t, err)

	_, _, err = ParseS3URI("data/people_data.json")
	assert.Error(t, err)
	assert.False(t, IsS3URI("data/people_data.json"))
}

func TestEnvironmentGinMode(t *testing.T) {
	assert.Equal(t, "release", Production.GinMode())
	assert.Equal(t, "test", Test.GinMode())
	assert.Equal(t, "debug", Development.GinMode())
}
