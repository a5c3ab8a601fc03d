package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	cfg := Load()

	assert.NotNil(t, cfg)
	assert.NotEmpty(t, cfg.ListenAddr)
	assert.NotEmpty(t, cfg.UploadDir)
	assert.Equal(t, "groq", cfg.LLMBackend)
	assert.Equal(t, "memory", cfg.SessionBackend)
}

func TestLoadCustomValues(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":9000")
	t.Setenv("UPLOAD_DIR", "/tmp/uploads")
	t.Setenv("UPLOAD_TTL", "36h")
	t.Setenv("GROQ_API_KEY", "gsk-test123")
	t.Setenv("GROQ_MODEL", "llama-3.1-8b-instant")
	t.Setenv("REDIS_DB", "3")

	cfg := Load()

	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, "/tmp/uploads", cfg.UploadDir)
	assert.Equal(t, 36*time.Hour, cfg.UploadTTL)
	assert.Equal(t, "gsk-test123", cfg.GroqAPIKey)
	assert.Equal(t, "llama-3.1-8b-instant", cfg.GroqModel)
	assert.Equal(t, 3, cfg.RedisDB)
}

func TestLoadDefaultModel(t *testing.T) {
	cfg := Load()
	assert.Equal(t, "llama3-8b-8192", cfg.GroqModel)
}

func TestLoadLeavesGroqURLToClient(t *testing.T) {
	t.Setenv("GROQ_API_URL", "")
	cfg := Load()
	assert.Empty(t, cfg.GroqAPIURL)
}

func TestLoadInvalidNumbersFallBack(t *testing.T) {
	t.Setenv("UPLOAD_PRUNE_INTERVAL", "soon")
	t.Setenv("MAX_UPLOAD_BYTES", "lots")

	cfg := Load()

	assert.Equal(t, time.Hour, cfg.UploadPruneInterval)
	assert.Equal(t, int64(50*1024*1024), cfg.MaxUploadBytes)
}

func TestValidate(t *testing.T) {
	t.Run("groq requires key", func(t *testing.T) {
		cfg := &Config{LLMBackend: "groq", SessionBackend: "memory"}
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "GROQ_API_KEY")
	})

	t.Run("claude requires key", func(t *testing.T) {
		cfg := &Config{LLMBackend: "claude", SessionBackend: "memory"}
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "CLAUDE_API_KEY")
	})

	t.Run("ollama needs no key", func(t *testing.T) {
		cfg := &Config{LLMBackend: "ollama", OllamaHost: "http://localhost:11434", SessionBackend: "memory"}
		assert.NoError(t, cfg.Validate())
	})

	t.Run("redis requires address", func(t *testing.T) {
		cfg := &Config{LLMBackend: "groq", GroqAPIKey: "k", SessionBackend: "redis"}
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "REDIS_ADDR")
	})

	t.Run("unknown backends", func(t *testing.T) {
		cfg := &Config{LLMBackend: "llamafile", SessionBackend: "etcd"}
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "LLM_BACKEND")
		assert.Contains(t, err.Error(), "SESSION_BACKEND")
	})

	t.Run("valid", func(t *testing.T) {
		cfg := &Config{LLMBackend: "groq", GroqAPIKey: "k", SessionBackend: "sqlite"}
		assert.NoError(t, cfg.Validate())
	})
}
