package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	ListenAddr string
	DBPath     string

	UploadDir           string
	UploadTTL           time.Duration
	UploadPruneInterval time.Duration
	MaxUploadBytes      int64

	DetectorURL    string
	DetectorModel  string
	DetectorLabels string

	LLMBackend   string
	GroqAPIKey   string
	GroqModel    string
	GroqAPIURL   string
	ClaudeAPIKey string
	ClaudeModel  string
	OllamaHost   string
	OllamaModel  string
	LLMTimeout   time.Duration

	SessionBackend string
	SessionTTL     time.Duration
	RedisAddr      string
	RedisPassword  string
	RedisDB        int

	LogLevel  string
	LogFile   string
	LogFormat string
}

func Load() *Config {
	return &Config{
		ListenAddr: getEnv("LISTEN_ADDR", ":8000"),
		DBPath:     getEnv("DB_PATH", "recipelens.db"),

		UploadDir:           getEnv("UPLOAD_DIR", "uploads"),
		UploadTTL:           getDuration("UPLOAD_TTL", 0),
		UploadPruneInterval: getDuration("UPLOAD_PRUNE_INTERVAL", time.Hour),
		MaxUploadBytes:      int64(getInt("MAX_UPLOAD_BYTES", 50*1024*1024)),

		DetectorURL:    getEnv("DETECTOR_URL", "http://localhost:8500/predict"),
		DetectorModel:  getEnv("DETECTOR_MODEL", "yolo_fruits_and_vegetables_v8x.pt"),
		DetectorLabels: getEnv("DETECTOR_LABELS", ""),

		LLMBackend:   getEnv("LLM_BACKEND", "groq"),
		GroqAPIKey:   getEnv("GROQ_API_KEY", ""),
		GroqModel:    getEnv("GROQ_MODEL", "llama3-8b-8192"),
		GroqAPIURL:   getEnv("GROQ_API_URL", ""),
		ClaudeAPIKey: getEnv("CLAUDE_API_KEY", ""),
		ClaudeModel:  getEnv("CLAUDE_MODEL", "claude-3-5-haiku-latest"),
		OllamaHost:   getEnv("OLLAMA_HOST", "http://localhost:11434"),
		OllamaModel:  getEnv("OLLAMA_MODEL", "llama3"),
		LLMTimeout:   getDuration("LLM_TIMEOUT", 60*time.Second),

		SessionBackend: getEnv("SESSION_BACKEND", "memory"),
		SessionTTL:     getDuration("SESSION_TTL", 24*time.Hour),
		RedisAddr:      getEnv("REDIS_ADDR", ""),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisDB:        getInt("REDIS_DB", 0),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFile:   getEnv("LOG_FILE", ""),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}
}

// Validate reports every required setting that is missing for the selected
// backends.
func (c *Config) Validate() error {
	var errs []error
	switch c.LLMBackend {
	case "groq":
		if c.GroqAPIKey == "" {
			errs = append(errs, errors.New("GROQ_API_KEY is required when LLM_BACKEND=groq"))
		}
	case "claude":
		if c.ClaudeAPIKey == "" {
			errs = append(errs, errors.New("CLAUDE_API_KEY is required when LLM_BACKEND=claude"))
		}
	case "ollama":
		if c.OllamaHost == "" {
			errs = append(errs, errors.New("OLLAMA_HOST is required when LLM_BACKEND=ollama"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown LLM_BACKEND %q", c.LLMBackend))
	}

	switch c.SessionBackend {
	case "memory", "sqlite":
	case "redis":
		if c.RedisAddr == "" {
			errs = append(errs, errors.New("REDIS_ADDR is required when SESSION_BACKEND=redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown SESSION_BACKEND %q", c.SessionBackend))
	}

	if c.UploadTTL < 0 {
		errs = append(errs, errors.New("UPLOAD_TTL must not be negative"))
	}
	return errors.Join(errs...)
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}

func getInt(key string, defaultVal int) int {
	val, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	val, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}
	return d
}
