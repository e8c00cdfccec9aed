package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultUsername = "admin"
	DefaultPassword = "admin123"
)

type Config struct {
	App  AppConfig
	LLM  LLMConfig
	OCR  OCRConfig
	Auth AuthConfig
}

type AppConfig struct {
	Port           string
	Environment    string
	LogFilePath    string
	UploadMaxBytes int64
	SessionTTL     time.Duration
}

type LLMConfig struct {
	Provider        string // "openai" or "anthropic"
	OpenAIKey       string
	OpenAIModel     string
	OpenAIBaseURL   string
	AnthropicKey    string
	AnthropicModel  string
	RequestTimeout  time.Duration
	MaxOutputTokens int
}

type OCRConfig struct {
	Languages    []string
	MaxDimension int
}

type AuthConfig struct {
	Username    string
	Password    string
	DatabaseURL string
}

// IsProduction reports whether logs should be JSON only.
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// UsesDefaultCredentials reports whether the built-in demo account is active.
func (c *Config) UsesDefaultCredentials() bool {
	return c.Auth.Username == DefaultUsername && c.Auth.Password == DefaultPassword
}

// Load reads configuration from an optional .env file and the process
// environment. Values already present in the environment win over .env.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:           getEnv("PORT", "8080"),
			Environment:    getEnv("APP_ENV", "development"),
			LogFilePath:    getEnv("LOG_FILE_PATH", "medlookup.log"),
			UploadMaxBytes: int64(getEnvAsInt("UPLOAD_MAX_BYTES", 10<<20)),
			SessionTTL:     time.Duration(getEnvAsInt("SESSION_TTL_MINUTES", 60)) * time.Minute,
		},
		LLM: LLMConfig{
			Provider:        strings.ToLower(getEnv("LLM_PROVIDER", "openai")),
			OpenAIKey:       getEnv("OPENAI_API_KEY", ""),
			OpenAIModel:     getEnv("OPENAI_MODEL_CHAT", "gpt-3.5-turbo"),
			OpenAIBaseURL:   getEnv("OPENAI_BASE_URL", ""),
			AnthropicKey:    getEnv("ANTHROPIC_API_KEY", ""),
			AnthropicModel:  getEnv("ANTHROPIC_MODEL", "claude-3-5-haiku-latest"),
			RequestTimeout:  time.Duration(getEnvAsInt("LLM_TIMEOUT_SECONDS", 60)) * time.Second,
			MaxOutputTokens: getEnvAsInt("LLM_MAX_OUTPUT_TOKENS", 1500),
		},
		OCR: OCRConfig{
			Languages:    splitList(getEnv("OCR_LANGUAGES", "eng")),
			MaxDimension: getEnvAsInt("OCR_MAX_DIMENSION", 0),
		},
		Auth: AuthConfig{
			Username:    getEnv("AUTH_USERNAME", DefaultUsername),
			Password:    getEnv("AUTH_PASSWORD", DefaultPassword),
			DatabaseURL: getEnv("DATABASE_URL", ""),
		},
	}
}

// Validate reports configuration that would prevent the service from
// answering lookups.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case "openai":
		if c.LLM.OpenAIKey == "" {
			return errors.New("OPENAI_API_KEY must be set")
		}
	case "anthropic":
		if c.LLM.AnthropicKey == "" {
			return errors.New("ANTHROPIC_API_KEY must be set")
		}
	default:
		return errors.New("LLM_PROVIDER must be openai or anthropic")
	}
	if c.Auth.Username == "" || c.Auth.Password == "" {
		return errors.New("AUTH_USERNAME and AUTH_PASSWORD must not be empty")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '+' }) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
