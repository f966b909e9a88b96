package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jerehe1/folio/pkg/logger"
	"github.com/joho/godotenv"
)

// Override store backends
const (
	StoreSQLite  = "sqlite"
	StoreMongoDB = "mongodb"
	StoreSurreal = "surrealdb"
)

const (
	devJWTSecret   = "folio-dev-secret-change-me"
	defaultGinMode = "release"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	GitHub     GitHubConfig
	Screenshot ScreenshotConfig
	Auth       AuthConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	PublicBaseURL  string
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Path          string
	OverrideStore string
	MongoURI      string
	MongoDatabase string
	SurrealURL    string
	SurrealNS     string
	SurrealDB     string
	SurrealUser   string
	SurrealPass   string
}

type GitHubConfig struct {
	Account       string
	Token         string
	APIURL        string
	PageSize      int
	AdminPageSize int
	Timeout       time.Duration
}

type ScreenshotConfig struct {
	APIURL         string
	APIKey         string
	Timeout        time.Duration
	CacheTTL       time.Duration
	Width          int
	Height         int
	PlaceholderURL string
}

type AuthConfig struct {
	JWTSecret        string
	TokenTTL         time.Duration
	LoginMaxAttempts int
	LoginWindow      time.Duration
}

// Load loads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			Mode:           getEnv("GIN_MODE", defaultGinMode),
			ReadTimeout:    getEnvAsDuration("READ_TIMEOUT", 15*time.Second),
			WriteTimeout:   getEnvAsDuration("WRITE_TIMEOUT", 30*time.Second),
			PublicBaseURL:  strings.TrimSuffix(getEnv("PUBLIC_BASE_URL", ""), "/"),
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Database: DatabaseConfig{
			Path:          getEnv("DB_PATH", "./folio.db"),
			OverrideStore: strings.ToLower(getEnv("OVERRIDE_STORE", StoreSQLite)),
			MongoURI:      getEnv("MONGODB_URI", ""),
			MongoDatabase: getEnv("MONGODB_DATABASE", "folio"),
			SurrealURL:    getEnv("SURREAL_URL", ""),
			SurrealNS:     getEnv("SURREAL_NS", "folio"),
			SurrealDB:     getEnv("SURREAL_DB", "folio"),
			SurrealUser:   getEnv("SURREAL_USER", ""),
			SurrealPass:   getEnv("SURREAL_PASS", ""),
		},
		GitHub: GitHubConfig{
			Account:       getEnv("GITHUB_ACCOUNT", "Jerehe1"),
			Token:         getEnv("GITHUB_TOKEN", ""),
			APIURL:        getEnv("GITHUB_API_URL", ""),
			PageSize:      getEnvAsInt("GITHUB_PAGE_SIZE", 30),
			AdminPageSize: getEnvAsInt("GITHUB_ADMIN_PAGE_SIZE", 50),
			Timeout:       getEnvAsDuration("GITHUB_TIMEOUT", 15*time.Second),
		},
		Screenshot: ScreenshotConfig{
			APIURL:         getEnv("SCREENSHOT_API_URL", "https://api.screenshotone.com/take"),
			APIKey:         getEnv("SCREENSHOT_API_KEY", ""),
			Timeout:        getEnvAsDuration("SCREENSHOT_TIMEOUT", 25*time.Second),
			CacheTTL:       getEnvAsDuration("SCREENSHOT_CACHE_TTL", 6*time.Hour),
			Width:          getEnvAsInt("SCREENSHOT_WIDTH", 1280),
			Height:         getEnvAsInt("SCREENSHOT_HEIGHT", 800),
			PlaceholderURL: getEnv("PLACEHOLDER_IMAGE_URL", "https://via.placeholder.com/600x400?text=Project"),
		},
		Auth: AuthConfig{
			JWTSecret:        getEnv("JWT_SECRET", ""),
			TokenTTL:         getEnvAsDuration("TOKEN_TTL", 24*time.Hour),
			LoginMaxAttempts: getEnvAsInt("LOGIN_MAX_ATTEMPTS", 5),
			LoginWindow:      getEnvAsDuration("LOGIN_WINDOW", 15*time.Minute),
		},
	}

	if cfg.Auth.JWTSecret == "" {
		if cfg.Server.Mode == defaultGinMode {
			return nil, errors.New("JWT_SECRET is required in release mode")
		}
		logger.Warn("JWT_SECRET not set, using development secret")
		cfg.Auth.JWTSecret = devJWTSecret
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Database.OverrideStore {
	case StoreSQLite:
	case StoreMongoDB:
		if c.Database.MongoURI == "" {
			return errors.New("MONGODB_URI is required when OVERRIDE_STORE=mongodb")
		}
	case StoreSurreal:
		if c.Database.SurrealURL == "" {
			return errors.New("SURREAL_URL is required when OVERRIDE_STORE=surrealdb")
		}
	default:
		return errors.New("OVERRIDE_STORE must be one of sqlite, mongodb, surrealdb")
	}
	if c.GitHub.Account == "" {
		return errors.New("GITHUB_ACCOUNT must not be empty")
	}
	if c.GitHub.PageSize <= 0 || c.GitHub.PageSize > 100 {
		return errors.New("GITHUB_PAGE_SIZE must be between 1 and 100")
	}
	if c.GitHub.AdminPageSize <= 0 || c.GitHub.AdminPageSize > 100 {
		return errors.New("GITHUB_ADMIN_PAGE_SIZE must be between 1 and 100")
	}
	return nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsDuration accepts Go duration strings ("90s") or a plain number of seconds
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
