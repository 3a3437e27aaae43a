package config

import (
	"crypto/rsa"
	"fmt"
	"os"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
)

// GitHubAppConfig holds the App identity used to mint App JWTs. The private
// key is parsed and validated once at startup; a missing or malformed key is
// fatal here, never per-request.
type GitHubAppConfig struct {
	AppID      int64
	PrivateKey *rsa.PrivateKey
	AppName    string
}

type AppConfig struct {
	// Core configuration (always required)
	DatabaseURL        string
	DatabaseSchema     string
	Port               string // Optional with default "8080"
	CORSAllowedOrigins string // Optional with default "*"
	Environment        string

	// Bot API shared secret for /bot routes
	BotAPIKey string

	// Setup window opened by installation sync, in minutes
	SetupWindowMinutes int

	GitHubApp GitHubAppConfig
}

func LoadConfig() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Println("⚠️ Could not load .env file, continuing with system env vars")
	}

	databaseURL, err := getEnvRequired("DB_URL")
	if err != nil {
		return nil, err
	}

	databaseSchema, err := getEnvRequired("DB_SCHEMA")
	if err != nil {
		return nil, err
	}

	botAPIKey, err := getEnvRequired("BOT_API_KEY")
	if err != nil {
		return nil, err
	}

	githubApp, err := loadGitHubAppConfig()
	if err != nil {
		return nil, err
	}

	setupWindowMinutes, err := getEnvPositiveInt("SETUP_WINDOW_MINUTES")
	if err != nil {
		return nil, err
	}

	return &AppConfig{
		DatabaseURL:        databaseURL,
		DatabaseSchema:     databaseSchema,
		Port:               getEnvWithDefault("PORT", "8080"),
		CORSAllowedOrigins: getEnvWithDefault("CORS_ALLOWED_ORIGINS", "*"),
		Environment:        getEnvWithDefault("ENVIRONMENT", "dev"),
		BotAPIKey:          botAPIKey,
		SetupWindowMinutes: setupWindowMinutes,
		GitHubApp:          githubApp,
	}, nil
}

func loadGitHubAppConfig() (GitHubAppConfig, error) {
	appIDRaw, err := getEnvRequired("GITHUB_APP_ID")
	if err != nil {
		return GitHubAppConfig{}, err
	}
	appID, err := strconv.ParseInt(appIDRaw, 10, 64)
	if err != nil {
		return GitHubAppConfig{}, fmt.Errorf("GITHUB_APP_ID must be numeric: %w", err)
	}

	privateKeyPEM, err := getEnvRequired("GITHUB_APP_PRIVATE_KEY")
	if err != nil {
		return GitHubAppConfig{}, err
	}
	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(privateKeyPEM))
	if err != nil {
		return GitHubAppConfig{}, fmt.Errorf("GITHUB_APP_PRIVATE_KEY is not a valid RSA private key: %w", err)
	}

	appName, err := getEnvRequired("GITHUB_APP_NAME")
	if err != nil {
		return GitHubAppConfig{}, err
	}

	return GitHubAppConfig{
		AppID:      appID,
		PrivateKey: privateKey,
		AppName:    appName,
	}, nil
}

func getEnvRequired(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("%s is not set", key)
	}
	return value, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvPositiveInt(key string) (int, error) {
	raw, err := getEnvRequired(key)
	if err != nil {
		return 0, err
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("%s must be a positive numeric value", key)
	}
	return value, nil
}
