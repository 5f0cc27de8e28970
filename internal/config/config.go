package config

import (
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	Region          string
	PublicBaseURL   string
}

type WebhookConfig struct {
	SlackURL      string
	SlackChannel  string
	SlackUsername string
	DiscordURL    string
	TeamsURL      string
	CustomURLs    []string
}

type EmailConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	From     string
	To       string
}

type GoogleOAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

type Config struct {
	DBURL         string
	Port          string
	JWTSecret     string
	TokenLifetime time.Duration
	Environment   string
	FrontendURL   string
	CorsConfig    cors.Options
	R2            R2Config
	Webhooks      WebhookConfig
	Email         EmailConfig
	GoogleOAuth   GoogleOAuthConfig
}

var Envs = initConfig()

func initConfig() Config {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Println("No", envFile, "file found")
	}

	return Config{
		DBURL:         getEnv("DB_URL", ""),
		Port:          getEnv("PORT", "8080"),
		JWTSecret:     getEnv("JWT_SECRET", "not-so-secret-now-is-it?"),
		TokenLifetime: 7 * 24 * time.Hour,
		Environment:   getEnv("ENV", "development"),
		FrontendURL:   getEnv("FRONTEND_URL", "http://localhost:5173"),
		CorsConfig:    CorsConfig(),
		R2: R2Config{
			AccountID:       getEnv("R2_ACCOUNT_ID", ""),
			AccessKeyID:     getEnv("R2_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("R2_SECRET_ACCESS_KEY", ""),
			BucketName:      getEnv("R2_BUCKET_NAME", ""),
			Region:          getEnv("R2_REGION", "auto"),
			PublicBaseURL:   getEnv("R2_PUBLIC_BASE_URL", ""),
		},
		Webhooks: WebhookConfig{
			SlackURL:      getEnv("SLACK_WEBHOOK_URL", ""),
			SlackChannel:  getEnv("SLACK_CHANNEL", "#alerts"),
			SlackUsername: getEnv("SLACK_USERNAME", "TaskFlow Alerts"),
			DiscordURL:    getEnv("DISCORD_WEBHOOK_URL", ""),
			TeamsURL:      getEnv("TEAMS_WEBHOOK_URL", ""),
			CustomURLs:    splitList(getEnv("CUSTOM_WEBHOOK_URLS", "")),
		},
		GoogleOAuth: GoogleOAuthConfig{
			ClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
			ClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
			RedirectURL:  getEnv("GOOGLE_REDIRECT_URL", "http://localhost:8080/api/auth/google/callback"),
		},
		Email: EmailConfig{
			Host:     getEnv("EMAIL_HOST", ""),
			Port:     getEnv("EMAIL_PORT", "587"),
			User:     getEnv("EMAIL_USER", ""),
			Password: getEnv("EMAIL_PASSWORD", ""),
			From:     getEnv("EMAIL_FROM", "alerts@taskflow.local"),
			To:       getEnv("EMAIL_ALERTS_TO", ""),
		},
	}
}

// Gets the env by key or fallbacks
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func CorsConfig() cors.Options {
	return cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "https://taskflow-web.vercel.app"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}
}
