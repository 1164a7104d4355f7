package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// ArtifactDir is the filesystem directory rendered PDF forms are written
	// to; ArtifactBaseURL is the public prefix they are served under.
	ArtifactDir     string
	ArtifactBaseURL string

	// ChatWebhookURL is the incoming-webhook endpoint status notifications
	// are posted to. Empty disables notifications.
	ChatWebhookURL string

	// LoginRateLimit is a ulule/limiter rate string, e.g. "10-M".
	LoginRateLimit string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "8h")
	viper.SetDefault("JWT_ISSUER", "ncr-workflow-app")
	viper.SetDefault("ARTIFACT_DIR", "./artifacts")
	viper.SetDefault("ARTIFACT_BASE_URL", "/artifacts")
	viper.SetDefault("CHAT_WEBHOOK_URL", "")
	viper.SetDefault("LOGIN_RATE_LIMIT", "10-M")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = 8 * time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION (%q). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration)
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration

	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.ArtifactDir = viper.GetString("ARTIFACT_DIR")
	cfg.ArtifactBaseURL = viper.GetString("ARTIFACT_BASE_URL")

	cfg.ChatWebhookURL = viper.GetString("CHAT_WEBHOOK_URL")
	if cfg.ChatWebhookURL == "" {
		log.Println("Warning: CHAT_WEBHOOK_URL not set. Workflow notifications are disabled.")
	}

	cfg.LoginRateLimit = viper.GetString("LOGIN_RATE_LIMIT")

	return cfg, nil
}
