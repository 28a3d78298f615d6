package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool
	CORSOrigins   []string

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	RefreshTokenExpiryDuration time.Duration
	RefreshTokenCookieName     string
	RefreshTokenCookiePath     string
	RefreshTokenSecret         string

	// Auth route rate limiting, e.g. "10-M" for 10 requests per minute.
	AuthRateLimit string

	// AI endpoint configuration. When AzureEndpoint is set the client talks to
	// an Azure OpenAI deployment, otherwise to the public OpenAI API.
	OpenAIAPIKey       string
	AzureEndpoint      string
	AzureAPIVersion    string
	ChatDeployment     string
	ExtractDeployment  string
	AIRequestMaxTokens int

	// Receipt object storage.
	ReceiptStorageDir string
	SignedURLSecret   string
	SignedURLTTL      time.Duration
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("CORS_ORIGINS", "http://localhost:5173")
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "kmu-cockpit")
	viper.SetDefault("REFRESH_TOKEN_EXPIRY_DURATION", "168h")
	viper.SetDefault("REFRESH_TOKEN_COOKIE_NAME", "rtid")
	viper.SetDefault("REFRESH_TOKEN_COOKIE_PATH", "/auth")
	viper.SetDefault("REFRESH_TOKEN_SECRET", "default_insecure_refresh_secret_please_change_this")
	viper.SetDefault("AUTH_RATE_LIMIT", "10-M")
	viper.SetDefault("OPENAI_API_KEY", "")
	viper.SetDefault("AZURE_OPENAI_ENDPOINT", "")
	viper.SetDefault("AZURE_OPENAI_API_VERSION", "2024-06-01")
	viper.SetDefault("AI_CHAT_DEPLOYMENT", "gpt-4o")
	viper.SetDefault("AI_EXTRACT_DEPLOYMENT", "gpt-4o")
	viper.SetDefault("AI_REQUEST_MAX_TOKENS", 4000)
	viper.SetDefault("RECEIPT_STORAGE_DIR", "./data/receipts")
	viper.SetDefault("SIGNED_URL_SECRET", "default_insecure_signing_secret_please_change_this")
	viper.SetDefault("SIGNED_URL_TTL", "15m")

	viper.AutomaticEnv()

	jwtExpiry, err := time.ParseDuration(viper.GetString("JWT_EXPIRY_DURATION"))
	if err != nil {
		log.Printf("Invalid JWT_EXPIRY_DURATION, falling back to 1h: %v", err)
		jwtExpiry = time.Hour
	}
	refreshExpiry, err := time.ParseDuration(viper.GetString("REFRESH_TOKEN_EXPIRY_DURATION"))
	if err != nil {
		log.Printf("Invalid REFRESH_TOKEN_EXPIRY_DURATION, falling back to 168h: %v", err)
		refreshExpiry = 168 * time.Hour
	}
	signedURLTTL, err := time.ParseDuration(viper.GetString("SIGNED_URL_TTL"))
	if err != nil {
		log.Printf("Invalid SIGNED_URL_TTL, falling back to 15m: %v", err)
		signedURLTTL = 15 * time.Minute
	}

	cfg := &Config{
		DatabaseURL:                viper.GetString("PGSQL_URL"),
		Port:                       viper.GetString("PORT"),
		IsProduction:               viper.GetBool("IS_PRODUCTION"),
		EnableDBCheck:              viper.GetBool("ENABLE_DB_CHECK"),
		CORSOrigins:                viper.GetStringSlice("CORS_ORIGINS"),
		JWTSecret:                  viper.GetString("JWT_SECRET"),
		JWTExpiryDuration:          jwtExpiry,
		JWTIssuer:                  viper.GetString("JWT_ISSUER"),
		RefreshTokenExpiryDuration: refreshExpiry,
		RefreshTokenCookieName:     viper.GetString("REFRESH_TOKEN_COOKIE_NAME"),
		RefreshTokenCookiePath:     viper.GetString("REFRESH_TOKEN_COOKIE_PATH"),
		RefreshTokenSecret:         viper.GetString("REFRESH_TOKEN_SECRET"),
		AuthRateLimit:              viper.GetString("AUTH_RATE_LIMIT"),
		OpenAIAPIKey:               viper.GetString("OPENAI_API_KEY"),
		AzureEndpoint:              viper.GetString("AZURE_OPENAI_ENDPOINT"),
		AzureAPIVersion:            viper.GetString("AZURE_OPENAI_API_VERSION"),
		ChatDeployment:             viper.GetString("AI_CHAT_DEPLOYMENT"),
		ExtractDeployment:          viper.GetString("AI_EXTRACT_DEPLOYMENT"),
		AIRequestMaxTokens:         viper.GetInt("AI_REQUEST_MAX_TOKENS"),
		ReceiptStorageDir:          viper.GetString("RECEIPT_STORAGE_DIR"),
		SignedURLSecret:            viper.GetString("SIGNED_URL_SECRET"),
		SignedURLTTL:               signedURLTTL,
	}

	return cfg, nil
}
