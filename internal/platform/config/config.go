package config

import (
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Referral store backends.
const (
	ReferralStorePostgres = "postgres"
	ReferralStoreRedis    = "redis"
	ReferralStoreMemory   = "memory"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	RunMigrations  bool
	MigrationsPath string
	JWTSecret      string
	JWTIssuer      string

	RedisURL      string
	ReferralStore string

	KafkaBrokers []string
	KafkaTopic   string
	OutboxBuffer int

	// RequiredDocumentTypes lists document types that must be approved before approval. Empty means
	// every attached document is required.
	RequiredDocumentTypes []string
	CORSAllowedOrigins    []string
	ReviewerRoles         []string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("RUN_MIGRATIONS", false)
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_ISSUER", "admissions-workflow")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("REFERRAL_STORE", ReferralStorePostgres)
	viper.SetDefault("KAFKA_BROKERS", "")
	viper.SetDefault("KAFKA_TOPIC", "admissions.workflow")
	viper.SetDefault("OUTBOX_BUFFER", 256)
	viper.SetDefault("REQUIRED_DOCUMENT_TYPES", "")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("REVIEWER_ROLES", "REVIEWER,ADMIN")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.ReferralStore = strings.ToLower(viper.GetString("REFERRAL_STORE"))
	switch cfg.ReferralStore {
	case ReferralStorePostgres, ReferralStoreRedis, ReferralStoreMemory:
	default:
		log.Printf("Warning: Invalid value for REFERRAL_STORE ('%s'). Defaulting to %s.\n", cfg.ReferralStore, ReferralStorePostgres)
		cfg.ReferralStore = ReferralStorePostgres
	}
	cfg.RedisURL = viper.GetString("REDIS_URL")
	if cfg.ReferralStore == ReferralStoreRedis && cfg.RedisURL == "" {
		log.Printf("Warning: REFERRAL_STORE is redis but REDIS_URL is not set. Defaulting to %s.\n", ReferralStoreMemory)
		cfg.ReferralStore = ReferralStoreMemory
	}

	cfg.OutboxBuffer = viper.GetInt("OUTBOX_BUFFER")
	if cfg.OutboxBuffer <= 0 {
		log.Printf("Warning: Invalid value for OUTBOX_BUFFER (%d). Defaulting to 256.\n", cfg.OutboxBuffer)
		cfg.OutboxBuffer = 256
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.RunMigrations = viper.GetBool("RUN_MIGRATIONS")
	cfg.MigrationsPath = viper.GetString("MIGRATIONS_PATH")
	cfg.KafkaBrokers = splitList(viper.GetString("KAFKA_BROKERS"))
	cfg.KafkaTopic = viper.GetString("KAFKA_TOPIC")
	cfg.RequiredDocumentTypes = splitList(viper.GetString("REQUIRED_DOCUMENT_TYPES"))
	cfg.CORSAllowedOrigins = splitList(viper.GetString("CORS_ALLOWED_ORIGINS"))
	cfg.ReviewerRoles = splitList(viper.GetString("REVIEWER_ROLES"))

	return cfg, nil
}

// splitList parses a comma separated env value, dropping empty items.
func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
