// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ServerConfig holds all server-related settings
type ServerConfig struct {
	Port           int
	Host           string
	MetricsEnabled bool
}

// DatabaseConfig holds MongoDB connection settings
type DatabaseConfig struct {
	URI  string
	Name string
}

// AuthConfig holds the settings for the session/auth gate
type AuthConfig struct {
	JWTSecret          string
	AllowedEmailDomain string
	TokenExpiry        time.Duration
}

// PresenceConfig controls the heartbeat tracker. StalenessWindow must be at
// least one HeartbeatInterval so a single missed beat does not flap status.
type PresenceConfig struct {
	HeartbeatInterval time.Duration
	StalenessWindow   time.Duration
}

// StorageConfig holds object storage settings for uploads
type StorageConfig struct {
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
	Endpoint  string // non-empty for MinIO/local development
	MaxUpload int64  // bytes
}

// RelationshipConfig holds friend-request policy knobs
type RelationshipConfig struct {
	AllowRerequestAfterDecline bool
}

// Config holds the complete application configuration
type Config struct {
	Server         *ServerConfig
	Database       *DatabaseConfig
	Auth           *AuthConfig
	Presence       *PresenceConfig
	Storage        *StorageConfig
	Relationship   *RelationshipConfig
	AllowedOrigins []string
	Debug          bool
}

// DefaultServerConfig provides default server settings
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:           8080,
		Host:           "0.0.0.0",
		MetricsEnabled: true,
	}
}

// LoadConfig loads configuration from environment variables and applies
// defaults. Required variables that are missing are collected into a single
// error so a bad deployment fails at startup with every gap named, not at
// first use.
func LoadConfig() (*Config, error) {
	// Try to load .env from the working directory and the project root
	envLocations := []string{
		".env",
		"../../.env",
	}
	for _, location := range envLocations {
		if err := godotenv.Load(location); err == nil {
			break
		}
	}

	serverConfig := DefaultServerConfig()

	if portStr := os.Getenv("PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil {
			serverConfig.Port = port
		}
	}
	if host := os.Getenv("HOST"); host != "" {
		serverConfig.Host = host
	}
	if metricsEnabled := os.Getenv("METRICS_ENABLED"); metricsEnabled != "" {
		serverConfig.MetricsEnabled = metricsEnabled == "true"
	}

	var missing []string
	requireEnv := func(key string) string {
		value := os.Getenv(key)
		if value == "" {
			missing = append(missing, key)
		}
		return value
	}

	dbConfig := &DatabaseConfig{
		URI:  requireEnv("MONGODB_URI"),
		Name: getEnvOrDefault("MONGODB_DATABASE", "campus_swamp"),
	}

	authConfig := &AuthConfig{
		JWTSecret:          requireEnv("JWT_SECRET"),
		AllowedEmailDomain: getEnvOrDefault("ALLOWED_EMAIL_DOMAIN", "miet.ac.in"),
		TokenExpiry:        24 * time.Hour,
	}
	if expiryStr := os.Getenv("TOKEN_EXPIRY"); expiryStr != "" {
		if expiry, err := time.ParseDuration(expiryStr); err == nil {
			authConfig.TokenExpiry = expiry
		}
	}

	presenceConfig := &PresenceConfig{
		HeartbeatInterval: 30 * time.Second,
		StalenessWindow:   60 * time.Second,
	}
	if intervalStr := os.Getenv("HEARTBEAT_INTERVAL"); intervalStr != "" {
		if interval, err := time.ParseDuration(intervalStr); err == nil {
			presenceConfig.HeartbeatInterval = interval
		}
	}
	if windowStr := os.Getenv("PRESENCE_STALENESS"); windowStr != "" {
		if window, err := time.ParseDuration(windowStr); err == nil {
			presenceConfig.StalenessWindow = window
		}
	}
	if presenceConfig.StalenessWindow < presenceConfig.HeartbeatInterval {
		return nil, fmt.Errorf(
			"PRESENCE_STALENESS (%s) must be at least HEARTBEAT_INTERVAL (%s)",
			presenceConfig.StalenessWindow, presenceConfig.HeartbeatInterval,
		)
	}

	storageConfig := &StorageConfig{
		Bucket:    requireEnv("AWS_S3_BUCKET"),
		Region:    getEnvOrDefault("AWS_REGION", "us-east-1"),
		AccessKey: requireEnv("AWS_ACCESS_KEY_ID"),
		SecretKey: requireEnv("AWS_SECRET_ACCESS_KEY"),
		Endpoint:  os.Getenv("S3_ENDPOINT"),
		MaxUpload: 50 << 20, // 50 MB
	}
	if maxStr := os.Getenv("MAX_UPLOAD_BYTES"); maxStr != "" {
		if max, err := strconv.ParseInt(maxStr, 10, 64); err == nil {
			storageConfig.MaxUpload = max
		}
	}

	relationshipConfig := &RelationshipConfig{
		AllowRerequestAfterDecline: getEnvOrDefault("FRIEND_REREQUEST", "true") == "true",
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	config := &Config{
		Server:         serverConfig,
		Database:       dbConfig,
		Auth:           authConfig,
		Presence:       presenceConfig,
		Storage:        storageConfig,
		Relationship:   relationshipConfig,
		AllowedOrigins: []string{"*"},
		Debug:          false,
	}

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		config.AllowedOrigins = strings.Split(origins, ",")
	}
	if debug := os.Getenv("DEBUG"); debug == "true" {
		config.Debug = true
	}

	return config, nil
}

// Helper function to get environment variable with default fallback
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
