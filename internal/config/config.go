package config

import (
	"os"
	"time"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Session tokens issued after identity resolution
	JWTSecret     string
	SessionExpiry time.Duration

	// Identity provider
	IdentityIssuer     string
	IdentityAudience   string
	IdentityJWKSURL    string
	IdentityAdminURL   string
	IdentityAdminToken string

	// BootstrapEmail is the one configured address that self-provisions the
	// superuser on first sign-in.
	BootstrapEmail string

	// Invitations
	InviteBaseURL string

	// Server
	Port        string
	CORSOrigins string
}

func Load() *Config {
	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "gymstack_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret:     getEnv("JWT_SECRET", ""),
		SessionExpiry: parseDuration(getEnv("SESSION_EXPIRY", "12h")),

		IdentityIssuer:     getEnv("IDENTITY_ISSUER", ""),
		IdentityAudience:   getEnv("IDENTITY_AUDIENCE", ""),
		IdentityJWKSURL:    getEnv("IDENTITY_JWKS_URL", ""),
		IdentityAdminURL:   getEnv("IDENTITY_ADMIN_URL", ""),
		IdentityAdminToken: getEnv("IDENTITY_ADMIN_TOKEN", ""),

		BootstrapEmail: getEnv("BOOTSTRAP_SUPERUSER_EMAIL", ""),

		InviteBaseURL: getEnv("INVITE_BASE_URL", "https://app.gymstack.io/invite"),

		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 12 * time.Hour
	}
	return d
}
