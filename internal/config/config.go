package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort        string
	DatabaseDSN     string
	TokenScheme     string // "demo" (compat) or "jwt"
	JWTSecret       string
	CORSOrigins     string
	ImagePath       string // directory for uploaded property images
	ImageBaseURL    string // public URL prefix for uploaded images
}

func Load() *Config {
	godotenv.Load()

	cfg := &Config{
		HTTPPort:     getEnv("HTTP_PORT", "8080"),
		DatabaseDSN:  getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=rently port=5432 sslmode=disable"),
		TokenScheme:  getEnv("AUTH_TOKEN_SCHEME", "demo"),
		JWTSecret:    getEnv("JWT_SECRET", ""),
		CORSOrigins:  getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		ImagePath:    getEnv("PROPERTY_IMAGE_PATH", "./property-images"),
		ImageBaseURL: getEnv("PROPERTY_IMAGE_BASE_URL", "/images"),
	}

	if cfg.TokenScheme != "demo" && cfg.TokenScheme != "jwt" {
		log.Fatalf("[FATAL] AUTH_TOKEN_SCHEME must be 'demo' or 'jwt', got %q", cfg.TokenScheme)
	}
	if cfg.TokenScheme == "jwt" && len(cfg.JWTSecret) < 32 {
		log.Fatal("[FATAL] AUTH_TOKEN_SCHEME=jwt requires JWT_SECRET of at least 32 characters")
	}
	if cfg.TokenScheme == "demo" {
		log.Println("[WARN] demo token scheme is active; tokens are forgeable and must not be used in production")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
