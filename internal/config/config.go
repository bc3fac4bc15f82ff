package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Config holds runtime configuration sourced from env vars.
type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string
	JWTIssuer   string
	UploadDir   string
	CORSOrigins []string

	// Privileged employee login. Both must be set for the endpoint to work;
	// the password is stored as a bcrypt hash, never plaintext.
	EmployeeEmail        string
	EmployeePasswordHash string
}

// Load reads configuration from the environment and performs minimal
// validation. A missing JWT_SECRET is a startup failure: the server must
// never run with a default signing secret.
func Load() (Config, error) {
	cfg := Config{
		Port:                 fallback(os.Getenv("PORT"), "8080"),
		DatabaseURL:          strings.TrimSpace(os.Getenv("DATABASE_URL")),
		JWTSecret:            strings.TrimSpace(os.Getenv("JWT_SECRET")),
		JWTIssuer:            fallback(os.Getenv("JWT_ISSUER"), "audioryx-backend"),
		UploadDir:            fallback(os.Getenv("UPLOAD_DIR"), "uploads"),
		CORSOrigins:          parseCSV(fallback(os.Getenv("CORS_ALLOWED_ORIGINS"), "*")),
		EmployeeEmail:        strings.TrimSpace(os.Getenv("EMPLOYEE_EMAIL")),
		EmployeePasswordHash: strings.TrimSpace(os.Getenv("EMPLOYEE_PASSWORD_HASH")),
	}

	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}

	return cfg, nil
}

// EmployeeLoginConfigured reports whether the privileged login path is usable.
func (c Config) EmployeeLoginConfigured() bool {
	return c.EmployeeEmail != "" && c.EmployeePasswordHash != ""
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}

func parseCSV(input string) []string {
	parts := strings.Split(input, ",")
	var out []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
