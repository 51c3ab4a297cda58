package config

import (
	"os"
	"time"
)

// parseEnv overlays Config fields from environment variables. A variable
// that is unset or empty leaves the current value untouched. The signing
// secret in particular is expected to come from here in real deployments
// so it can be rotated without rebuilding.
//
// Recognized variables:
//
//	ADDRESS       HTTP bind address
//	DATABASE_DSN  PostgreSQL DSN
//	JWT_SECRET    HMAC secret for signing tokens
//	TOKEN_TTL     bearer token lifetime, Go duration string (e.g. "240h")
func parseEnv(config *Config) {
	if v := os.Getenv("ADDRESS"); v != "" {
		config.EndpointAddrHTTP = v
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		config.DatabaseDSN = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		config.SecretKey = v
	}
	if v := os.Getenv("TOKEN_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.TokenValidityDuration = d
		}
	}
}
