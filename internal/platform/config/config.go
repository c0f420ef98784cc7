package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"time"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders; field
// encryption secrets are handed to the cipher at construction, never
// read ambient per call.
type Config struct {
	ServiceName string
	HTTPPort    string
	PostgresDSN string

	JWTSecret    string
	AssertionTTL time.Duration

	EncryptionKey []byte
	SigningKey    []byte
}

func Load() (Config, error) {
	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "caregate"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	encryptionKey, err := decodeKey("ENCRYPTION_KEY")
	if err != nil {
		return Config{}, err
	}
	signingKey, err := decodeKey("SIGNING_KEY")
	if err != nil {
		return Config{}, err
	}

	return Config{
		ServiceName:   service,
		HTTPPort:      port,
		PostgresDSN:   os.Getenv("POSTGRES_DSN"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		AssertionTTL:  time.Hour,
		EncryptionKey: encryptionKey,
		SigningKey:    signingKey,
	}, nil
}

func decodeKey(name string) ([]byte, error) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return nil, nil
	}
	key, err := hex.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be hex encoded: %w", name, err)
	}
	return key, nil
}
