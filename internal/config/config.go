// Package config loads the process-wide gateway settings. The Config
// value is built once in main and passed down explicitly; nothing in the
// request path reads the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          int
	ReadeckURL    string
	ConvertToJPEG bool
}

// Load reads settings from the environment, with an optional .env file.
// READECK_URL is required; CONVERT_TO_JPEG defaults to true.
func Load() (*Config, error) {
	_ = godotenv.Load()

	readeckURL := strings.TrimSpace(os.Getenv("READECK_URL"))
	if readeckURL == "" {
		return nil, fmt.Errorf("READECK_URL is required")
	}

	return &Config{
		Port:          getEnvInt("PORT", 8080),
		ReadeckURL:    strings.TrimRight(readeckURL, "/"),
		ConvertToJPEG: getEnvBool("CONVERT_TO_JPEG", true),
	}, nil
}

func getEnvInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
