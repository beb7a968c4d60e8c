package util

import (
	"os"
	"strconv"
)

// GetEnv reads an environment variable with a fallback default
func GetEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// GetEnvAsInt reads an integer environment variable with a fallback default.
// Unparseable values fall back too - a bad env var shouldn't crash startup.
func GetEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return n
}
