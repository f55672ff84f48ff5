// Package config reads the evolution service's environment-variable
// configuration, following the teacher's plain os.Getenv-with-defaults
// style from cmd/factoryinsight/main.go rather than a config-file parser.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds every environment-derived setting named in SPEC_FULL.md §6.
type Config struct {
	Port string

	PostgresHost     string
	PostgresPort     int
	PostgresUser     string
	PostgresPassword string
	PostgresDatabase string

	RedisURI      string
	RedisPassword string

	CacheTTLCurrent    time.Duration
	CacheTTLGeneration time.Duration
	CacheTTLFinal      time.Duration

	EngineCacheSize int

	LogLevel string
}

const (
	defaultCacheTTLCurrent    = 3600 * time.Second
	defaultCacheTTLGeneration = 86400 * time.Second
	defaultCacheTTLFinal      = 604800 * time.Second
	defaultEngineCacheSize    = 256
)

// Load reads the configuration from the process environment, falling back
// to the documented defaults for anything unset or unparsable.
func Load() Config {
	cfg := Config{
		Port:             getenv("PORT", "8080"),
		PostgresHost:     getenv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getenvInt("POSTGRES_PORT", 5432),
		PostgresUser:     os.Getenv("POSTGRES_USER"),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		PostgresDatabase: os.Getenv("POSTGRES_DATABASE"),

		RedisURI:      os.Getenv("REDIS_URI"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		CacheTTLCurrent:    getenvDuration("CACHE_TTL_CURRENT", defaultCacheTTLCurrent),
		CacheTTLGeneration: getenvDuration("CACHE_TTL_GENERATION", defaultCacheTTLGeneration),
		CacheTTLFinal:      getenvDuration("CACHE_TTL_FINAL", defaultCacheTTLFinal),

		EngineCacheSize: getenvInt("ENGINE_CACHE_SIZE", defaultEngineCacheSize),

		LogLevel: getenv("LOG_LEVEL", "INFO"),
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	seconds, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return time.Duration(seconds) * time.Second
}
