package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// EnvConfig holds every environment-sourced setting. Field names match the
// environment variable names.
type EnvConfig struct {
	APP_PORT      string
	APP_BASE_URL  string
	LOG_FILE_PATH string

	// Entity store backend: "datastore", "postgres" or "memory".
	STORE_BACKEND  string
	GCP_PROJECT_ID string

	DB_HOST     string
	DB_PORT     string
	DB_USER     string
	DB_PASSWORD string
	DB_NAME     string
	DB_SSL_MODE string

	AUTH0_DOMAIN        string
	AUTH0_CLIENT_ID     string
	AUTH0_CLIENT_SECRET string

	PAGE_LIMIT        int
	MAX_LIST_NAME_LEN int

	// Optional YAML file overriding required-property sets and the
	// auth-optional route list. Empty means compiled-in defaults.
	API_RULES_PATH string
}

// DefaultEnvConfig is populated by LoadEnvConfig at startup.
var DefaultEnvConfig EnvConfig

// LoadEnvConfig reads .env (when present) and the process environment into
// DefaultEnvConfig. Missing optional settings fall back to defaults; the
// identity-provider settings are validated later, where they are first used.
func LoadEnvConfig() error {
	// .env is a development convenience; absence is not an error.
	_ = godotenv.Load()

	DefaultEnvConfig = EnvConfig{
		APP_PORT:            getEnv("APP_PORT", "8080"),
		APP_BASE_URL:        getEnv("APP_BASE_URL", "http://localhost:8080"),
		LOG_FILE_PATH:       os.Getenv("LOG_FILE_PATH"),
		STORE_BACKEND:       getEnv("STORE_BACKEND", "datastore"),
		GCP_PROJECT_ID:      os.Getenv("GCP_PROJECT_ID"),
		DB_HOST:             getEnv("DB_HOST", "localhost"),
		DB_PORT:             getEnv("DB_PORT", "5432"),
		DB_USER:             os.Getenv("DB_USER"),
		DB_PASSWORD:         os.Getenv("DB_PASSWORD"),
		DB_NAME:             os.Getenv("DB_NAME"),
		DB_SSL_MODE:         getEnv("DB_SSL_MODE", "disable"),
		AUTH0_DOMAIN:        os.Getenv("AUTH0_DOMAIN"),
		AUTH0_CLIENT_ID:     os.Getenv("AUTH0_CLIENT_ID"),
		AUTH0_CLIENT_SECRET: os.Getenv("AUTH0_CLIENT_SECRET"),
		API_RULES_PATH:      os.Getenv("API_RULES_PATH"),
	}

	var err error
	if DefaultEnvConfig.PAGE_LIMIT, err = getEnvInt("PAGE_LIMIT", 5); err != nil {
		return err
	}
	if DefaultEnvConfig.MAX_LIST_NAME_LEN, err = getEnvInt("MAX_LIST_NAME_LEN", 24); err != nil {
		return err
	}

	switch DefaultEnvConfig.STORE_BACKEND {
	case "datastore", "postgres", "memory":
	default:
		return fmt.Errorf("unsupported STORE_BACKEND %q", DefaultEnvConfig.STORE_BACKEND)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}
