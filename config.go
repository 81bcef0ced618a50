package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

var errMissingAPIKey = errors.New("MEDITRAIL_API_KEY is not set")

// loadAppConfig reads .env (if present) and the process environment.
func loadAppConfig() (AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("WARNING: Could not load .env file: %v", err)
		log.Println("INFO: Using process environment and defaults.")
	}
	return configFromEnv(os.Getenv)
}

func configFromEnv(getenv func(string) string) (AppConfig, error) {
	var cfg AppConfig

	cfg.APIKey = getenv("MEDITRAIL_API_KEY")
	if cfg.APIKey == "" {
		return cfg, errMissingAPIKey
	}

	// An empty base URL makes the client use the production endpoint.
	cfg.BaseURL = getenv("MEDITRAIL_BASE_URL")
	if cfg.BaseURL != "" {
		log.Printf("INFO: MEDITRAIL_BASE_URL set: %s", cfg.BaseURL)
	}

	timeoutStr := getenv("MEDITRAIL_TIMEOUT_SECONDS")
	if timeoutStr != "" {
		seconds, err := strconv.Atoi(timeoutStr)
		if err != nil || seconds <= 0 {
			return cfg, fmt.Errorf("invalid MEDITRAIL_TIMEOUT_SECONDS %q", timeoutStr)
		}
		cfg.Timeout = time.Duration(seconds) * time.Second
		log.Printf("INFO: MEDITRAIL_TIMEOUT_SECONDS set: %d", seconds)
	}

	cfg.ExamplesConfigPath = getenv("EXAMPLES_CONFIG_PATH")
	if cfg.ExamplesConfigPath == "" {
		cfg.ExamplesConfigPath = "examples.yaml"
		log.Printf("INFO: EXAMPLES_CONFIG_PATH not set, using default: %s", cfg.ExamplesConfigPath)
	}

	return cfg, nil
}
