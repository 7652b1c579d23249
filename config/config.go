// Copyright 2025 Textloom
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package config loads pipeline settings from the environment, with an
// optional .env file in the working directory.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds environment-driven settings. APIKey may be empty; runs that
// need embeddings fail their availability check instead of failing here, so
// read-only commands work without credentials.
type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	Dimensions int
	DBPath     string
}

// Load reads configuration from the environment, loading a .env file first
// if one exists.
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("loading .env file: %w", err)
		}
	}

	cfg := &Config{
		APIKey:     getEnv("OPENAI_API_KEY", ""),
		BaseURL:    getEnv("EMBEDDING_BASE_URL", "https://api.openai.com/v1"),
		Model:      getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
		Dimensions: getEnvInt("EMBEDDING_DIMENSIONS", 1536),
		DBPath:     getEnv("FAQVEC_DB", "faqvec.db"),
	}

	if cfg.Dimensions < 1 {
		return nil, fmt.Errorf("EMBEDDING_DIMENSIONS must be positive, got %d", cfg.Dimensions)
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
