package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	API      APIConfig
	Telegram TelegramConfig
	Cafe     CafeConfig
}

type APIConfig struct {
	URL string
	// DemoMode runs without the remote service: built-in menu, local order
	// confirmations, empty staff queue. Set explicitly via DEMO_MODE; an
	// empty API_URL implies it.
	DemoMode     bool
	PollInterval time.Duration
}

type TelegramConfig struct {
	Token        string
	KitchenToken string // separate bot for the staff queue; optional
}

type CafeConfig struct {
	Name  string
	Zones []string // seating zones offered at the welcome screen
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	demo, _ := strconv.ParseBool(getEnv("DEMO_MODE", "false"))
	pollSeconds, err := strconv.Atoi(getEnv("POLL_INTERVAL_SECONDS", "8"))
	if err != nil || pollSeconds <= 0 {
		pollSeconds = 8
	}

	cfg := &Config{
		API: APIConfig{
			URL:          getEnv("API_URL", ""),
			DemoMode:     demo,
			PollInterval: time.Duration(pollSeconds) * time.Second,
		},
		Telegram: TelegramConfig{
			Token:        getEnv("TOKEN", ""),
			KitchenToken: getEnv("KITCHEN_TOKEN", ""),
		},
		Cafe: CafeConfig{
			Name:  getEnv("CAFE_NAME", "Yani Garden Cafe"),
			Zones: []string{"The Campfire", "The Gallery", "The Nest"},
		},
	}
	if cfg.API.URL == "" {
		cfg.API.DemoMode = true
	}
	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
