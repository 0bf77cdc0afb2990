package config

import (
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port           string `yaml:"port"`
	DBDSN          string `yaml:"db_dsn"`
	StaticDir      string `yaml:"static_dir"`
	LogFile        string `yaml:"log_file"`
	RestaurantName string `yaml:"restaurant_name"`
}

// Load resolves configuration in three layers: built-in defaults, then an
// optional YAML file (TAVOLA_CONFIG), then environment variables.
func Load() Config {
	cfg := Config{
		Port:           "8080",
		DBDSN:          "tavola.db", // sqlite file in project root
		StaticDir:      "./web/static",
		LogFile:        "./tavola.log",
		RestaurantName: "Tavola",
	}

	if path := os.Getenv("TAVOLA_CONFIG"); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			log.Printf("[warn] could not read config file %s: %v", path, err)
		} else if err := yaml.Unmarshal(b, &cfg); err != nil {
			log.Printf("[warn] could not parse config file %s: %v", path, err)
		}
	}

	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("DB_DSN"); v != "" {
		cfg.DBDSN = v
	}
	if v := os.Getenv("STATIC_DIR"); v != "" {
		cfg.StaticDir = v
	}
	if v := os.Getenv("LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv("RESTAURANT_NAME"); v != "" {
		cfg.RestaurantName = v
	}

	log.Printf("[config] PORT=%s DB_DSN=%s STATIC_DIR=%s LOG_FILE=%s", cfg.Port, cfg.DBDSN, cfg.StaticDir, cfg.LogFile)
	return cfg
}
