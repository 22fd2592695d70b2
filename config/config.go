// Package config reads application config from environment variables, with
// .env file support for local development.
package config

import (
	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
	"hermannm.dev/devlog/log"
)

type Config struct {
	IsProduction bool    `env:"PRODUCTION"`
	DatabasePath string  `env:"DATABASE_PATH" envDefault:"timereport.db"`
	NotesDir     string  `env:"NOTES_DIR" envDefault:"notes"`
	HoursPerDay  float64 `env:"HOURS_PER_DAY" envDefault:"8"`
	API          API
}

type API struct {
	Port string `env:"API_PORT"`
}

func ReadFromEnv() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file loaded, using environment as-is")
	}

	parseOptions := env.Options{RequiredIfNoDef: true}

	var config Config
	if err := env.ParseWithOptions(&config, parseOptions); err != nil {
		return Config{}, err
	}

	return config, nil
}
