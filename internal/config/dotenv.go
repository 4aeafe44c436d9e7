package config

import (
	"os"
	"strconv"

	"pears2pears/internal/game"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads environment variables from a .env file if present.
// Existing environment variables are not overwritten.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

type Config struct {
	WinningScore             int
	RoundEndSeconds          int
	CardsPath                string
	ResponseDeckSize         int
	PromptDeckSize           int
	InactiveSeconds          int
	DBMaxOpenConns           int
	DBMaxIdleConns           int
	DBConnMaxLifetimeSeconds int
	DBConnMaxIdleTimeSeconds int
	DBAutoMigrate            bool
}

func Default() Config {
	return Config{
		WinningScore:             7,
		RoundEndSeconds:          5,
		CardsPath:                "cards.csv",
		ResponseDeckSize:         0,
		PromptDeckSize:           0,
		InactiveSeconds:          300,
		DBMaxOpenConns:           10,
		DBMaxIdleConns:           10,
		DBConnMaxLifetimeSeconds: 300,
		DBConnMaxIdleTimeSeconds: 60,
		DBAutoMigrate:            false,
	}
}

func Load() Config {
	cfg := Default()
	if raw := os.Getenv("WINNING_SCORE"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value >= game.MinWinningScore && value <= game.MaxWinningScore {
			cfg.WinningScore = value
		}
	}
	if raw := os.Getenv("ROUND_END_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value >= 0 {
			cfg.RoundEndSeconds = value
		}
	}
	if raw := os.Getenv("CARDS_PATH"); raw != "" {
		cfg.CardsPath = raw
	}
	if raw := os.Getenv("RESPONSE_DECK_SIZE"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value >= 0 {
			cfg.ResponseDeckSize = value
		}
	}
	if raw := os.Getenv("PROMPT_DECK_SIZE"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value >= 0 {
			cfg.PromptDeckSize = value
		}
	}
	if raw := os.Getenv("INACTIVE_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.InactiveSeconds = value
		}
	}
	if raw := os.Getenv("DB_MAX_OPEN_CONNS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBMaxOpenConns = value
		}
	}
	if raw := os.Getenv("DB_MAX_IDLE_CONNS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBMaxIdleConns = value
		}
	}
	if raw := os.Getenv("DB_CONN_MAX_LIFETIME_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBConnMaxLifetimeSeconds = value
		}
	}
	if raw := os.Getenv("DB_CONN_MAX_IDLE_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBConnMaxIdleTimeSeconds = value
		}
	}
	if raw := os.Getenv("DB_AUTO_MIGRATE"); raw != "" {
		if value, err := strconv.ParseBool(raw); err == nil {
			cfg.DBAutoMigrate = value
		}
	}
	return cfg
}
