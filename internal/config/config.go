// internal/config/config.go
//
// Environment-driven configuration for the Lights Out server.
// .env files are loaded by main via godotenv before Load is called.
//
// Environment variables (defaults in parentheses):
//   PORT (5175)                 HTTP listen port
//   LOG_LEVEL (info)            zerolog level
//   DB_PATH (./data/lightsout.db)
//   JWT_SECRET (dev_secret_change_me)
//   JWT_EXPIRES_DAYS (14)
//   COOKIE_NAME (lightsout_token)
//   CLIENT_ORIGIN (http://localhost:5173)
//   NODE_ENV / APP_ENV          "production" enables Secure cookies
//   DAILY_SALT (local_dev_salt)
//   GAME_TTL (2h)               idle session lifetime
//   SWEEP_INTERVAL (5m)
//   BOARD_ROWS, BOARD_COLS (5)  default board size for /game/new
//   LIT_PROBABILITY (0.85)
//   PUZZLES_FILE                optional preset puzzle file

package config

import (
	"os"
	"strconv"
	"time"
)

// Config is the resolved server configuration.
type Config struct {
	Port           string
	LogLevel       string
	DBPath         string
	JWTSecret      string
	JWTExpiresDays int
	CookieName     string
	ClientOrigin   string
	Production     bool
	DailySalt      string
	GameTTL        time.Duration
	SweepInterval  time.Duration
	BoardRows      int
	BoardCols      int
	LitProbability float64
}

// Load reads Config from the environment.
func Load() Config {
	env := getEnv("APP_ENV", getEnv("NODE_ENV", "development"))
	return Config{
		Port:           getEnv("PORT", "5175"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		DBPath:         getEnv("DB_PATH", "./data/lightsout.db"),
		JWTSecret:      getEnv("JWT_SECRET", "dev_secret_change_me"),
		JWTExpiresDays: envInt("JWT_EXPIRES_DAYS", 14),
		CookieName:     getEnv("COOKIE_NAME", "lightsout_token"),
		ClientOrigin:   getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		Production:     env == "production",
		DailySalt:      getEnv("DAILY_SALT", "local_dev_salt"),
		GameTTL:        envDuration("GAME_TTL", 2*time.Hour),
		SweepInterval:  envDuration("SWEEP_INTERVAL", 5*time.Minute),
		BoardRows:      envInt("BOARD_ROWS", 5),
		BoardCols:      envInt("BOARD_COLS", 5),
		LitProbability: envFloat("LIT_PROBABILITY", 0.85),
	}
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	if n, err := strconv.Atoi(os.Getenv(k)); err == nil {
		return n
	}
	return def
}

func envFloat(k string, def float64) float64 {
	if f, err := strconv.ParseFloat(os.Getenv(k), 64); err == nil {
		return f
	}
	return def
}

// envDuration accepts Go duration strings ("90s", "2h").
func envDuration(k string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(k)); err == nil && d > 0 {
		return d
	}
	return def
}
