// Package config loads process settings from the environment, optionally
// seeded from a .env file in the working directory.
package config

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/gogpu/gg"
	"github.com/joho/godotenv"
)

type Config struct {
	RelayAddr    string // listen address of the relay
	RelayURL     string // relay to dial; empty means discover over mDNS
	RelayChannel string
	RedisURL     string // enables multi-process relay fan-out
	MDNS         bool
	LogLevel     string
}

// Load reads .env if present, then the environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}
	return fromEnv(os.Getenv)
}

func fromEnv(getenv func(string) string) Config {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}
	return Config{
		RelayAddr:    get("RELAY_ADDR", ":8888"),
		RelayURL:     get("RELAY_URL", ""),
		RelayChannel: get("RELAY_CHANNEL", "draw_room"),
		RedisURL:     get("REDIS_URL", ""),
		MDNS:         get("MDNS", "1") != "0",
		LogLevel:     get("LOG_LEVEL", "info"),
	}
}

func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SetupLogger installs a text handler on w as the default logger and shares
// it with gg.
func SetupLogger(w io.Writer, level string) *slog.Logger {
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)}))
	slog.SetDefault(logger)
	gg.SetLogger(logger.With("component", "gg"))
	return logger
}
