// Package config reads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Addr           string
	AllowedOrigins []string
	ClockTime      time.Duration
	MatchInterval  time.Duration
	LogLevel       log.Level
	WSBufferSize   int
}

func Default() Config {
	return Config{
		Addr:           ":8080",
		AllowedOrigins: []string{"http://localhost:5173"},
		ClockTime:      10 * time.Minute,
		MatchInterval:  time.Second,
		LogLevel:       log.LevelInfo,
		WSBufferSize:   1024,
	}
}

// Load starts from Default and applies any CHESS_* variables that are set.
func Load() (Config, error) {
	return load(os.LookupEnv)
}

func load(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	if v, ok := lookup("CHESS_ADDR"); ok && v != "" {
		cfg.Addr = v
	}
	if v, ok := lookup("CHESS_ALLOWED_ORIGINS"); ok && v != "" {
		cfg.AllowedOrigins = nil
		for _, origin := range strings.Split(v, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
			}
		}
	}
	if v, ok := lookup("CHESS_CLOCK"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("CHESS_CLOCK=%q: %w", v, ErrInvalidConfig)
		}
		cfg.ClockTime = d
	}
	if v, ok := lookup("CHESS_MATCH_INTERVAL"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("CHESS_MATCH_INTERVAL=%q: %w", v, ErrInvalidConfig)
		}
		cfg.MatchInterval = d
	}
	if v, ok := lookup("CHESS_LOG_LEVEL"); ok && v != "" {
		level, err := ParseLevel(v)
		if err != nil {
			return Config{}, err
		}
		cfg.LogLevel = level
	}
	if v, ok := lookup("CHESS_WS_BUFFER"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("CHESS_WS_BUFFER=%q: %w", v, ErrInvalidConfig)
		}
		cfg.WSBufferSize = n
	}
	return cfg, nil
}

func ParseLevel(s string) (log.Level, error) {
	switch strings.ToLower(s) {
	case "trace":
		return log.LevelTrace, nil
	case "debug":
		return log.LevelDebug, nil
	case "info":
		return log.LevelInfo, nil
	case "warn", "warning":
		return log.LevelWarn, nil
	case "error":
		return log.LevelError, nil
	}
	return log.LevelInfo, fmt.Errorf("log level %q: %w", s, ErrInvalidConfig)
}
