// Package logging настраивает структурированное логирование на базе zerolog.
package logging

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Config содержит параметры логирования.
type Config struct {
	Level  string    // trace, debug, info, warn, error (по умолчанию info)
	Format string    // json или console (по умолчанию json)
	Output io.Writer // по умолчанию os.Stderr
}

var (
	mu     sync.RWMutex
	logger = build(Config{})
)

// Init настраивает глобальный логгер. Повторный вызов перенастраивает его.
func Init(cfg Config) zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	logger = build(cfg)
	return logger
}

// Logger возвращает текущий глобальный логгер.
func Logger() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Component возвращает логгер с полем component.
func Component(name string) zerolog.Logger {
	return Logger().With().Str("component", name).Logger()
}

func build(cfg Config) zerolog.Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}

	zerolog.TimeFieldFormat = time.RFC3339

	output := cfg.Output
	if strings.EqualFold(cfg.Format, "console") {
		output = zerolog.ConsoleWriter{Out: cfg.Output, TimeFormat: "15:04:05"}
	}

	return zerolog.New(output).Level(ParseLevel(cfg.Level)).With().Timestamp().Logger()
}

// ParseLevel преобразует строковый уровень в zerolog.Level, неизвестные значения дают info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}
