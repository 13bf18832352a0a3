// Package logger builds the structured zap logger used across espn-lines.
//
// Production mode emits JSON with ISO8601 timestamps. Development mode (--verbose)
// switches to the console encoder at debug level. Every entry carries the app name
// so logs from scheduled runs can be filtered.
//
// Example usage:
//
//	log, err := logger.New(logger.LevelInfo, false)
//	if err != nil {
//	    return err
//	}
//	defer log.Sync()
//	log.Info("game extracted", zap.String("game_id", "401585601"))
package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// AppName is attached to every log entry
const AppName = "espn-lines"

// Level represents log severity
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// ParseLevel converts a level name (any case) into a Level
func ParseLevel(s string) (Level, error) {
	switch l := Level(strings.ToLower(strings.TrimSpace(s))); l {
	case LevelDebug, LevelInfo, LevelWarn, LevelError:
		return l, nil
	case "":
		return LevelInfo, nil
	default:
		return "", fmt.Errorf("invalid log level: %s (must be debug, info, warn or error)", s)
	}
}

func (l Level) zapLevel() zapcore.Level {
	switch l {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// New creates a logger at the given minimum level.
// development selects the human-readable console encoder and forces debug level.
func New(level Level, development bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level.zapLevel())
	if development {
		cfg = zap.NewDevelopmentConfig()
	}

	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	// Logs go to stderr so --format json output on stdout stays parseable
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	l, err := cfg.Build(zap.Fields(zap.String("app", AppName)))
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return l, nil
}
