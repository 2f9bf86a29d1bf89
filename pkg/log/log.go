// Package log wraps zerolog with a process-wide logger and component scoped
// children.
package log

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var (
	Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
)

type Level string

const (
	DebugLevel Level = "debug"
	InfoLevel  Level = "info"
	WarnLevel  Level = "warn"
	ErrorLevel Level = "error"
)

type Config struct {
	Level      Level
	JSONOutput bool
	Output     io.Writer
}

func Init(cfg Config) {
	var level zerolog.Level
	switch cfg.Level {
	case DebugLevel:
		level = zerolog.DebugLevel
	case InfoLevel:
		level = zerolog.InfoLevel
	case WarnLevel:
		level = zerolog.WarnLevel
	case ErrorLevel:
		level = zerolog.ErrorLevel
	default:
		level = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(level)

	output := cfg.Output
	if output == nil {
		output = os.Stdout
	}

	if cfg.JSONOutput {
		Logger = zerolog.New(output).With().Timestamp().Logger()
	} else {
		Logger = zerolog.New(zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.RFC3339,
		}).With().Timestamp().Logger()
	}
}

func WithComponent(component string) zerolog.Logger {
	return Logger.With().Str("component", component).Logger()
}

func WithUserID(userID string) zerolog.Logger {
	return Logger.With().Str("user_id", userID).Logger()
}

func Info(msg string) {
	Logger.Info().Msg(msg)
}

func Errorf(msg string, err error) {
	Logger.Error().Err(err).Msg(msg)
}
