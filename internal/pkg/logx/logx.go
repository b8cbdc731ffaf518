/*
Package logx provides a structured logging wrapper based on zerolog.

It is responsible for initializing the global logger, configuring the output format
(JSON or console) based on the environment, and handing out per-component child
loggers used across the relay.
*/
package logx

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitGlobalLogger initializes the global zerolog instance.
// Development: Debug level, uses ConsoleWriter (colored/human-readable format).
// Production: Info level, uses standard JSON format.
// All logs include a Unix timestamp and caller information.
func InitGlobalLogger(isDevelopment bool) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	if isDevelopment {
		logger = logger.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			NoColor:    false,
			TimeFormat: time.RFC3339,
		})
		logger = logger.Level(zerolog.DebugLevel)
	} else {
		logger = logger.Level(zerolog.InfoLevel)
	}

	log.Logger = logger.With().Caller().Logger()
}

// Logger returns a pointer to the global zerolog.Logger instance.
func Logger() *zerolog.Logger {
	return &log.Logger
}

// Component returns a child logger tagged with the given component name.
// Every long-lived object in the relay (session table, relay listener,
// tracker gateway, chat client) carries one of these.
func Component(name string) zerolog.Logger {
	return Logger().With().Str("component", name).Logger()
}

// Info records a log message at the Info level.
func Info(msg string) {
	Logger().Info().CallerSkipFrame(1).Msg(msg)
}

// Warn records a log message at the Warn level.
func Warn(msg string) {
	Logger().Warn().CallerSkipFrame(1).Msg(msg)
}

// Error records a log message at the Error level together with the causing error.
func Error(err error, msg string) {
	Logger().Error().Err(err).CallerSkipFrame(1).Msg(msg)
}

// Fatal records a log message at the Fatal level and then calls os.Exit(1)
// to terminate the program. Reserved for unrecoverable startup failures.
func Fatal(err error, msg string) {
	Logger().Fatal().Err(err).CallerSkipFrame(1).Msg(msg)
}
