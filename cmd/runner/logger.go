package runner

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"

	"github.com/sagarsuperuser/useradmin/server/settings"
)

// SetupLogger installs the global logger described by settings.
func SetupLogger(settings *settings.Settings) {
	logger := newLogger(settings, getLogWriter(settings, os.Stdout))

	zerolog.SetGlobalLevel(logger.GetLevel())
	log.Logger = logger

	zerolog.DefaultContextLogger = &log.Logger
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
}

func newLogger(settings *settings.Settings, w io.Writer) zerolog.Logger {
	logLevel := getLogLevel(settings)

	logger := zerolog.New(w).With().Timestamp()
	if logLevel <= zerolog.DebugLevel {
		logger = logger.Caller()
	}

	return logger.Logger().Level(logLevel)
}

func getLogLevel(settings *settings.Settings) zerolog.Level {
	levelStr := strings.ToLower(settings.LogLevel)

	logLevel, err := zerolog.ParseLevel(levelStr)
	if err != nil || levelStr == "" {
		log.Error().Err(err).
			Str("logLevel", levelStr).
			Msg("Unspecified or invalid log level, setting the level to default (ERROR)...")

		logLevel = zerolog.ErrorLevel
	}

	return logLevel
}

func getLogWriter(settings *settings.Settings, out io.Writer) io.Writer {
	useConsole := strings.ToLower(settings.LogFormat) == "text" || settings.Mode != "prod"
	if useConsole {
		return zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}
	}

	return out
}
