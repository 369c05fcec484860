package runner

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/sagarsuperuser/useradmin/server/settings"
)

func TestGetLogLevel(t *testing.T) {
	assert.Equal(t, zerolog.WarnLevel, getLogLevel(&settings.Settings{LogLevel: "WARN"}))
	assert.Equal(t, zerolog.ErrorLevel, getLogLevel(&settings.Settings{LogLevel: "chatty"}))
	assert.Equal(t, zerolog.ErrorLevel, getLogLevel(&settings.Settings{}))
}

func TestGetLogWriter(t *testing.T) {
	var buf bytes.Buffer
	_, isConsole := getLogWriter(&settings.Settings{Mode: "dev"}, &buf).(zerolog.ConsoleWriter)
	assert.True(t, isConsole)

	_, isConsole = getLogWriter(&settings.Settings{Mode: "prod", LogFormat: "json"}, &buf).(zerolog.ConsoleWriter)
	assert.False(t, isConsole)
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	s := &settings.Settings{Mode: "prod", LogFormat: "json", LogLevel: "info"}
	logger := newLogger(s, getLogWriter(s, &buf))

	logger.Debug().Msg("hidden")
	logger.Info().Str("k", "v").Msg("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"k":"v"`)
	assert.Contains(t, out, `"message":"shown"`)
}
