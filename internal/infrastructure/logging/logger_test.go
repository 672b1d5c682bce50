package logging_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/rtsbot-go/internal/infrastructure/config"
	"github.com/andrescamacho/rtsbot-go/internal/infrastructure/logging"
)

func TestInitLogger_WritesToFile(t *testing.T) {
	// Arrange
	defer zerolog.SetGlobalLevel(zerolog.GlobalLevel())
	path := filepath.Join(t.TempDir(), "bot.log")

	// Act
	logger, err := logging.InitLogger("rtsbot", config.LoggingConfig{
		Level:    "warn",
		Format:   "json",
		Output:   "file",
		FilePath: path,
	})
	require.NoError(t, err)
	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")
	require.NoError(t, logger.Close())

	// Assert
	body, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "hidden")
	assert.Contains(t, string(body), `"message":"shown"`)
	assert.Contains(t, string(body), `"app":"rtsbot"`)
}

func TestInitLogger_RejectsUnknownLevel(t *testing.T) {
	_, err := logging.InitLogger("rtsbot", config.LoggingConfig{Level: "loud"})
	assert.Error(t, err)
}

func TestVerbositySwitch(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.GlobalLevel())
	s := logging.NewVerbositySwitch(zerolog.InfoLevel)

	s.Set(true)
	assert.Equal(t, zerolog.TraceLevel, zerolog.GlobalLevel())

	s.Set(false)
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}
