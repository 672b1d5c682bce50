package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/andrescamacho/rtsbot-go/internal/infrastructure/config"
)

// Logger is the process logger and the file it writes to, if any
type Logger struct {
	zerolog.Logger
	closer io.Closer
}

// Close releases the log file when output is "file"
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

// InitLogger builds the process logger from configuration, installs it as
// the zerolog global logger and sets the global level
func InitLogger(app string, cfg config.LoggingConfig) (*Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	var out io.Writer
	var closer io.Closer
	switch cfg.Output {
	case "stderr":
		out = os.Stderr
	case "file":
		f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out, closer = f, f
	default:
		out = os.Stdout
	}

	if cfg.Format == "text" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	ctx := zerolog.New(out).With().Timestamp().Str("app", app)
	if cfg.IncludeCaller {
		ctx = ctx.Caller()
	}
	logger := ctx.Logger()

	zerolog.SetGlobalLevel(level)
	log.Logger = logger
	return &Logger{Logger: logger, closer: closer}, nil
}

// VerbositySwitch flips the global level between a base level and trace
type VerbositySwitch struct {
	base zerolog.Level
}

// NewVerbositySwitch remembers base as the level to return to
func NewVerbositySwitch(base zerolog.Level) *VerbositySwitch {
	return &VerbositySwitch{base: base}
}

// Set switches to trace when verbose, back to the base level otherwise
func (s *VerbositySwitch) Set(verbose bool) {
	if verbose {
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
		return
	}
	zerolog.SetGlobalLevel(s.base)
}
