package config

import (
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/natefinch/lumberjack"
	"github.com/rs/zerolog"
)

// SetupLogger writes human-readable lines to console and, when configured,
// JSON lines to a rotating file. Every line carries the run id.
// The returned func closes the log file.
func SetupLogger(cfg Config, console io.Writer) (zerolog.Logger, func() error) {
	writers := []io.Writer{zerolog.ConsoleWriter{Out: console, TimeFormat: time.RFC3339}}
	closeFn := func() error { return nil }

	if cfg.FileLogging() {
		file := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    50, // MB
			MaxBackups: 5,
			MaxAge:     30, // days
			Compress:   true,
		}
		writers = append(writers, file)
		closeFn = file.Close
	}

	lvl, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(lvl).
		With().
		Timestamp().
		Str("run_id", uuid.NewString()).
		Logger()
	return logger, closeFn
}
