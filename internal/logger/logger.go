// Package logger holds the process-wide zap logger used by heapctl.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// L is the global logger instance. It discards all output until Init is
// called with Enabled set.
var L = zap.NewNop()

// file is the log file opened for Options.Path, closed by Close or the next
// Init.
var file *os.File

// Options configures the logger initialization.
type Options struct {
	Enabled bool      // If false, all logging is discarded
	Level   string    // debug, info, warn or error. Default: info
	Format  string    // console or json. Default: console
	Output  io.Writer // Default: os.Stderr
	Path    string    // When set, append to this file instead of Output
}

// Init configures logging. Call from main() before any log calls.
func Init(opts Options) error {
	if err := Close(); err != nil {
		return err
	}
	if !opts.Enabled {
		L = zap.NewNop()
		return nil
	}

	level, err := ParseLevel(opts.Level)
	if err != nil {
		return err
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	var enc zapcore.Encoder
	switch strings.ToLower(opts.Format) {
	case "", "console":
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	case "json":
		enc = zapcore.NewJSONEncoder(encCfg)
	default:
		return errors.Newf("logger: unknown format %q", opts.Format)
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	if opts.Path != "" {
		f, err := os.OpenFile(opts.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return errors.Wrapf(err, "logger: open %s", opts.Path)
		}
		out = f
		file = f
	}

	L = zap.New(zapcore.NewCore(enc, zapcore.AddSync(out), level))
	return nil
}

// ParseLevel maps a level name to a zap level. The empty string is info.
func ParseLevel(name string) (zapcore.Level, error) {
	if name == "" {
		return zapcore.InfoLevel, nil
	}
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(name))); err != nil {
		return 0, errors.Wrapf(err, "logger: level %q", name)
	}
	return level, nil
}

// Sync flushes buffered entries.
func Sync() { _ = L.Sync() }

// Close flushes the logger and closes the log file, if any. Logging is
// discarded afterwards until the next Init.
func Close() error {
	Sync()
	L = zap.NewNop()
	if file == nil {
		return nil
	}
	err := file.Close()
	file = nil
	return errors.Wrap(err, "logger: close")
}

// Debug logs a debug message with optional fields.
func Debug(msg string, fields ...zap.Field) { L.Debug(msg, fields...) }

// Info logs an info message with optional fields.
func Info(msg string, fields ...zap.Field) { L.Info(msg, fields...) }

// Warn logs a warning message with optional fields.
func Warn(msg string, fields ...zap.Field) { L.Warn(msg, fields...) }

// Error logs an error message with optional fields.
func Error(msg string, fields ...zap.Field) { L.Error(msg, fields...) }
