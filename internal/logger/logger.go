// Package logger provides the process logger of the collection jobs.
//
// Entries are JSON lines carrying an ISO 8601 timestamp, the upper-case
// level and the application name. Debug entries are only written in
// verbose mode.
package logger

import (
	"io"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// AppName is attached to every entry.
const AppName = "JuriCA"

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
	job     string
	level   = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	sugar   = build()
)

// build assembles the logger from the current settings. Callers hold mu,
// except during package initialisation.
func build() *zap.SugaredLogger {
	cfg := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "logLevel",
		NameKey:        "jobName",
		MessageKey:     "msg",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     encodeTime,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeName:     zapcore.FullNameEncoder,
	}
	core := zapcore.NewCore(zapcore.NewJSONEncoder(cfg), zapcore.Lock(zapcore.AddSync(output)), level)
	l := zap.New(core).With(zap.String("appName", AppName))
	if job != "" {
		l = l.Named(job)
	}
	return l.Sugar()
}

func encodeTime(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.UTC().Format("2006-01-02T15:04:05.000Z"))
}

func current() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return sugar
}

// SetVerbose enables or disables debug logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
	if v {
		level.SetLevel(zapcore.DebugLevel)
	} else {
		level.SetLevel(zapcore.InfoLevel)
	}
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	sugar = build()
}

// SetJob names the running job. Every following entry carries it as jobName.
func SetJob(name string) {
	mu.Lock()
	defer mu.Unlock()
	job = name
	sugar = build()
}

// Debug logs a message in verbose mode only.
func Debug(format string, args ...any) {
	current().Debugf(format, args...)
}

// Info logs an informational message.
func Info(format string, args ...any) {
	current().Infof(format, args...)
}

// Warn logs a warning.
func Warn(format string, args ...any) {
	current().Warnf(format, args...)
}

// Error logs an error.
func Error(format string, args ...any) {
	current().Errorf(format, args...)
}

// Sync flushes buffered entries.
func Sync() error {
	return current().Sync()
}
