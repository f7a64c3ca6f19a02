package logger

import (
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Debugf logs a message at debug level using the singleton logger.
func Debugf(msg string, args ...any) {
	zap.S().Debugf(msg, args...)
}

// Debugw logs a message at debug level with additional key-value pairs.
func Debugw(msg string, keysAndValues ...any) {
	zap.S().Debugw(msg, keysAndValues...)
}

// Infof logs a message at info level using the singleton logger.
func Infof(msg string, args ...any) {
	zap.S().Infof(msg, args...)
}

// Infow logs a message at info level with additional key-value pairs.
func Infow(msg string, keysAndValues ...any) {
	zap.S().Infow(msg, keysAndValues...)
}

// Warnf logs a message at warning level using the singleton logger.
func Warnf(msg string, args ...any) {
	zap.S().Warnf(msg, args...)
}

// Warnw logs a message at warning level with additional key-value pairs.
func Warnw(msg string, keysAndValues ...any) {
	zap.S().Warnw(msg, keysAndValues...)
}

// Errorf logs a message at error level using the singleton logger.
func Errorf(msg string, args ...any) {
	zap.S().Errorf(msg, args...)
}

// Errorw logs a message at error level with additional key-value pairs.
func Errorw(msg string, keysAndValues ...any) {
	zap.S().Errorw(msg, keysAndValues...)
}

// Initialize configures the global logger. Unless UNSTRUCTURED_LOGS is set
// to false, output is a compact console format on stderr; otherwise it is
// production JSON on stderr.
func Initialize(debug bool) {
	InitializeWithEnv(os.Getenv, debug)
}

// InitializeWithEnv is Initialize with an injectable environment lookup.
func InitializeWithEnv(getenv func(string) string, debug bool) {
	var config zap.Config
	if unstructuredLogs(getenv) {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		config.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(time.Kitchen)
		config.DisableStacktrace = true
		config.DisableCaller = true
	} else {
		config = zap.NewProductionConfig()
	}
	config.OutputPaths = []string{"stderr"}

	if debug {
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	} else {
		config.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}

	zap.ReplaceGlobals(zap.Must(config.Build()))
}

func unstructuredLogs(getenv func(string) string) bool {
	v, err := strconv.ParseBool(getenv("UNSTRUCTURED_LOGS"))
	if err != nil {
		// Unset or unparsable: default to human-readable output.
		return true
	}
	return v
}

// Sync flushes any buffered log entries.
func Sync() {
	_ = zap.L().Sync()
}
