package utils

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	// LogLevelEnvironmentVariable selects the logger level, for example "debug" to trace exclusions.
	LogLevelEnvironmentVariable = "DIGEST_LOG_LEVEL"

	errorLogLevelFormat = "parse %s=%q: %w"
)

// NewApplicationLogger constructs a zap logger writing human-readable lines to stderr.
// The level defaults to info and can be changed through LogLevelEnvironmentVariable.
func NewApplicationLogger() (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Encoding = "console"
	config.DisableCaller = true
	config.DisableStacktrace = true
	config.Sampling = nil
	config.OutputPaths = []string{"stderr"}
	config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	config.EncoderConfig.TimeKey = ""
	config.EncoderConfig.LevelKey = ""
	config.EncoderConfig.NameKey = ""
	config.EncoderConfig.CallerKey = ""
	config.EncoderConfig.MessageKey = "message"
	config.EncoderConfig.StacktraceKey = ""

	if levelText := strings.TrimSpace(os.Getenv(LogLevelEnvironmentVariable)); levelText != "" {
		level, parseError := zap.ParseAtomicLevel(levelText)
		if parseError != nil {
			return nil, fmt.Errorf(errorLogLevelFormat, LogLevelEnvironmentVariable, levelText, parseError)
		}
		config.Level = level
	}
	return config.Build()
}
