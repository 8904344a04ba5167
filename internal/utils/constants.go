package utils

const (
	// LoggerInitializationFailedMessageFormat wraps the error returned when the zap logger cannot be built.
	LoggerInitializationFailedMessageFormat = "failed to initialize logger: %w"
	// ApplicationExecutionFailedMessage is logged when the root command returns an error.
	ApplicationExecutionFailedMessage = "application execution failed"
)
