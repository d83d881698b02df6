package errors

// Common error codes
const (
	// System errors
	ErrInternal        ErrorCode = "internal_error"
	ErrInvalidArgument ErrorCode = "invalid_argument"

	// Configuration errors
	ErrInvalidConfig ErrorCode = "invalid_configuration"
	ErrReadConfig    ErrorCode = "read_config_failed"
	ErrBindFlags     ErrorCode = "bind_flags_failed"

	// Logging errors
	ErrInvalidLogLevel ErrorCode = "invalid_log_level"

	// Gauge construction errors
	ErrInvalidRange     ErrorCode = "invalid_range"
	ErrInvalidLayout    ErrorCode = "invalid_layout"
	ErrInvalidPrecision ErrorCode = "invalid_precision"

	// Rendering errors
	ErrRenderFailed ErrorCode = "render_failed"

	// Initialization errors
	ErrInitFailed     ErrorCode = "initialization_failed"
	ErrShutdownFailed ErrorCode = "shutdown_failed"
	ErrAlreadyRunning ErrorCode = "already_running"

	// Application errors
	ErrInitApp   ErrorCode = "init_app_failed"
	ErrMainLoop  ErrorCode = "main_loop_failed"
	ErrInitTerm  ErrorCode = "init_terminal_failed"
	ErrTimeout   ErrorCode = "operation_timeout"
	ErrWriteFile ErrorCode = "write_file_failed"

	// Journal errors
	ErrInitJournal  ErrorCode = "init_journal_failed"
	ErrRecordChange ErrorCode = "record_change_failed"
	ErrCloseJournal ErrorCode = "close_journal_failed"
)

// Common error messages
var errorMessages = map[ErrorCode]string{
	ErrInternal:         "Internal error occurred",
	ErrInvalidArgument:  "Invalid argument provided",
	ErrInvalidConfig:    "Invalid configuration",
	ErrReadConfig:       "Failed to read config file",
	ErrBindFlags:        "Failed to bind flags",
	ErrInvalidLogLevel:  "Invalid log level",
	ErrInvalidRange:     "Minimum value must be below maximum value",
	ErrInvalidLayout:    "Invalid tick bar layout",
	ErrInvalidPrecision: "Invalid precision settings",
	ErrRenderFailed:     "Failed to render tick bar",
	ErrInitFailed:       "Initialization failed",
	ErrShutdownFailed:   "Shutdown failed",
	ErrAlreadyRunning:   "Another instance is already running",
	ErrInitApp:          "Failed to initialize application",
	ErrMainLoop:         "Error in main loop",
	ErrInitTerm:         "Failed to initialize terminal",
	ErrTimeout:          "Operation timed out",
	ErrWriteFile:        "Failed to write file",
	ErrInitJournal:      "Failed to initialize journal",
	ErrRecordChange:     "Failed to record value change",
	ErrCloseJournal:     "Failed to close journal",
}

// GetErrorMessage returns the message for a given error code
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}

	return string(code)
}
