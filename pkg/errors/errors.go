package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"
)

// ErrorCode represents a unique error code for categorizing errors
type ErrorCode string

const (
	// Database connection errors (1xxx)
	ErrCodeConnectionFailed  ErrorCode = "SSC1001"
	ErrCodeConnectionTimeout ErrorCode = "SSC1002"
	ErrCodeDatabaseLocked    ErrorCode = "SSC1003"

	// Configuration errors (2xxx)
	ErrCodeConfigNotFound ErrorCode = "SSC2001"
	ErrCodeConfigInvalid  ErrorCode = "SSC2002"

	// Dataset errors (3xxx)
	ErrCodeCSVRead        ErrorCode = "SSC3001"
	ErrCodeCSVWrite       ErrorCode = "SSC3002"
	ErrCodeCSVFormat      ErrorCode = "SSC3003"
	ErrCodeDateFormat     ErrorCode = "SSC3004"
	ErrCodeGeneration     ErrorCode = "SSC3005"

	// SQL execution errors (4xxx)
	ErrCodeSQLExecution   ErrorCode = "SSC4001"
	ErrCodeSQLTransaction ErrorCode = "SSC4002"
	ErrCodeSQLNoResults   ErrorCode = "SSC4003"
	ErrCodeSchemaCreation ErrorCode = "SSC4004"

	// File system errors (5xxx)
	ErrCodeFileNotFound   ErrorCode = "SSC5001"
	ErrCodeFilePermission ErrorCode = "SSC5002"
	ErrCodeChartRender    ErrorCode = "SSC5003"

	// Validation errors (6xxx)
	ErrCodeValidationFailed ErrorCode = "SSC6001"
	ErrCodeInvalidInput     ErrorCode = "SSC6002"

	// System errors (9xxx)
	ErrCodeInternal          ErrorCode = "SSC9001"
	ErrCodeTimeout           ErrorCode = "SSC9002"
	ErrCodeResourceExhausted ErrorCode = "SSC9003"
)

// ErrorSeverity represents the severity level of an error
type ErrorSeverity string

const (
	SeverityCritical ErrorSeverity = "CRITICAL" // System failure, requires immediate attention
	SeverityError    ErrorSeverity = "ERROR"    // Operation failed, but system continues
	SeverityWarning  ErrorSeverity = "WARNING"  // Operation succeeded with issues
	SeverityInfo     ErrorSeverity = "INFO"     // Informational, not an error
)

// AppError represents a structured application error with context
type AppError struct {
	Code        ErrorCode
	Message     string
	Severity    ErrorSeverity
	Context     map[string]interface{}
	Cause       error
	Stack       string
	Timestamp   time.Time
	Recoverable bool
	Suggestions []string
}

// Error implements the error interface
func (e *AppError) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s] %s: %s", e.Code, e.Severity, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf("\nCaused by: %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\nSuggestions:")
		for i, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  %d. %s", i+1, suggestion))
		}
	}

	return b.String()
}

// Unwrap returns the cause of the error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a new AppError
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:        code,
		Message:     message,
		Severity:    SeverityError,
		Context:     make(map[string]interface{}),
		Stack:       captureStack(),
		Timestamp:   time.Now(),
		Recoverable: false,
	}
}

// Wrap wraps an existing error with AppError
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}

	appErr := New(code, message)
	appErr.Cause = err

	// If wrapping another AppError, inherit some properties
	if ae, ok := err.(*AppError); ok {
		for k, v := range ae.Context {
			appErr.Context[k] = v
		}
	}

	return appErr
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithSeverity sets the error severity
func (e *AppError) WithSeverity(severity ErrorSeverity) *AppError {
	e.Severity = severity
	return e
}

// WithSuggestions adds recovery suggestions
func (e *AppError) WithSuggestions(suggestions ...string) *AppError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// AsRecoverable marks the error as recoverable
func (e *AppError) AsRecoverable() *AppError {
	e.Recoverable = true
	return e
}

// captureStack captures the current stack trace
func captureStack() string {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])

	var b strings.Builder
	frames := runtime.CallersFrames(pcs[:n])

	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "runtime/") {
			b.WriteString(fmt.Sprintf("%s:%d %s\n", frame.File, frame.Line, frame.Function))
		}
		if !more {
			break
		}
	}

	return b.String()
}

// Common error constructors

// ConnectionError creates a database-connection error
func ConnectionError(message string, cause error) *AppError {
	return Wrap(cause, ErrCodeConnectionFailed, message).
		WithSeverity(SeverityError).
		WithSuggestions(
			"Check that the database file path is writable",
			"Verify no other process holds an exclusive lock",
			"Run 'salescope ingest' first if the database does not exist",
		)
}

// ConfigError creates a configuration-related error
func ConfigError(message string, field string) *AppError {
	return New(ErrCodeConfigInvalid, message).
		WithContext("field", field).
		WithSuggestions(
			fmt.Sprintf("Check the '%s' configuration value", field),
			"Run 'salescope setup' to reconfigure",
		)
}

// SQLError creates an SQL execution error
func SQLError(message string, query string, cause error) *AppError {
	err := Wrap(cause, ErrCodeSQLExecution, message).
		WithContext("query", truncateString(query, 200))

	errStr := ""
	if cause != nil {
		errStr = strings.ToLower(cause.Error())
	}
	if strings.Contains(errStr, "locked") || strings.Contains(errStr, "busy") {
		err.Code = ErrCodeDatabaseLocked
		_ = err.WithSuggestions(
			"Close other programs using the database file",
			"Retry once the concurrent writer finishes",
		).AsRecoverable()
	} else if strings.Contains(errStr, "no such table") {
		err.Code = ErrCodeSQLNoResults
		_ = err.WithSuggestions(
			"Run 'salescope ingest' to create the schema and load data",
		)
	}

	return err
}

// CSVError creates a CSV read/parse error
func CSVError(message string, file string, cause error) *AppError {
	return Wrap(cause, ErrCodeCSVRead, message).
		WithContext("file", file).
		WithSuggestions(
			"Verify the CSV file exists and has the expected header row",
			"Re-run 'salescope generate' to produce fresh files",
		)
}

// DateError creates a date-parsing error for a field value
func DateError(field, value string) *AppError {
	return New(ErrCodeDateFormat,
		fmt.Sprintf("cannot parse %s value %q: expected MM/DD/YYYY or YYYY-MM-DD", field, value)).
		WithContext("field", field).
		WithContext("value", value)
}

// ValidationError creates a validation error
func ValidationError(field string, value interface{}, reason string) *AppError {
	return New(ErrCodeValidationFailed, fmt.Sprintf("Validation failed for %s: %s", field, reason)).
		WithContext("field", field).
		WithContext("value", value).
		WithSeverity(SeverityWarning).
		AsRecoverable()
}

// IsRecoverable checks if an error is recoverable
func IsRecoverable(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Recoverable
	}
	return false
}

// GetErrorCode extracts the error code from an error
func GetErrorCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternal
}

// truncateString truncates a string to maxLen characters
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
