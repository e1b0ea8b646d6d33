package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Validation errors
const (
	// ErrCodeInvalidInput indicates an argument or value is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeInvalidConfig indicates configuration failed to load or validate.
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
)
