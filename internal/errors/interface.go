package errors

// ErrorCode identifies a failure kind. Codes are compared, never messages:
// two coded errors with the same code match under Is, and HasCode or CodeOf
// look a code up anywhere in a wrapped chain.
type ErrorCode string

// Error is a coded error. The message defaults to the code's entry in the
// message table; data carries structured context such as the failing phase.
type Error interface {
	error
	Code() ErrorCode
	// WithMessage and WithData return a copy; the receiver is unchanged.
	WithMessage(msg string) Error
	WithData(data any) Error
	GetData() any
	Unwrap() error
}

// Factory creates coded errors. Wrap keeps the cause reachable through
// Unwrap; WithData replaces it with a value that is printed instead.
type Factory interface {
	New(code ErrorCode) Error
	Wrap(code ErrorCode, err error) Error
	WithMessage(code ErrorCode, msg string) Error
	WithData(code ErrorCode, data any) Error
}
