package apperrors

import "errors"

// Common errors
var (
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")
	ErrValidationFailed      = errors.New("validation failed")
	ErrBadRequest            = errors.New("bad request")
)

// Domain entity errors
var (
	ErrCourseNotFound         = errors.New("course not found")
	ErrStudentNotFound        = errors.New("student not found")
	ErrEnrollmentNotFound     = errors.New("enrollment not found")
	ErrProgramOutcomeNotFound = errors.New("program outcome not found")
	ErrOutcomeNotFound        = errors.New("learning outcome not found")
	ErrComponentNotFound      = errors.New("assessment component not found")
)

// Grade sheet errors
var (
	// ErrUnreadableSheet marks an upload that could not be opened or parsed
	// as a spreadsheet package. Never fatal, always surfaced to the caller.
	ErrUnreadableSheet = errors.New("could not read grade sheet")

	// ErrNoStudentNumberColumn rejects an import whose headers resolve no
	// student-number column. Raised before any mutation.
	ErrNoStudentNumberColumn = errors.New("no student-number column in headers")

	ErrTemplateNotFound = errors.New("grade sheet template not found")
)

// NewResourceNotFoundError creates a custom not-found error with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a custom conflict error with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewBadRequestError creates a custom bad-request error with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Details map[string]interface{}
}

// Error implements the error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements the errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with an underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}
