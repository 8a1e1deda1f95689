package dto

import (
	"fmt"
	"time"
)

// ErrorCode represents standardized error codes
type ErrorCode string

// Standard error codes for the application
const (
	// Resource errors
	ErrorCodeResourceNotFound      ErrorCode = "RES_001"
	ErrorCodeResourceAlreadyExists ErrorCode = "RES_002"
	ErrorCodeResourceInvalid       ErrorCode = "RES_003"

	// Validation errors
	ErrorCodeValidationFailed ErrorCode = "VAL_001"

	// Grade sheet errors
	ErrorCodeUnreadableSheet       ErrorCode = "SHEET_001"
	ErrorCodeNoStudentNumberColumn ErrorCode = "SHEET_002"

	// Server errors
	ErrorCodeInternalServer ErrorCode = "SRV_001"
	ErrorCodeDatabaseError  ErrorCode = "SRV_002"
)

// ErrorSeverity represents the severity level of an error
type ErrorSeverity string

// Severity levels
const (
	ErrorSeverityInfo     ErrorSeverity = "INFO"
	ErrorSeverityWarning  ErrorSeverity = "WARNING"
	ErrorSeverityError    ErrorSeverity = "ERROR"
	ErrorSeverityCritical ErrorSeverity = "CRITICAL"
)

// ErrorDetail represents detailed error information
type ErrorDetail struct {
	Code      ErrorCode     `json:"code" example:"SHEET_001"`
	Message   string        `json:"message" example:"Could not read the uploaded file"`
	Field     string        `json:"field,omitempty"`
	Severity  ErrorSeverity `json:"severity" example:"ERROR"`
	Details   interface{}   `json:"details,omitempty"`
	DebugInfo string        `json:"debugInfo,omitempty"`
}

// ErrorResponse represents the standard error response structure
type ErrorResponse struct {
	Success   bool         `json:"success" example:"false"`
	Error     *ErrorDetail `json:"error"`
	Timestamp time.Time    `json:"timestamp"`
}

// NewErrorDetail creates a new error detail
func NewErrorDetail(code ErrorCode, message string) *ErrorDetail {
	return &ErrorDetail{
		Code:     code,
		Message:  message,
		Severity: ErrorSeverityError,
	}
}

// WithField adds a field name to the error detail
func (e *ErrorDetail) WithField(field string) *ErrorDetail {
	e.Field = field
	return e
}

// WithSeverity sets the severity level of the error
func (e *ErrorDetail) WithSeverity(severity ErrorSeverity) *ErrorDetail {
	e.Severity = severity
	return e
}

// WithDetails adds additional details to the error
func (e *ErrorDetail) WithDetails(details interface{}) *ErrorDetail {
	e.Details = details
	return e
}

// WithDebugInfo adds debug information (for development only)
func (e *ErrorDetail) WithDebugInfo(format string, args ...interface{}) *ErrorDetail {
	e.DebugInfo = fmt.Sprintf(format, args...)
	return e
}

// NewErrorResponse creates a standard error response
func NewErrorResponse(errorDetail *ErrorDetail) *ErrorResponse {
	return &ErrorResponse{
		Success:   false,
		Error:     errorDetail,
		Timestamp: time.Now(),
	}
}
