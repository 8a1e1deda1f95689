package dto

import "time"

// APIResponse is the standard envelope for API endpoints
type APIResponse struct {
	Data      interface{}  `json:"data,omitempty"`
	Error     *ErrorDetail `json:"error,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
}

// SuccessResponse represents a message-only success response
type SuccessResponse struct {
	Message string `json:"message"`
}
