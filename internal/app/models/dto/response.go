package dto

import "time"

// APIResponse is the success envelope shared by every endpoint
type APIResponse struct {
	Success   bool        `json:"success" example:"true"`
	Message   string      `json:"message,omitempty" example:"Operation completed successfully"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp" example:"2025-04-23T12:01:05.123Z"`
}

// EmptyData is returned as data by operations that have nothing to report
type EmptyData struct{}

// NewSuccessResponse creates a success envelope
func NewSuccessResponse(data interface{}, message string) APIResponse {
	return APIResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// HealthResponse is the liveness probe payload
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}
