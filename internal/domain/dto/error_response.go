package dto

import "time"

// ErrorResponse is the standard JSON error payload returned by the
// monitoring API.
//
// Fields match the API contract and may differ from internal errors;
// ErrorDetails carries the wrapped error text when one is available.
type ErrorResponse struct {
	Message      string    `json:"message" example:"no data found"`
	ErrorDetails string    `json:"error,omitempty" example:"sql: no rows"`
	Timestamp    time.Time `json:"timestamp"`
}

// Error implements the error interface so handlers can pass the response
// around as a regular error value.
func (e ErrorResponse) Error() string {
	if e.ErrorDetails != "" {
		return e.Message + ": " + e.ErrorDetails
	}
	return e.Message
}

// NewErrorResponse builds an ErrorResponse from a message and an optional
// inner error.
func NewErrorResponse(message string, err error) ErrorResponse {
	resp := ErrorResponse{
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
	if err != nil {
		resp.ErrorDetails = err.Error()
	}
	return resp
}
