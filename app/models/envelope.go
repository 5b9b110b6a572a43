package models

// Envelope wraps every API response.
type Envelope[T any] struct {
	Data    T      `json:"data"`
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Status  int    `json:"status"`

	// Errors carries field level validation messages on 400 responses.
	Errors map[string]string `json:"errors,omitempty"`
}
