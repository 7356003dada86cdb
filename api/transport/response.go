package transport

import "encoding/json"

// Envelope is the standard API response wrapper used for both success and
// error payloads.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Count   *int        `json:"count,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Errors  []string    `json:"errors,omitempty"`
}

// NewSuccess returns a success envelope.
func NewSuccess(data interface{}) Envelope {
	return Envelope{
		Success: true,
		Data:    data,
	}
}

// NewList returns a success envelope carrying a collection and its count.
// Count is a pointer so an empty listing still serializes count: 0.
func NewList(data interface{}, count int) Envelope {
	return Envelope{
		Success: true,
		Count:   &count,
		Data:    data,
	}
}

// NewMessage returns a success envelope with a human-readable message.
func NewMessage(message string, data interface{}) Envelope {
	return Envelope{
		Success: true,
		Message: message,
		Data:    data,
	}
}

// NewError returns an error envelope.
func NewError(message string) Envelope {
	return Envelope{
		Success: false,
		Message: message,
	}
}

// NewValidationError returns an error envelope carrying field-level messages.
func NewValidationError(message string, errors []string) Envelope {
	return Envelope{
		Success: false,
		Message: message,
		Errors:  errors,
	}
}

// String returns the JSON representation (best-effort) for logging purposes.
func (e Envelope) String() string {
	out, err := json.Marshal(e)
	if err != nil {
		return "{}"
	}
	return string(out)
}
