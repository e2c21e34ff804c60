// Package apierror holds the JSON envelopes of every 4xx/5xx answer.
package apierror

import "github.com/go-playground/validator/v10"

// APIError carries a human readable detail. RequestID is filled for 5xx
// answers so operators can find the matching log line.
type APIError struct {
	Detail    string `json:"detail"`
	RequestID string `json:"requestId,omitempty"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// WithRequestID tags e with the id of the failing request.
func (e *APIError) WithRequestID(id string) *APIError {
	e.RequestID = id
	return e
}

// ValidationError lists offending fields by namespace (Struct.Field[i].Sub)
// with the rule they broke.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "validation failed", Fields: fields}
}

// FromValidator flattens validator output into a ValidationError.
func FromValidator(errs validator.ValidationErrors) *ValidationError {
	fields := make(map[string]string, len(errs))
	for _, fe := range errs {
		fields[fe.Namespace()] = fe.Tag()
	}
	return NewValidation(fields)
}
