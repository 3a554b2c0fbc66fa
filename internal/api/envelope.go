package api

import (
	"strings"

	"github.com/danielgtaylor/huma/v2"
)

// Envelope is the uniform JSON wrapper for every API response body.
type Envelope struct {
	Success bool           `json:"success"`
	Data    any            `json:"data,omitempty"`
	Error   *EnvelopeError `json:"error,omitempty"`
}

// EnvelopeError is the error half of the envelope.
type EnvelopeError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// EnvelopeTransformer wraps response bodies in the standard envelope.
// Registered on the huma config so handlers return plain bodies.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	if v == nil {
		return nil, nil
	}

	if apiErr, ok := v.(*APIError); ok {
		return &Envelope{
			Success: false,
			Error: &EnvelopeError{
				Code:    apiErr.Code,
				Message: apiErr.Message,
				Details: apiErr.Details,
			},
		}, nil
	}

	// Other huma.StatusError values (schema validation failures before our
	// error handler gets involved) are enveloped too.
	if statusErr, ok := v.(huma.StatusError); ok {
		return &Envelope{
			Success: false,
			Error: &EnvelopeError{
				Code:    statusToCode(statusErr.GetStatus()),
				Message: statusErr.Error(),
			},
		}, nil
	}

	return &Envelope{
		Success: !strings.HasPrefix(status, "4") && !strings.HasPrefix(status, "5"),
		Data:    v,
	}, nil
}
