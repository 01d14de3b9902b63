package types

// SuccessEnvelope wraps every successful response body. Business outcomes,
// including failed transfers, travel inside Data.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the public shape of a request failure: a stable machine code
// plus a human message. Details carries field-level validation info when the
// code permits it.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps every error response body.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// NewErrorEnvelope builds an error envelope without details.
func NewErrorEnvelope(code, message string) ErrorEnvelope {
	return ErrorEnvelope{Error: APIError{Code: code, Message: message}}
}
