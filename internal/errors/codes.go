package errors

// Code represents an error code
type Code string

// Error codes
const (
	CodeOK                Code = "OK"
	CodeInvalidArgument   Code = "INVALID_ARGUMENT"
	CodeNotFound          Code = "NOT_FOUND"
	CodeDataQuality       Code = "DATA_QUALITY"
	CodeNetwork           Code = "NETWORK"
	CodeMalformedResponse Code = "MALFORMED_RESPONSE"
	CodeDecode            Code = "DECODE"
	CodeUnexpectedStatus  Code = "UNEXPECTED_STATUS"
	CodeUnavailable       Code = "UNAVAILABLE"
	CodeInternal          Code = "INTERNAL"
)

// String returns the string representation of the code
func (c Code) String() string {
	return string(c)
}

// Retryable reports whether an operation failing with this code may succeed
// when repeated unchanged.
func (c Code) Retryable() bool {
	switch c {
	case CodeNetwork, CodeUnavailable, CodeUnexpectedStatus:
		return true
	default:
		return false
	}
}
