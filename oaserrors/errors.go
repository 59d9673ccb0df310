package oaserrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrParse indicates the API document could not be parsed.
	ErrParse = errors.New("parse error")

	// ErrReference indicates a $ref could not be resolved.
	ErrReference = errors.New("reference error")

	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("configuration error")

	// ErrValidation indicates a body failed schema validation.
	ErrValidation = errors.New("validation error")

	// ErrRequestValidation indicates a request body failed schema validation.
	ErrRequestValidation = errors.New("request validation error")

	// ErrResponseValidation indicates a response body failed schema validation.
	ErrResponseValidation = errors.New("response validation error")

	// ErrMalformedBody indicates a body expected to be structured data was not.
	ErrMalformedBody = errors.New("malformed body")

	// ErrEngine indicates the schema engine failed.
	ErrEngine = errors.New("schema engine error")
)

// ParseError represents a document that is not well-formed JSON or YAML,
// or whose structure does not fit Swagger 2.0.
type ParseError struct {
	// Source names the document: a file path, URL or "<stdin>"
	Source string
	// Line and Column locate the offending node, 1-based (0 if unknown)
	Line, Column int
	// Message describes the parsing failure
	Message string
	// Cause is the underlying decoder error, if any
	Cause error
}

func (e *ParseError) Error() string {
	msg := "parse error"
	if pos := e.position(); pos != "" {
		msg += " in " + pos
	}
	return withDetail(msg, e.Message, e.Cause)
}

// position renders source:line:column, dropping the parts that are unknown.
func (e *ParseError) position() string {
	pos := e.Source
	if e.Line <= 0 {
		return pos
	}
	if pos == "" {
		pos = "<document>"
	}
	pos += fmt.Sprintf(":%d", e.Line)
	if e.Column > 0 {
		pos += fmt.Sprintf(":%d", e.Column)
	}
	return pos
}

// Unwrap returns the underlying cause for error chaining.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// ReferenceError represents a local $ref that points at nothing.
type ReferenceError struct {
	// Ref is the reference string that failed to resolve
	Ref string
	// Location is where the reference was found (e.g. "paths./pet.post.parameters[0]")
	Location string
	// Message provides additional context about the failure
	Message string
}

func (e *ReferenceError) Error() string {
	msg := "reference error"
	if e.Ref != "" {
		msg += ": " + e.Ref
	}
	if e.Location != "" {
		msg += " at " + e.Location
	}
	return withDetail(msg, e.Message, nil)
}

// Is reports whether target matches this error type.
func (e *ReferenceError) Is(target error) bool {
	return target == ErrReference
}

// ConfigError represents an invalid option, flag or configuration file.
type ConfigError struct {
	// Option names the option, flag or file that was rejected
	Option string
	// Value is what was supplied, if it helps to show it
	Value any
	// Message says what was wrong with it
	Message string
	// Cause is the underlying error, if any
	Cause error
}

func (e *ConfigError) Error() string {
	msg := "configuration error"
	switch {
	case e.Option != "" && e.Value != nil:
		msg += fmt.Sprintf(" for %s (value: %v)", e.Option, e.Value)
	case e.Option != "":
		msg += " for " + e.Option
	case e.Value != nil:
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	return withDetail(msg, e.Message, e.Cause)
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

// Direction identifies which side of an exchange a ValidationError is about.
type Direction string

// Direction values.
const (
	DirectionRequest  Direction = "request"
	DirectionResponse Direction = "response"
)

// ValidationError represents a body that violates the schema resolved for it.
type ValidationError struct {
	// Direction is DirectionRequest or DirectionResponse
	Direction Direction
	// Method is the HTTP method of the request
	Method string
	// URL is the request URL as received
	URL string
	// Malformed is true when the body could not be parsed as structured data
	Malformed bool
	// Count is the number of field-level violations reported by the engine
	Count int
}

// Error returns a human-readable error message.
func (e *ValidationError) Error() string {
	msg := "validation error"
	switch e.Direction {
	case DirectionRequest:
		msg = "request validation error"
	case DirectionResponse:
		msg = "response validation error"
	}
	if e.Method != "" || e.URL != "" {
		msg += fmt.Sprintf(" for %s %s", e.Method, e.URL)
	}
	if e.Malformed {
		msg += ": malformed body"
	} else if e.Count > 0 {
		msg += fmt.Sprintf(": %d violation(s)", e.Count)
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *ValidationError) Is(target error) bool {
	switch target {
	case ErrValidation:
		return true
	case ErrRequestValidation:
		return e.Direction == DirectionRequest
	case ErrResponseValidation:
		return e.Direction == DirectionResponse
	case ErrMalformedBody:
		return e.Malformed
	}
	return false
}

// EngineError represents a failure of the schema engine itself, as opposed
// to a value that does not satisfy a schema.
type EngineError struct {
	// Operation names the operation being validated (e.g. "POST /pet request")
	Operation string
	// Cause is the underlying engine error
	Cause error
}

// Error returns a human-readable error message.
func (e *EngineError) Error() string {
	msg := "schema engine error"
	if e.Operation != "" {
		msg += " during " + e.Operation
	}
	return withDetail(msg, "", e.Cause)
}

// Unwrap returns the underlying cause for error chaining.
func (e *EngineError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *EngineError) Is(target error) bool {
	return target == ErrEngine
}

// withDetail appends the non-empty message and cause to msg, colon separated.
func withDetail(msg, detail string, cause error) string {
	if detail != "" {
		msg += ": " + detail
	}
	if cause != nil {
		msg += ": " + cause.Error()
	}
	return msg
}
