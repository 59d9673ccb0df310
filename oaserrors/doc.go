// Package oaserrors provides structured error types for oasgate.
//
// Import path: github.com/erraggy/oasgate/oaserrors
//
// The types enable programmatic error handling via [errors.Is] and [errors.As]
// so callers can tell a broken API document apart from a rejected request,
// a rejected response, or a fault inside the schema engine.
//
// # Error Types
//
//   - [ParseError]: YAML/JSON parsing failures and structural issues in the API document
//   - [ReferenceError]: a $ref to a parameter or response that does not exist
//   - [ConfigError]: invalid options or path templates
//   - [ValidationError]: a request or response body that violates its schema
//   - [EngineError]: the schema engine itself failed (malformed schema, compile failure)
//
// # Sentinel Errors
//
//   - [ErrParse]: matches any [ParseError]
//   - [ErrReference]: matches any [ReferenceError]
//   - [ErrConfig]: matches any [ConfigError]
//   - [ErrValidation]: matches any [ValidationError]
//   - [ErrRequestValidation]: matches a [ValidationError] for a request body
//   - [ErrResponseValidation]: matches a [ValidationError] for a response body
//   - [ErrMalformedBody]: matches a [ValidationError] whose body was not structured data
//   - [ErrEngine]: matches any [EngineError]
//
// # Usage
//
//	rejection, ok := err.(*httpvalidator.Rejection)
//	if ok && errors.Is(rejection, oaserrors.ErrMalformedBody) {
//	    // the handler produced something that is not JSON
//	}
//
// Engine faults are raised as panics by the middleware; a recovering
// handler can classify them:
//
//	if r := recover(); r != nil {
//	    if err, ok := r.(error); ok && errors.Is(err, oaserrors.ErrEngine) {
//	        // schema or integration defect, not a data problem
//	    }
//	}
package oaserrors
