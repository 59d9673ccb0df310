// Package httputil provides HTTP method and status code helpers shared by the
// parser, the middleware and the CLI.
package httputil

import (
	"slices"
	"strconv"
	"strings"
)

// HTTP Status Code Constants
const (
	StatusCodeLength   = 3   // Standard length of HTTP status codes (e.g., "200", "404")
	MinStatusCode      = 100 // Minimum valid HTTP status code
	MaxStatusCode      = 599 // Maximum valid HTTP status code
	MinErrorStatusCode = 400 // First client error code
)

// HTTP Method Constants, lowercase as they appear in a path item.
const (
	MethodGet     = "get"
	MethodPut     = "put"
	MethodPost    = "post"
	MethodDelete  = "delete"
	MethodOptions = "options"
	MethodHead    = "head"
	MethodPatch   = "patch"
)

// Methods lists the Swagger 2.0 operation methods in path item order.
var Methods = []string{MethodGet, MethodPut, MethodPost, MethodDelete, MethodOptions, MethodHead, MethodPatch}

// IsMethod reports whether m is a Swagger 2.0 operation key.
func IsMethod(m string) bool {
	return slices.Contains(Methods, m)
}

// ValidateStatusCode checks if a responses key is valid for Swagger 2.0.
// Valid values are:
//   - "default" for default response
//   - Extension fields starting with "x-"
//   - Numeric codes: 100-599
//
// Range patterns such as "2XX" are OpenAPI 3 only.
func ValidateStatusCode(code string) bool {
	if code == "default" || strings.HasPrefix(code, "x-") {
		return true
	}
	_, ok := StatusCode(code)
	return ok
}

// StatusCode parses a three-digit status code in the valid range.
func StatusCode(code string) (int, bool) {
	if len(code) != StatusCodeLength {
		return 0, false
	}
	for i := range len(code) {
		if code[i] < '0' || code[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(code)
	if err != nil || n < MinStatusCode || n > MaxStatusCode {
		return 0, false
	}
	return n, true
}

// IsErrorStatus reports whether code is a 4xx or 5xx status.
func IsErrorStatus(code int) bool {
	return code >= MinErrorStatusCode && code <= MaxStatusCode
}
