package httpvalidator

import (
	"github.com/erraggy/oasgate/engine"
	"github.com/erraggy/oasgate/parser"
)

// Engine evaluates a schema against a decoded value.
//
// Validate must report every violation in the returned result and use the
// error return only for failures of the engine itself, such as a schema that
// does not compile. The value passed in is a private copy.
type Engine interface {
	Validate(schema *parser.Schema, value any) (*engine.Result, error)
}

// ValidationResult is the outcome of one Engine.Validate call.
type ValidationResult = engine.Result

// FieldError is one violation reported by an Engine.
type FieldError = engine.FieldError

var _ Engine = (*engine.Engine)(nil)
