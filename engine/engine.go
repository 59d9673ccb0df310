package engine

import (
	"errors"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/erraggy/oasgate/oaserrors"
	"github.com/erraggy/oasgate/parser"
)

// resourceURL is the location every schema is compiled under. References
// such as "#/definitions/Pet" resolve against it.
const resourceURL = "schema.json"

// FieldError is one constraint violation.
type FieldError struct {
	// Message describes the violated constraint.
	Message string `json:"message"`
	// Path is a JSONPath to the offending value ("$" for the root).
	Path string `json:"path,omitempty"`
}

// Result is the outcome of validating one value.
type Result struct {
	Valid  bool
	Errors []FieldError
}

// Options configures an Engine.
type Options struct {
	// Draft is the JSON Schema dialect schemas are compiled with.
	// Default: jsonschema.Draft4, the dialect Swagger 2.0 schemas are written in.
	Draft *jsonschema.Draft
	// Formats are registered in addition to DefaultFormats. A format with
	// the name of a default one replaces it.
	Formats []*jsonschema.Format
	// DisableFormatAssertion turns "format" into an annotation.
	DisableFormatAssertion bool
	// Language selects the message catalog for error messages.
	// Default: English.
	Language language.Tag
}

// Engine validates values against parser schemas. It holds no per-schema
// state: every call compiles the schema it is given, so an Engine is safe
// for concurrent use.
type Engine struct {
	draft   *jsonschema.Draft
	formats []*jsonschema.Format
	assert  bool
	printer *message.Printer
}

// New creates an Engine.
func New(opts Options) *Engine {
	e := &Engine{
		draft:   opts.Draft,
		formats: mergeFormats(DefaultFormats(), opts.Formats),
		assert:  !opts.DisableFormatAssertion,
	}
	if e.draft == nil {
		e.draft = jsonschema.Draft4
	}
	tag := opts.Language
	if tag == language.Und {
		tag = language.English
	}
	e.printer = message.NewPrinter(tag)
	return e
}

// Compile compiles s into a santhosh-tekuri/jsonschema schema.
// Failures are returned as *oaserrors.EngineError.
func (e *Engine) Compile(s *parser.Schema) (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	c.DefaultDraft(e.draft)
	if e.assert {
		c.AssertFormat()
	} else {
		// Draft-4 to draft-7 always assert known formats.
		s = withoutFormats(s.Copy())
	}
	for _, f := range e.formats {
		c.RegisterFormat(f)
	}

	if err := c.AddResource(resourceURL, s.Value()); err != nil {
		return nil, &oaserrors.EngineError{Operation: "add resource", Cause: err}
	}
	sch, err := c.Compile(resourceURL)
	if err != nil {
		return nil, &oaserrors.EngineError{Operation: "compile", Cause: err}
	}
	return sch, nil
}

// Validate checks value against s and collects every violation.
//
// A non-nil error means the engine itself failed (the schema did not
// compile, or value holds a type that is not a JSON value); it is never
// returned for a value that merely violates the schema.
func (e *Engine) Validate(s *parser.Schema, value any) (*Result, error) {
	if s == nil {
		return &Result{Valid: true}, nil
	}
	sch, err := e.Compile(s)
	if err != nil {
		return nil, err
	}

	err = sch.Validate(value)
	if err == nil {
		return &Result{Valid: true}, nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return nil, &oaserrors.EngineError{Operation: "validate", Cause: err}
	}

	leaves := flatten(ve)
	res := &Result{Errors: make([]FieldError, 0, len(leaves))}
	for _, cause := range leaves {
		res.Errors = append(res.Errors, FieldError{
			Message: cause.ErrorKind.LocalizedString(e.printer),
			Path:    instancePath(value, cause.InstanceLocation),
		})
	}
	return res, nil
}

// withoutFormats removes the "format" keyword from every node of s, which
// must be a private copy.
func withoutFormats(s *parser.Schema) *parser.Schema {
	if s == nil {
		return nil
	}
	delete(s.Keywords, "format")
	for _, p := range s.Properties {
		withoutFormats(p)
	}
	for _, d := range s.Definitions {
		withoutFormats(d)
	}
	for _, m := range s.AllOf {
		withoutFormats(m)
	}
	for _, v := range s.Variants {
		withoutFormats(v)
	}
	withoutFormats(s.AdditionalProperties)
	withoutFormats(s.Items)
	withoutFormats(s.Not)
	return s
}

// flatten collects the leaf causes of a validation error, in order.
func flatten(ve *jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(ve.Causes) == 0 {
		return []*jsonschema.ValidationError{ve}
	}
	var flat []*jsonschema.ValidationError
	for _, cause := range ve.Causes {
		flat = append(flat, flatten(cause)...)
	}
	return flat
}
