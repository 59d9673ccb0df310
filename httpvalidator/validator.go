package httpvalidator

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/erraggy/oasgate/engine"
	"github.com/erraggy/oasgate/internal/options"
	"github.com/erraggy/oasgate/oaserrors"
	"github.com/erraggy/oasgate/parser"
)

// Validator checks request and response bodies against a Swagger 2.0
// document. It is immutable once built and safe for concurrent use; any
// number of Validators may coexist.
//
//	parsed, _ := parser.ParseWithOptions(parser.WithFilePath("swagger.yaml"))
//	v, err := httpvalidator.New(parsed, httpvalidator.WithReturnRequestErrors(true))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	http.ListenAndServe(":8080", v.Middleware(mux))
type Validator struct {
	doc            *parser.Document
	index          *PathIndex
	resolver       *SchemaResolver
	requestEngine  Engine
	responseEngine Engine
	cfg            *config
	logger         parser.Logger
}

// New creates a Validator from a parsed document.
func New(parsed *parser.ParseResult, opts ...Option) (*Validator, error) {
	if parsed == nil {
		return nil, fmt.Errorf("httpvalidator: parsed result cannot be nil")
	}
	return NewWithOptions(append([]Option{WithParsed(parsed)}, opts...)...)
}

// NewWithOptions creates a Validator using functional options. Exactly one
// of WithParsed and WithFilePath must be given.
func NewWithOptions(opts ...Option) (*Validator, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("httpvalidator: invalid options: %w", err)
	}
	if err := options.ValidateSingleSource("httpvalidator",
		options.Source{Option: "WithFilePath", Set: cfg.filePath != ""},
		options.Source{Option: "WithParsed", Set: cfg.parsed != nil},
	); err != nil {
		return nil, err
	}

	parsed := cfg.parsed
	if parsed == nil {
		parsed, err = parser.ParseWithOptions(
			parser.WithFilePath(cfg.filePath),
			parser.WithLogger(cfg.logger),
		)
		if err != nil {
			return nil, fmt.Errorf("httpvalidator: failed to parse document: %w", err)
		}
	}
	if parsed.Document == nil {
		return nil, &oaserrors.ConfigError{
			Option:  "WithParsed",
			Message: "parse result has no document",
		}
	}
	for _, e := range parsed.Errors {
		cfg.logger.Warn("document problem", "source", parsed.SourcePath, "error", e)
	}

	index, err := NewPathIndex(parsed.Document.BasePath, parsed.Document.Paths)
	if err != nil {
		return nil, fmt.Errorf("httpvalidator: %w", err)
	}

	v := &Validator{
		doc:            parsed.Document,
		index:          index,
		resolver:       NewSchemaResolver(parsed.Document, cfg.allowNullable, cfg.mergeDefinitions),
		requestEngine:  cfg.requestEngine,
		responseEngine: cfg.responseEngine,
		cfg:            cfg,
		logger:         cfg.logger,
	}
	if v.requestEngine == nil {
		v.requestEngine = engine.New(cfg.requestEngineOpts)
	}
	if v.responseEngine == nil {
		v.responseEngine = engine.New(cfg.responseEngineOpts)
	}
	if cfg.bodyParser == nil {
		cfg.bodyParser = func(r *http.Request) (any, error) {
			return parseJSONBody(r, v.logger)
		}
	}

	v.logger.Debug("validator ready",
		"source", parsed.SourcePath,
		"routes", len(index.Routes()),
		"basePath", index.BasePath(),
	)
	return v, nil
}

// PathIndex returns the validator's routes.
func (v *Validator) PathIndex() *PathIndex {
	return v.index
}

// Resolver returns the validator's schema resolver.
func (v *Validator) Resolver() *SchemaResolver {
	return v.resolver
}

// Document returns the document the validator was built from.
func (v *Validator) Document() *parser.Document {
	return v.doc
}

// Check is the outcome of validating one body outside a request cycle.
type Check struct {
	// Route is the matched route, nil when none matched.
	Route *RouteDefinition
	// Checked is false when there was no route or no schema.
	Checked bool
	// Result holds the violations when Checked is true.
	Result *ValidationResult
}

// CheckRequestBody validates body as the request body of method and url,
// applying the same resolution and decoration as the middleware.
func (v *Validator) CheckRequestBody(method, url string, body any) (*Check, error) {
	route, ok := v.index.Match(url)
	if !ok {
		return &Check{}, nil
	}
	schema, err := v.resolver.ResolveRequestSchema(route, strings.ToLower(method))
	if err != nil {
		return nil, err
	}
	return v.check(v.requestEngine, route, schema, body)
}

// CheckResponseBody validates body as a response with status to method and
// url.
func (v *Validator) CheckResponseBody(method, url string, status int, body any) (*Check, error) {
	route, ok := v.index.Match(url)
	if !ok {
		return &Check{}, nil
	}
	schema, err := v.resolver.ResolveResponseSchema(route, strings.ToLower(method), status)
	if err != nil {
		return nil, err
	}
	return v.check(v.responseEngine, route, schema, body)
}

func (v *Validator) check(e Engine, route *RouteDefinition, schema *parser.Schema, body any) (*Check, error) {
	if schema == nil {
		return &Check{Route: route}, nil
	}
	res, err := e.Validate(schema, cloneValue(body))
	if err != nil {
		return nil, err
	}
	return &Check{Route: route, Checked: true, Result: res}, nil
}
