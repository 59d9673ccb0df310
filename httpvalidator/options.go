package httpvalidator

import (
	"fmt"
	"net/http"

	"github.com/erraggy/oasgate/engine"
	"github.com/erraggy/oasgate/internal/httputil"
	"github.com/erraggy/oasgate/oaserrors"
	"github.com/erraggy/oasgate/parser"
)

// Option is a functional option for configuring a Validator.
type Option func(*config) error

// ValidationFunc receives a failed validation instead of the client. The
// body is the decoded value, or the raw text when a response body could not
// be decoded. After it returns, the request continues as if it had passed.
type ValidationFunc func(r *http.Request, body any, errs []FieldError)

// ErrorHandler writes a rejection to the client.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, rej *Rejection)

// config holds the configuration of a Validator.
type config struct {
	// Spec source (exactly one must be set)
	filePath string
	parsed   *parser.ParseResult

	validateRequest             bool
	validateResponse            bool
	allowNullable               bool
	mergeDefinitions            bool
	preserveResponseContentType bool
	returnRequestErrors         bool
	returnResponseErrors        bool

	requestValidationFn  ValidationFunc
	responseValidationFn ValidationFunc

	requestEngineOpts  engine.Options
	responseEngineOpts engine.Options
	requestEngine      Engine
	responseEngine     Engine

	requestRejectionStatus  int
	responseRejectionStatus int
	errorHandler            ErrorHandler
	bodyParser              BodyParser
	logger                  parser.Logger
}

// defaultConfig returns the default configuration.
func defaultConfig() *config {
	return &config{
		validateRequest:             true,
		validateResponse:            true,
		allowNullable:               true,
		mergeDefinitions:            true,
		preserveResponseContentType: true,
		requestRejectionStatus:      http.StatusBadRequest,
		responseRejectionStatus:     http.StatusInternalServerError,
		errorHandler:                WriteJSONRejection,
		logger:                      parser.NopLogger{},
	}
}

func applyOptions(opts ...Option) (*config, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// WithFilePath sets the path or URL of the Swagger document.
// The document will be parsed automatically.
func WithFilePath(path string) Option {
	return func(c *config) error {
		if path == "" {
			return &oaserrors.ConfigError{Option: "WithFilePath", Message: "path cannot be empty"}
		}
		c.filePath = path
		return nil
	}
}

// WithParsed uses a pre-parsed document.
func WithParsed(result *parser.ParseResult) Option {
	return func(c *config) error {
		if result == nil {
			return &oaserrors.ConfigError{Option: "WithParsed", Message: "parsed result cannot be nil"}
		}
		c.parsed = result
		return nil
	}
}

// WithValidateRequest enables request body validation. Default is true.
func WithValidateRequest(enabled bool) Option {
	return func(c *config) error {
		c.validateRequest = enabled
		return nil
	}
}

// WithValidateResponse enables response body validation. Default is true.
func WithValidateResponse(enabled bool) Option {
	return func(c *config) error {
		c.validateResponse = enabled
		return nil
	}
}

// WithAllowNullable makes properties marked "x-nullable: true" accept null.
// Default is true.
func WithAllowNullable(enabled bool) Option {
	return func(c *config) error {
		c.allowNullable = enabled
		return nil
	}
}

// WithMergeDefinitions copies the document's definitions into every
// resolved schema so "#/definitions/..." references resolve. Disabling it
// only makes sense with schemas that carry their own definitions.
// Default is true.
func WithMergeDefinitions(enabled bool) Option {
	return func(c *config) error {
		c.mergeDefinitions = enabled
		return nil
	}
}

// WithPreserveResponseContentType keeps the handler's Content-Type on a
// response whose body could not be decoded. When false the header is
// removed. Default is true.
func WithPreserveResponseContentType(preserve bool) Option {
	return func(c *config) error {
		c.preserveResponseContentType = preserve
		return nil
	}
}

// WithReturnRequestErrors includes the violations in request rejections.
// Default is false.
func WithReturnRequestErrors(enabled bool) Option {
	return func(c *config) error {
		c.returnRequestErrors = enabled
		return nil
	}
}

// WithReturnResponseErrors includes the violations in response rejections.
// Default is false.
func WithReturnResponseErrors(enabled bool) Option {
	return func(c *config) error {
		c.returnResponseErrors = enabled
		return nil
	}
}

// WithRequestValidationFunc replaces request rejection with fn. The
// downstream handler still runs.
func WithRequestValidationFunc(fn ValidationFunc) Option {
	return func(c *config) error {
		c.requestValidationFn = fn
		return nil
	}
}

// WithResponseValidationFunc replaces response rejection with fn. The
// handler's response is sent unchanged.
func WithResponseValidationFunc(fn ValidationFunc) Option {
	return func(c *config) error {
		c.responseValidationFn = fn
		return nil
	}
}

// WithRequestEngineOptions configures the default engine used for requests.
func WithRequestEngineOptions(opts engine.Options) Option {
	return func(c *config) error {
		c.requestEngineOpts = opts
		return nil
	}
}

// WithResponseEngineOptions configures the default engine used for responses.
func WithResponseEngineOptions(opts engine.Options) Option {
	return func(c *config) error {
		c.responseEngineOpts = opts
		return nil
	}
}

// WithRequestEngine replaces the engine used for requests.
// WithRequestEngineOptions is then ignored.
func WithRequestEngine(e Engine) Option {
	return func(c *config) error {
		if e == nil {
			return &oaserrors.ConfigError{Option: "WithRequestEngine", Message: "engine cannot be nil"}
		}
		c.requestEngine = e
		return nil
	}
}

// WithResponseEngine replaces the engine used for responses.
// WithResponseEngineOptions is then ignored.
func WithResponseEngine(e Engine) Option {
	return func(c *config) error {
		if e == nil {
			return &oaserrors.ConfigError{Option: "WithResponseEngine", Message: "engine cannot be nil"}
		}
		c.responseEngine = e
		return nil
	}
}

// WithRequestRejectionStatus sets the status of request rejections.
// Default is 400.
func WithRequestRejectionStatus(code int) Option {
	return func(c *config) error {
		if err := checkRejectionStatus("WithRequestRejectionStatus", code); err != nil {
			return err
		}
		c.requestRejectionStatus = code
		return nil
	}
}

// WithResponseRejectionStatus sets the status of response rejections.
// Default is 500.
func WithResponseRejectionStatus(code int) Option {
	return func(c *config) error {
		if err := checkRejectionStatus("WithResponseRejectionStatus", code); err != nil {
			return err
		}
		c.responseRejectionStatus = code
		return nil
	}
}

func checkRejectionStatus(option string, code int) error {
	if !httputil.IsErrorStatus(code) {
		return &oaserrors.ConfigError{
			Option:  option,
			Value:   code,
			Message: fmt.Sprintf("status must be a 4xx or 5xx code, got %d", code),
		}
	}
	return nil
}

// WithErrorHandler sets how rejections are written. The default,
// WriteJSONRejection, sends the rejection payload as JSON.
func WithErrorHandler(h ErrorHandler) Option {
	return func(c *config) error {
		if h == nil {
			return &oaserrors.ConfigError{Option: "WithErrorHandler", Message: "handler cannot be nil"}
		}
		c.errorHandler = h
		return nil
	}
}

// WithBodyParser sets how request bodies are decoded. The default is
// JSONBodyParser.
func WithBodyParser(p BodyParser) Option {
	return func(c *config) error {
		c.bodyParser = p
		return nil
	}
}

// WithLogger sets the logger. Violations are logged at warn level, skipped
// and passed validations at debug level.
func WithLogger(l parser.Logger) Option {
	return func(c *config) error {
		c.logger = parser.OrNop(l)
		return nil
	}
}
