package parser

import (
	"fmt"
	"io"
	"net/http"

	"github.com/erraggy/oasgate"
	"github.com/erraggy/oasgate/internal/options"
	"github.com/erraggy/oasgate/oaserrors"
)

// Option configures a single ParseWithOptions call.
type Option func(*parseConfig) error

type parseConfig struct {
	// Exactly one source is set.
	filePath *string
	reader   io.Reader
	bytes    []byte

	userAgent  string
	httpClient *http.Client
	logger     Logger
	maxSize    int64

	sourceName *string
}

// ParseWithOptions parses a Swagger 2.0 document from the source named by
// one of WithFilePath, WithReader or WithBytes.
//
// Example:
//
//	result, err := parser.ParseWithOptions(
//	    parser.WithFilePath("swagger.yaml"),
//	    parser.WithLogger(parser.NewSlogAdapter(slog.Default())),
//	)
func ParseWithOptions(opts ...Option) (*ParseResult, error) {
	cfg := &parseConfig{userAgent: oasgate.UserAgent()}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("parser: invalid options: %w", err)
		}
	}
	if err := options.ValidateSingleSource("parser",
		options.Source{Option: "WithFilePath", Set: cfg.filePath != nil},
		options.Source{Option: "WithReader", Set: cfg.reader != nil},
		options.Source{Option: "WithBytes", Set: cfg.bytes != nil},
	); err != nil {
		return nil, fmt.Errorf("parser: invalid options: %w", err)
	}

	p := &Parser{
		UserAgent:       cfg.userAgent,
		HTTPClient:      cfg.httpClient,
		Logger:          cfg.logger,
		MaxDocumentSize: cfg.maxSize,
	}

	var (
		result *ParseResult
		err    error
	)
	switch {
	case cfg.filePath != nil:
		result, err = p.Parse(*cfg.filePath)
	case cfg.reader != nil:
		result, err = p.ParseReader(cfg.reader)
	default:
		result, err = p.ParseBytes(cfg.bytes)
	}
	if err != nil {
		return nil, err
	}
	if cfg.sourceName != nil {
		result.SourcePath = *cfg.sourceName
	}
	return result, nil
}

// WithFilePath reads the document from a file, or fetches it when path is
// an http(s) URL.
func WithFilePath(path string) Option {
	return func(cfg *parseConfig) error {
		cfg.filePath = &path
		return nil
	}
}

// WithReader reads the document from r until EOF.
func WithReader(r io.Reader) Option {
	return func(cfg *parseConfig) error {
		if r == nil {
			return &oaserrors.ConfigError{Option: "WithReader", Message: "reader cannot be nil"}
		}
		cfg.reader = r
		return nil
	}
}

// WithBytes parses a document already in memory.
func WithBytes(data []byte) Option {
	return func(cfg *parseConfig) error {
		if data == nil {
			return &oaserrors.ConfigError{Option: "WithBytes", Message: "bytes cannot be nil"}
		}
		cfg.bytes = data
		return nil
	}
}

// WithUserAgent sets the User-Agent sent when fetching a URL.
// Default: "oasgate/<version>"
func WithUserAgent(ua string) Option {
	return func(cfg *parseConfig) error {
		cfg.userAgent = ua
		return nil
	}
}

// WithHTTPClient sets the client used to fetch URLs. A nil client keeps the
// default, which times out after 30 seconds.
func WithHTTPClient(client *http.Client) Option {
	return func(cfg *parseConfig) error {
		cfg.httpClient = client
		return nil
	}
}

// WithLogger sets a structured logger for debug output during parsing.
// Use NewSlogAdapter to wrap a *slog.Logger.
func WithLogger(l Logger) Option {
	return func(cfg *parseConfig) error {
		cfg.logger = l
		return nil
	}
}

// WithMaxDocumentSize limits how many bytes are read from a file, URL or
// reader. Zero restores DefaultMaxDocumentSize.
func WithMaxDocumentSize(n int64) Option {
	return func(cfg *parseConfig) error {
		if n < 0 {
			return &oaserrors.ConfigError{Option: "WithMaxDocumentSize", Value: n, Message: "size cannot be negative"}
		}
		cfg.maxSize = n
		return nil
	}
}

// WithSourceName overrides ParseResult.SourcePath, which otherwise defaults
// to "ParseBytes.yaml" or "ParseReader.json" for in-memory sources.
func WithSourceName(name string) Option {
	return func(cfg *parseConfig) error {
		cfg.sourceName = &name
		return nil
	}
}
