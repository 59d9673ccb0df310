package parser

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/oasgate"
	"github.com/erraggy/oasgate/oaserrors"
)

// Parser handles Swagger 2.0 document parsing
type Parser struct {
	// UserAgent is the User-Agent string used when fetching URLs.
	// Defaults to "oasgate/<version>" if not set.
	UserAgent string
	// HTTPClient is the HTTP client used for fetching URLs.
	// If nil, a default client with 30-second timeout is created.
	HTTPClient *http.Client
	// Logger is the structured logger for debug output.
	// If nil, logging is disabled (default).
	Logger Logger
	// MaxDocumentSize limits the bytes read from a source.
	// Zero means DefaultMaxDocumentSize.
	MaxDocumentSize int64
}

// New creates a new Parser instance with default settings
func New() *Parser {
	return &Parser{
		UserAgent: oasgate.UserAgent(),
	}
}

func (p *Parser) log() Logger {
	return OrNop(p.Logger)
}

// SourceFormat represents the format of the source document
type SourceFormat string

const (
	// SourceFormatYAML indicates the source was in YAML format
	SourceFormatYAML SourceFormat = "yaml"
	// SourceFormatJSON indicates the source was in JSON format
	SourceFormatJSON SourceFormat = "json"
	// SourceFormatUnknown indicates the source format could not be determined
	SourceFormatUnknown SourceFormat = "unknown"
)

// ParseResult contains the parsed document and metadata about its source.
//
// The Document is shared by every validator built from it and must be
// treated as read-only after parsing.
type ParseResult struct {
	// SourcePath is the path or URL the document was read from. When the
	// source was not a path, it is the name of the method with a ".json" or
	// ".yaml" suffix, unless overridden with WithSourceName.
	SourcePath string
	// SourceFormat is the format of the source (JSON or YAML)
	SourceFormat SourceFormat
	// Version is the value of the "swagger" field
	Version string
	// Document is the parsed Swagger 2.0 document
	Document *Document
	// Errors contains unresolvable references and other non-fatal problems
	// that make parts of the document unusable.
	Errors []error
	// Warnings contains informational issues
	Warnings []string
	// LoadTime is the time taken to load the source data (file, URL, etc.)
	LoadTime time.Duration
	// SourceSize is the size of the source data in bytes
	SourceSize int64
}

// Parse reads and parses a document from a file path or an http(s) URL.
// The format hint of the source (file extension, Content-Type) wins over
// sniffing the content.
func (p *Parser) Parse(specPath string) (*ParseResult, error) {
	loadStart := time.Now()
	src, err := p.load(specPath)
	if err != nil {
		return nil, err
	}
	loadTime := time.Since(loadStart)

	res, err := p.parse(src.data, specPath)
	if err != nil {
		return nil, err
	}
	res.LoadTime = loadTime
	if src.hint != SourceFormatUnknown {
		res.SourceFormat = src.hint
	}
	return res, nil
}

// ParseReader parses a document read in full from r.
func (p *Parser) ParseReader(r io.Reader) (*ParseResult, error) {
	loadStart := time.Now()
	data, err := p.readLimited(r)
	if err != nil {
		return nil, fmt.Errorf("parser: failed to read data: %w", err)
	}
	loadTime := time.Since(loadStart)

	res, err := p.parse(data, "ParseReader")
	if err != nil {
		return nil, err
	}
	res.LoadTime = loadTime
	res.SourcePath = "ParseReader." + string(res.SourceFormat)
	return res, nil
}

// ParseBytes parses a document held in memory.
func (p *Parser) ParseBytes(data []byte) (*ParseResult, error) {
	res, err := p.parse(data, "ParseBytes")
	if err != nil {
		return nil, err
	}
	res.SourcePath = "ParseBytes." + string(res.SourceFormat)
	return res, nil
}

func (p *Parser) parse(data []byte, source string) (*ParseResult, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &oaserrors.ParseError{Source: source, Message: "document is empty"}
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &oaserrors.ParseError{Source: source, Message: "invalid JSON or YAML", Cause: err}
	}

	dec := &decoder{source: source}
	doc, err := dec.document(&root)
	if err != nil {
		return nil, err
	}

	res := &ParseResult{
		SourcePath:   source,
		SourceFormat: sniffFormat(data),
		Version:      doc.Swagger,
		Document:     doc,
		Warnings:     dec.warnings,
		SourceSize:   int64(len(data)),
		Errors:       doc.CheckReferences(),
	}
	if doc.Swagger == "" {
		res.Warnings = append(res.Warnings, "document has no swagger version field")
	}

	p.log().Debug("parsed document",
		"source", source,
		"version", res.Version,
		"paths", len(doc.Paths),
		"definitions", len(doc.Definitions),
		"errors", len(res.Errors),
		"warnings", len(res.Warnings),
	)
	for _, w := range res.Warnings {
		p.log().Warn(w, "source", source)
	}
	return res, nil
}
