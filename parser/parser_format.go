package parser

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"github.com/erraggy/oasgate"
)

// DefaultMaxDocumentSize caps how many bytes are read from a file, URL or
// reader before parsing gives up.
const DefaultMaxDocumentSize = 32 << 20

const defaultFetchTimeout = 30 * time.Second

var errTooLarge = errors.New("document exceeds the size limit")

// loaded is a document's raw bytes and what its origin says about the format.
type loaded struct {
	data []byte
	// hint comes from a file extension or a Content-Type; it may be unknown.
	hint SourceFormat
}

// load reads specPath from disk, or fetches it when it is an http(s) URL.
func (p *Parser) load(specPath string) (*loaded, error) {
	if isURL(specPath) {
		return p.fetch(specPath)
	}
	f, err := os.Open(specPath) //nolint:gosec // path is caller-provided
	if err != nil {
		return nil, fmt.Errorf("parser: failed to read file: %w", err)
	}
	defer func() { _ = f.Close() }()

	data, err := p.readLimited(f)
	if err != nil {
		return nil, fmt.Errorf("parser: failed to read file: %w", err)
	}
	return &loaded{data: data, hint: formatFromExt(specPath)}, nil
}

func (p *Parser) fetch(rawURL string) (*loaded, error) {
	client := p.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultFetchTimeout}
	}
	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("parser: failed to create request: %w", err)
	}
	ua := p.UserAgent
	if ua == "" {
		ua = oasgate.UserAgent()
	}
	req.Header.Set("User-Agent", ua)
	req.Header.Set("Accept", "application/json, application/yaml;q=0.9, */*;q=0.1")

	p.log().Debug("fetching document", "url", rawURL)
	resp, err := client.Do(req) //nolint:gosec // URL is caller-provided
	if err != nil {
		return nil, fmt.Errorf("parser: failed to fetch URL: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("parser: HTTP %d fetching %s", resp.StatusCode, rawURL)
	}
	data, err := p.readLimited(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parser: failed to read response body: %w", err)
	}

	hint := SourceFormatUnknown
	if u, err := url.Parse(rawURL); err == nil {
		hint = formatFromExt(u.Path)
	}
	if hint == SourceFormatUnknown {
		hint = formatFromMediaType(resp.Header.Get("Content-Type"))
	}
	return &loaded{data: data, hint: hint}, nil
}

// readLimited reads r in full, failing once MaxDocumentSize is exceeded.
func (p *Parser) readLimited(r io.Reader) ([]byte, error) {
	limit := p.MaxDocumentSize
	if limit <= 0 {
		limit = DefaultMaxDocumentSize
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w of %d bytes", errTooLarge, limit)
	}
	return data, nil
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func formatFromExt(name string) SourceFormat {
	switch strings.ToLower(path.Ext(name)) {
	case ".json":
		return SourceFormatJSON
	case ".yaml", ".yml":
		return SourceFormatYAML
	}
	return SourceFormatUnknown
}

func formatFromMediaType(contentType string) SourceFormat {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return SourceFormatUnknown
	}
	switch {
	case mt == "application/json" || strings.HasSuffix(mt, "+json"):
		return SourceFormatJSON
	case strings.HasSuffix(mt, "/yaml") || strings.HasSuffix(mt, "/x-yaml") || strings.HasSuffix(mt, "+yaml"):
		return SourceFormatYAML
	}
	return SourceFormatUnknown
}

// sniffFormat guesses from the first non-blank byte: JSON documents open
// with '{' or '['. YAML is the fallback since it is a superset of JSON.
func sniffFormat(data []byte) SourceFormat {
	trimmed := bytes.TrimLeft(data, " \t\r\n\uFEFF")
	if len(trimmed) == 0 {
		return SourceFormatUnknown
	}
	if trimmed[0] == '{' || trimmed[0] == '[' {
		return SourceFormatJSON
	}
	return SourceFormatYAML
}
