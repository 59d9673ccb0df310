// Package commands provides the oasgate command tree.
package commands

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/goccy/go-json"
	"go.yaml.in/yaml/v4"

	"github.com/erraggy/oasgate/internal/cliutil"
	"github.com/erraggy/oasgate/parser"
)

// Output format constants
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// StdinFilePath is the special file path used to indicate reading from stdin.
const StdinFilePath = "-"

// ValidateOutputFormat validates an output format and returns an error if invalid.
func ValidateOutputFormat(format string) error {
	if format != FormatText && format != FormatJSON && format != FormatYAML {
		return fmt.Errorf("invalid format '%s'. Valid formats: %s, %s, %s", format, FormatText, FormatJSON, FormatYAML)
	}
	return nil
}

// OutputStructured writes data to w in the specified format (json or yaml).
func OutputStructured(w io.Writer, data any, format string) error {
	var out []byte
	var err error

	switch format {
	case FormatJSON:
		out, err = json.MarshalIndent(data, "", "  ")
	case FormatYAML:
		out, err = yaml.Marshal(data)
	default:
		return fmt.Errorf("invalid format for structured output: %s", format)
	}
	if err != nil {
		return fmt.Errorf("marshaling to %s: %w", format, err)
	}

	Writef(w, "%s\n", strings.TrimRight(string(out), "\n"))
	return nil
}

// Writef writes formatted output to the writer.
func Writef(w io.Writer, format string, args ...any) {
	cliutil.Writef(w, format, args...)
}

// FormatSpecPath returns a display-friendly path for the document.
func FormatSpecPath(specPath string) string {
	if specPath == StdinFilePath {
		return "<stdin>"
	}
	return specPath
}

// loadDocument parses a document from a path, URL or stdin and reports
// unresolvable references as an error.
func loadDocument(specPath string, stdin io.Reader, logger parser.Logger) (*parser.ParseResult, error) {
	opts := []parser.Option{parser.WithLogger(logger)}
	if specPath == StdinFilePath {
		opts = append(opts, parser.WithReader(stdin), parser.WithSourceName("<stdin>"))
	} else {
		opts = append(opts, parser.WithFilePath(specPath))
	}

	result, err := parser.ParseWithOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", FormatSpecPath(specPath), err)
	}
	for _, w := range result.Warnings {
		logger.Warn(w, "source", result.SourcePath)
	}
	if len(result.Errors) > 0 {
		return nil, fmt.Errorf("%s has %d unresolvable reference(s): %w",
			FormatSpecPath(specPath), len(result.Errors), result.Errors[0])
	}
	return result, nil
}

// newLogger builds the logger behind --log-level. "off" disables logging.
func newLogger(level string, w io.Writer) (parser.Logger, error) {
	var l slog.Level
	switch strings.ToLower(level) {
	case "off", "":
		return parser.NopLogger{}, nil
	case "debug":
		l = slog.LevelDebug
	case "info":
		l = slog.LevelInfo
	case "warn", "warning":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		return nil, fmt.Errorf("invalid log level '%s'. Valid levels: off, debug, info, warn, error", level)
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: l})
	return parser.NewSlogAdapter(slog.New(handler)), nil
}
