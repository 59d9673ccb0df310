package commands

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/erraggy/oasgate/engine"
	"github.com/erraggy/oasgate/httpvalidator"
	"github.com/erraggy/oasgate/oaserrors"
)

// CheckReport is the structured output of the check command.
type CheckReport struct {
	Direction oaserrors.Direction        `json:"direction" yaml:"direction"`
	Method    string                     `json:"method" yaml:"method"`
	URL       string                     `json:"url" yaml:"url"`
	Status    int                        `json:"status,omitempty" yaml:"status,omitempty"`
	Route     string                     `json:"route,omitempty" yaml:"route,omitempty"`
	Checked   bool                       `json:"checked" yaml:"checked"`
	Valid     bool                       `json:"valid" yaml:"valid"`
	Errors    []httpvalidator.FieldError `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// errBodyInvalid is returned when the checked body violates its schema, so
// the process exits non-zero.
var errBodyInvalid = errors.New("body does not match its schema")

// CheckFlags contains flags for the check command.
type CheckFlags struct {
	Method    string
	URL       string
	Body      string
	Status    int
	Format    string
	NoNulls   bool
	NoFormats bool
}

func newCheckCommand(g *globalFlags) *cobra.Command {
	flags := &CheckFlags{}
	cmd := &cobra.Command{
		Use:   "check <file|url> --url <path> [--body <file|->]",
		Short: "Validate one request or response body",
		Long: "Validate a JSON body as the middleware would. Without --status the body is\n" +
			"checked as the request body of the operation; with --status it is checked\n" +
			"as the response with that status code.\n\n" +
			"Exit codes: 0 valid or nothing to check, 1 invalid or error.",
		Example: "  oasgate check swagger.yaml --method POST --url /v2/pet --body pet.json\n" +
			"  curl -s localhost:8080/v2/pet/1 | oasgate check swagger.yaml --url /v2/pet/1 --status 200",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, g, flags, args[0])
		},
	}
	cmd.Flags().StringVarP(&flags.Method, "method", "X", http.MethodGet, "HTTP method of the request")
	cmd.Flags().StringVar(&flags.URL, "url", "", "request path, with or without query string (required)")
	cmd.Flags().StringVarP(&flags.Body, "body", "d", StdinFilePath, "file holding the JSON body, or '-' for stdin")
	cmd.Flags().IntVarP(&flags.Status, "status", "s", 0, "check the body as a response with this status code")
	cmd.Flags().StringVarP(&flags.Format, "format", "f", FormatText, "output format: text, json, or yaml")
	cmd.Flags().BoolVar(&flags.NoNulls, "no-nullable", false, "ignore x-nullable")
	cmd.Flags().BoolVar(&flags.NoFormats, "no-formats", false, "treat \"format\" as an annotation")
	_ = cmd.MarkFlagRequired("url")
	return cmd
}

func runCheck(cmd *cobra.Command, g *globalFlags, flags *CheckFlags, specPath string) error {
	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}
	if specPath == StdinFilePath && flags.Body == StdinFilePath {
		return fmt.Errorf("document and body cannot both be read from stdin")
	}
	logger, err := g.logger(cmd)
	if err != nil {
		return err
	}
	parsed, err := loadDocument(specPath, cmd.InOrStdin(), logger)
	if err != nil {
		return err
	}

	engineOpts := engine.Options{DisableFormatAssertion: flags.NoFormats}
	v, err := httpvalidator.New(parsed,
		httpvalidator.WithLogger(logger),
		httpvalidator.WithAllowNullable(!flags.NoNulls),
		httpvalidator.WithRequestEngineOptions(engineOpts),
		httpvalidator.WithResponseEngineOptions(engineOpts),
	)
	if err != nil {
		return err
	}

	body, err := readBody(flags.Body, cmd.InOrStdin())
	if err != nil {
		return err
	}

	report := &CheckReport{
		Direction: oaserrors.DirectionRequest,
		Method:    strings.ToUpper(flags.Method),
		URL:       flags.URL,
		Status:    flags.Status,
	}
	var check *httpvalidator.Check
	if flags.Status > 0 {
		report.Direction = oaserrors.DirectionResponse
		check, err = v.CheckResponseBody(report.Method, flags.URL, flags.Status, body)
	} else {
		check, err = v.CheckRequestBody(report.Method, flags.URL, body)
	}
	if err != nil {
		return err
	}
	if check.Route != nil {
		report.Route = check.Route.Template
	}
	report.Checked = check.Checked
	report.Valid = !check.Checked || check.Result.Valid
	if check.Checked {
		report.Errors = check.Result.Errors
	}

	if flags.Format != FormatText {
		if err := OutputStructured(cmd.OutOrStdout(), report, flags.Format); err != nil {
			return err
		}
	} else {
		writeCheckText(cmd.OutOrStdout(), report)
	}
	if !report.Valid {
		return errBodyInvalid
	}
	return nil
}

// readBody decodes one JSON value from path or stdin, keeping numbers exact.
// An empty body is an empty object, as for requests.
func readBody(path string, stdin io.Reader) (any, error) {
	var data []byte
	var err error
	if path == StdinFilePath {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path) //nolint:gosec // user-supplied CLI input
	}
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]any{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("body is not valid JSON: %w", err)
	}
	return v, nil
}

func writeCheckText(w io.Writer, r *CheckReport) {
	target := r.Method + " " + r.URL
	if r.Direction == oaserrors.DirectionResponse {
		target = fmt.Sprintf("%s -> %d", target, r.Status)
	}
	switch {
	case r.Route == "":
		Writef(w, "%s: no matching route, nothing to check\n", target)
	case !r.Checked:
		Writef(w, "%s: no %s schema for %s, nothing to check\n", target, r.Direction, r.Route)
	case r.Valid:
		Writef(w, "%s: %s body is valid (%s)\n", target, r.Direction, r.Route)
	default:
		Writef(w, "%s: %s body is invalid (%s), %d error(s):\n", target, r.Direction, r.Route, len(r.Errors))
		for _, e := range r.Errors {
			Writef(w, "  - %s: %s\n", e.Path, e.Message)
		}
	}
}
