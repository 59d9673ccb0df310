package commands

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/erraggy/oasgate/httpvalidator"
	"github.com/erraggy/oasgate/internal/cliutil"
	"github.com/erraggy/oasgate/internal/httputil"
)

// RoutesReport is the structured output of the routes command.
type RoutesReport struct {
	Source   string      `json:"source" yaml:"source"`
	BasePath string      `json:"basePath,omitempty" yaml:"basePath,omitempty"`
	Routes   []RouteInfo `json:"routes" yaml:"routes"`
}

// RouteInfo describes one path template, in match order.
type RouteInfo struct {
	Template   string          `json:"template" yaml:"template"`
	Pattern    string          `json:"pattern" yaml:"pattern"`
	Operations []OperationInfo `json:"operations" yaml:"operations"`
}

// OperationInfo describes what the middleware validates for one operation.
type OperationInfo struct {
	Method      string   `json:"method" yaml:"method"`
	OperationID string   `json:"operationId,omitempty" yaml:"operationId,omitempty"`
	RequestBody bool     `json:"requestBody" yaml:"requestBody"`
	Responses   []string `json:"responses,omitempty" yaml:"responses,omitempty"`
}

func newRoutesCommand(g *globalFlags) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "routes <file|url|->",
		Short: "List the routes and schemas the middleware validates",
		Long: "List every path template in match order, with the operations declared for it,\n" +
			"whether a request body schema applies and which status codes carry a schema.",
		Example: "  oasgate routes swagger.yaml\n" +
			"  oasgate routes --format json https://example.com/swagger.json",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ValidateOutputFormat(format); err != nil {
				return err
			}
			logger, err := g.logger(cmd)
			if err != nil {
				return err
			}
			parsed, err := loadDocument(args[0], cmd.InOrStdin(), logger)
			if err != nil {
				return err
			}
			v, err := httpvalidator.New(parsed, httpvalidator.WithLogger(logger))
			if err != nil {
				return err
			}
			report, err := buildRoutesReport(v, parsed.SourcePath)
			if err != nil {
				return err
			}
			if format != FormatText {
				return OutputStructured(cmd.OutOrStdout(), report, format)
			}
			return writeRoutesText(cmd, report)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", FormatText, "output format: text, json, or yaml")
	return cmd
}

func buildRoutesReport(v *httpvalidator.Validator, source string) (*RoutesReport, error) {
	report := &RoutesReport{
		Source:   source,
		BasePath: v.PathIndex().BasePath(),
		Routes:   []RouteInfo{},
	}
	for _, route := range v.PathIndex().Routes() {
		info := RouteInfo{
			Template:   route.Template,
			Pattern:    route.Pattern(),
			Operations: []OperationInfo{},
		}
		for _, method := range route.PathItem.Methods() {
			op := route.Operation(method)
			reqSchema, err := v.Resolver().ResolveRequestSchema(route, method)
			if err != nil {
				return nil, fmt.Errorf("%s %s: %w", strings.ToUpper(method), route.Template, err)
			}
			opInfo := OperationInfo{
				Method:      strings.ToUpper(method),
				OperationID: op.OperationID,
				RequestBody: reqSchema != nil,
			}
			for code := range op.Responses {
				status, ok := httputil.StatusCode(code)
				if !ok {
					continue
				}
				s, err := v.Resolver().ResolveResponseSchema(route, method, status)
				if err != nil {
					return nil, fmt.Errorf("%s %s %s: %w", strings.ToUpper(method), route.Template, code, err)
				}
				if s != nil {
					opInfo.Responses = append(opInfo.Responses, code)
				}
			}
			slices.Sort(opInfo.Responses)
			info.Operations = append(info.Operations, opInfo)
		}
		report.Routes = append(report.Routes, info)
	}
	return report, nil
}

func writeRoutesText(cmd *cobra.Command, report *RoutesReport) error {
	out := cmd.OutOrStdout()
	Writef(cmd.ErrOrStderr(), "Source: %s\n", report.Source)
	if report.BasePath != "" {
		Writef(cmd.ErrOrStderr(), "Base path: %s\n", report.BasePath)
	}
	Writef(cmd.ErrOrStderr(), "Routes: %d\n\n", len(report.Routes))

	tbl := cliutil.NewTable(out, "METHOD", "PATH", "OPERATION", "BODY", "RESPONSES")
	for _, r := range report.Routes {
		if len(r.Operations) == 0 {
			tbl.Row("", r.Template, "", "", "")
			continue
		}
		for _, op := range r.Operations {
			body := "no"
			if op.RequestBody {
				body = "yes"
			}
			tbl.Row(op.Method, r.Template, op.OperationID, body, strings.Join(op.Responses, ","))
		}
	}
	return tbl.Flush()
}
