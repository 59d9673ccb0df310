package commands

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/invopop/jsonschema"
	sjsonschema "github.com/santhosh-tekuri/jsonschema/v6"
	"go.yaml.in/yaml/v4"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/erraggy/oasgate/oaserrors"
)

// proxyConfigSchemaID is the $id of the reflected proxy configuration schema.
const proxyConfigSchemaID = "https://github.com/erraggy/oasgate/schemas/proxy-config.json"

// ProxyConfig is the YAML configuration of the proxy command.
type ProxyConfig struct {
	// Spec is the path or URL of the Swagger 2.0 document.
	Spec string `json:"spec" yaml:"spec" jsonschema:"description=Path or URL of the Swagger 2.0 document"`
	// Target is the upstream base URL requests are forwarded to.
	Target string `json:"target" yaml:"target" jsonschema:"format=uri,description=Upstream base URL"`
	// Listen is the address the proxy listens on.
	Listen string `json:"listen,omitempty" yaml:"listen,omitempty" jsonschema:"default=:8080,description=Listen address"`
	// Validation tunes the middleware.
	Validation ValidationConfig `json:"validation,omitempty" yaml:"validation,omitempty"`
}

// ValidationConfig mirrors the httpvalidator options. Unset booleans keep
// the middleware defaults.
type ValidationConfig struct {
	Request                     *bool `json:"request,omitempty" yaml:"request,omitempty" jsonschema:"description=Validate request bodies (default true)"`
	Response                    *bool `json:"response,omitempty" yaml:"response,omitempty" jsonschema:"description=Validate response bodies (default true)"`
	AllowNullable               *bool `json:"allowNullable,omitempty" yaml:"allowNullable,omitempty" jsonschema:"description=Honour x-nullable (default true)"`
	MergeDefinitions            *bool `json:"mergeDefinitions,omitempty" yaml:"mergeDefinitions,omitempty" jsonschema:"description=Make document definitions visible to every schema (default true)"`
	PreserveResponseContentType *bool `json:"preserveResponseContentType,omitempty" yaml:"preserveResponseContentType,omitempty"`
	ReturnRequestErrors         bool  `json:"returnRequestErrors,omitempty" yaml:"returnRequestErrors,omitempty"`
	ReturnResponseErrors        bool  `json:"returnResponseErrors,omitempty" yaml:"returnResponseErrors,omitempty"`
	RequestRejectionStatus      int   `json:"requestRejectionStatus,omitempty" yaml:"requestRejectionStatus,omitempty" jsonschema:"minimum=400,maximum=599"`
	ResponseRejectionStatus     int   `json:"responseRejectionStatus,omitempty" yaml:"responseRejectionStatus,omitempty" jsonschema:"minimum=400,maximum=599"`
	// ReportOnly logs violations instead of rejecting them.
	ReportOnly bool `json:"reportOnly,omitempty" yaml:"reportOnly,omitempty" jsonschema:"description=Log violations instead of rejecting"`
	// DisableFormats treats "format" as an annotation.
	DisableFormats bool `json:"disableFormats,omitempty" yaml:"disableFormats,omitempty"`
}

// ProxyConfigSchema reflects the JSON Schema (draft 2020-12) of ProxyConfig.
func ProxyConfigSchema() *jsonschema.Schema {
	r := &jsonschema.Reflector{ExpandedStruct: true}
	s := r.Reflect(&ProxyConfig{})
	s.ID = proxyConfigSchemaID
	s.Title = "oasgate proxy configuration"
	return s
}

// GenerateProxyConfigSchema renders ProxyConfigSchema as indented JSON.
func GenerateProxyConfigSchema() ([]byte, error) {
	data, err := json.MarshalIndent(ProxyConfigSchema(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	return data, nil
}

// LoadProxyConfig reads a YAML (or JSON) configuration file, checks it
// against the reflected schema and decodes it.
func LoadProxyConfig(path string) (*ProxyConfig, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-supplied CLI input
	if err != nil {
		return nil, &oaserrors.ConfigError{Option: "config", Value: path, Message: "cannot read file", Cause: err}
	}
	return parseProxyConfig(data, path)
}

func parseProxyConfig(data []byte, source string) (*ProxyConfig, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &oaserrors.ConfigError{Option: "config", Value: source, Message: "invalid YAML", Cause: err}
	}
	if doc == nil {
		doc = map[string]any{}
	}
	if err := validateProxyConfig(doc); err != nil {
		return nil, &oaserrors.ConfigError{Option: "config", Value: source, Message: "does not match the configuration schema", Cause: err}
	}

	cfg := &ProxyConfig{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, &oaserrors.ConfigError{Option: "config", Value: source, Message: "invalid YAML", Cause: err}
	}
	return cfg, nil
}

// validateProxyConfig evaluates a decoded configuration document against
// the reflected schema.
func validateProxyConfig(doc any) error {
	schemaJSON, err := GenerateProxyConfigSchema()
	if err != nil {
		return err
	}
	schemaDoc, err := sjsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		return fmt.Errorf("unmarshal schema: %w", err)
	}

	c := sjsonschema.NewCompiler()
	if err := c.AddResource(proxyConfigSchemaID, schemaDoc); err != nil {
		return fmt.Errorf("add schema resource: %w", err)
	}
	sch, err := c.Compile(proxyConfigSchemaID)
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	err = sch.Validate(doc)
	var ve *sjsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	printer := message.NewPrinter(language.English)
	var msgs []string
	for _, leaf := range leafErrors(ve) {
		loc := "/" + strings.Join(leaf.InstanceLocation, "/")
		msgs = append(msgs, fmt.Sprintf("%s: %s", loc, leaf.ErrorKind.LocalizedString(printer)))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func leafErrors(ve *sjsonschema.ValidationError) []*sjsonschema.ValidationError {
	if len(ve.Causes) == 0 {
		return []*sjsonschema.ValidationError{ve}
	}
	var out []*sjsonschema.ValidationError
	for _, c := range ve.Causes {
		out = append(out, leafErrors(c)...)
	}
	return out
}
