// Package parser reads Swagger 2.0 documents into the model used by the
// httpvalidator middleware.
//
// Documents may be YAML or JSON and can be loaded from a file, a URL, an
// io.Reader or a byte slice. Decoding goes through yaml.Node so the order
// in which paths are declared survives parsing: Document.Paths is a slice in
// source order, which is the order routes are matched in.
//
// # Quick Start
//
//	result, err := parser.ParseWithOptions(
//		parser.WithFilePath("swagger.yaml"),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, err := range result.Errors {
//		fmt.Println(err)
//	}
//
// # Schemas
//
// Schema is a tagged tree. The keywords the validator needs to walk
// (properties, items, allOf, anyOf/oneOf, not, definitions) are fields, and
// the Kind tag says which variant a node is. Every other keyword is kept
// verbatim in Schema.Keywords, so constraints such as "required", "enum" or
// "pattern" reach the schema engine unchanged. Schema.Value renders a node
// back to a generic JSON value.
//
// Schemas reachable from a Document are shared. Use Schema.Copy before
// changing one.
//
// # References
//
// "#/parameters/..." and "#/responses/..." references are resolved on demand
// by Document.ResolveParameter and Document.ResolveResponse. Unresolvable ones
// are reported in ParseResult.Errors as *oaserrors.ReferenceError values.
// Schema "$ref" values are left in place for the schema engine, which
// resolves them against the definitions merged into each schema.
//
// # Logging
//
// Parsing is silent by default. Pass WithLogger with a Logger, for example
// NewSlogAdapter(slog.Default()), to receive debug and warning output.
package parser
