// Package engine evaluates Swagger 2.0 schemas against decoded JSON values.
//
// It is the default ValidationEngine of the httpvalidator middleware and is
// backed by github.com/santhosh-tekuri/jsonschema/v6. Schemas are compiled
// per call under draft 4 with format assertions on, and every violation is
// reported (leaf causes of the validation error tree, in order).
//
// Values should come from a decoder that keeps numbers as json.Number, which
// is how the middleware decodes bodies:
//
//	eng := engine.New(engine.Options{})
//	res, err := eng.Validate(schema, value)
//	if err != nil {
//		// the schema itself is broken
//	}
//	for _, fe := range res.Errors {
//		fmt.Println(fe.Path, fe.Message)
//	}
//
// Error paths are JSONPath expressions rendered with github.com/ohler55/ojg,
// for example "$.photoUrls[0]".
package engine
