// Package oasgate validates HTTP traffic against Swagger 2.0 (OpenAPI 2.0)
// documents.
//
// oasgate checks JSON request and response bodies against the schemas a
// Swagger document declares for each operation. It is used as net/http
// middleware, as a one-shot checker, or as a validating reverse proxy.
//
// # Overview
//
// The library consists of four packages:
//
//   - parser: Parse Swagger 2.0 documents (YAML or JSON, file, URL or reader)
//   - httpvalidator: Middleware, route matching and schema resolution
//   - engine: The default JSON Schema engine (santhosh-tekuri/jsonschema)
//   - oaserrors: Sentinel errors and structured error types
//
// Only Swagger 2.0 is supported. Parameters other than the body are not
// validated.
//
// # Installation
//
//	go get github.com/erraggy/oasgate
//
// # Quick Start
//
// Wrap a handler:
//
//	import "github.com/erraggy/oasgate/httpvalidator"
//
//	mw, err := httpvalidator.Middleware(
//		httpvalidator.WithFilePath("swagger.yaml"),
//		httpvalidator.WithReturnRequestErrors(true),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	log.Fatal(http.ListenAndServe(":8080", mw(mux)))
//
// Requests whose body violates the operation's body parameter schema are
// answered with 400. Responses that violate the schema of their status code
// are replaced with 500.
//
// Check a single body without a server:
//
//	parsed, err := parser.ParseWithOptions(parser.WithFilePath("swagger.yaml"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	v, err := httpvalidator.New(parsed)
//	if err != nil {
//		log.Fatal(err)
//	}
//	check, err := v.CheckRequestBody("POST", "/v2/pet", body)
//
// # Command-Line Tool
//
// The oasgate command exposes the same functionality:
//
//	oasgate routes swagger.yaml
//	oasgate check swagger.yaml -X POST --url /v2/pet --body pet.json
//	oasgate proxy --spec swagger.yaml --target http://localhost:9000
//
// See cmd/oasgate for details.
package oasgate
