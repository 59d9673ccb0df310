// Package httpvalidator is net/http middleware that validates JSON request
// and response bodies against a Swagger 2.0 document.
//
// # Features
//
//   - Route matching on the document's path templates, basePath aware
//   - Request body validation against the operation's "in: body" parameter
//   - Response body validation against the schema declared for the status
//   - x-nullable support and definitions merging for "$ref" schemas
//   - Rejection or callback on failure, configurable per direction
//   - Pluggable schema engines (santhosh-tekuri/jsonschema by default)
//
// # Basic Usage
//
//	parsed, _ := parser.ParseWithOptions(parser.WithFilePath("swagger.yaml"))
//	v, err := httpvalidator.New(parsed)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	http.ListenAndServe(":8080", v.Middleware(mux))
//
// Or in one step:
//
//	mw, err := httpvalidator.Middleware(
//	    httpvalidator.WithFilePath("swagger.yaml"),
//	    httpvalidator.WithReturnRequestErrors(true),
//	)
//
// # Request Flow
//
// A request whose path matches no template passes through untouched. For a
// matched route, the request body is decoded (see JSONBodyParser) and
// validated. An invalid request is answered with 400 and never reaches the
// handler, unless WithRequestValidationFunc is set. The decoded body is
// available downstream through BodyFromContext.
//
// If the route declares the request's method, the handler's response is
// buffered in full. Once the handler returns, the body is validated against
// the schema for the recorded status. A valid response is sent unchanged;
// an invalid one is replaced with a 500 rejection, unless
// WithResponseValidationFunc is set. Buffering is unbounded.
//
// Responses to HEAD, 1xx, 204 and 304 responses, and binary payloads are
// never examined. Hijacked connections and cancelled requests are left
// alone.
//
// # Rejections
//
// The default error handler writes:
//
//	{"message": "Request schema validation failed for POST /pet",
//	 "errors": [{"message": "missing property 'photoUrls'", "path": "$"}]}
//
// "errors" is present only with WithReturnRequestErrors or
// WithReturnResponseErrors. Use WithErrorHandler to write something else;
// the handler receives a *Rejection which unwraps to a
// *oaserrors.ValidationError.
//
// # Related Packages
//
//   - [github.com/erraggy/oasgate/parser] - Parse Swagger 2.0 documents
//   - [github.com/erraggy/oasgate/engine] - The default schema engine
//   - [github.com/erraggy/oasgate/oaserrors] - Error types
package httpvalidator
