package httpvalidator_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/erraggy/oasgate/httpvalidator"
	"github.com/erraggy/oasgate/parser"
)

const exampleSpec = `
swagger: "2.0"
info:
  title: Pet Store
  version: "1.0"
paths:
  /pets:
    post:
      parameters:
        - name: pet
          in: body
          schema:
            type: object
            required: [name]
            properties:
              name: {type: string}
      responses:
        "201":
          description: created
          schema:
            type: object
            required: [id]
            properties:
              id: {type: integer}
`

func ExampleValidator_Middleware() {
	parsed, err := parser.ParseWithOptions(parser.WithBytes([]byte(exampleSpec)))
	if err != nil {
		fmt.Println("Parse error:", err)
		return
	}

	v, err := httpvalidator.New(parsed, httpvalidator.WithReturnRequestErrors(true))
	if err != nil {
		fmt.Println("Validator error:", err)
		return
	}

	api := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id": 1}`)
	})
	h := v.Middleware(api)

	for _, body := range []string{`{"name": "rex"}`, `{"nick": "rex"}`} {
		req := httptest.NewRequest(http.MethodPost, "/pets", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		fmt.Println(rec.Code, rec.Body.String())
	}
	// Output:
	// 201 {"id": 1}
	// 400 {"message":"Request schema validation failed for POST /pets","errors":[{"message":"missing property 'name'","path":"$"}]}
}

func ExampleMiddleware() {
	mw, err := httpvalidator.Middleware(
		httpvalidator.WithFilePath("../testdata/basic.json"),
		httpvalidator.WithValidateRequest(false),
	)
	if err != nil {
		fmt.Println("Middleware error:", err)
		return
	}

	h := mw(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"healthy": true}`)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))
	fmt.Println(rec.Code, rec.Body.String())
	// Output:
	// 500 {"message":"Response schema validation failed for GET /status"}
}

func ExampleBodyFromContext() {
	parsed, _ := parser.ParseWithOptions(parser.WithBytes([]byte(exampleSpec)))
	v, _ := httpvalidator.New(parsed, httpvalidator.WithValidateResponse(false))

	h := v.Middleware(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		body, _ := httpvalidator.BodyFromContext(r.Context())
		fmt.Println(body.(map[string]any)["name"])
	}))

	req := httptest.NewRequest(http.MethodPost, "/pets", strings.NewReader(`{"name": "rex"}`))
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(httptest.NewRecorder(), req)
	// Output: rex
}
