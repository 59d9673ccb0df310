package httpvalidator

import (
	"bytes"
	"context"
	"io"
	"mime"
	"net/http"

	"github.com/erraggy/oasgate/parser"
)

// BodyParser turns a request body into the value that is validated.
// It must leave r.Body readable for the downstream handler.
type BodyParser func(r *http.Request) (any, error)

// JSONBodyParser is the default BodyParser. It reads the whole body, puts
// an equivalent reader back on r.Body and decodes one JSON value.
//
// Bodies that are empty, or whose Content-Type is set to something other
// than JSON, yield an empty object so that required-property checks still
// apply. A charset parameter is honoured.
func JSONBodyParser(r *http.Request) (any, error) {
	return parseJSONBody(r, parser.NopLogger{})
}

func parseJSONBody(r *http.Request, logger parser.Logger) (any, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return map[string]any{}, nil
	}
	data, err := io.ReadAll(r.Body)
	_ = r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	var charset string
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mediaType, params, perr := mime.ParseMediaType(ct)
		if perr != nil || !isJSONMediaType(mediaType) {
			return map[string]any{}, nil
		}
		charset = params["charset"]
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]any{}, nil
	}
	return decodeJSON(decodeText(data, charset, logger))
}

type ctxKeyBody struct{}

// contextWithBody attaches the parsed request body to ctx.
func contextWithBody(ctx context.Context, body any) context.Context {
	return context.WithValue(ctx, ctxKeyBody{}, body)
}

// BodyFromContext returns the request body parsed by the middleware. It is
// set only for requests whose body was validated.
func BodyFromContext(ctx context.Context) (any, bool) {
	v := ctx.Value(ctxKeyBody{})
	return v, v != nil
}
