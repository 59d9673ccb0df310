package httpvalidator

import (
	"bytes"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/erraggy/oasgate/parser"
)

// malformedMessage is the error reported when a body that should hold a
// JSON value does not.
const malformedMessage = "value expected to be an array/object but is not"

var errTrailingData = errors.New("unexpected data after JSON value")

var utf8BOM = []byte("\xef\xbb\xbf")

// payloadInfo describes a captured body.
type payloadInfo struct {
	mediaType string
	charset   string
	binary    bool
}

// classifyPayload inspects Content-Type (sniffing the body when it is unset)
// and reports whether the payload is text that can hold a JSON value.
func classifyPayload(header http.Header, body []byte) payloadInfo {
	ct := header.Get("Content-Type")
	if ct == "" {
		ct = http.DetectContentType(body)
	}
	mediaType, params, err := mime.ParseMediaType(ct)
	if err != nil {
		mediaType, _, _ = strings.Cut(ct, ";")
		mediaType = strings.ToLower(strings.TrimSpace(mediaType))
	}
	return payloadInfo{
		mediaType: mediaType,
		charset:   params["charset"],
		binary:    !isTextual(mediaType),
	}
}

func isTextual(mediaType string) bool {
	switch {
	case mediaType == "application/json",
		strings.HasSuffix(mediaType, "+json"),
		strings.HasPrefix(mediaType, "text/"),
		mediaType == "application/xml",
		strings.HasSuffix(mediaType, "+xml"),
		mediaType == "application/javascript",
		mediaType == "application/x-www-form-urlencoded":
		return true
	}
	return false
}

// isJSONMediaType reports whether a request Content-Type announces JSON.
func isJSONMediaType(mediaType string) bool {
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

// decodeText converts body from charset to UTF-8. Unknown charsets and
// undecodable input leave the bytes unchanged.
func decodeText(body []byte, charset string, logger parser.Logger) []byte {
	if charset == "" || strings.EqualFold(charset, "utf-8") || strings.EqualFold(charset, "utf8") {
		return body
	}
	enc, err := htmlindex.Get(charset)
	if err != nil {
		logger.Warn("unknown charset, validating raw bytes", "charset", charset)
		return body
	}
	out, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		logger.Warn("charset decoding failed, validating raw bytes", "charset", charset, "error", err)
		return body
	}
	return out
}

// decodeJSON parses exactly one JSON value, keeping numbers as json.Number.
func decodeJSON(data []byte) (any, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, errTrailingData
	}
	return v, nil
}

// cloneValue deep-copies a decoded JSON value. Scalars, including
// json.Number, are immutable and shared.
func cloneValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[k] = cloneValue(e)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}
