package httpvalidator

import (
	"net/http"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oasgate/parser"
)

func TestClassifyPayload(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		mediaType   string
		charset     string
		binary      bool
	}{
		{"json", "application/json", `{}`, "application/json", "", false},
		{"json with charset", "application/json; charset=ISO-8859-1", `{}`, "application/json", "ISO-8859-1", false},
		{"vendor json", "application/vnd.api+json", `{}`, "application/vnd.api+json", "", false},
		{"text", "text/plain", `hi`, "text/plain", "", false},
		{"xml", "application/xml", `<a/>`, "application/xml", "", false},
		{"form", "application/x-www-form-urlencoded", `a=b`, "application/x-www-form-urlencoded", "", false},
		{"image", "image/png", "\x89PNG", "image/png", "", true},
		{"octet stream", "application/octet-stream", "\x00\x01", "application/octet-stream", "", true},
		{"sniffed text", "", `{"a":1}`, "text/plain", "utf-8", false},
		{"sniffed binary", "", "\x00\x01\x02", "application/octet-stream", "", true},
		{"unparseable", "Application/JSON;;", `{}`, "application/json", "", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := http.Header{}
			if tc.contentType != "" {
				h.Set("Content-Type", tc.contentType)
			}
			info := classifyPayload(h, []byte(tc.body))
			assert.Equal(t, tc.mediaType, info.mediaType)
			assert.Equal(t, tc.charset, info.charset)
			assert.Equal(t, tc.binary, info.binary)
		})
	}
}

func TestDecodeText(t *testing.T) {
	t.Run("utf-8 unchanged", func(t *testing.T) {
		in := []byte(`{"a":"é"}`)
		assert.Equal(t, in, decodeText(in, "UTF-8", parser.NopLogger{}))
	})

	t.Run("latin-1", func(t *testing.T) {
		in := []byte("{\"name\":\"caf\xe9\"}")
		assert.Equal(t, `{"name":"café"}`, string(decodeText(in, "iso-8859-1", parser.NopLogger{})))
	})

	t.Run("unknown charset falls back", func(t *testing.T) {
		in := []byte(`{"a":1}`)
		assert.Equal(t, in, decodeText(in, "x-klingon", parser.NopLogger{}))
	})
}

func TestDecodeJSON(t *testing.T) {
	t.Run("object keeps numbers exact", func(t *testing.T) {
		v, err := decodeJSON([]byte(`{"id": 9007199254740993}`))
		require.NoError(t, err)
		m, ok := v.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, json.Number("9007199254740993"), m["id"])
	})

	t.Run("primitives allowed", func(t *testing.T) {
		v, err := decodeJSON([]byte(`"ok"`))
		require.NoError(t, err)
		assert.Equal(t, "ok", v)
	})

	t.Run("byte order mark", func(t *testing.T) {
		v, err := decodeJSON([]byte("\xef\xbb\xbf[1]"))
		require.NoError(t, err)
		assert.Len(t, v, 1)
	})

	errCases := map[string]string{
		"empty":          ``,
		"plain text":     `OK`,
		"truncated":      `{"a":`,
		"trailing value": `{} {}`,
	}
	for name, body := range errCases {
		t.Run(name, func(t *testing.T) {
			_, err := decodeJSON([]byte(body))
			assert.Error(t, err)
		})
	}
}

func TestCloneValue(t *testing.T) {
	orig := map[string]any{
		"list": []any{map[string]any{"a": "b"}},
		"n":    json.Number("1"),
	}
	clone := cloneValue(orig).(map[string]any)
	clone["list"].([]any)[0].(map[string]any)["a"] = "changed"
	clone["extra"] = true

	assert.Equal(t, "b", orig["list"].([]any)[0].(map[string]any)["a"])
	assert.NotContains(t, orig, "extra")
	assert.Equal(t, json.Number("1"), clone["n"])
}
