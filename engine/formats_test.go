package engine

import (
	"encoding/json"
	"testing"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/stretchr/testify/assert"
)

func TestIntFormats(t *testing.T) {
	int32Fmt := intFormat(32)
	int64Fmt := intFormat(64)

	tests := []struct {
		name  string
		value any
		ok32  bool
		ok64  bool
	}{
		{"string literal", "42", true, true},
		{"signed string", "-7", true, true},
		{"plus string", "+7", true, true},
		{"decimal string", "4.2", false, false},
		{"word", "forty", false, false},
		{"empty string", "", false, false},
		{"number in range", json.Number("2147483647"), true, true},
		{"number over int32", json.Number("2147483648"), false, true},
		{"number over int64", json.Number("9223372036854775808"), false, false},
		{"non-integral number", json.Number("1.5"), true, true},
		{"float over int32", float64(1 << 40), false, true},
		{"bool ignored", true, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.ok32, int32Fmt(tt.value) == nil, "int32")
			assert.Equal(t, tt.ok64, int64Fmt(tt.value) == nil, "int64")
		})
	}
}

func TestURLFormat(t *testing.T) {
	valid := []any{
		"https://catphoto.com/best-cat",
		"http://example.com:8080/a?b=c",
		"ftp://files.example.org/x",
		"example.com/path",
		"example.com:8080/path",
		"example.com:443",
		"http://127.0.0.1/",
		42,
	}
	for _, v := range valid {
		assert.NoError(t, validateURL(v), "%v", v)
	}

	invalid := []string{
		"",
		"not a url",
		"mailto:someone@example.com",
		"javascript:alert@evil.com",
		"http:example.com",
		"file:///etc/passwd",
		"http://",
		"http://localhost/",
	}
	for _, v := range invalid {
		assert.Error(t, validateURL(v), v)
	}
}

func TestMergeFormats(t *testing.T) {
	custom := &jsonschema.Format{Name: "int32", Validate: func(any) error { return nil }}
	extra := &jsonschema.Format{Name: "ssn", Validate: func(any) error { return nil }}

	got := mergeFormats(DefaultFormats(), []*jsonschema.Format{custom, nil, extra})
	names := make([]string, len(got))
	for i, f := range got {
		names[i] = f.Name
	}
	assert.Equal(t, []string{"int32", "int64", "url", "ssn"}, names)
	assert.Same(t, custom, got[0])
}
