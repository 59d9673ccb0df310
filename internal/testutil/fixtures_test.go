package testutil

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v4"
)

func TestFixturesParse(t *testing.T) {
	for _, name := range []string{BasicFixture, PetStoreFixture, RefsFixture} {
		t.Run(name, func(t *testing.T) {
			result := ParseFixture(t, name)
			require.NotNil(t, result.Document)
			assert.Equal(t, "2.0", result.Version)
			assert.NotEmpty(t, result.Document.Paths)
		})
	}
}

func TestPetStoreFixtureShape(t *testing.T) {
	doc := ParseFixture(t, PetStoreFixture).Document
	assert.Equal(t, "/v2", doc.BasePath)
	require.Contains(t, doc.Definitions, "Pet")
	assert.True(t, doc.Definitions["Pet"].Properties["age"].Nullable)
}

func TestWriteTempYAML(t *testing.T) {
	path := WriteTempYAML(t, map[string]any{"swagger": "2.0"})

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, yaml.Unmarshal(data, &got))
	assert.Equal(t, "2.0", got["swagger"])
}

func TestWriteTempJSON(t *testing.T) {
	path := WriteTempJSON(t, map[string]any{"swagger": "2.0"})

	result, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"swagger":"2.0"}`, string(result))
}
