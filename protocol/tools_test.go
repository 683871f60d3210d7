package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallToolResultUnmarshal(t *testing.T) {
	// Mixed content with an unknown part type, which is skipped
	data := []byte(`{
		"content": [
			{"type":"text","text":"hello"},
			{"type":"image","data":"aGk=","mimeType":"image/png"},
			{"type":"hologram","wat":true},
			{"type":"resource","resource":{"uri":"doc://x","text":"body"}}
		]
	}`)

	var result CallToolResult
	require.NoError(t, json.Unmarshal(data, &result))
	require.Len(t, result.Content, 3)
	assert.False(t, result.IsError)

	text, ok := result.Content[0].(TextContent)
	require.True(t, ok)
	assert.Equal(t, "hello", text.Text)

	img, ok := result.Content[1].(ImageContent)
	require.True(t, ok)
	assert.Equal(t, "image/png", img.MIMEType)

	_, ok = result.Content[2].(EmbeddedResourceContent)
	assert.True(t, ok)
}

func TestCallToolResultIsError(t *testing.T) {
	data := []byte(`{"content":[{"type":"text","text":"crate not found"}],"isError":true}`)

	var result CallToolResult
	require.NoError(t, json.Unmarshal(data, &result))
	assert.True(t, result.IsError)

	text, err := result.FirstText()
	require.NoError(t, err)
	assert.Equal(t, "crate not found", text)
}

func TestFirstText(t *testing.T) {
	// First textual part wins even when preceded by non-text parts
	result := CallToolResult{
		Content: []Content{
			ImageContent{Type: "image", Data: "aGk=", MIMEType: "image/png"},
			NewTextContent("first"),
			NewTextContent("second"),
		},
	}
	text, err := result.FirstText()
	require.NoError(t, err)
	assert.Equal(t, "first", text)

	// No textual part at all
	result = CallToolResult{
		Content: []Content{
			ImageContent{Type: "image", Data: "aGk=", MIMEType: "image/png"},
		},
	}
	_, err = result.FirstText()
	assert.ErrorIs(t, err, ErrNoTextContent)

	// Empty result
	result = CallToolResult{}
	_, err = result.FirstText()
	assert.ErrorIs(t, err, ErrNoTextContent)
}

func TestCallToolRequestParamsSerialization(t *testing.T) {
	params := CallToolRequestParams{
		Name: "fetch_document",
		Arguments: map[string]interface{}{
			"crate_name": "rand",
			"version":    "0.9.0",
			"path":       "rand",
		},
	}

	data, err := json.Marshal(params)
	require.NoError(t, err)

	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.Equal(t, "fetch_document", parsed["name"])
	args, ok := parsed["arguments"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "rand", args["crate_name"])
	_, hasMeta := parsed["_meta"]
	assert.False(t, hasMeta)
}

func TestToolUnmarshal(t *testing.T) {
	data := []byte(`{
		"name": "fetch_document",
		"description": "Fetch documentation for a crate path",
		"inputSchema": {
			"type": "object",
			"properties": {
				"crate_name": {"type":"string","description":"crate to look up"},
				"version": {"type":"string"}
			},
			"required": ["crate_name"]
		}
	}`)

	var tool Tool
	require.NoError(t, json.Unmarshal(data, &tool))
	assert.Equal(t, "fetch_document", tool.Name)
	assert.Equal(t, "object", tool.InputSchema.Type)
	require.Contains(t, tool.InputSchema.Properties, "crate_name")
	assert.Equal(t, "string", tool.InputSchema.Properties["crate_name"].Type)
	assert.Equal(t, []string{"crate_name"}, tool.InputSchema.Required)
}
