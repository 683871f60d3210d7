// Package protocol defines the structures and constants for the Model Context Protocol (MCP).
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNoTextContent is returned by CallToolResult.FirstText when a result
// carries no textual content part.
var ErrNoTextContent = errors.New("tool result contains no text content")

// --- Tooling Structures and Messages ---

// ToolInputSchema defines the expected input structure for a tool (JSON Schema subset).
type ToolInputSchema struct {
	Type       string                    `json:"type"` // Typically "object"
	Properties map[string]PropertyDetail `json:"properties,omitempty"`
	Required   []string                  `json:"required,omitempty"`
}

// PropertyDetail describes a single parameter within a ToolInputSchema.
type PropertyDetail struct {
	Type        string        `json:"type"`
	Description string        `json:"description,omitempty"`
	Enum        []interface{} `json:"enum,omitempty"`
	Format      string        `json:"format,omitempty"`
}

// Tool is an immutable descriptor of a tool offered by the server.
type Tool struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	InputSchema ToolInputSchema `json:"inputSchema"`
}

// ListToolsRequestParams defines the parameters for a 'tools/list' request.
type ListToolsRequestParams struct {
	Cursor string `json:"cursor,omitempty"`
}

// ListToolsResult defines the result payload for a successful 'tools/list' response.
type ListToolsResult struct {
	Tools      []Tool `json:"tools"`
	NextCursor string `json:"nextCursor,omitempty"`
}

// CallToolRequestParams defines the parameters for a 'tools/call' request.
type CallToolRequestParams struct {
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments,omitempty"`
	Meta      *RequestMeta           `json:"_meta,omitempty"`
}

// RequestMeta contains metadata associated with a request, like a progress token.
type RequestMeta struct {
	ProgressToken string `json:"progressToken,omitempty"`
}

// CallToolResult defines the result payload for a 'tools/call' response:
// an ordered sequence of typed content parts, plus the server's in-band
// tool failure flag.
type CallToolResult struct {
	Content []Content `json:"content"`
	IsError bool      `json:"isError,omitempty"`
}

// UnmarshalJSON implements custom unmarshalling for CallToolResult to handle
// the Content interface slice. Content parts of unknown type are skipped.
func (r *CallToolResult) UnmarshalJSON(data []byte) error {
	type Alias CallToolResult
	aux := &struct {
		Content []json.RawMessage `json:"content"`
		*Alias
	}{
		Alias: (*Alias)(r),
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return fmt.Errorf("failed to unmarshal base CallToolResult: %w", err)
	}
	r.Content = make([]Content, 0, len(aux.Content))
	for _, raw := range aux.Content {
		part, err := decodeContent(raw)
		if err != nil {
			return fmt.Errorf("failed to unmarshal tool result content: %w", err)
		}
		if part == nil {
			continue
		}
		r.Content = append(r.Content, part)
	}
	return nil
}

// FirstText returns the text of the first textual content part.
// A result with no textual part returns ErrNoTextContent; callers that can
// handle non-textual results should walk Content directly instead.
func (r *CallToolResult) FirstText() (string, error) {
	for _, part := range r.Content {
		if tc, ok := part.(TextContent); ok {
			return tc.Text, nil
		}
	}
	return "", ErrNoTextContent
}
