// Package protocol defines the structures and constants for the Model Context Protocol (MCP).
package protocol

import (
	"encoding/json"
	"fmt"
)

// --- Resource Access Structures ---

// Resource is an immutable descriptor of a piece of context available from the server.
type Resource struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MIMEType    string `json:"mimeType,omitempty"`
	Size        *int64 `json:"size,omitempty"`
}

// ListResourcesRequestParams defines parameters for 'resources/list'.
type ListResourcesRequestParams struct {
	Cursor string `json:"cursor,omitempty"`
}

// ListResourcesResult defines the result for 'resources/list'.
type ListResourcesResult struct {
	Resources  []Resource `json:"resources"`
	NextCursor string     `json:"nextCursor,omitempty"`
}

// ResourceContents defines the interface for the typed contents of a read resource.
type ResourceContents interface {
	GetURI() string
}

// TextResourceContents holds text-based resource content.
type TextResourceContents struct {
	URI      string `json:"uri"`
	MIMEType string `json:"mimeType,omitempty"`
	Text     string `json:"text"`
}

func (trc TextResourceContents) GetURI() string { return trc.URI }

// BlobResourceContents holds binary resource content (base64 encoded).
type BlobResourceContents struct {
	URI      string `json:"uri"`
	MIMEType string `json:"mimeType,omitempty"`
	Blob     string `json:"blob"`
}

func (brc BlobResourceContents) GetURI() string { return brc.URI }

// ReadResourceRequestParams defines parameters for 'resources/read'.
type ReadResourceRequestParams struct {
	URI string `json:"uri"`
}

// ReadResourceResult defines the result for 'resources/read'.
type ReadResourceResult struct {
	Contents []ResourceContents `json:"contents"`
}

// UnmarshalJSON implements custom unmarshalling for ReadResourceResult to
// handle the Contents interface slice. Text is tried before blob because a
// text part never carries a 'blob' field.
func (r *ReadResourceResult) UnmarshalJSON(data []byte) error {
	type Alias ReadResourceResult
	aux := &struct {
		Contents []json.RawMessage `json:"contents"`
		*Alias
	}{
		Alias: (*Alias)(r),
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return fmt.Errorf("failed to unmarshal base ReadResourceResult: %w", err)
	}
	r.Contents = make([]ResourceContents, 0, len(aux.Contents))
	for _, raw := range aux.Contents {
		var probe struct {
			Text *string `json:"text"`
			Blob *string `json:"blob"`
		}
		if err := json.Unmarshal(raw, &probe); err != nil {
			return fmt.Errorf("failed to probe resource contents: %w", err)
		}
		switch {
		case probe.Text != nil:
			var tc TextResourceContents
			if err := json.Unmarshal(raw, &tc); err != nil {
				return fmt.Errorf("failed to unmarshal TextResourceContents: %w", err)
			}
			r.Contents = append(r.Contents, tc)
		case probe.Blob != nil:
			var bc BlobResourceContents
			if err := json.Unmarshal(raw, &bc); err != nil {
				return fmt.Errorf("failed to unmarshal BlobResourceContents: %w", err)
			}
			r.Contents = append(r.Contents, bc)
		default:
			// Unknown contents shape, skip it.
			continue
		}
	}
	return nil
}
