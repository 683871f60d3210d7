// Package protocol defines the structures and constants for the Model Context Protocol (MCP).
package protocol

import (
	"encoding/json"
	"fmt"
)

// --- Initialization Sequence Structures ---

// Implementation describes the name and version of an MCP implementation (client or server).
type Implementation struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// ClientCapabilities describes features the client supports.
type ClientCapabilities struct {
	Experimental map[string]interface{} `json:"experimental,omitempty"`
	Roots        *struct {
		ListChanged bool `json:"listChanged,omitempty"`
	} `json:"roots,omitempty"`
	Sampling *struct{} `json:"sampling,omitempty"`
}

// ServerCapabilities describes features the server supports.
type ServerCapabilities struct {
	Experimental map[string]interface{} `json:"experimental,omitempty"`
	Logging      *struct{}              `json:"logging,omitempty"`
	Prompts      *struct {
		ListChanged bool `json:"listChanged,omitempty"`
	} `json:"prompts,omitempty"`
	Resources *struct {
		Subscribe   bool `json:"subscribe,omitempty"`
		ListChanged bool `json:"listChanged,omitempty"`
	} `json:"resources,omitempty"`
	Tools *struct {
		ListChanged bool `json:"listChanged,omitempty"`
	} `json:"tools,omitempty"`
}

// InitializeRequestParams defines the parameters for the 'initialize' request.
type InitializeRequestParams struct {
	ProtocolVersion string             `json:"protocolVersion"`
	Capabilities    ClientCapabilities `json:"capabilities"`
	ClientInfo      Implementation     `json:"clientInfo"`
}

// InitializeResult defines the result payload for a successful 'initialize' response.
type InitializeResult struct {
	ProtocolVersion string             `json:"protocolVersion"`
	Capabilities    ServerCapabilities `json:"capabilities"`
	ServerInfo      Implementation     `json:"serverInfo"`
	Instructions    string             `json:"instructions,omitempty"`
}

// --- Content Structures ---

// Content defines the interface for the typed parts of a tool or prompt result.
type Content interface {
	GetType() string
}

// ContentAnnotations defines optional metadata for content parts.
type ContentAnnotations struct {
	Audience []string `json:"audience,omitempty"`
	Priority *float64 `json:"priority,omitempty"`
}

// TextContent represents textual content.
type TextContent struct {
	Type        string              `json:"type"` // Should always be "text"
	Text        string              `json:"text"`
	Annotations *ContentAnnotations `json:"annotations,omitempty"`
}

func (tc TextContent) GetType() string { return tc.Type }

// NewTextContent builds a text content part.
func NewTextContent(text string) TextContent {
	return TextContent{Type: "text", Text: text}
}

// ImageContent represents binary image content (base64 encoded).
type ImageContent struct {
	Type        string              `json:"type"` // Should always be "image"
	Data        string              `json:"data"`
	MIMEType    string              `json:"mimeType"`
	Annotations *ContentAnnotations `json:"annotations,omitempty"`
}

func (ic ImageContent) GetType() string { return ic.Type }

// AudioContent represents binary audio content (base64 encoded).
type AudioContent struct {
	Type        string              `json:"type"` // Should always be "audio"
	Data        string              `json:"data"`
	MIMEType    string              `json:"mimeType"`
	Annotations *ContentAnnotations `json:"annotations,omitempty"`
}

func (ac AudioContent) GetType() string { return ac.Type }

// EmbeddedResourceContent represents structured content embedding a resource.
type EmbeddedResourceContent struct {
	Type        string              `json:"type"` // Should always be "resource"
	Resource    json.RawMessage     `json:"resource"`
	Annotations *ContentAnnotations `json:"annotations,omitempty"`
}

func (erc EmbeddedResourceContent) GetType() string { return erc.Type }

// decodeContent unmarshals one raw content part into its concrete variant.
// Unknown types are returned as (nil, nil) so callers can skip them without
// failing the whole result.
func decodeContent(raw json.RawMessage) (Content, error) {
	var typeDetect struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &typeDetect); err != nil {
		return nil, fmt.Errorf("failed to detect content type: %w", err)
	}
	switch typeDetect.Type {
	case "text":
		var tc TextContent
		if err := json.Unmarshal(raw, &tc); err != nil {
			return nil, fmt.Errorf("failed to unmarshal TextContent: %w", err)
		}
		return tc, nil
	case "image":
		var ic ImageContent
		if err := json.Unmarshal(raw, &ic); err != nil {
			return nil, fmt.Errorf("failed to unmarshal ImageContent: %w", err)
		}
		return ic, nil
	case "audio":
		var ac AudioContent
		if err := json.Unmarshal(raw, &ac); err != nil {
			return nil, fmt.Errorf("failed to unmarshal AudioContent: %w", err)
		}
		return ac, nil
	case "resource":
		var erc EmbeddedResourceContent
		if err := json.Unmarshal(raw, &erc); err != nil {
			return nil, fmt.Errorf("failed to unmarshal EmbeddedResourceContent: %w", err)
		}
		return erc, nil
	default:
		return nil, nil
	}
}
