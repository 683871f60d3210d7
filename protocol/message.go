package protocol

import (
	"encoding/json"
	"fmt"
)

// MessageKind discriminates the three message shapes of the protocol envelope.
type MessageKind int

const (
	KindRequest MessageKind = iota
	KindResponse
	KindNotification
)

// Message is the tagged union of the three envelope shapes. Exactly one of
// Request, Response, or Notification is non-nil, matching Kind.
type Message struct {
	Kind         MessageKind
	Request      *JSONRPCRequest
	Response     *JSONRPCResponse
	Notification *JSONRPCNotification
}

// rawEnvelope is the lenient probe used to classify an incoming frame.
// Presence of 'id' with 'method' marks a request, 'id' without 'method'
// marks a response, and absence of 'id' marks a notification.
type rawEnvelope struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
	Result  json.RawMessage `json:"result"`
	Error   *ErrorPayload   `json:"error"`
}

// ParseMessage classifies one decoded frame into a Message.
// A frame that is not valid JSON, or that fits none of the three envelope
// shapes, yields an error; the caller treats that as a framing violation.
func ParseMessage(data []byte) (*Message, error) {
	var env rawEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("invalid JSON frame: %w", err)
	}

	hasID := len(env.ID) > 0 && string(env.ID) != "null"

	switch {
	case hasID && env.Method != "":
		return &Message{
			Kind: KindRequest,
			Request: &JSONRPCRequest{
				JSONRPC: env.JSONRPC,
				ID:      decodeID(env.ID),
				Method:  env.Method,
				Params:  env.Params,
			},
		}, nil
	case hasID:
		if env.Result == nil && env.Error == nil {
			return nil, fmt.Errorf("response frame carries neither result nor error")
		}
		return &Message{
			Kind: KindResponse,
			Response: &JSONRPCResponse{
				JSONRPC: env.JSONRPC,
				ID:      decodeID(env.ID),
				Result:  env.Result,
				Error:   env.Error,
			},
		}, nil
	case env.Method != "":
		return &Message{
			Kind: KindNotification,
			Notification: &JSONRPCNotification{
				JSONRPC: env.JSONRPC,
				Method:  env.Method,
				Params:  env.Params,
			},
		}, nil
	default:
		return nil, fmt.Errorf("frame is neither request, response, nor notification")
	}
}

// decodeID parses a numeric JSON-RPC id. This client only issues integer
// ids, so anything else decodes to zero and is later discarded as a stray.
func decodeID(raw json.RawMessage) int64 {
	var num json.Number
	if err := json.Unmarshal(raw, &num); err != nil {
		return 0
	}
	id, err := num.Int64()
	if err != nil {
		return 0
	}
	return id
}
