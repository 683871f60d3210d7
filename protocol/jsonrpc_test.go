package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONRPCRequestSerialization(t *testing.T) {
	// Basic request with params
	req := NewRequest(7, "tools/call", map[string]interface{}{"name": "echo"})

	data, err := json.Marshal(req)
	require.NoError(t, err)

	var parsed map[string]interface{}
	err = json.Unmarshal(data, &parsed)
	require.NoError(t, err)

	assert.Equal(t, "2.0", parsed["jsonrpc"])
	assert.Equal(t, float64(7), parsed["id"]) // JSON numbers are float64
	assert.Equal(t, "tools/call", parsed["method"])
	assert.NotNil(t, parsed["params"])

	// Request without params omits the field entirely
	req2 := NewRequest(8, "ping", nil)
	data2, err := json.Marshal(req2)
	require.NoError(t, err)

	var parsed2 map[string]interface{}
	err = json.Unmarshal(data2, &parsed2)
	require.NoError(t, err)
	_, hasParams := parsed2["params"]
	assert.False(t, hasParams, "params field should be omitted when nil")
}

func TestJSONRPCNotificationSerialization(t *testing.T) {
	notif, err := NewNotification(MethodNotifyInitialized, nil)
	require.NoError(t, err)

	data, err := json.Marshal(notif)
	require.NoError(t, err)

	var parsed map[string]interface{}
	err = json.Unmarshal(data, &parsed)
	require.NoError(t, err)

	assert.Equal(t, "2.0", parsed["jsonrpc"])
	assert.Equal(t, MethodNotifyInitialized, parsed["method"])
	_, hasID := parsed["id"]
	assert.False(t, hasID, "notifications must not carry an id")
}

func TestParseMessageClassification(t *testing.T) {
	tests := []struct {
		name  string
		frame string
		kind  MessageKind
	}{
		{
			name:  "request has id and method",
			frame: `{"jsonrpc":"2.0","id":1,"method":"sampling/createMessage","params":{}}`,
			kind:  KindRequest,
		},
		{
			name:  "response has id and result",
			frame: `{"jsonrpc":"2.0","id":2,"result":{"tools":[]}}`,
			kind:  KindResponse,
		},
		{
			name:  "error response has id and error",
			frame: `{"jsonrpc":"2.0","id":3,"error":{"code":-32601,"message":"method not found"}}`,
			kind:  KindResponse,
		},
		{
			name:  "notification has method but no id",
			frame: `{"jsonrpc":"2.0","method":"notifications/progress","params":{"progress":5}}`,
			kind:  KindNotification,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := ParseMessage([]byte(tt.frame))
			require.NoError(t, err)
			assert.Equal(t, tt.kind, msg.Kind)

			switch tt.kind {
			case KindRequest:
				require.NotNil(t, msg.Request)
				assert.NotEmpty(t, msg.Request.Method)
			case KindResponse:
				require.NotNil(t, msg.Response)
				assert.True(t, msg.Response.Result != nil || msg.Response.Error != nil)
			case KindNotification:
				require.NotNil(t, msg.Notification)
				assert.NotEmpty(t, msg.Notification.Method)
			}
		})
	}
}

func TestParseMessageResponseFields(t *testing.T) {
	msg, err := ParseMessage([]byte(`{"jsonrpc":"2.0","id":42,"error":{"code":-32602,"message":"bad params"}}`))
	require.NoError(t, err)
	require.Equal(t, KindResponse, msg.Kind)
	assert.Equal(t, int64(42), msg.Response.ID)
	require.NotNil(t, msg.Response.Error)
	assert.Equal(t, CodeInvalidParams, msg.Response.Error.Code)
	assert.Equal(t, "bad params", msg.Response.Error.Message)
}

func TestParseMessageRejectsMalformedFrames(t *testing.T) {
	// Not JSON at all
	_, err := ParseMessage([]byte("not json"))
	assert.Error(t, err)

	// Valid JSON but no recognizable envelope shape
	_, err = ParseMessage([]byte(`{"jsonrpc":"2.0"}`))
	assert.Error(t, err)

	// An id with neither result nor error is not a valid response
	_, err = ParseMessage([]byte(`{"jsonrpc":"2.0","id":1}`))
	assert.Error(t, err)
}

func TestUnmarshalPayload(t *testing.T) {
	var result InitializeResult
	payload := json.RawMessage(`{"protocolVersion":"2024-11-05","capabilities":{},"serverInfo":{"name":"srv","version":"1.0"}}`)
	require.NoError(t, UnmarshalPayload(payload, &result))
	assert.Equal(t, "2024-11-05", result.ProtocolVersion)
	assert.Equal(t, "srv", result.ServerInfo.Name)

	// Empty and null payloads are rejected rather than silently zeroed
	assert.Error(t, UnmarshalPayload(nil, &result))
	assert.Error(t, UnmarshalPayload(json.RawMessage("null"), &result))
}
