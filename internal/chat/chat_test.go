package chat

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatRequestWireFormat(t *testing.T) {
	body, err := json.Marshal(ChatRequest{SessionID: "user_42", Query: "Hello"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"session_id":"user_42","query":"Hello"}`, string(body))
}

func TestChatResponseText(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "string", body: `{"response":"hi there"}`, want: "hi there"},
		{name: "missing field", body: `{"detail":"not found"}`, want: "undefined"},
		{name: "number", body: `{"response":42}`, want: "42"},
		{name: "object", body: `{"response":{"a":1}}`, want: `{"a":1}`},
		{name: "null", body: `{"response":null}`, want: "null"},
		{name: "empty string", body: `{"response":""}`, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp ChatResponse
			require.NoError(t, json.Unmarshal([]byte(tt.body), &resp))
			assert.Equal(t, tt.want, resp.Text())
		})
	}
}

func TestNilResponseIsUndefined(t *testing.T) {
	var resp *ChatResponse
	assert.Equal(t, "undefined", resp.Text())
}

func TestMessageString(t *testing.T) {
	assert.Equal(t, "You: Hello", Message{Role: RoleUser, Content: "Hello"}.String())
	assert.Equal(t, "World", NewResponse("World").Text())
}
