package models

import (
	"encoding/json"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageContent_Kinds(t *testing.T) {
	var absent MessageContent
	assert.True(t, absent.IsAbsent())
	assert.False(t, absent.IsStructured())

	text, ok := TextContent("hi").Text()
	assert.True(t, ok)
	assert.Equal(t, "hi", text)

	parts := PartsContent()
	assert.True(t, parts.IsStructured())
	assert.NotNil(t, parts.Parts())
	assert.Empty(t, parts.Parts())
	assert.Nil(t, TextContent("x").Parts())

	raw, ok := RawContent(json.RawMessage(`{"a":1}`)).Raw()
	assert.True(t, ok)
	assert.Equal(t, `{"a":1}`, string(raw))
}

func TestMessage_MarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		msg  Message
		want string
	}{
		{
			name: "text",
			msg:  Message{Role: "user", Name: "ada", Content: TextContent("hi")},
			want: `{"content":"hi","name":"ada","role":"user"}`,
		},
		{
			name: "absent content",
			msg:  Message{Role: "tool", Extra: map[string]any{"tool_call_id": "c1"}},
			want: `{"role":"tool","tool_call_id":"c1"}`,
		},
		{
			name: "raw content",
			msg:  Message{Role: "assistant", Content: RawContent(json.RawMessage(`null`))},
			want: `{"content":null,"role":"assistant"}`,
		},
		{
			name: "no role",
			msg:  Message{Content: TextContent("no role")},
			want: `{"content":"no role"}`,
		},
		{
			name: "empty role kept in extra",
			msg:  Message{Content: TextContent("x"), Extra: map[string]any{"role": ""}},
			want: `{"content":"x","role":""}`,
		},
		{
			name: "parts",
			msg: Message{Role: "user", Content: PartsContent(
				ContentPart{Type: "text", Text: "a", CacheControl: &CacheControl{Type: "ephemeral"}},
				ContentPart{Type: "image_url", Extra: map[string]any{"image_url": map[string]any{"url": "u"}}},
			)},
			want: `{"content":[{"cache_control":{"type":"ephemeral"},"text":"a","type":"text"},{"image_url":{"url":"u"},"type":"image_url"}],"role":"user"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.msg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(data))
		})
	}
}

func TestContentPart_ExtraTypeWins(t *testing.T) {
	data, err := json.Marshal(ContentPart{Text: "x", Extra: map[string]any{"type": 7}})
	require.NoError(t, err)
	assert.Equal(t, `{"text":"x","type":7}`, string(data))
}

func TestContentPart_EmptyTextOnlyFromExtra(t *testing.T) {
	data, err := json.Marshal(ContentPart{Type: "text"})
	require.NoError(t, err)
	assert.Equal(t, `{"type":"text"}`, string(data))

	data, err = json.Marshal(ContentPart{Type: "input_text", Extra: map[string]any{"text": ""}})
	require.NoError(t, err)
	assert.Equal(t, `{"text":"","type":"input_text"}`, string(data))
}

func TestTool_MarshalJSON(t *testing.T) {
	raw := json.RawMessage(`{"type":"function","function":{"name":"f","parameters":{"n":12345678901234567890}},"x_extra":1}`)
	data, err := json.Marshal(Tool{Tool: openai.Tool{Type: openai.ToolTypeFunction}, Raw: raw})
	require.NoError(t, err)
	assert.Equal(t, string(raw), string(data))

	data, err = json.Marshal(FunctionTool(openai.FunctionDefinition{Name: "g", Parameters: map[string]any{"type": "object"}}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"function","function":{"name":"g","parameters":{"type":"object"}}}`, string(data))
}

func TestRequestBody_MarshalJSON(t *testing.T) {
	body := RequestBody{
		Model:      "gpt-4o",
		Tools:      []Tool{FunctionTool(openai.FunctionDefinition{Name: "f"})},
		ToolChoice: "auto",
		Params:     map[string]any{"temperature": 1, "model": "shadowed"},
	}

	data, err := json.Marshal(body)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "gpt-4o", decoded["model"])
	assert.Equal(t, []any{}, decoded["messages"])
	assert.Equal(t, "auto", decoded["tool_choice"])
	assert.Equal(t, float64(1), decoded["temperature"])
	assert.Len(t, decoded["tools"], 1)

	body.Tools = nil
	data, err = json.Marshal(body)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "tool_choice")
}

func TestRequestBody_Fingerprint(t *testing.T) {
	a := RequestBody{Model: "m", Params: map[string]any{"a": 1, "b": 2}}
	b := RequestBody{Model: "m", Params: map[string]any{"b": 2, "a": 1}}

	fa, err := a.Fingerprint()
	require.NoError(t, err)
	fb, err := b.Fingerprint()
	require.NoError(t, err)
	assert.Equal(t, fa, fb)

	b.Model = "n"
	fc, err := b.Fingerprint()
	require.NoError(t, err)
	assert.NotEqual(t, fa, fc)
}

func TestToolName(t *testing.T) {
	assert.Equal(t, "", ToolName(Tool{Tool: openai.Tool{Type: openai.ToolTypeFunction}}))
	assert.Equal(t, "f", ToolName(FunctionTool(openai.FunctionDefinition{Name: "f"})))
	assert.True(t, IsReservedParam("tool_choice"))
	assert.False(t, IsReservedParam("temperature"))
}
