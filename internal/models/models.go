package models

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// Message represents a single conversational message in the unified schema.
type Message struct {
	Role    string
	Name    string
	Content MessageContent
	// Extra holds every other message key (tool_calls, tool_call_id, ...) verbatim.
	Extra map[string]any
}

// MarshalJSON emits the message as a JSON object. Empty Role and Name and
// absent content are omitted; keys held in Extra are written as stored.
func (m Message) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(m.Extra)+3)
	for k, v := range m.Extra {
		out[k] = v
	}
	setString(out, "role", m.Role)
	setString(out, "name", m.Name)
	if !m.Content.IsAbsent() {
		out["content"] = m.Content
	}
	return json.Marshal(out)
}

type contentKind uint8

const (
	contentAbsent contentKind = iota
	contentText
	contentParts
	contentRaw
)

// MessageContent is either plain text, an ordered list of parts, or an
// opaque JSON value that is passed through untouched.
type MessageContent struct {
	kind  contentKind
	text  string
	parts []ContentPart
	raw   json.RawMessage
}

// TextContent wraps a plain string body.
func TextContent(text string) MessageContent {
	return MessageContent{kind: contentText, text: text}
}

// PartsContent wraps structured content. A nil list is kept as an empty list.
func PartsContent(parts ...ContentPart) MessageContent {
	if parts == nil {
		parts = []ContentPart{}
	}
	return MessageContent{kind: contentParts, parts: parts}
}

// RawContent wraps content of an unrecognised shape.
func RawContent(raw json.RawMessage) MessageContent {
	return MessageContent{kind: contentRaw, raw: raw}
}

// IsAbsent reports whether the message carried no content key at all.
func (c MessageContent) IsAbsent() bool { return c.kind == contentAbsent }

// IsStructured reports whether the content is a list of parts.
func (c MessageContent) IsStructured() bool { return c.kind == contentParts }

// Text returns the plain string body, if any.
func (c MessageContent) Text() (string, bool) {
	return c.text, c.kind == contentText
}

// Parts returns the structured parts. The slice is shared; callers must not modify it.
func (c MessageContent) Parts() []ContentPart {
	if c.kind != contentParts {
		return nil
	}
	return c.parts
}

// Raw returns the opaque JSON value, if any.
func (c MessageContent) Raw() (json.RawMessage, bool) {
	return c.raw, c.kind == contentRaw
}

func (c MessageContent) MarshalJSON() ([]byte, error) {
	switch c.kind {
	case contentText:
		return json.Marshal(c.text)
	case contentParts:
		return json.Marshal(c.parts)
	case contentRaw:
		if len(c.raw) == 0 {
			return []byte("null"), nil
		}
		return c.raw, nil
	default:
		return []byte("null"), nil
	}
}

// ContentPart is one segment of structured message content.
type ContentPart struct {
	Type         string
	Text         string
	CacheControl *CacheControl
	// Extra holds every other part key (image_url, input_audio, ...) verbatim.
	Extra map[string]any
}

// MarshalJSON emits the part with its extra keys. Type and Text are written
// when non-empty; an empty or non-string value has to live in Extra.
func (p ContentPart) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(p.Extra)+3)
	for k, v := range p.Extra {
		out[k] = v
	}
	setString(out, "type", p.Type)
	setString(out, "text", p.Text)
	if p.CacheControl != nil {
		out["cache_control"] = p.CacheControl
	}
	return json.Marshal(out)
}

// CacheControl is a prompt-caching hint understood by some providers only.
type CacheControl struct {
	Type string `json:"type"`
	TTL  string `json:"ttl,omitempty"`
}

func setString(out map[string]any, key, value string) {
	if value == "" {
		return
	}
	if _, ok := out[key]; ok {
		return
	}
	out[key] = value
}

// Tool is a function definition offered to the model. The embedded
// go-openai view is used for ordering; Raw, when set, is emitted verbatim.
type Tool struct {
	openai.Tool
	Raw json.RawMessage
}

// FunctionTool builds a function tool from its definition.
func FunctionTool(def openai.FunctionDefinition) Tool {
	return Tool{Tool: openai.Tool{Type: openai.ToolTypeFunction, Function: &def}}
}

func (t Tool) MarshalJSON() ([]byte, error) {
	if len(t.Raw) > 0 {
		return t.Raw, nil
	}
	return json.Marshal(t.Tool)
}

// ToolName returns the function name of a tool, or "" when it has none.
func ToolName(t Tool) string {
	if t.Function == nil {
		return ""
	}
	return t.Function.Name
}

// Options carries the model, tools and passthrough generation parameters of a request.
type Options struct {
	Model string
	Tools []Tool
	// ToolChoice is nil when the caller did not supply one.
	ToolChoice any
	// Params holds passthrough generation options (temperature, max_tokens, ...).
	Params map[string]any
}

// Reserved keys are owned by the structured fields of a request body.
var reservedParams = map[string]struct{}{
	"model":       {},
	"messages":    {},
	"tools":       {},
	"tool_choice": {},
}

// IsReservedParam reports whether key is set from a structured field rather than Params.
func IsReservedParam(key string) bool {
	_, ok := reservedParams[key]
	return ok
}

// RequestBody is a provider-ready chat request.
type RequestBody struct {
	Model      string
	Messages   []Message
	Tools      []Tool
	ToolChoice any
	Params     map[string]any
}

// MarshalJSON serialises the body with sorted keys, so identical requests
// always produce identical bytes.
func (b RequestBody) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(b.Params)+4)
	for k, v := range b.Params {
		if IsReservedParam(k) {
			continue
		}
		out[k] = v
	}
	out["model"] = b.Model
	messages := b.Messages
	if messages == nil {
		messages = []Message{}
	}
	out["messages"] = messages
	if len(b.Tools) > 0 {
		out["tools"] = b.Tools
		if b.ToolChoice != nil {
			out["tool_choice"] = b.ToolChoice
		}
	}
	return json.Marshal(out)
}

// Fingerprint returns the hex SHA-256 of the serialised body.
func (b RequestBody) Fingerprint() (string, error) {
	data, err := json.Marshal(b)
	if err != nil {
		return "", fmt.Errorf("marshal request body: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// Model identifies a known model with provider metadata.
type Model struct {
	ID       string
	Provider string
	APIStyle string
}

// ChatRequest is a decoded chat request in the unified schema.
type ChatRequest struct {
	Messages []Message
	Options  Options
}
