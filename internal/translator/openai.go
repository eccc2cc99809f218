package translator

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"synaptic-router/internal/models"
)

var errNotObject = errors.New("expected a JSON object")

// Both encodings of the prompt-caching hint are accepted on input.
var cacheControlKeys = []string{"cache_control", "cacheControl"}

// ChatCompletionRequest models an OpenAI-style chat/completions request payload.
// Decoding is deliberately loose: roles and content shapes are not validated.
type ChatCompletionRequest struct {
	Model      string
	Messages   []models.Message
	Tools      []models.Tool
	ToolChoice any
	Options    map[string]any
}

// UnmarshalJSON splits the payload into structured fields and passthrough options.
func (r *ChatCompletionRequest) UnmarshalJSON(data []byte) error {
	fields, err := decodeObject(data)
	if err != nil {
		return fmt.Errorf("decode chat request: %w", err)
	}

	var out ChatCompletionRequest

	if raw, ok := fields["model"]; ok && !isNull(raw) {
		if err := json.Unmarshal(raw, &out.Model); err != nil {
			return fmt.Errorf("decode model: %w", err)
		}
		out.Model = strings.TrimSpace(out.Model)
	}

	if raw, ok := fields["messages"]; ok && !isNull(raw) {
		var rawMessages []json.RawMessage
		if err := json.Unmarshal(raw, &rawMessages); err != nil {
			return fmt.Errorf("decode messages: %w", err)
		}
		out.Messages = make([]models.Message, 0, len(rawMessages))
		for i, rawMsg := range rawMessages {
			msg, err := decodeMessage(rawMsg)
			if err != nil {
				return fmt.Errorf("message[%d]: %w", i, err)
			}
			out.Messages = append(out.Messages, msg)
		}
	}

	if raw, ok := fields["tools"]; ok && !isNull(raw) {
		var rawTools []json.RawMessage
		if err := json.Unmarshal(raw, &rawTools); err != nil {
			return fmt.Errorf("decode tools: %w", err)
		}
		out.Tools = make([]models.Tool, 0, len(rawTools))
		for _, rawTool := range rawTools {
			out.Tools = append(out.Tools, decodeTool(rawTool))
		}
	}

	if raw, ok := fields["tool_choice"]; ok && !isNull(raw) {
		if out.ToolChoice, err = decodeValue(raw); err != nil {
			return fmt.Errorf("decode tool_choice: %w", err)
		}
	}

	for key, raw := range fields {
		if models.IsReservedParam(key) {
			continue
		}
		value, err := decodeValue(raw)
		if err != nil {
			return fmt.Errorf("decode %s: %w", key, err)
		}
		if out.Options == nil {
			out.Options = make(map[string]any)
		}
		out.Options[key] = value
	}

	*r = out
	return nil
}

// ToUnified converts the request into the canonical format.
func (r ChatCompletionRequest) ToUnified() models.ChatRequest {
	return models.ChatRequest{
		Messages: r.Messages,
		Options: models.Options{
			Model:      r.Model,
			Tools:      r.Tools,
			ToolChoice: r.ToolChoice,
			Params:     r.Options,
		},
	}
}

// DecodeChatRequest parses a JSON chat request into the unified schema.
func DecodeChatRequest(data []byte) (models.ChatRequest, error) {
	var req ChatCompletionRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return models.ChatRequest{}, err
	}
	return req.ToUnified(), nil
}

func decodeMessage(data json.RawMessage) (models.Message, error) {
	fields, err := decodeObject(data)
	if err != nil {
		return models.Message{}, fmt.Errorf("decode message: %w", err)
	}

	var msg models.Message
	msg.Role, _ = takeString(fields, "role")
	msg.Name, _ = takeString(fields, "name")
	if raw, ok := fields["content"]; ok {
		if msg.Content, err = decodeContent(raw); err != nil {
			return models.Message{}, err
		}
		delete(fields, "content")
	}

	if msg.Extra, err = decodeExtra(fields); err != nil {
		return models.Message{}, err
	}
	return msg, nil
}

// decodeContent recognises plain text and lists of part objects; any other
// shape is carried through as raw JSON.
func decodeContent(raw json.RawMessage) (models.MessageContent, error) {
	if isNull(raw) {
		return models.RawContent(raw), nil
	}

	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return models.TextContent(text), nil
	}

	var rawParts []json.RawMessage
	if err := json.Unmarshal(raw, &rawParts); err != nil {
		return models.RawContent(raw), nil
	}

	parts := make([]models.ContentPart, 0, len(rawParts))
	for _, rawPart := range rawParts {
		part, ok, err := decodePart(rawPart)
		if err != nil {
			return models.MessageContent{}, err
		}
		if !ok {
			return models.RawContent(raw), nil
		}
		parts = append(parts, part)
	}
	return models.PartsContent(parts...), nil
}

// decodePart reports ok=false when the part is not a JSON object.
func decodePart(raw json.RawMessage) (models.ContentPart, bool, error) {
	fields, err := decodeObject(raw)
	if err != nil {
		return models.ContentPart{}, false, nil
	}

	var part models.ContentPart
	part.Type, _ = takeString(fields, "type")
	part.Text, _ = takeString(fields, "text")

	for _, key := range cacheControlKeys {
		rawHint, ok := fields[key]
		if !ok {
			continue
		}
		delete(fields, key)
		if hint, ok := decodeCacheControl(rawHint); ok {
			part.CacheControl = hint
		}
	}

	if part.Extra, err = decodeExtra(fields); err != nil {
		return models.ContentPart{}, false, err
	}
	return part, true, nil
}

// decodeCacheControl accepts the object form and the bare string shorthand
// ("ephemeral"). Any other shape is not a usable hint and is dropped.
func decodeCacheControl(raw json.RawMessage) (*models.CacheControl, bool) {
	if isNull(raw) {
		return nil, false
	}
	var hint models.CacheControl
	if err := json.Unmarshal(raw, &hint); err == nil {
		return &hint, true
	}
	var shorthand string
	if err := json.Unmarshal(raw, &shorthand); err == nil {
		return &models.CacheControl{Type: shorthand}, true
	}
	return nil, false
}

// takeString moves a non-empty string field out of fields. Any other value,
// including "", stays behind so that it is re-emitted exactly as received.
func takeString(fields map[string]json.RawMessage, key string) (string, bool) {
	raw, ok := fields[key]
	if !ok {
		return "", false
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil || value == "" {
		return "", false
	}
	delete(fields, key)
	return value, true
}

// decodeTool keeps the tool's exact encoding next to its typed view.
func decodeTool(raw json.RawMessage) models.Tool {
	tool := models.Tool{Raw: raw}
	if err := json.Unmarshal(raw, &tool.Tool); err != nil {
		tool.Tool = openai.Tool{}
	}
	return tool
}

func decodeObject(data []byte) (map[string]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, errNotObject
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

func decodeExtra(fields map[string]json.RawMessage) (map[string]any, error) {
	if len(fields) == 0 {
		return nil, nil
	}
	out := make(map[string]any, len(fields))
	for key, raw := range fields {
		value, err := decodeValue(raw)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", key, err)
		}
		out[key] = value
	}
	return out, nil
}

// decodeValue keeps numbers as json.Number so they re-encode exactly.
func decodeValue(raw json.RawMessage) (any, error) {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, err
	}
	return value, nil
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}
