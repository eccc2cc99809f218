package openai

import (
	"maps"
	"slices"
	"strings"

	"synaptic-router/internal/models"
	"synaptic-router/internal/provider"
)

// defaultToolChoice is sent whenever tools are offered without an explicit choice.
const defaultToolChoice = "auto"

// BuildRequestBody turns messages and options into an OpenAI chat/completions body.
// Inputs are never modified; the returned body shares no slices with them.
func BuildRequestBody(messages []models.Message, opts models.Options) (models.RequestBody, error) {
	if strings.TrimSpace(opts.Model) == "" {
		return models.RequestBody{}, provider.NewError(provider.KindNoModelSpecified, "model option is required")
	}

	body := models.RequestBody{
		Model:    opts.Model,
		Messages: sanitizeMessages(messages),
		Params:   copyParams(opts.Params),
	}

	if len(opts.Tools) > 0 {
		body.Tools = sortTools(opts.Tools)
		body.ToolChoice = opts.ToolChoice
		if body.ToolChoice == nil {
			body.ToolChoice = defaultToolChoice
		}
	}

	return body, nil
}

func sanitizeMessages(messages []models.Message) []models.Message {
	out := make([]models.Message, len(messages))
	for i, msg := range messages {
		out[i] = msg
		if msg.Content.IsStructured() {
			out[i].Content = models.PartsContent(stripCacheControl(msg.Content.Parts())...)
		}
	}
	return out
}

// Keys under which a cache hint may sit in ContentPart.Extra.
var cacheControlKeys = []string{"cache_control", "cacheControl"}

// stripCacheControl copies parts without their cache_control hint, which the
// OpenAI schema does not define. A hint left in Extra is removed as well.
func stripCacheControl(parts []models.ContentPart) []models.ContentPart {
	out := make([]models.ContentPart, len(parts))
	for i, part := range parts {
		out[i] = part
		out[i].CacheControl = nil
		out[i].Extra = withoutCacheControl(part.Extra)
	}
	return out
}

func withoutCacheControl(extra map[string]any) map[string]any {
	hasHint := slices.ContainsFunc(cacheControlKeys, func(key string) bool {
		_, ok := extra[key]
		return ok
	})
	if !hasHint {
		return extra
	}
	out := maps.Clone(extra)
	for _, key := range cacheControlKeys {
		delete(out, key)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// sortTools orders tools by function name. The sort is stable so that tools
// sharing a name keep their caller order.
func sortTools(tools []models.Tool) []models.Tool {
	out := slices.Clone(tools)
	slices.SortStableFunc(out, func(a, b models.Tool) int {
		return strings.Compare(models.ToolName(a), models.ToolName(b))
	})
	return out
}

func copyParams(params map[string]any) map[string]any {
	if len(params) == 0 {
		return nil
	}
	out := make(map[string]any, len(params))
	for k, v := range params {
		if models.IsReservedParam(k) {
			continue
		}
		out[k] = v
	}
	return out
}
