// Package proxy implements the chat streaming pipeline: request
// normalization, identity probe interception, the upstream streaming call,
// incremental SSE decoding and per-delta content rewriting.
package proxy

import (
	"math"
	"strings"

	app_errors "chatgate/internal/errors"
	"chatgate/internal/types"
	"chatgate/internal/utils"

	"github.com/tidwall/gjson"
)

// Normalization limits. Content beyond these caps is truncated, not rejected.
const (
	maxContentRunes = 12000
	maxSystemRunes  = 4000
	minMaxTokens    = 64
	maxMaxTokens    = 1500
	minTemperature  = 0.0
	maxTemperature  = 1.0
)

// ChatMessage is one turn of the conversation in canonical form.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// NormalizedRequest is the canonical upstream request body. It is built once
// per inbound request and immutable afterwards.
type NormalizedRequest struct {
	Model       string        `json:"model"`
	System      string        `json:"system,omitempty"`
	Messages    []ChatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
	Stream      bool          `json:"stream"`
}

// LastUserText returns the text of the most recent message, or "" when the
// request has none.
func (r *NormalizedRequest) LastUserText() string {
	if len(r.Messages) == 0 {
		return ""
	}
	return r.Messages[len(r.Messages)-1].Content
}

// Normalizer validates and clamps inbound chat requests against the
// configured allow-list and defaults.
type Normalizer struct {
	chat types.ChatConfig
}

// NewNormalizer creates a normalizer bound to a configuration snapshot.
func NewNormalizer(chat types.ChatConfig) *Normalizer {
	return &Normalizer{chat: chat}
}

// Normalize turns an arbitrary JSON body into a NormalizedRequest.
//
// Malformed individual fields are repaired with defaults rather than
// rejected; the only fatal condition is that no valid message survives, which
// returns ErrInvalidRequest.
func (n *Normalizer) Normalize(body []byte) (*NormalizedRequest, error) {
	root := gjson.ParseBytes(body)

	messages := n.normalizeMessages(root.Get("messages"))
	if len(messages) == 0 {
		return nil, app_errors.ErrInvalidRequest
	}

	return &NormalizedRequest{
		Model:       n.normalizeModel(root.Get("model")),
		System:      n.normalizeSystem(root.Get("system")),
		Messages:    messages,
		MaxTokens:   n.normalizeMaxTokens(root.Get("max_tokens")),
		Temperature: n.normalizeTemperature(root.Get("temperature")),
		Stream:      true,
	}, nil
}

// normalizeMessages keeps only user/assistant messages with non-empty text.
// Anything else is dropped silently.
func (n *Normalizer) normalizeMessages(raw gjson.Result) []ChatMessage {
	if !raw.IsArray() {
		return nil
	}

	var messages []ChatMessage
	raw.ForEach(func(_, item gjson.Result) bool {
		role := item.Get("role").String()
		if role != "user" && role != "assistant" {
			return true
		}

		content, ok := coerceText(item.Get("content"))
		if !ok {
			return true
		}
		content = strings.TrimSpace(utils.TruncateRunes(content, maxContentRunes))
		if content == "" {
			return true
		}

		messages = append(messages, ChatMessage{Role: role, Content: content})
		return true
	})

	return messages
}

// coerceText converts a scalar JSON value to text. Objects, arrays and null
// carry no usable message text and report false.
func coerceText(raw gjson.Result) (string, bool) {
	switch raw.Type {
	case gjson.String, gjson.Number, gjson.True, gjson.False:
		return raw.String(), true
	default:
		return "", false
	}
}

// normalizeModel substitutes the default for any model outside the
// allow-list. Unknown models never cause an error.
func (n *Normalizer) normalizeModel(raw gjson.Result) string {
	model := raw.String()
	if _, ok := n.chat.AllowedModelsMap[model]; ok {
		return model
	}
	return n.chat.DefaultModel
}

func (n *Normalizer) normalizeSystem(raw gjson.Result) string {
	system, ok := coerceText(raw)
	if ok {
		system = strings.TrimSpace(utils.TruncateRunes(system, maxSystemRunes))
	}
	if system == "" {
		return n.chat.DefaultSystemPrompt
	}
	return system
}

func (n *Normalizer) normalizeTemperature(raw gjson.Result) float64 {
	if raw.Type != gjson.Number {
		return n.chat.DefaultTemperature
	}
	value := raw.Float()
	if math.IsNaN(value) {
		return n.chat.DefaultTemperature
	}
	if value < minTemperature {
		return minTemperature
	}
	if value > maxTemperature {
		return maxTemperature
	}
	return value
}

func (n *Normalizer) normalizeMaxTokens(raw gjson.Result) int {
	if raw.Type != gjson.Number {
		return n.chat.DefaultMaxTokens
	}
	value := raw.Float()
	if math.IsNaN(value) {
		return n.chat.DefaultMaxTokens
	}
	tokens := int(math.Floor(value))
	if tokens < minMaxTokens {
		return minMaxTokens
	}
	if tokens > maxMaxTokens {
		return maxMaxTokens
	}
	return tokens
}
