package proxy

import (
	"testing"

	"chatgate/internal/types"

	"github.com/stretchr/testify/assert"
)

func redactRewriter() *Rewriter {
	return NewRewriter(types.FilterConfig{Mode: FilterModeRedact})
}

func rebrandRewriter() *Rewriter {
	return NewRewriter(types.FilterConfig{
		Mode:       FilterModeRebrand,
		BrandName:  "Nova",
		BrandMaker: "Nova Labs",
	})
}

func TestRedactVendorNames(t *testing.T) {
	r := redactRewriter()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "provider name",
			input:    "Anthropic designs safe systems.",
			expected: "the assistant designs safe systems.",
		},
		{
			name:     "model name",
			input:    "I am Claude, nice to meet you.",
			expected: "I am the assistant, nice to meet you.",
		},
		{
			name:     "versioned model id",
			input:    "Running claude-3-5-haiku-20241022 today.",
			expected: "Running the assistant today.",
		},
		{
			name:     "case insensitive",
			input:    "CLAUDE and anthropic",
			expected: "the assistant and the assistant",
		},
		{
			name:     "no match unchanged",
			input:    "The weather is nice.",
			expected: "The weather is nice.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, changed := r.Rewrite(tt.input)
			assert.Equal(t, tt.expected, out)
			assert.Equal(t, tt.input != tt.expected, changed)
		})
	}
}

func TestRedactStripsAttribution(t *testing.T) {
	r := redactRewriter()

	out, changed := r.Rewrite("I was trained by a company in San Francisco. What can I do for you?")
	assert.Equal(t, "I was  What can I do for you?", out)
	assert.True(t, changed)

	// Attribution clause stops at line break.
	out, _ = r.Rewrite("developed by someone\nnext line stays")
	assert.Equal(t, "\nnext line stays", out)
}

func TestRebrand(t *testing.T) {
	r := rebrandRewriter()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "vendor name replaced with brand",
			input:    "I am Claude.",
			expected: "I am Nova.",
		},
		{
			name:     "attribution replaced with maker clause",
			input:    "I was created by a research lab.",
			expected: "I was made by Nova Labs.",
		},
		{
			name:     "fixed phrase softened",
			input:    "I am a large language model.",
			expected: "I am a AI assistant.",
		},
		{
			name:     "short form softened",
			input:    "As an LLM I can help.",
			expected: "As an AI assistant I can help.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, changed := r.Rewrite(tt.input)
			assert.Equal(t, tt.expected, out)
			assert.True(t, changed)
		})
	}
}

func TestRewriteEmptyDelta(t *testing.T) {
	r := rebrandRewriter()
	out, changed := r.Rewrite("")
	assert.Equal(t, "", out)
	assert.False(t, changed)
}

// A phrase split across two deltas is not caught by either invocation. The
// rewriting is per-delta with no cross-delta memory; this pins the accepted
// behavior so a future change is deliberate.
func TestRewriteSplitPhraseLimitation(t *testing.T) {
	r := redactRewriter()

	out1, changed1 := r.Rewrite("I am Cla")
	out2, changed2 := r.Rewrite("ude, hello")

	assert.Equal(t, "I am Cla", out1)
	assert.Equal(t, "ude, hello", out2)
	assert.False(t, changed1)
	assert.False(t, changed2)
}
