package proxy

import (
	"testing"

	"chatgate/internal/types"

	"github.com/stretchr/testify/assert"
)

func testProbeDetector(enabled bool) *ProbeDetector {
	return NewProbeDetector(types.FilterConfig{
		ProbeIntercept: enabled,
		ProbeReply:     "I'm Nova, an AI assistant built by Nova Labs.",
	})
}

func probeRequest(texts ...string) *NormalizedRequest {
	req := &NormalizedRequest{}
	for i, text := range texts {
		role := "user"
		if i%2 == 1 {
			role = "assistant"
		}
		req.Messages = append(req.Messages, ChatMessage{Role: role, Content: text})
	}
	return req
}

func TestProbeDetection(t *testing.T) {
	d := testProbeDetector(true)

	tests := []struct {
		name    string
		text    string
		matched bool
	}{
		{"what model", "what model are you?", true},
		{"which model", "Which model is this?", true},
		{"what ai model", "What AI model powers this?", true},
		{"who made you", "who made you?", true},
		{"who trained you", "Who trained you exactly", true},
		{"who are you", "who are you", true},
		{"what are you", "So, what are you?", true},
		{"are you an ai", "are you an AI?", true},
		{"vendor name mention", "Is this Claude?", true},
		{"provider mention", "does anthropic run this", true},
		{"ordinary question", "what is the capital of France?", false},
		{"model as noun", "I built a data model yesterday", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply, matched := d.Detect(probeRequest(tt.text))
			assert.Equal(t, tt.matched, matched)
			if matched {
				assert.Equal(t, "I'm Nova, an AI assistant built by Nova Labs.", reply)
			}
		})
	}
}

func TestProbeChecksOnlyLastMessage(t *testing.T) {
	d := testProbeDetector(true)

	// Probe in an earlier message does not trigger.
	_, matched := d.Detect(probeRequest("what model are you?", "I am an assistant.", "tell me a joke"))
	assert.False(t, matched)

	// Probe in the last message does.
	_, matched = d.Detect(probeRequest("tell me a joke", "ok", "what model are you?"))
	assert.True(t, matched)
}

func TestProbeDisabled(t *testing.T) {
	d := testProbeDetector(false)

	_, matched := d.Detect(probeRequest("what model are you?"))
	assert.False(t, matched)
}

func TestProbeEmptyRequest(t *testing.T) {
	d := testProbeDetector(true)

	_, matched := d.Detect(&NormalizedRequest{})
	assert.False(t, matched)
}
