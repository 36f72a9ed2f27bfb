package proxy

import (
	"bytes"
	"strings"

	"github.com/tidwall/gjson"
)

// EventKind tags the variants of an upstream event.
type EventKind int

const (
	// EventIgnored covers every recognized-but-irrelevant or unrecognized
	// event type, including stream-end sentinels.
	EventIgnored EventKind = iota
	// EventTextDelta carries an incremental fragment of generated text.
	EventTextDelta
	// EventUpstreamError marks an error-typed event. No upstream detail is
	// carried; the consumer emits a fixed sentinel.
	EventUpstreamError
)

// Event is one decoded upstream event. Text is set only for EventTextDelta.
type Event struct {
	Kind EventKind
	Text string
}

const (
	dataPrefix    = "data:"
	doneSentinel  = "[DONE]"
	eventTypeText = "content_block_delta"
)

var frameDelimiter = []byte("\n\n")

// StreamParser is an incremental SSE decoder. Chunks of any size may be fed
// in as they arrive; the parser carries partial frames, partial lines and
// partial multi-byte characters across calls by buffering raw bytes and only
// decoding once a complete frame has arrived. The decoded event sequence is
// therefore identical for every chunking of the same byte stream.
type StreamParser struct {
	buf []byte
}

// NewStreamParser creates a parser with an empty carry buffer.
func NewStreamParser() *StreamParser {
	return &StreamParser{}
}

// Feed appends a chunk and returns all events whose frames completed with it,
// in stream order.
func (p *StreamParser) Feed(chunk []byte) []Event {
	if len(chunk) == 0 {
		return nil
	}
	p.buf = append(p.buf, chunk...)

	var events []Event
	for {
		idx := bytes.Index(p.buf, frameDelimiter)
		if idx < 0 {
			break
		}
		frame := p.buf[:idx]
		p.buf = p.buf[idx+len(frameDelimiter):]
		events = append(events, parseFrame(frame)...)
	}
	return events
}

// Close discards any trailing partial frame. Leftover bytes at end of stream
// cannot represent a finished event.
func (p *StreamParser) Close() {
	p.buf = nil
}

// parseFrame extracts every data line of one complete frame. A frame may
// carry more than one data line; all are processed in order.
func parseFrame(frame []byte) []Event {
	var events []Event
	for _, line := range strings.Split(string(frame), "\n") {
		line = strings.TrimSuffix(line, "\r")
		if !strings.HasPrefix(line, dataPrefix) {
			continue
		}
		payload := strings.TrimPrefix(line[len(dataPrefix):], " ")
		if payload == "" || payload == doneSentinel {
			continue
		}
		if event, ok := parsePayload(payload); ok {
			events = append(events, event)
		}
	}
	return events
}

// parsePayload decodes one data payload. Malformed JSON is non-fatal: the
// line is skipped and the stream continues.
func parsePayload(payload string) (Event, bool) {
	if !gjson.Valid(payload) {
		return Event{}, false
	}
	root := gjson.Parse(payload)

	switch root.Get("type").String() {
	case eventTypeText:
		text := root.Get("delta.text")
		if text.Type != gjson.String {
			return Event{Kind: EventIgnored}, true
		}
		return Event{Kind: EventTextDelta, Text: text.String()}, true
	case "error":
		return Event{Kind: EventUpstreamError}, true
	default:
		return Event{Kind: EventIgnored}, true
	}
}
