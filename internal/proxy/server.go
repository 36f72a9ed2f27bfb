package proxy

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	app_errors "chatgate/internal/errors"
	"chatgate/internal/metrics"
	"chatgate/internal/middleware"
	"chatgate/internal/response"
	"chatgate/internal/types"
	"chatgate/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// streamErrorSentinel is appended to the client stream when an error-typed
// event arrives mid-stream. No upstream detail is ever forwarded.
const streamErrorSentinel = "\n[stream error]\n"

// Streamer abstracts the upstream call so tests can record dispatches.
type Streamer interface {
	Stream(ctx context.Context, req *NormalizedRequest, requestID string) (io.ReadCloser, error)
}

// ChatServer handles the chat streaming endpoint. One request runs the whole
// pipeline: normalize, probe-intercept, upstream call, SSE decode, rewrite,
// flush. No state is shared across requests.
type ChatServer struct {
	normalizer *Normalizer
	probe      *ProbeDetector
	upstream   Streamer
	rewriter   *Rewriter
	metrics    *metrics.Collector
}

// NewChatServer wires the pipeline components together.
func NewChatServer(
	configManager types.ConfigManager,
	upstream Streamer,
	metricsCollector *metrics.Collector,
) *ChatServer {
	filter := configManager.GetFilterConfig()
	return &ChatServer{
		normalizer: NewNormalizer(configManager.GetChatConfig()),
		probe:      NewProbeDetector(filter),
		upstream:   upstream,
		rewriter:   NewRewriter(filter),
		metrics:    metricsCollector,
	}
}

// HandleChatStream serves POST /chat/stream.
func (s *ChatServer) HandleChatStream(c *gin.Context) {
	requestID := middleware.GetRequestID(c)

	body, err := c.GetRawData()
	if err != nil {
		logrus.WithField("request_id", requestID).Warnf("Failed to read request body: %v", err)
		response.Error(c, app_errors.ErrInvalidRequest)
		return
	}

	req, err := s.normalizer.Normalize(body)
	if err != nil {
		response.Error(c, app_errors.ErrInvalidRequest)
		return
	}

	// Identity probes are answered locally. The upstream is never called:
	// rewriting cannot reliably redact identity once the model has answered.
	if reply, ok := s.probe.Detect(req); ok {
		s.metrics.RecordProbeIntercept()
		setStreamHeaders(c)
		c.String(http.StatusOK, reply)
		return
	}

	// Client disconnect cancels the upstream call through this context.
	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	upstreamBody, err := s.upstream.Stream(ctx, req, requestID)
	if err != nil {
		if ctx.Err() != nil {
			// Client went away before the upstream answered.
			return
		}
		s.metrics.RecordUpstreamError("dispatch")
		var apiErr *app_errors.APIError
		if !errors.As(err, &apiErr) {
			apiErr = app_errors.ErrBadGateway
		}
		response.PlainError(c, apiErr)
		return
	}
	defer upstreamBody.Close()

	s.streamResponse(c, ctx, cancel, upstreamBody)
}

// streamResponse runs the decode/rewrite/flush loop until the upstream byte
// stream ends or the client disconnects.
func (s *ChatServer) streamResponse(c *gin.Context, ctx context.Context, cancel context.CancelFunc, upstreamBody io.ReadCloser) {
	requestID := middleware.GetRequestID(c)
	start := time.Now()
	defer func() {
		s.metrics.RecordStreamDuration(time.Since(start))
	}()

	setStreamHeaders(c)
	c.Status(http.StatusOK)
	c.Writer.Flush()

	parser := NewStreamParser()
	defer parser.Close()

	bufPtr := utils.GetStreamBuffer()
	defer utils.PutStreamBuffer(bufPtr)
	buf := *bufPtr
	for {
		n, readErr := upstreamBody.Read(buf)
		if n > 0 {
			for _, event := range parser.Feed(buf[:n]) {
				if !s.writeEvent(c, event) {
					// Client is gone; stop the upstream promptly.
					cancel()
					return
				}
			}
		}
		if readErr != nil {
			if readErr == io.EOF {
				return
			}
			if ctx.Err() != nil {
				// Client disconnect, not a failure.
				logrus.WithField("request_id", requestID).Debug("Client disconnected, upstream canceled")
				return
			}
			s.metrics.RecordUpstreamError("stream")
			logrus.WithField("request_id", requestID).Errorf("Upstream stream read failed: %v", readErr)
			return
		}
	}
}

// writeEvent forwards one decoded event to the client. Returns false when the
// client connection is no longer writable.
func (s *ChatServer) writeEvent(c *gin.Context, event Event) bool {
	switch event.Kind {
	case EventTextDelta:
		text, changed := s.rewriter.Rewrite(event.Text)
		if changed {
			s.metrics.RecordRewriteHit(s.rewriter.Policy())
		}
		if text == "" {
			return true
		}
		if _, err := c.Writer.WriteString(text); err != nil {
			return false
		}
		s.metrics.RecordDeltaForwarded()
		c.Writer.Flush()
		return true
	case EventUpstreamError:
		s.metrics.RecordUpstreamError("event")
		if _, err := c.Writer.WriteString(streamErrorSentinel); err != nil {
			return false
		}
		c.Writer.Flush()
		return true
	default:
		return true
	}
}

// setStreamHeaders prepares the response for an unbuffered plain-text stream.
// Must run before any bytes are written.
func setStreamHeaders(c *gin.Context) {
	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.Header("Cache-Control", "no-cache, no-transform")
	c.Header("X-Accel-Buffering", "no")
}
