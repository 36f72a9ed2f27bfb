package proxy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	app_errors "chatgate/internal/errors"
	"chatgate/internal/httpclient"
	"chatgate/internal/types"
	"chatgate/internal/utils"

	"github.com/sirupsen/logrus"
)

// maxErrorBodySize limits how much of an upstream error body is read.
const maxErrorBodySize = 64 * 1024

// maxLoggedBodyChars caps upstream error detail in server logs.
const maxLoggedBodyChars = 5000

// UpstreamClient owns the outbound streaming call to the chat-completion
// provider. It issues one POST per inbound request and returns the open
// response body on success. All failure detail stays in server logs; callers
// only ever see ErrBadGateway.
type UpstreamClient struct {
	config types.UpstreamConfig
	client *http.Client
}

// NewUpstreamClient creates a client using the shared streaming HTTP client.
func NewUpstreamClient(config types.UpstreamConfig, clientManager *httpclient.HTTPClientManager) *UpstreamClient {
	return &UpstreamClient{
		config: config,
		client: clientManager.GetClient(httpclient.StreamConfig(config)),
	}
}

// Stream sends the normalized request upstream and returns the open SSE byte
// stream. The context must be the per-request cancellation context: when the
// client disconnects, cancellation aborts the outbound connection.
func (u *UpstreamClient) Stream(ctx context.Context, req *NormalizedRequest, requestID string) (io.ReadCloser, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		logrus.WithField("request_id", requestID).Errorf("Failed to encode upstream request: %v", err)
		return nil, app_errors.ErrInternalServer
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, u.config.URL, bytes.NewReader(payload))
	if err != nil {
		logrus.WithField("request_id", requestID).Errorf("Failed to build upstream request: %v", err)
		return nil, app_errors.ErrInternalServer
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	httpReq.Header.Set("x-api-key", u.config.APIKey)
	httpReq.Header.Set("anthropic-version", u.config.APIVersion)
	if requestID != "" {
		httpReq.Header.Set("X-Request-ID", requestID)
	}

	resp, err := u.client.Do(httpReq)
	if err != nil {
		// Cancellation is the client going away, not an upstream fault.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logrus.WithField("request_id", requestID).Errorf("Upstream request failed: %v", err)
		return nil, app_errors.ErrBadGateway
	}

	if resp.StatusCode != http.StatusOK {
		u.logErrorResponse(resp, requestID)
		resp.Body.Close()
		return nil, app_errors.ErrBadGateway
	}

	return resp.Body, nil
}

// logErrorResponse records the upstream failure server-side. The body is
// size-capped and decompressed before logging; none of it reaches the client.
func (u *UpstreamClient) logErrorResponse(resp *http.Response, requestID string) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
	if err != nil {
		body = []byte(fmt.Sprintf("<failed to read body: %v>", err))
	}
	body = utils.DecompressResponse(resp.Header.Get("Content-Encoding"), body)

	detail := app_errors.ParseUpstreamError(body)
	logrus.WithFields(logrus.Fields{
		"request_id": requestID,
		"status":     resp.StatusCode,
	}).Errorf("Upstream returned error: %s", utils.TruncateString(detail, maxLoggedBodyChars))
}
