package proxy

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	app_errors "chatgate/internal/errors"
	"chatgate/internal/httpclient"
	"chatgate/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func testUpstreamClient(url string) *UpstreamClient {
	return NewUpstreamClient(types.UpstreamConfig{
		URL:                   url,
		APIKey:                "sk-test",
		APIVersion:            "2023-06-01",
		ConnectTimeout:        5 * time.Second,
		ResponseHeaderTimeout: 5 * time.Second,
		IdleConnTimeout:       time.Minute,
		MaxIdleConns:          10,
		MaxIdleConnsPerHost:   10,
	}, httpclient.NewHTTPClientManager())
}

func testNormalizedRequest() *NormalizedRequest {
	return &NormalizedRequest{
		Model:       "model-a",
		System:      "be brief",
		Messages:    []ChatMessage{{Role: "user", Content: "hello"}},
		MaxTokens:   800,
		Temperature: 0.3,
		Stream:      true,
	}
}

func TestStreamSendsNormalizedRequest(t *testing.T) {
	var gotBody []byte
	var gotHeaders http.Header

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		gotHeaders = r.Header.Clone()
		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte(`data: {"type":"message_stop"}` + "\n\n"))
	}))
	defer server.Close()

	client := testUpstreamClient(server.URL)
	body, err := client.Stream(context.Background(), testNormalizedRequest(), "req-123")
	require.NoError(t, err)
	defer body.Close()

	assert.Equal(t, "sk-test", gotHeaders.Get("x-api-key"))
	assert.Equal(t, "2023-06-01", gotHeaders.Get("anthropic-version"))
	assert.Equal(t, "application/json", gotHeaders.Get("Content-Type"))
	assert.Equal(t, "req-123", gotHeaders.Get("X-Request-ID"))

	payload := gjson.ParseBytes(gotBody)
	assert.Equal(t, "model-a", payload.Get("model").String())
	assert.True(t, payload.Get("stream").Bool())
	assert.Equal(t, "hello", payload.Get("messages.0.content").String())
	assert.Equal(t, int64(800), payload.Get("max_tokens").Int())
}

func TestStreamErrorStatusIsGeneric(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error":{"type":"overloaded_error","message":"internal capacity detail"}}`))
	}))
	defer server.Close()

	client := testUpstreamClient(server.URL)
	body, err := client.Stream(context.Background(), testNormalizedRequest(), "req-503")

	require.Error(t, err)
	assert.Nil(t, body)

	// The caller only ever sees the generic gateway error.
	var apiErr *app_errors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.HTTPStatus)
	assert.Equal(t, "Upstream error", apiErr.Message)
	assert.NotContains(t, apiErr.Message, "capacity")
}

func TestStreamConnectionFailure(t *testing.T) {
	// Closed server: the dial fails.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := testUpstreamClient(url)
	_, err := client.Stream(context.Background(), testNormalizedRequest(), "req-down")

	var apiErr *app_errors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.HTTPStatus)
}

func TestStreamCancellation(t *testing.T) {
	blocked := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-blocked
	}))
	defer server.Close()
	defer close(blocked)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := testUpstreamClient(server.URL)
	_, err := client.Stream(ctx, testNormalizedRequest(), "req-gone")

	// Cancellation surfaces as the context error, not a gateway error.
	assert.ErrorIs(t, err, context.Canceled)
}
