// Package httpclient manages shared HTTP clients keyed by configuration.
package httpclient

import (
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"chatgate/internal/types"

	"github.com/sirupsen/logrus"
)

// Config defines the parameters for creating an HTTP client.
// This struct is used to generate a unique fingerprint for client reuse.
type Config struct {
	ConnectTimeout        time.Duration
	RequestTimeout        time.Duration
	IdleConnTimeout       time.Duration
	MaxIdleConns          int
	MaxIdleConnsPerHost   int
	ResponseHeaderTimeout time.Duration
	DisableCompression    bool
	ForceAttemptHTTP2     bool
	TLSHandshakeTimeout   time.Duration
	ExpectContinueTimeout time.Duration
}

// StreamConfig builds the client configuration for long-lived streaming
// requests to the upstream API. RequestTimeout stays zero: a stream lives
// until the upstream finishes or the caller cancels, and a whole-request
// deadline would cut healthy streams short. Transport compression is off so
// the response body arrives exactly as the upstream framed it.
func StreamConfig(upstream types.UpstreamConfig) *Config {
	return &Config{
		ConnectTimeout:        upstream.ConnectTimeout,
		RequestTimeout:        0,
		IdleConnTimeout:       upstream.IdleConnTimeout,
		MaxIdleConns:          upstream.MaxIdleConns,
		MaxIdleConnsPerHost:   upstream.MaxIdleConnsPerHost,
		ResponseHeaderTimeout: upstream.ResponseHeaderTimeout,
		DisableCompression:    true,
		ForceAttemptHTTP2:     true,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}

// HTTPClientManager manages the lifecycle of HTTP clients.
// It creates and caches clients based on their configuration fingerprint,
// ensuring that clients with the same configuration are reused.
type HTTPClientManager struct {
	clients map[string]*http.Client
	lock    sync.RWMutex
}

// NewHTTPClientManager creates a new client manager.
func NewHTTPClientManager() *HTTPClientManager {
	return &HTTPClientManager{
		clients: make(map[string]*http.Client),
	}
}

// GetClient returns an HTTP client that matches the given configuration.
// If a matching client already exists in the cache, it is returned.
// Otherwise, a new client is created, cached, and returned.
func (m *HTTPClientManager) GetClient(config *Config) *http.Client {
	fingerprint := config.getFingerprint()

	// Fast path with read lock
	m.lock.RLock()
	client, exists := m.clients[fingerprint]
	m.lock.RUnlock()
	if exists {
		return client
	}

	// Slow path with write lock
	m.lock.Lock()
	defer m.lock.Unlock()

	// Double-check in case another goroutine created the client while we were waiting for the lock.
	if client, exists = m.clients[fingerprint]; exists {
		return client
	}

	// The 2x multiplier allows temporary bursts beyond the idle pool size,
	// with a floor of 10 so a very low MaxIdleConnsPerHost still leaves some
	// concurrent connection capacity.
	maxConnsPerHost := config.MaxIdleConnsPerHost * 2
	if maxConnsPerHost < 10 {
		maxConnsPerHost = 10
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   config.ConnectTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     config.ForceAttemptHTTP2,
		MaxIdleConns:          config.MaxIdleConns,
		MaxIdleConnsPerHost:   config.MaxIdleConnsPerHost,
		MaxConnsPerHost:       maxConnsPerHost,
		IdleConnTimeout:       config.IdleConnTimeout,
		TLSHandshakeTimeout:   config.TLSHandshakeTimeout,
		ExpectContinueTimeout: config.ExpectContinueTimeout,
		ResponseHeaderTimeout: config.ResponseHeaderTimeout,
		DisableCompression:    config.DisableCompression,
		DisableKeepAlives:     false,
	}

	newClient := &http.Client{
		Transport: transport,
		Timeout:   config.RequestTimeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 10 {
				return fmt.Errorf("stopped after 10 redirects")
			}
			return nil
		},
	}

	m.clients[fingerprint] = newClient

	logrus.WithFields(logrus.Fields{
		"fingerprint":        fingerprint,
		"timeout":            config.RequestTimeout,
		"max_conns_per_host": maxConnsPerHost,
	}).Debug("Created new HTTP client with optimized connection pool")

	return newClient
}

// CloseIdleConnections closes idle connections for all managed clients.
// This can be useful for releasing resources during graceful shutdown.
func (m *HTTPClientManager) CloseIdleConnections() {
	m.lock.RLock()
	defer m.lock.RUnlock()

	for _, client := range m.clients {
		if transport, ok := client.Transport.(*http.Transport); ok {
			transport.CloseIdleConnections()
		}
	}
	logrus.Debug("Closed idle connections for managed HTTP clients")
}

// getFingerprint generates a unique string representation of the client configuration.
func (c *Config) getFingerprint() string {
	return fmt.Sprintf(
		"ct:%.0fs|rt:%.0fs|it:%.0fs|mic:%d|mich:%d|rht:%.0fs|dc:%t|fh2:%t|tlst:%.0fs|ect:%.0fs",
		c.ConnectTimeout.Seconds(),
		c.RequestTimeout.Seconds(),
		c.IdleConnTimeout.Seconds(),
		c.MaxIdleConns,
		c.MaxIdleConnsPerHost,
		c.ResponseHeaderTimeout.Seconds(),
		c.DisableCompression,
		c.ForceAttemptHTTP2,
		c.TLSHandshakeTimeout.Seconds(),
		c.ExpectContinueTimeout.Seconds(),
	)
}
