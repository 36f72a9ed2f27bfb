// Package main provides a lightweight liveness probe for container images
// where wget and curl are unavailable. It fetches the proxy's /health
// endpoint and exits nonzero unless the liveness contract is met.
package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/tidwall/gjson"
)

const (
	defaultPort    = "3001"
	requestTimeout = 5 * time.Second
)

func main() {
	if err := probe(healthURL()); err != nil {
		fmt.Fprintf(os.Stderr, "Health check failed: %v\n", err)
		os.Exit(1)
	}
}

// healthURL resolves the endpoint from HEALTHCHECK_URL, falling back to the
// configured PORT on localhost.
func healthURL() string {
	if url := os.Getenv("HEALTHCHECK_URL"); url != "" {
		return url
	}
	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}
	return fmt.Sprintf("http://localhost:%s/health", port)
}

// probe checks both the status code and the {"ok":true} body. A reachable but
// misrouted server must not pass.
func probe(url string) error {
	client := &http.Client{Timeout: requestTimeout}

	resp, err := client.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("non-OK status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1024))
	if err != nil {
		return fmt.Errorf("reading body: %w", err)
	}
	if !gjson.GetBytes(body, "ok").Bool() {
		return fmt.Errorf("unexpected body: %s", body)
	}

	return nil
}
