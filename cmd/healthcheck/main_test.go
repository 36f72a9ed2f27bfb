package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProbe(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantErr bool
	}{
		{
			name: "healthy",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"ok":true}`))
			},
			wantErr: false,
		},
		{
			name: "non-OK status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			},
			wantErr: true,
		},
		{
			name: "wrong body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`<html>login page</html>`))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			err := probe(server.URL)
			assert.Equal(t, tt.wantErr, err != nil)
		})
	}
}

func TestHealthURL(t *testing.T) {
	t.Setenv("HEALTHCHECK_URL", "http://example.com/health")
	assert.Equal(t, "http://example.com/health", healthURL())

	t.Setenv("HEALTHCHECK_URL", "")
	t.Setenv("PORT", "8080")
	assert.Equal(t, "http://localhost:8080/health", healthURL())

	t.Setenv("PORT", "")
	assert.Equal(t, "http://localhost:3001/health", healthURL())
}
