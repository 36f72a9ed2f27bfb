// Package container wires the application dependencies with dig.
package container

import (
	"chatgate/internal/app"
	"chatgate/internal/config"
	"chatgate/internal/handler"
	"chatgate/internal/httpclient"
	"chatgate/internal/metrics"
	"chatgate/internal/proxy"
	"chatgate/internal/router"
	"chatgate/internal/types"

	"go.uber.org/dig"
)

// newUpstreamClient adapts the config snapshot for the upstream client
// constructor.
func newUpstreamClient(configManager types.ConfigManager, clientManager *httpclient.HTTPClientManager) *proxy.UpstreamClient {
	return proxy.NewUpstreamClient(configManager.GetUpstreamConfig(), clientManager)
}

// BuildContainer creates and configures the dependency injection container.
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	constructors := []any{
		config.NewManager,
		httpclient.NewHTTPClientManager,
		metrics.NewCollector,
		handler.NewServer,
		proxy.NewChatServer,
		router.NewRouter,
		app.NewApp,
	}

	for _, constructor := range constructors {
		if err := container.Provide(constructor); err != nil {
			return nil, err
		}
	}

	if err := container.Provide(newUpstreamClient, dig.As(new(proxy.Streamer))); err != nil {
		return nil, err
	}

	return container, nil
}
