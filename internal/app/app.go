// Package app provides the main application logic and lifecycle management.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"chatgate/internal/httpclient"
	"chatgate/internal/types"
	"chatgate/internal/version"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.uber.org/dig"
)

// App holds all services and manages the application lifecycle.
type App struct {
	engine            *gin.Engine
	configManager     types.ConfigManager
	httpClientManager *httpclient.HTTPClientManager
	httpServer        *http.Server
}

// AppParams defines the dependencies for the App.
type AppParams struct {
	dig.In
	Engine            *gin.Engine
	ConfigManager     types.ConfigManager
	HTTPClientManager *httpclient.HTTPClientManager
}

// NewApp is the constructor for App, with dependencies injected by dig.
func NewApp(params AppParams) *App {
	return &App{
		engine:            params.Engine,
		configManager:     params.ConfigManager,
		httpClientManager: params.HTTPClientManager,
	}
}

// Start validates configuration and starts the HTTP server.
func (a *App) Start() error {
	a.configManager.DisplayServerConfig()

	serverConfig := a.configManager.GetEffectiveServerConfig()
	a.httpServer = &http.Server{
		Addr:           fmt.Sprintf("%s:%d", serverConfig.Host, serverConfig.Port),
		Handler:        a.engine,
		ReadTimeout:    time.Duration(serverConfig.ReadTimeout) * time.Second,
		WriteTimeout:   time.Duration(serverConfig.WriteTimeout) * time.Second,
		IdleTimeout:    time.Duration(serverConfig.IdleTimeout) * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		logrus.Infof("chatgate streaming proxy started successfully on Version: %s", version.Version)
		logrus.Infof("Server address: http://%s:%d", serverConfig.Host, serverConfig.Port)
		logrus.Info("")
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Server startup failed: %v", err)
		}
	}()

	return nil
}

// Stop gracefully shuts down the application.
func (a *App) Stop(ctx context.Context) {
	logrus.Info("Shutting down server...")

	if a.httpServer != nil {
		httpShutdownStart := time.Now()
		if err := a.httpServer.Shutdown(ctx); err != nil {
			logrus.Debug("HTTP server graceful shutdown timed out, forcing remaining connections to close.")
			if closeErr := a.httpServer.Close(); closeErr != nil {
				logrus.Errorf("Error forcing HTTP server to close: %v", closeErr)
			}
		}
		logrus.Infof("HTTP server has been shut down. (took %v)", time.Since(httpShutdownStart))
	}

	// Close idle HTTP connections for all managed clients to free resources
	if a.httpClientManager != nil {
		a.httpClientManager.CloseIdleConnections()
	}

	logrus.Info("Shutdown complete")
}
