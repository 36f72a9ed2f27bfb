// Package router builds the gin engine and route table.
package router

import (
	"embed"
	"io/fs"
	"net/http"
	"strconv"
	"strings"

	"chatgate/internal/handler"
	"chatgate/internal/metrics"
	"chatgate/internal/middleware"
	"chatgate/internal/proxy"
	"chatgate/internal/types"

	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"
)

type embedFileSystem struct {
	http.FileSystem
}

func (e embedFileSystem) Exists(prefix string, path string) bool {
	_, err := e.Open(path)
	return err == nil
}

// EmbedFolder adapts an embedded directory for static.Serve.
func EmbedFolder(fsEmbed embed.FS, targetPath string) static.ServeFileSystem {
	efs, err := fs.Sub(fsEmbed, targetPath)
	if err != nil {
		panic(err)
	}
	return embedFileSystem{
		FileSystem: http.FS(efs),
	}
}

// NewRouter creates the gin engine with all middleware and routes.
func NewRouter(
	serverHandler *handler.Server,
	chatServer *proxy.ChatServer,
	configManager types.ConfigManager,
	metricsCollector *metrics.Collector,
	buildFS embed.FS,
	indexPage []byte,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Register global middleware
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.Logger(configManager.GetLogConfig()))
	router.Use(middleware.CORS(configManager.GetCORSConfig()))
	router.Use(middleware.RateLimiter(configManager.GetPerformanceConfig()))
	router.Use(middleware.SecurityHeaders())
	router.Use(instrument(metricsCollector))

	// Register routes. The chat route is registered before the gzip/static
	// middleware below so the streamed response is never wrapped by a
	// compressing writer that would buffer deltas.
	registerSystemRoutes(router, serverHandler, metricsCollector)
	registerChatRoutes(router, chatServer, configManager)
	registerFrontendRoutes(router, buildFS, indexPage)

	return router
}

// instrument counts completed requests per route and status.
func instrument(metricsCollector *metrics.Collector) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metricsCollector.RecordRequest(route, strconv.Itoa(c.Writer.Status()))
	}
}

// registerSystemRoutes registers system-level routes
func registerSystemRoutes(router *gin.Engine, serverHandler *handler.Server, metricsCollector *metrics.Collector) {
	router.GET("/health", serverHandler.Health)
	router.GET("/metrics", gin.WrapH(metricsCollector.Handler()))
	router.GET("/api/info", serverHandler.Info)
}

// registerChatRoutes registers the streaming endpoint
func registerChatRoutes(router *gin.Engine, chatServer *proxy.ChatServer, configManager types.ConfigManager) {
	chat := router.Group("/chat")
	chat.Use(middleware.RequestBodySizeLimit(configManager.GetPerformanceConfig().MaxRequestBodyBytes))
	chat.POST("/stream", chatServer.HandleChatStream)
}

// registerFrontendRoutes registers frontend routes
func registerFrontendRoutes(router *gin.Engine, buildFS embed.FS, indexPage []byte) {
	router.Use(gzip.Gzip(gzip.DefaultCompression))
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
	})

	// Use static resource cache middleware
	router.Use(middleware.StaticCache())

	router.Use(static.Serve("/", EmbedFolder(buildFS, "web/dist")))
	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.RequestURI, "/api") || strings.HasPrefix(c.Request.RequestURI, "/chat") {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not Found"})
			return
		}
		// HTML pages are not cached to ensure updates take effect immediately
		c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
		c.Header("Pragma", "no-cache")
		c.Header("Expires", "0")
		c.Data(http.StatusOK, "text/html; charset=utf-8", indexPage)
	})
}
