package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/prensalab/media-monitor/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg                  *config.Config
	transcriptionHandler *TranscriptionHandler
	speakerHandler       *SpeakerHandler
	editorHandler        *EditorHandler
	mediaHandler         *MediaHandler
	webhookHandler       *WebhookHandler
	authMW               echo.MiddlewareFunc
}

// NewRouter creates a new router with all handlers
func NewRouter(
	cfg *config.Config,
	transcriptionHandler *TranscriptionHandler,
	speakerHandler *SpeakerHandler,
	editorHandler *EditorHandler,
	mediaHandler *MediaHandler,
	webhookHandler *WebhookHandler,
	authMW echo.MiddlewareFunc,
) *Router {
	return &Router{
		cfg:                  cfg,
		transcriptionHandler: transcriptionHandler,
		speakerHandler:       speakerHandler,
		editorHandler:        editorHandler,
		mediaHandler:         mediaHandler,
		webhookHandler:       webhookHandler,
		authMW:               authMW,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", rt.healthCheck)

	// Swagger UI
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// API v1 group
	v1 := e.Group("/v1")

	// Provider webhooks are authenticated by shared secret, not bearer token
	v1.POST("/webhooks/transcription", rt.webhookHandler.Transcription)

	authed := v1.Group("", rt.authMW)

	transcriptions := authed.Group("/transcriptions")
	transcriptions.POST("", rt.transcriptionHandler.Create)
	transcriptions.GET("", rt.transcriptionHandler.List)
	transcriptions.GET("/:id", rt.transcriptionHandler.Get)
	transcriptions.DELETE("/:id", rt.transcriptionHandler.Delete)
	transcriptions.PUT("/:id/text", rt.transcriptionHandler.UpdateText)
	transcriptions.GET("/:id/export", rt.transcriptionHandler.Export)

	transcriptions.GET("/:id/speakers", rt.speakerHandler.List)
	transcriptions.PUT("/:id/speakers", rt.speakerHandler.Save)
	transcriptions.DELETE("/:id/speakers/:speaker", rt.speakerHandler.Delete)
	transcriptions.POST("/:id/speakers/clear", rt.speakerHandler.Clear)

	transcriptions.POST("/:id/media", rt.mediaHandler.Upload)
	transcriptions.POST("/:id/submit", rt.mediaHandler.Submit)

	editor := authed.Group("/editor")
	editor.GET("/:key", rt.editorHandler.Get)
	editor.PUT("/:key", rt.editorHandler.Update)
	editor.DELETE("/:key", rt.editorHandler.Reset)
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"environment": rt.cfg.Server.Environment,
	})
}
