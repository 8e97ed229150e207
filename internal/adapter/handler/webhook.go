package handler

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/prensalab/media-monitor/errors"
	"github.com/prensalab/media-monitor/internal/usecase/transcript"
)

// WebhookHandler receives transcription provider completion callbacks
type WebhookHandler struct {
	service transcript.Service
	secret  string
	logger  *zap.Logger
}

// NewWebhookHandler creates a webhook handler
func NewWebhookHandler(service transcript.Service, secret string, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{service: service, secret: secret, logger: logger}
}

// Transcription godoc
// @Summary      Transcription provider webhook
// @Description  Receives completion callbacks from the transcription provider
// @Tags         Webhooks
// @Accept       json
// @Success      200
// @Router       /webhooks/transcription [post]
func (h *WebhookHandler) Transcription(c echo.Context) error {
	if h.secret != "" && c.Request().Header.Get("X-Webhook-Secret") != h.secret {
		h.logger.Warn("webhook rejected, invalid secret")
		return c.NoContent(http.StatusUnauthorized)
	}

	payload, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidPayload(err))
	}

	h.logger.Info("received transcription webhook", zap.Int("payload_bytes", len(payload)))

	if err := h.service.HandleProviderWebhook(c.Request().Context(), payload); err != nil {
		return HandleError(h.logger, c, err)
	}
	return c.NoContent(http.StatusOK)
}
