package handler

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/prensalab/media-monitor/errors"
	dto "github.com/prensalab/media-monitor/internal/adapter/dto/transcript"
	"github.com/prensalab/media-monitor/internal/infrastructure/storage"
	"github.com/prensalab/media-monitor/internal/usecase/transcript"
)

// mediaURLExpiry is how long the provider has to download uploaded media
const mediaURLExpiry = 24 * time.Hour

// MediaHandler uploads radio/TV recordings to object storage and submits
// them for transcription.
type MediaHandler struct {
	service transcript.Service
	store   *storage.MinIOClient
	logger  *zap.Logger
}

// NewMediaHandler creates a media handler
func NewMediaHandler(service transcript.Service, store *storage.MinIOClient, logger *zap.Logger) *MediaHandler {
	return &MediaHandler{service: service, store: store, logger: logger}
}

// Upload godoc
// @Summary      Upload media and start transcription
// @Description  Uploads a media file to object storage and submits it to the transcription provider
// @Tags         Media
// @Accept       multipart/form-data
// @Param        id    path      string  true  "Transcription ID (UUID)"
// @Param        file  formData  file    true  "Audio or video file"
// @Success      200
// @Security     BearerAuth
// @Router       /transcriptions/{id}/media [post]
func (h *MediaHandler) Upload(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidPayload(err))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return HandleError(h.logger, c, apperrors.ErrMediaUploadFailed(err))
	}
	defer file.Close()

	ctx := c.Request().Context()
	objectName := fmt.Sprintf("media/%s/%s%s", id, id, filepath.Ext(fileHeader.Filename))
	contentType := fileHeader.Header.Get("Content-Type")

	if err := h.store.UploadMedia(ctx, objectName, file, fileHeader.Size, contentType); err != nil {
		return HandleError(h.logger, c, apperrors.ErrMediaUploadFailed(err))
	}

	mediaURL, err := h.store.GetMediaURL(ctx, objectName, mediaURLExpiry)
	if err != nil {
		return HandleError(h.logger, c, apperrors.ErrStorageFailed(err))
	}

	h.logger.Info("media uploaded",
		zap.String("transcription_id", id.String()),
		zap.String("object", objectName),
		zap.Int64("size", fileHeader.Size),
	)

	if err := h.service.SubmitMedia(ctx, id, mediaURL); err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, nil)
}

// Submit godoc
// @Summary      Submit an external media URL for transcription
// @Tags         Media
// @Accept       json
// @Param        id       path  string                  true  "Transcription ID (UUID)"
// @Param        request  body  dto.SubmitMediaRequest  true  "Media URL"
// @Success      200
// @Security     BearerAuth
// @Router       /transcriptions/{id}/submit [post]
func (h *MediaHandler) Submit(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req dto.SubmitMediaRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidPayload(err))
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidPayload(err))
	}

	if err := h.service.SubmitMedia(c.Request().Context(), id, req.MediaURL); err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, nil)
}
